package models

import (
	"encoding/json"
	"time"
)

// AnalyticsEvent is a stored beacon
type AnalyticsEvent struct {
	ID        string          `json:"id"`
	TenantID  string          `json:"tenantId"`
	EventType string          `json:"eventType"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

// AnalyticsSummary aggregates a tenant's events since a point in time
type AnalyticsSummary struct {
	TenantID       string         `json:"tenantId"`
	Since          time.Time      `json:"since"`
	Counts         map[string]int `json:"counts"`
	OrderIntentSum float64        `json:"orderIntentTotal"`
}
