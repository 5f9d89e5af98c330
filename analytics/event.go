// Package analytics sends and describes order-intent beacons.
package analytics

import (
	"fmt"

	"dijital-vitrin/cart"
)

type EventType string

const (
	EventInitiated      EventType = "initiated"
	EventOrderInitiated EventType = "order_initiated"
	EventCompleted      EventType = "completed"
	EventAbandoned      EventType = "abandoned"
)

var EventTypes = []EventType{EventInitiated, EventOrderInitiated, EventCompleted, EventAbandoned}

// ParseEventType rejects anything outside EventTypes.
func ParseEventType(s string) (EventType, error) {
	for _, et := range EventTypes {
		if string(et) == s {
			return et, nil
		}
	}
	return "", fmt.Errorf("unknown event type %q", s)
}

// Event is the beacon body.
type Event struct {
	TenantID  string         `json:"tenant_id"`
	EventType EventType      `json:"event_type"`
	CartData  *cart.Snapshot `json:"cart_data,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// NewCartEvent wraps a cart snapshot for tenantID.
func NewCartEvent(tenantID string, et EventType, snap cart.Snapshot) Event {
	return Event{TenantID: tenantID, EventType: et, CartData: &snap}
}
