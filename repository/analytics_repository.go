package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"dijital-vitrin/db"
	"dijital-vitrin/models"

	"github.com/google/uuid"
)

// AnalyticsRepository stores order-intent beacons
type AnalyticsRepository struct{}

func NewAnalyticsRepository() *AnalyticsRepository {
	return &AnalyticsRepository{}
}

var _ AnalyticsRepositoryInterface = (*AnalyticsRepository)(nil)

// Insert stores ev, assigning its ID and timestamp
func (r *AnalyticsRepository) Insert(ctx context.Context, ev *models.AnalyticsEvent) error {
	ev.ID = uuid.NewString()
	ev.CreatedAt = time.Now().UTC()
	payload := ev.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	_, err := db.DB.ExecContext(ctx,
		`INSERT INTO analytics_events (id, tenant_id, event_type, payload, created_at) VALUES ($1, $2, $3, $4, $5)`,
		ev.ID, ev.TenantID, ev.EventType, []byte(payload), ev.CreatedAt)
	if err != nil {
		log.Printf("❌ Failed to insert analytics event for tenant %s: %v", ev.TenantID, err)
		return fmt.Errorf("failed to insert analytics event: %w", err)
	}
	return nil
}

// Summary counts events by type and sums the cart totals of order intents
func (r *AnalyticsRepository) Summary(ctx context.Context, tenantID string, since time.Time) (*models.AnalyticsSummary, error) {
	summary := &models.AnalyticsSummary{TenantID: tenantID, Since: since, Counts: map[string]int{}}

	rows, err := db.DB.QueryContext(ctx, `
		SELECT event_type, COUNT(*),
			COALESCE(SUM((payload->'cart_data'->>'total_price')::numeric), 0)::float8
		FROM analytics_events
		WHERE tenant_id = $1 AND created_at >= $2
		GROUP BY event_type`, tenantID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize analytics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventType string
		var count int
		var total float64
		if err := rows.Scan(&eventType, &count, &total); err != nil {
			return nil, fmt.Errorf("failed to scan analytics summary: %w", err)
		}
		summary.Counts[eventType] = count
		if eventType == "order_initiated" {
			summary.OrderIntentSum = total
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analytics summary: %w", err)
	}
	return summary, nil
}
