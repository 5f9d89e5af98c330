package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"dijital-vitrin/models"
)

// EventStore persists beacons. repository.AnalyticsRepository satisfies it.
type EventStore interface {
	Insert(ctx context.Context, ev *models.AnalyticsEvent) error
}

// Recorder writes events straight to an EventStore, bypassing the public
// endpoint. It serves when no external collector is configured.
type Recorder struct {
	store EventStore
	// done, when set, is called after each insert finishes. Tests use it.
	done func(error)
}

var _ Dispatcher = (*Recorder)(nil)

func NewRecorder(store EventStore) *Recorder {
	return &Recorder{store: store}
}

// Dispatch stores ev on its own goroutine. Failures are only logged.
func (r *Recorder) Dispatch(ctx context.Context, ev Event) {
	if r == nil || r.store == nil {
		return
	}
	detached := context.WithoutCancel(ctx)
	go func() {
		err := r.Record(detached, ev)
		if err != nil {
			log.Printf("⚠️ analytics: %s event for tenant %s not recorded: %v", ev.EventType, ev.TenantID, err)
		}
		if r.done != nil {
			r.done(err)
		}
	}()
}

// Record stores ev and waits for the insert.
func (r *Recorder) Record(ctx context.Context, ev Event) error {
	stored, err := ev.Stored()
	if err != nil {
		return err
	}
	return r.store.Insert(ctx, stored)
}

// Stored converts ev into the row saved for it
func (ev Event) Stored() (*models.AnalyticsEvent, error) {
	var cartData json.RawMessage
	if ev.CartData != nil {
		raw, err := json.Marshal(ev.CartData)
		if err != nil {
			return nil, fmt.Errorf("encode cart data: %w", err)
		}
		cartData = raw
	}
	payload, err := EncodePayload(cartData, ev.Payload)
	if err != nil {
		return nil, err
	}
	return &models.AnalyticsEvent{TenantID: ev.TenantID, EventType: string(ev.EventType), Payload: payload}, nil
}

// EncodePayload builds the stored payload column, {cart_data, payload}
func EncodePayload(cartData json.RawMessage, payload map[string]any) (json.RawMessage, error) {
	raw, err := json.Marshal(struct {
		CartData json.RawMessage `json:"cart_data,omitempty"`
		Payload  map[string]any  `json:"payload,omitempty"`
	}{cartData, payload})
	if err != nil {
		return nil, fmt.Errorf("encode event payload: %w", err)
	}
	return raw, nil
}
