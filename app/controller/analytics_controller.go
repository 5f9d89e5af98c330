package controller

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dijital-vitrin/analytics"
	"dijital-vitrin/app/middleware"
	"dijital-vitrin/models"
	"dijital-vitrin/repository"
)

// maxBeaconBytes bounds the beacon body. It matches the cookie cart bound with headroom.
const maxBeaconBytes = 16 << 10

// AnalyticsController collects order-intent beacons and reports them to the dashboard
type AnalyticsController struct {
	stores     repository.StoreRepositoryInterface
	repository repository.AnalyticsRepositoryInterface
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(stores repository.StoreRepositoryInterface, repo repository.AnalyticsRepositoryInterface) *AnalyticsController {
	return &AnalyticsController{stores: stores, repository: repo}
}

type beaconRequest struct {
	TenantID  string          `json:"tenant_id"`
	EventType string          `json:"event_type"`
	CartData  json.RawMessage `json:"cart_data,omitempty"`
	Payload   map[string]any  `json:"payload,omitempty"`
}

// Track handles POST /api/analytics
func (c *AnalyticsController) Track(w http.ResponseWriter, r *http.Request) {
	var req beaconRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBeaconBytes)).Decode(&req); err != nil {
		log.Printf("❌ Track: Failed to decode beacon: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	eventType, err := analytics.ParseEventType(req.EventType)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tenantID := strings.TrimSpace(req.TenantID)
	if tenantID == "" {
		http.Error(w, "tenant_id is required", http.StatusBadRequest)
		return
	}
	if _, err := c.stores.GetByID(r.Context(), tenantID); err != nil {
		log.Printf("⚠️ Track: beacon for unknown tenant %s: %v", tenantID, err)
		writeLookupError(w, "Store", err)
		return
	}

	payload, err := analytics.EncodePayload(req.CartData, req.Payload)
	if err != nil {
		http.Error(w, "Invalid event payload", http.StatusBadRequest)
		return
	}

	ev := &models.AnalyticsEvent{TenantID: tenantID, EventType: string(eventType), Payload: payload}
	if err := c.repository.Insert(r.Context(), ev); err != nil {
		http.Error(w, "Failed to record event", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Track: %s event recorded for tenant %s", eventType, tenantID)
	writeJSON(w, http.StatusAccepted, map[string]string{"id": ev.ID})
}

// Summary handles GET /admin/analytics/summary?days=30
func (c *AnalyticsController) Summary(w http.ResponseWriter, r *http.Request) {
	days := 30
	if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			http.Error(w, "days must be between 1 and 365", http.StatusBadRequest)
			return
		}
		days = parsed
	}

	tenantID := middleware.TenantFromContext(r.Context())
	since := time.Now().UTC().AddDate(0, 0, -days)
	summary, err := c.repository.Summary(r.Context(), tenantID, since)
	if err != nil {
		log.Printf("❌ Summary: %v", err)
		http.Error(w, "Failed to load analytics", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
