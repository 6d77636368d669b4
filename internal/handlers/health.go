package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mindtrack/api/internal/store"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthChecker performs health checks against the storage backend
type HealthChecker struct {
	store store.Store
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(s store.Store) *HealthChecker {
	return &HealthChecker{store: s}
}

// HealthCheck reports process liveness; with ?mode=extended it also pings the
// storage backend.
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	status := http.StatusOK
	if r.URL.Query().Get("mode") == "extended" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		response.Checks = map[string]string{"store": "healthy"}
		if err := h.store.Ping(ctx); err != nil {
			response.Status = "unhealthy"
			response.Checks["store"] = "unhealthy"
			status = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
