package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthCheck_Basic(t *testing.T) {
	t.Parallel()

	checker := NewHealthChecker(newFakeStore())

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	checker.HealthCheck(w, req)

	checkStatus(t, w, http.StatusOK)

	var response HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Status != "healthy" {
		t.Errorf("Expected status 'healthy', got %q", response.Status)
	}
	if response.Checks != nil {
		t.Errorf("Expected no checks in basic mode, got %v", response.Checks)
	}
}

func TestHealthCheck_Extended(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		storeErr   error
		wantStatus int
		wantHealth string
	}{
		{"store reachable", nil, http.StatusOK, "healthy"},
		{"store unreachable", errTest, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFakeStore()
			f.err = tt.storeErr
			checker := NewHealthChecker(f)

			req := httptest.NewRequest("GET", "/healthz?mode=extended", nil)
			w := httptest.NewRecorder()
			checker.HealthCheck(w, req)

			checkStatus(t, w, tt.wantStatus)

			var response HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if response.Status != tt.wantHealth {
				t.Errorf("Expected status %q, got %q", tt.wantHealth, response.Status)
			}
			if response.Checks["store"] != tt.wantHealth {
				t.Errorf("Expected store check %q, got %q", tt.wantHealth, response.Checks["store"])
			}
		})
	}
}
