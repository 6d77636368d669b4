package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/mindtrack/api/internal/request"
)

func TestOwner_MissingHeader(t *testing.T) {
	t.Parallel()

	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	mw := Owner(zap.NewNop())(handler)

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	w := httptest.NewRecorder()

	mw.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
	if called {
		t.Error("Expected handler not to be called")
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["success"] != false {
		t.Error("Expected success to be false")
	}
}

func TestOwner_HeaderPropagated(t *testing.T) {
	t.Parallel()

	var gotOwner string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOwner = request.OwnerFromContext(r)
	})

	mw := Owner(zap.NewNop())(handler)

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	req.Header.Set(request.OwnerHeader, "user-42")
	w := httptest.NewRecorder()

	mw.ServeHTTP(w, req)

	if gotOwner != "user-42" {
		t.Errorf("Expected owner 'user-42', got %q", gotOwner)
	}
}

func TestCORSOrigins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"single origin", "http://localhost:3000", 1},
		{"comma separated", "http://a.example, http://b.example", 2},
		{"empty falls back to default", "", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := CORSOrigins(tt.input); len(got) != tt.want {
				t.Errorf("Expected %d origins, got %d (%v)", tt.want, len(got), got)
			}
		})
	}
}
