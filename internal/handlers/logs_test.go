package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

var logsNow = time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)

func logRoutes(f *fakeStore) func(*mux.Router) {
	h := NewLogHandler(f, zap.NewNop())
	h.now = func() time.Time { return logsNow }
	return func(r *mux.Router) {
		h.RegisterRoutes(r.PathPrefix("/logs").Subrouter())
	}
}

func TestLogToday(t *testing.T) {
	t.Parallel()

	f := newFakeStore()
	routes := logRoutes(f)

	w := doRequest(t, routes, "POST", "/logs", "alice", map[string]any{"habits": []string{"read", "walk"}})
	checkStatus(t, w, http.StatusOK)

	if got := string(f.logs["alice"]["2024-01-10"]); got != `["read","walk"]` {
		t.Errorf("Unexpected stored payload: %s", got)
	}

	// A second write replaces the set wholesale.
	w = doRequest(t, routes, "POST", "/logs", "alice", map[string]any{"habits": []string{"meditate"}})
	checkStatus(t, w, http.StatusOK)

	if got := string(f.logs["alice"]["2024-01-10"]); got != `["meditate"]` {
		t.Errorf("Expected wholesale replace, got %s", got)
	}
}

func TestLogToday_EmptySet(t *testing.T) {
	t.Parallel()

	f := newFakeStore()
	w := doRequest(t, logRoutes(f), "POST", "/logs", "alice", map[string]any{"habits": []string{}})
	checkStatus(t, w, http.StatusOK)

	if got := string(f.logs["alice"]["2024-01-10"]); got != `[]` {
		t.Errorf("Expected empty list persisted, got %s", got)
	}
}

func TestLogToday_RejectsBlankNames(t *testing.T) {
	t.Parallel()

	f := newFakeStore()
	w := doRequest(t, logRoutes(f), "POST", "/logs", "alice", map[string]any{"habits": []string{"read", "  "}})
	checkStatus(t, w, http.StatusBadRequest)
}

func TestGetTodayLog(t *testing.T) {
	t.Parallel()

	f := newFakeStore()
	routes := logRoutes(f)

	// Nothing logged yet: empty list, not an error.
	w := doRequest(t, routes, "GET", "/logs/today", "alice", nil)
	checkStatus(t, w, http.StatusOK)
	var habits []string
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &habits); err != nil {
		t.Fatalf("Failed to decode habits: %v", err)
	}
	if len(habits) != 0 {
		t.Errorf("Expected empty list, got %v", habits)
	}

	f.setRaw("alice", "2024-01-10", []byte(`["read"]`))
	w = doRequest(t, routes, "GET", "/logs/today", "alice", nil)
	checkStatus(t, w, http.StatusOK)
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &habits); err != nil {
		t.Fatalf("Failed to decode habits: %v", err)
	}
	if len(habits) != 1 || habits[0] != "read" {
		t.Errorf("Expected ['read'], got %v", habits)
	}
}

func TestGetDayLog_InvalidDate(t *testing.T) {
	t.Parallel()

	f := newFakeStore()
	routes := logRoutes(f)

	w := doRequest(t, routes, "GET", "/logs/not-a-date", "alice", nil)
	checkStatus(t, w, http.StatusBadRequest)

	// The reserved meta key is not addressable as a date.
	w = doRequest(t, routes, "GET", "/logs/__meta__", "alice", nil)
	checkStatus(t, w, http.StatusBadRequest)
}

func TestGetLogs(t *testing.T) {
	t.Parallel()

	f := newFakeStore()
	f.setRaw("alice", "2024-01-08", []byte(`["read"]`))
	f.setRaw("alice", "2024-01-09", []byte(`[]`))        // empty days omitted
	f.setRaw("alice", "2024-01-10", []byte(`{corrupt`)) // corrupt days skipped

	w := doRequest(t, logRoutes(f), "GET", "/logs", "alice", nil)
	checkStatus(t, w, http.StatusOK)

	var logs map[string][]string
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &logs); err != nil {
		t.Fatalf("Failed to decode logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("Expected 1 log day, got %d (%v)", len(logs), logs)
	}
	if habits := logs["2024-01-08"]; len(habits) != 1 || habits[0] != "read" {
		t.Errorf("Unexpected log entry: %v", habits)
	}
}

func TestGetTodayLog_CorruptPayload(t *testing.T) {
	t.Parallel()

	f := newFakeStore()
	f.setRaw("alice", "2024-01-10", []byte(`not json`))

	w := doRequest(t, logRoutes(f), "GET", "/logs/today", "alice", nil)
	checkStatus(t, w, http.StatusOK)

	var habits []string
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &habits); err != nil {
		t.Fatalf("Failed to decode habits: %v", err)
	}
	if len(habits) != 0 {
		t.Errorf("Expected empty list for corrupt payload, got %v", habits)
	}
}
