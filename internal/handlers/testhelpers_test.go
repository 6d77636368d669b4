package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/mindtrack/api/internal/models"
	"github.com/mindtrack/api/internal/motivation"
	"github.com/mindtrack/api/internal/request"
	"github.com/mindtrack/api/internal/stats"
	"github.com/mindtrack/api/internal/store"
)

var errTest = errors.New("backend exploded")

// fakeStore is an in-memory store.Store for handler tests.
type fakeStore struct {
	habits map[string][]models.Habit       // owner -> habits in creation order
	logs   map[string]map[string][]byte    // owner -> date -> payload
	seeded map[string]bool
	err    error // when set, every operation fails with it
	nextID int
}

var _ store.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		habits: make(map[string][]models.Habit),
		logs:   make(map[string]map[string][]byte),
		seeded: make(map[string]bool),
	}
}

func (f *fakeStore) id() string {
	f.nextID++
	return fmt.Sprintf("habit-%d", f.nextID)
}

func (f *fakeStore) EnsureDefaults(ctx context.Context, owner string) error {
	if f.err != nil {
		return f.err
	}
	if f.seeded[owner] {
		return nil
	}
	f.seeded[owner] = true
	for _, name := range []string{"Drink 8 glasses of water", "Read for 20 minutes", "Go for a 15-min walk"} {
		f.habits[owner] = append(f.habits[owner], models.Habit{
			ID: f.id(), Name: name, Deletable: false, CreatedAt: time.Now(),
		})
	}
	return nil
}

func (f *fakeStore) ListHabits(ctx context.Context, owner string) ([]models.Habit, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.habits[owner], nil
}

func (f *fakeStore) AddHabit(ctx context.Context, owner, name string) (*models.Habit, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, h := range f.habits[owner] {
		if h.Name == name {
			return nil, fmt.Errorf("habit %q: %w", name, store.ErrDuplicateName)
		}
	}
	habit := models.Habit{ID: f.id(), Name: name, Deletable: true, CreatedAt: time.Now()}
	f.habits[owner] = append(f.habits[owner], habit)
	return &habit, nil
}

func (f *fakeStore) DeleteHabit(ctx context.Context, owner, id string) error {
	if f.err != nil {
		return f.err
	}
	for i, h := range f.habits[owner] {
		if h.ID == id {
			if !h.Deletable {
				return fmt.Errorf("habit %s: %w", id, store.ErrNotDeletable)
			}
			f.habits[owner] = append(f.habits[owner][:i], f.habits[owner][i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("habit %s: %w", id, store.ErrNotFound)
}

func (f *fakeStore) DayRecords(ctx context.Context, owner string) ([]store.DayRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var records []store.DayRecord
	for date, payload := range f.logs[owner] {
		if date == store.MetaKey {
			continue
		}
		records = append(records, store.DayRecord{Date: date, Payload: payload})
	}
	return records, nil
}

func (f *fakeStore) DayRecord(ctx context.Context, owner, date string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	payload, ok := f.logs[owner][date]
	if !ok {
		return nil, fmt.Errorf("day record %s: %w", date, store.ErrNotFound)
	}
	return payload, nil
}

func (f *fakeStore) PutDayRecord(ctx context.Context, owner, date string, habits []string) error {
	if f.err != nil {
		return f.err
	}
	if habits == nil {
		habits = []string{}
	}
	payload, err := json.Marshal(habits)
	if err != nil {
		return err
	}
	if f.logs[owner] == nil {
		f.logs[owner] = make(map[string][]byte)
	}
	f.logs[owner][date] = payload
	return nil
}

func (f *fakeStore) setRaw(owner, date string, payload []byte) {
	if f.logs[owner] == nil {
		f.logs[owner] = make(map[string][]byte)
	}
	f.logs[owner][date] = payload
}

func (f *fakeStore) Ping(ctx context.Context) error { return f.err }
func (f *fakeStore) Close() error                   { return nil }

// doRequest runs a request with the owner attached through the given routes.
func doRequest(t *testing.T, register func(*mux.Router), method, path, owner string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	r := mux.NewRouter()
	register(r)

	req := httptest.NewRequest(method, path, reader)
	if owner != "" {
		req = req.WithContext(request.WithOwner(req.Context(), owner))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// envelope decodes the standard response envelope.
type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return env
}

func newStatsHandler(f *fakeStore, now time.Time) *StatsHandler {
	h := NewStatsHandler(f, stats.NewEngine(zap.NewNop()), motivation.New(func(n int) int { return 0 }), zap.NewNop())
	h.now = func() time.Time { return now }
	return h
}

func checkStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("Expected status %d, got %d (%s)", want, w.Code, w.Body.String())
	}
}
