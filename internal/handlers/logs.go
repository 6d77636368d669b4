package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/mindtrack/api/internal/store"
	"github.com/mindtrack/api/internal/validation"
)

// LogHandler handles day-log read and write requests
type LogHandler struct {
	store  store.Store
	logger *zap.Logger
	// now is injectable so tests control "today"
	now func() time.Time
}

// NewLogHandler creates a new log handler
func NewLogHandler(s store.Store, logger *zap.Logger) *LogHandler {
	return &LogHandler{store: s, logger: logger, now: time.Now}
}

// RegisterRoutes registers log routes on the given router.
// The router should already have the /logs prefix.
func (h *LogHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.GetLogs).Methods("GET")
	r.HandleFunc("", h.LogToday).Methods("POST")
	r.HandleFunc("/today", h.GetTodayLog).Methods("GET")
	r.HandleFunc("/{date}", h.GetDayLog).Methods("GET")
}

// LogRequest represents a log-today request. The habit list replaces the
// prior set for the date wholesale.
type LogRequest struct {
	Habits []string `json:"habits"`
}

// GetLogs returns every non-empty day log for the owner, keyed by date.
// Corrupt entries are skipped so the calendar still renders.
func (h *LogHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOr400(w, r)
	if !ok {
		return
	}

	records, err := h.store.DayRecords(r.Context(), owner)
	if err != nil {
		respondStoreError(w, h.logger, "get_logs", err)
		return
	}

	logs := make(map[string][]string)
	for _, rec := range records {
		var habits []string
		if err := json.Unmarshal(rec.Payload, &habits); err != nil {
			h.logger.Warn("skipping_corrupt_day_record",
				logOwner(owner),
				zap.String("date", rec.Date),
				zap.Error(err),
			)
			continue
		}
		if len(habits) > 0 {
			logs[rec.Date] = habits
		}
	}

	respondJSON(w, http.StatusOK, logs)
}

// GetTodayLog returns the habit names logged today, or the empty list when
// nothing has been logged yet.
func (h *LogHandler) GetTodayLog(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOr400(w, r)
	if !ok {
		return
	}

	h.respondDayLog(w, r, owner, h.now().Format(store.DateFormat))
}

// GetDayLog returns the habit names logged on a specific date.
func (h *LogHandler) GetDayLog(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOr400(w, r)
	if !ok {
		return
	}

	date := mux.Vars(r)["date"]
	if err := validation.ValidateDate(date); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	h.respondDayLog(w, r, owner, date)
}

func (h *LogHandler) respondDayLog(w http.ResponseWriter, r *http.Request, owner, date string) {
	payload, err := h.store.DayRecord(r.Context(), owner, date)
	if errors.Is(err, store.ErrNotFound) {
		respondJSON(w, http.StatusOK, []string{})
		return
	}
	if err != nil {
		respondStoreError(w, h.logger, "get_day_log", err)
		return
	}

	var habits []string
	if err := json.Unmarshal(payload, &habits); err != nil {
		h.logger.Warn("corrupt_day_record",
			logOwner(owner),
			zap.String("date", date),
			zap.Error(err),
		)
		respondJSON(w, http.StatusOK, []string{})
		return
	}
	if habits == nil {
		habits = []string{}
	}

	respondJSON(w, http.StatusOK, habits)
}

// LogToday saves the list of habit names completed today, replacing any
// earlier log for the date. Last write wins on concurrent updates.
func (h *LogHandler) LogToday(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOr400(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	var req LogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	for i, name := range req.Habits {
		req.Habits[i] = validation.SanitizeText(name)
		if req.Habits[i] == "" {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Habit names must be non-empty")
			return
		}
	}

	date := h.now().Format(store.DateFormat)
	if err := h.store.PutDayRecord(ctx, owner, date, req.Habits); err != nil {
		respondStoreError(w, h.logger, "log_today", err)
		return
	}

	h.logger.Info("day_logged",
		logOwner(owner),
		zap.String("date", date),
		zap.Int("habit_count", len(req.Habits)),
	)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Successfully logged %d habits!", len(req.Habits)),
	})
}
