package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/mindtrack/api/internal/motivation"
	"github.com/mindtrack/api/internal/stats"
	"github.com/mindtrack/api/internal/store"
)

// StatsHandler serves derived trend statistics and the presentation text
// keyed off them. Statistics are re-derived from the full log history on
// every request; nothing is cached between calls.
type StatsHandler struct {
	store     store.Store
	engine    *stats.Engine
	messenger *motivation.Messenger
	logger    *zap.Logger
	now       func() time.Time
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(s store.Store, engine *stats.Engine, messenger *motivation.Messenger, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		store:     s,
		engine:    engine,
		messenger: messenger,
		logger:    logger,
		now:       time.Now,
	}
}

// RegisterRoutes registers stats routes on the given router.
func (h *StatsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/stats", h.GetStats).Methods("GET")
	r.HandleFunc("/motivation", h.GetMotivation).Methods("GET")
	r.HandleFunc("/suggestion", h.GetSuggestion).Methods("GET")
}

// GetStats computes and returns the owner's trend statistics.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOr400(w, r)
	if !ok {
		return
	}

	records, err := h.store.DayRecords(r.Context(), owner)
	if err != nil {
		respondStoreError(w, h.logger, "get_stats", err)
		return
	}

	result := h.engine.Compute(records, h.now())
	result.StreakEmoji = motivation.Emoji(stats.TierForStreak(result.CurrentStreak))

	respondJSON(w, http.StatusOK, result)
}

// GetMotivation returns a motivational message derived from the current streak.
func (h *StatsHandler) GetMotivation(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOr400(w, r)
	if !ok {
		return
	}

	records, err := h.store.DayRecords(r.Context(), owner)
	if err != nil {
		respondStoreError(w, h.logger, "get_motivation", err)
		return
	}

	result := h.engine.Compute(records, h.now())
	tier := stats.TierForStreak(result.CurrentStreak)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": h.messenger.Motivation(result.CurrentStreak, tier),
	})
}

// GetSuggestion returns a canned habit suggestion.
func (h *StatsHandler) GetSuggestion(w http.ResponseWriter, r *http.Request) {
	if _, ok := ownerOr400(w, r); !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"suggestion": h.messenger.Suggestion(),
	})
}
