package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/mindtrack/api/internal/store"
	"github.com/mindtrack/api/internal/validation"
)

// HabitHandler handles habit management requests
type HabitHandler struct {
	store  store.Store
	logger *zap.Logger
}

// NewHabitHandler creates a new habit handler
func NewHabitHandler(s store.Store, logger *zap.Logger) *HabitHandler {
	return &HabitHandler{store: s, logger: logger}
}

// RegisterRoutes registers habit routes on the given router.
// The router should already have the /habits prefix.
func (h *HabitHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListHabits).Methods("GET")
	r.HandleFunc("", h.AddHabit).Methods("POST")
	r.HandleFunc("/{id}", h.DeleteHabit).Methods("DELETE")
}

// AddHabitRequest represents an add habit request
type AddHabitRequest struct {
	Name string `json:"name" validate:"required,habit_name"`
}

// ListHabits returns the owner's habits in creation order, seeding the
// defaults the first time the owner is seen.
func (h *HabitHandler) ListHabits(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOr400(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	if err := h.store.EnsureDefaults(ctx, owner); err != nil {
		respondStoreError(w, h.logger, "ensure_defaults", err)
		return
	}

	habits, err := h.store.ListHabits(ctx, owner)
	if err != nil {
		respondStoreError(w, h.logger, "list_habits", err)
		return
	}

	respondJSON(w, http.StatusOK, habits)
}

// AddHabit creates a new, deletable habit and returns the updated list.
func (h *HabitHandler) AddHabit(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOr400(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	var req AddHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	req.Name = validation.SanitizeText(req.Name)
	if err := validation.Validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Habit name is required")
		return
	}

	habit, err := h.store.AddHabit(ctx, owner, req.Name)
	if err != nil {
		respondStoreError(w, h.logger, "add_habit", err)
		return
	}

	h.logger.Info("habit_added",
		logOwner(owner),
		zap.String("habit_id", habit.ID),
	)

	habits, err := h.store.ListHabits(ctx, owner)
	if err != nil {
		respondStoreError(w, h.logger, "list_habits", err)
		return
	}

	respondJSON(w, http.StatusCreated, habits)
}

// DeleteHabit removes a habit by id and returns the updated list. Default
// habits are protected; historical day records are never touched.
func (h *HabitHandler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOr400(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	id := mux.Vars(r)["id"]
	if id == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Habit ID is required")
		return
	}

	if err := h.store.DeleteHabit(ctx, owner, id); err != nil {
		respondStoreError(w, h.logger, "delete_habit", err)
		return
	}

	h.logger.Info("habit_deleted",
		logOwner(owner),
		zap.String("habit_id", id),
	)

	habits, err := h.store.ListHabits(ctx, owner)
	if err != nil {
		respondStoreError(w, h.logger, "list_habits", err)
		return
	}

	respondJSON(w, http.StatusOK, habits)
}
