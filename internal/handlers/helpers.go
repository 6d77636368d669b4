package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	logpkg "github.com/mindtrack/api/internal/logger"
	"github.com/mindtrack/api/internal/request"
	"github.com/mindtrack/api/internal/store"
)

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondJSONError sends an error JSON response
func respondJSONError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   false,
		"error":     errorType,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondStoreError translates storage errors into HTTP responses at the
// boundary. The caller can tell "already exists" from "not found" from "not
// allowed"; anything else is reported generically without leaking backend
// internals.
func respondStoreError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	switch {
	case errors.Is(err, store.ErrDuplicateName):
		respondJSONError(w, http.StatusConflict, "Conflict", "This habit already exists")
	case errors.Is(err, store.ErrNotFound):
		respondJSONError(w, http.StatusNotFound, "Not Found", "Habit not found")
	case errors.Is(err, store.ErrNotDeletable):
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Cannot delete a default habit")
	case errors.Is(err, store.ErrUnavailable):
		logger.Error("store_unavailable", zap.String("op", op), zap.Error(err))
		respondJSONError(w, http.StatusServiceUnavailable, "Service Unavailable", "Storage backend unavailable")
	default:
		logger.Error("store_operation_failed", zap.String("op", op), zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "An internal server error occurred")
	}
}

// ownerOr400 pulls the owner from context, rejecting the request when absent.
// The owner middleware normally guarantees presence; this is the backstop for
// routes wired without it.
func ownerOr400(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner := request.OwnerFromContext(r)
	if owner == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Owner identifier is required")
		return "", false
	}
	return owner, true
}

func logOwner(owner string) zap.Field {
	return zap.String("owner", logpkg.SanitizeOwnerID(owner))
}
