package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	logpkg "github.com/mindtrack/api/internal/logger"
	"github.com/mindtrack/api/internal/request"
)

// Owner extracts the opaque owner identifier from the X-Owner-ID header and
// attaches it to the request context. Requests without an owner are rejected
// before any store access. Verifying who the caller actually is happens
// upstream; this service trusts the header.
func Owner(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner := r.Header.Get(request.OwnerHeader)
			if owner == "" {
				logger.Warn("missing_owner_header",
					zap.String("path", logpkg.SanitizePath(r.URL.Path)),
					zap.String("method", r.Method),
				)
				respondOwnerError(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(request.WithOwner(r.Context(), owner)))
		})
	}
}

func respondOwnerError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)

	response := map[string]any{
		"success":   false,
		"error":     "Bad Request",
		"message":   "Owner identifier is required",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	_ = json.NewEncoder(w).Encode(response)
}
