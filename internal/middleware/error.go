package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	logpkg "github.com/mindtrack/api/internal/logger"
)

// ErrorHandler recovers panics and answers with the same JSON envelope the
// handlers produce, so a crash and a handled failure look identical to
// clients.
func ErrorHandler(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					// Details stay server-side; the client gets a generic 500.
					logger.Error("panic_recovered",
						zap.Any("error", rec),
						zap.String("method", r.Method),
						zap.String("path", logpkg.SanitizePath(r.URL.Path)),
						zap.Stack("stack"),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					envelope := map[string]any{
						"success":   false,
						"error":     "Internal Server Error",
						"message":   "An unexpected error occurred",
						"timestamp": time.Now().UTC().Format(time.RFC3339),
					}
					if err := json.NewEncoder(w).Encode(envelope); err != nil {
						logger.Error("failed_to_encode_error_response", zap.Error(err))
					}
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
