package middleware

import (
	"context"
	"net/http"
	"time"
)

const (
	// DefaultRequestTimeout is the default request timeout (30 seconds)
	DefaultRequestTimeout = 30 * time.Second
)

// timeoutBody matches the JSON envelope the handlers produce.
const timeoutBody = `{"success":false,"error":"Service Unavailable","message":"Request timed out"}`

// Timeout bounds handler execution. The request context is cancelled when
// the deadline passes so in-flight store calls stop, and http.TimeoutHandler
// writes the 503 to the client.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return func(next http.Handler) http.Handler {
		inner := http.TimeoutHandler(next, timeout, timeoutBody)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			inner.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
