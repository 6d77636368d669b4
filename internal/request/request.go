package request

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const ownerContextKey contextKey = "owner"

// OwnerHeader carries the opaque, already-trusted owner identifier. Identity
// verification is an external concern; this service only namespaces data by it.
const OwnerHeader = "X-Owner-ID"

// ClientIP extracts the client IP from the request, respecting X-Forwarded-For and X-Real-IP.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return r.RemoteAddr
}

// WithOwner returns a context with the owner identifier attached.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerContextKey, owner)
}

// OwnerFromContext returns the owner identifier from the request context, or
// empty string if missing.
func OwnerFromContext(r *http.Request) string {
	owner, _ := r.Context().Value(ownerContextKey).(string)
	return owner
}
