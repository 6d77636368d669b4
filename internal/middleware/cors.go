package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"

	"github.com/mindtrack/api/internal/request"
)

// CORS builds the cross-origin middleware for the configured frontend
// origins. Preflight requests are answered directly by rs/cors.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", request.OwnerHeader},
		MaxAge:         86400,
	})
	return c.Handler
}

// CORSOrigins parses a comma-separated origin list from config.
func CORSOrigins(frontendURL string) []string {
	var origins []string
	for _, origin := range strings.Split(frontendURL, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return origins
}
