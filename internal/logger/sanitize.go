package logger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxPathLength is the maximum length for URL paths in logs
	MaxPathLength = 500
	// MaxOwnerIDLength is the maximum length for owner identifiers in logs
	MaxOwnerIDLength = 128
)

// SanitizePath sanitizes a URL path for safe logging: fixes invalid UTF-8,
// strips control characters and truncates to MaxPathLength.
func SanitizePath(path string) string {
	return sanitize(path, MaxPathLength)
}

// SanitizeOwnerID sanitizes an owner identifier for safe logging. The owner
// id is opaque caller-supplied input and must never reach logs unfiltered.
func SanitizeOwnerID(owner string) string {
	return sanitize(owner, MaxOwnerIDLength)
}

func sanitize(s string, maxLen int) string {
	if s == "" {
		return ""
	}

	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}

	var builder strings.Builder
	builder.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) || r == ' ' || r == '\t' {
			builder.WriteRune(r)
		}
	}
	s = builder.String()

	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}

	return s
}
