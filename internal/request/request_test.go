package request

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{
			name:    "x-forwarded-for single",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.9"},
			remote:  "10.0.0.1:1234",
			want:    "203.0.113.9",
		},
		{
			name:    "x-forwarded-for chain takes first",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.2"},
			remote:  "10.0.0.1:1234",
			want:    "203.0.113.9",
		},
		{
			name:    "x-real-ip fallback",
			headers: map[string]string{"X-Real-IP": " 198.51.100.4 "},
			remote:  "10.0.0.1:1234",
			want:    "198.51.100.4",
		},
		{
			name:   "remote addr fallback",
			remote: "10.0.0.1:1234",
			want:   "10.0.0.1:1234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for key, value := range tt.headers {
				r.Header.Set(key, value)
			}

			if got := ClientIP(r); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestOwnerContext(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/", nil)
	if got := OwnerFromContext(r); got != "" {
		t.Errorf("Expected empty owner, got %q", got)
	}

	r = r.WithContext(WithOwner(r.Context(), "user-42"))
	if got := OwnerFromContext(r); got != "user-42" {
		t.Errorf("Expected 'user-42', got %q", got)
	}
}
