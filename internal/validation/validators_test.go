package validation

import (
	"strings"
	"testing"
)

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", "  read a book  ", "read a book"},
		{"removes control characters", "read\x00 a\x1b book", "read a book"},
		{"keeps newline and tab", "read\n\ta book", "read\n\ta book"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := SanitizeText(tt.input); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestValidateHabitName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		expectError bool
	}{
		{"valid", "Drink water", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"control characters only", "\x00\x01", true},
		{"too long", strings.Repeat("a", MaxHabitNameLength+1), true},
		{"exactly max length", strings.Repeat("a", MaxHabitNameLength), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateHabitName(tt.input)
			if tt.expectError && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestValidateDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		expectError bool
	}{
		{"valid date", "2024-01-15", false},
		{"not a date", "yesterday", true},
		{"wrong layout", "15-01-2024", true},
		{"meta key rejected", "__meta__", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateDate(tt.input)
			if tt.expectError && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}
