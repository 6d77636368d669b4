package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/mindtrack/api/internal/store"
)

// MaxHabitNameLength bounds habit names; they are free text but stored and
// compared verbatim.
const MaxHabitNameLength = 200

// Validate is a shared validator instance
var Validate *validator.Validate

func init() {
	Validate = validator.New()

	if err := Validate.RegisterValidation("habit_name", validateHabitName); err != nil {
		panic(fmt.Sprintf("failed to register habit_name validator: %v", err))
	}
}

func validateHabitName(fl validator.FieldLevel) bool {
	return ValidateHabitName(fl.Field().String()) == nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateHabitName checks that a habit name is non-empty after sanitization
// and within length bounds. Comparison elsewhere is always case-sensitive and
// exact; no normalization happens here beyond trimming.
func ValidateHabitName(name string) error {
	if SanitizeText(name) == "" {
		return fmt.Errorf("habit name is required")
	}
	if len(name) > MaxHabitNameLength {
		return fmt.Errorf("habit name exceeds %d characters", MaxHabitNameLength)
	}
	return nil
}

// ValidateDate checks that a string is a well-formed ISO 8601 calendar date.
// The reserved meta key is not a valid date.
func ValidateDate(value string) error {
	if value == store.MetaKey {
		return fmt.Errorf("invalid date: %s", value)
	}
	if _, err := time.Parse(store.DateFormat, value); err != nil {
		return fmt.Errorf("invalid date: %s (must be YYYY-MM-DD)", value)
	}
	return nil
}
