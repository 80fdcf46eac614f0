// Package validation provides field-level checks for untrusted client
// input. Validators return nil on success so callers can collect
// failures without branching on each check.
package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxUserIDLength bounds the opaque user identifier.
const MaxUserIDLength = 64

// MaxDisplayNameLength bounds the human-readable label.
const MaxDisplayNameLength = 64

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Collector accumulates validation errors without failing on first.
type Collector struct {
	errors []ValidationError
}

// Add appends a validation error to the collector if non-nil.
func (c *Collector) Add(err *ValidationError) {
	if err != nil {
		c.errors = append(c.errors, *err)
	}
}

// HasErrors returns true if the collector has accumulated any errors.
func (c *Collector) HasErrors() bool {
	return len(c.errors) > 0
}

// Errors returns all accumulated validation errors.
func (c *Collector) Errors() []ValidationError {
	return c.errors
}

// ValidateRequired returns an error if the value is empty or whitespace-only.
func ValidateRequired(field, value string) *ValidationError {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   field,
			Message: "is required",
		}
	}
	return nil
}

// ValidateMaxLength returns an error if the value exceeds max runes.
func ValidateMaxLength(field, value string, max int) *ValidationError {
	if utf8.RuneCountInString(value) > max {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("exceeds maximum length of %d characters", max),
		}
	}
	return nil
}

// ValidateUserID returns an error unless the value is a non-empty
// identifier of letters, digits, hyphens, and underscores within the
// length bound.
func ValidateUserID(field, value string) *ValidationError {
	if err := ValidateRequired(field, value); err != nil {
		return err
	}
	if err := ValidateMaxLength(field, value, MaxUserIDLength); err != nil {
		return err
	}
	for _, r := range value {
		if r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		return &ValidationError{
			Field:   field,
			Message: "contains invalid characters",
		}
	}
	return nil
}

// ValidateDisplayName returns an error if a supplied display name is
// unusable. Empty is allowed; it means "keep the current name".
func ValidateDisplayName(field, value string) *ValidationError {
	if value == "" {
		return nil
	}
	if !utf8.ValidString(value) {
		return &ValidationError{
			Field:   field,
			Message: "must be valid UTF-8",
		}
	}
	if strings.Contains(value, "\x00") {
		return &ValidationError{
			Field:   field,
			Message: "must not contain null bytes",
		}
	}
	return ValidateMaxLength(field, value, MaxDisplayNameLength)
}

// ValidatePositive returns an error unless the value is present and
// strictly greater than zero.
func ValidatePositive(field string, value *float64) *ValidationError {
	if value == nil {
		return &ValidationError{
			Field:   field,
			Message: "is required",
		}
	}
	if *value <= 0 {
		return &ValidationError{
			Field:   field,
			Message: "must be positive",
		}
	}
	return nil
}
