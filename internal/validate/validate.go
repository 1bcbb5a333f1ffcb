// Package validate checks tool input against configured limits before a
// tool runs, so oversized payloads are rejected with a clear message
// instead of burning CPU inside the engine.
package validate

import (
	"fmt"
	"strings"
)

// TextBytes rejects input text larger than maxBytes. A zero or negative
// limit disables the check.
func TextBytes(field, text string, maxBytes int) error {
	if maxBytes > 0 && len(text) > maxBytes {
		return fmt.Errorf("%s exceeds maximum size of %d bytes", field, maxBytes)
	}
	return nil
}

// Required rejects empty or all-whitespace values.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// OneOf rejects values outside the allowed set.
func OneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of: %s", field, strings.Join(allowed, ", "))
}

// TokenCount rejects token slices longer than maxTokens. A zero or
// negative limit disables the check.
func TokenCount(field string, count, maxTokens int) error {
	if maxTokens > 0 && count > maxTokens {
		return fmt.Errorf("%s exceeds maximum of %d tokens", field, maxTokens)
	}
	return nil
}
