package errors

import (
	"strings"
	"unicode"
)

// ValidateYearLabel validates a year label from the tournament mapping file.
// Labels are either calendar years or raw tournament identifiers, so the
// rules are intentionally loose - they only reject values that would corrupt
// node keys downstream.
//
//   - No empty labels
//   - No control characters
//   - Maximum length of 64 characters
func ValidateYearLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidMapping, "year label cannot be empty")
	}
	if len(label) > 64 {
		return New(ErrCodeInvalidMapping, "year label too long (max 64 characters)")
	}
	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidMapping, "year label contains control characters")
		}
	}
	return nil
}

// ValidateCollectionName validates a MongoDB collection name before
// publishing. It mirrors the server-side restrictions so bad names fail
// before a round-trip.
func ValidateCollectionName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "collection name cannot be empty")
	}
	if len(name) > 120 {
		return New(ErrCodeInvalidInput, "collection name too long (max 120 characters)")
	}
	if strings.HasPrefix(name, "system.") {
		return New(ErrCodeInvalidInput, "collection name cannot start with %q", "system.")
	}
	for _, pattern := range []string{"$", "\x00"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "collection name contains invalid characters: %q", pattern)
		}
	}
	return nil
}
