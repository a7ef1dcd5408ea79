package errors

import (
	"strings"
	"unicode"
)

// ValidateEventID validates an event identifier for safety and correctness.
// IDs travel through cache keys, JSON artifacts, and SVG attributes, so the
// rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - Maximum length of 256 characters
func ValidateEventID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidEvent, "event ID cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidEvent, "event ID too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidEvent, "event ID contains invalid control characters")
		}
	}

	return nil
}

// ValidateTitle validates an event title for display.
// Titles may contain any printable text but no control characters
// (tabs and newlines would break single-line rendering).
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return New(ErrCodeInvalidEvent, "event title cannot be empty")
	}

	const maxTitleLength = 500
	if len(title) > maxTitleLength {
		return New(ErrCodeInvalidEvent, "event title too long (max %d characters)", maxTitleLength)
	}

	for _, r := range title {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidEvent, "event title contains invalid control characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
