package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// documentNameRegex matches names usable as store keys (Redis keys, Mongo ids).
var documentNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateDocumentName validates a document name used by the Redis and Mongo stores.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - Maximum length of 128 characters
//   - Letters, digits, dot, dash and underscore only, starting with a letter or digit
func ValidateDocumentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "document name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidName, "document name too long (max 128 characters)")
	}

	if !documentNameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid document name: %q", name)
	}

	return nil
}

// ValidateFieldKey validates a key submitted as an editable field.
// Keys must be non-empty and free of control characters.
func ValidateFieldKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return New(ErrCodeInvalidInput, "field key cannot be empty")
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "field key contains invalid control characters")
		}
	}

	return nil
}

// ValidateFilePath validates a local document file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidateFilePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "file path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "file path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "file path contains invalid characters")
		}
	}

	return nil
}
