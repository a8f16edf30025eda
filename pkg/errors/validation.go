package errors

import (
	"strings"
	"unicode"
)

// MaxIdentifierLength is the longest participant identifier accepted, in bytes.
const MaxIdentifierLength = 256

// ValidateIdentifier validates a participant identifier for safety and correctness.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - Maximum length of 256 bytes
//
// Identifiers are opaque to the engine; any other content is accepted.
func ValidateIdentifier(id string) error {
	if id == "" {
		return New(ErrCodeInvalidIdentifier, "participant id cannot be empty")
	}

	if len(id) > MaxIdentifierLength {
		return New(ErrCodeInvalidIdentifier, "participant id too long (max %d characters)", MaxIdentifierLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidIdentifier, "participant id %q contains invalid control characters", id)
		}
	}

	return nil
}

// ValidatePath validates a file path supplied on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	if strings.ContainsFunc(path, func(r rune) bool { return r == '\x00' || unicode.IsControl(r) }) {
		return New(ErrCodeInvalidPath, "path contains invalid characters")
	}

	return nil
}
