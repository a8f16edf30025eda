// Package errors provides structured error types for giftring.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes fall into three families:
//   - Validation codes: the caller supplied malformed input and must fix it
//     (DUPLICATE_IDENTIFIER, TOO_FEW_PARTICIPANTS, UNKNOWN_RULE_TARGET, ...)
//   - Not-found codes: a referenced file or resource is missing
//   - Defect codes: the engine broke one of its own invariants
//     (INVARIANT_VIOLATION, INTERNAL_ERROR)
//
// A well-formed roster without a valid pairing is not an error at all; the
// generator reports it as an infeasible outcome (see package assign).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateIdentifier, "duplicate participant id %q", id)
//	if errors.Is(err, errors.ErrCodeDuplicateIdentifier) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "failed to decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput        Code = "INVALID_INPUT"
	ErrCodeInvalidIdentifier   Code = "INVALID_IDENTIFIER"
	ErrCodeDuplicateIdentifier Code = "DUPLICATE_IDENTIFIER"
	ErrCodeTooFewParticipants  Code = "TOO_FEW_PARTICIPANTS"
	ErrCodeUnknownRuleTarget   Code = "UNKNOWN_RULE_TARGET"
	ErrCodeInvalidOption       Code = "INVALID_OPTION"
	ErrCodeInvalidFormat       Code = "INVALID_FORMAT"
	ErrCodeInvalidPath         Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Runtime errors
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInvariantViolation Code = "INVARIANT_VIOLATION"
	ErrCodeInternal           Code = "INTERNAL_ERROR"
	ErrCodeUnsupported        Code = "UNSUPPORTED"
)

// validationCodes are the codes a caller fixes by changing its input.
var validationCodes = map[Code]bool{
	ErrCodeInvalidInput:        true,
	ErrCodeInvalidIdentifier:   true,
	ErrCodeDuplicateIdentifier: true,
	ErrCodeTooFewParticipants:  true,
	ErrCodeUnknownRuleTarget:   true,
	ErrCodeInvalidOption:       true,
	ErrCodeInvalidFormat:       true,
	ErrCodeInvalidPath:         true,
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsValidation reports whether err carries a validation code, meaning the
// caller must fix its input. Validation errors are never retried.
func IsValidation(err error) bool {
	return validationCodes[GetCode(err)]
}

// IsDefect reports whether err signals a broken engine invariant. Defects
// must be logged and surfaced differently from user-facing failures.
func IsDefect(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvariantViolation, ErrCodeInternal:
		return true
	}
	return false
}
