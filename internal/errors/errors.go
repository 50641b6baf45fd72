package errors

import (
	"errors"
	"fmt"
)

// ScentError is the structured error type for scentmatch.
// It provides rich context for error handling, logging, and user presentation.
type ScentError struct {
	// Code is the unique error code (e.g., "ERR_201_CATALOG_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Network, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *ScentError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ScentError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with ScentError.
func (e *ScentError) Is(target error) bool {
	if t, ok := target.(*ScentError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *ScentError) WithDetail(key, value string) *ScentError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *ScentError) WithSuggestion(suggestion string) *ScentError {
	e.Suggestion = suggestion
	return e
}

// New creates a new ScentError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *ScentError {
	return &ScentError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a ScentError from an existing error.
// The error's message becomes the ScentError message.
func Wrap(code string, err error) *ScentError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// CatalogError creates a catalog-load error. These are fatal to the
// corpus build but retryable on a later request.
func CatalogError(message string, cause error) *ScentError {
	return New(ErrCodeCatalogUnreadable, message, cause)
}

// ModelError creates an embedding-model initialization error.
func ModelError(message string, cause error) *ScentError {
	return New(ErrCodeModelInit, message, cause)
}

// NetworkError creates a network-related error.
// Network errors are typically retryable.
func NetworkError(message string, cause error) *ScentError {
	return New(ErrCodeNetworkTimeout, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *ScentError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *ScentError {
	return New(ErrCodeInternal, message, cause)
}

// IsRetryable checks if an error is retryable.
// Returns true if the error is a ScentError with Retryable flag set.
func IsRetryable(err error) bool {
	var se *ScentError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return false
}

// IsLoadFailure reports whether err is a fatal corpus-build failure
// (unreadable catalog or model initialization). Callers use this to
// distinguish "service unavailable" from "no matches".
func IsLoadFailure(err error) bool {
	var se *ScentError
	if errors.As(err, &se) {
		return se.Severity == SeverityFatal
	}
	return false
}

// As extracts the ScentError from an error chain.
func As(err error) (*ScentError, bool) {
	var se *ScentError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// GetCode extracts the error code from a ScentError.
// Returns empty string if not a ScentError.
func GetCode(err error) string {
	var se *ScentError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
