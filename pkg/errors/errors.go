// Package errors provides typed errors for the application
package errors

// ErrorType represents the type of error
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeRateLimit
	ErrorTypeUnavailable
	ErrorTypeInternal
)

// baseError is the base implementation for all error types
type baseError struct {
	msg string
}

func (e *baseError) Error() string {
	return e.msg
}

// ValidationError represents a validation error (bad user input)
type ValidationError struct {
	baseError
}

// NewValidationError creates a new ValidationError
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{baseError{msg: msg}}
}

// NotFoundError represents a not found error
type NotFoundError struct {
	baseError
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(msg string) *NotFoundError {
	return &NotFoundError{baseError{msg: msg}}
}

// RateLimitError represents an upstream rate limit (HTTP 429)
type RateLimitError struct {
	baseError
}

// NewRateLimitError creates a new RateLimitError
func NewRateLimitError(msg string) *RateLimitError {
	return &RateLimitError{baseError{msg: msg}}
}

// UnavailableError represents a dependency that failed or timed out
type UnavailableError struct {
	baseError
}

// NewUnavailableError creates a new UnavailableError
func NewUnavailableError(msg string) *UnavailableError {
	return &UnavailableError{baseError{msg: msg}}
}

// InternalError represents an internal error
type InternalError struct {
	baseError
}

// NewInternalError creates a new InternalError
func NewInternalError(msg string) *InternalError {
	return &InternalError{baseError{msg: msg}}
}
