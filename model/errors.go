package model

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("resource not found")
	ErrExternal     = errors.New("external service failure")
)

// Error is a failure of a known kind with a message safe to show to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

func Forbidden(msg string) error { return &Error{Kind: ErrForbidden, Message: msg} }

func Unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Message: msg} }

func InvalidInput(msg string) error { return &Error{Kind: ErrInvalidInput, Message: msg} }

// ValidationError represents a field-level validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// ExternalError wraps a failure of the image host. The operation that hit it
// is aborted without compensation.
type ExternalError struct {
	Op  string
	Err error
}

func (e *ExternalError) Error() string {
	return "image host " + e.Op + ": " + e.Err.Error()
}

func (e *ExternalError) Unwrap() []error { return []error{ErrExternal, e.Err} }
