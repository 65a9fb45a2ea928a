package core

import "github.com/pkg/errors"

// Domain errors. Callers match them with errors.Cause.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrPaymentsDisabled   = errors.New("online payments are disabled")
	ErrAlreadyPaid        = errors.New("fee already paid")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrPermissionDenied   = errors.New("permission denied")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// Is reports whether err is, or is a validation error wrapping, the target domain error.
func Is(err, target error) bool {
	cause := errors.Cause(err)
	if cause == target {
		return true
	}
	if verr, ok := cause.(*ValidationError); ok {
		return verr.Err == target
	}
	return false
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
