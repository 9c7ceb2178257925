package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	// ErrBudgetExceeded is matched by validation errors raised for a day type over 24h.
	ErrBudgetExceeded = stderrors.New("daily budget exceeded")
	// ErrNotAuthenticated means no identity is signed in.
	ErrNotAuthenticated = stderrors.New("not authenticated")
	// ErrHistoricalView is returned when a mutation is attempted on a date other than today.
	ErrHistoricalView = stderrors.New("sessions can only be changed while viewing today")
)

// ValidationError is a user-correctable input problem. It is never persisted.
type ValidationError struct {
	Field       string
	Message     string
	OverMinutes int // minutes over the daily budget, 0 for other validation failures
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrBudgetExceeded) match over-budget failures.
func (e *ValidationError) Is(target error) bool {
	return target == ErrBudgetExceeded && e.OverMinutes > 0
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// PersistenceError wraps a store failure with the operation that hit it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Persistence wraps err as a PersistenceError, or returns nil for a nil err.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return stderrors.As(err, &ve)
}

// IsPersistence reports whether err carries a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return stderrors.As(err, &pe)
}
