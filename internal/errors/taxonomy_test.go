package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError(t *testing.T) {
	over := &ValidationError{Field: "target_minutes", Message: "exceeds 24h by 60 minutes", OverMinutes: 60}
	if over.Error() != "target_minutes: exceeds 24h by 60 minutes" {
		t.Errorf("Error() = %q", over.Error())
	}
	wrapped := fmt.Errorf("saving plan: %w", over)
	if !errors.Is(wrapped, ErrBudgetExceeded) {
		t.Error("over-budget error should match ErrBudgetExceeded")
	}
	if !IsValidation(wrapped) {
		t.Error("IsValidation should see through wrapping")
	}

	plain := NewValidationError("activity_name", "must not be empty")
	if errors.Is(plain, ErrBudgetExceeded) {
		t.Error("plain validation error should not match ErrBudgetExceeded")
	}
	if (&ValidationError{Message: "bad date"}).Error() != "bad date" {
		t.Error("field-less error should render message only")
	}
}

func TestPersistenceError(t *testing.T) {
	cause := errors.New("connection refused")
	err := Persistence("start", cause)
	if err.Error() != "start: connection refused" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("PersistenceError should unwrap to its cause")
	}
	if !IsPersistence(fmt.Errorf("outer: %w", err)) {
		t.Error("IsPersistence should see through wrapping")
	}
	if Persistence("stop", nil) != nil {
		t.Error("Persistence(nil) should be nil")
	}
	if IsPersistence(cause) {
		t.Error("bare error is not a PersistenceError")
	}
}
