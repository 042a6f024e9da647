package domain

import (
	"errors"
	"fmt"
)

// ErrTimerRunning is returned when Start is called while a session is
// already active.
var ErrTimerRunning = errors.New("a timer session is already running")

// ErrTimerNotRunning is returned when Stop is called with no active session.
var ErrTimerNotRunning = errors.New("no timer session is running")

// ErrEmptyInvoice rejects submitting an invoice without line items.
var ErrEmptyInvoice = errors.New("an invoice needs at least one line item")

// ValidationError reports malformed or missing input. The operation is
// aborted with no partial state change.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
