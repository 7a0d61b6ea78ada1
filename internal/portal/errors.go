package portal

import (
	"errors"
	"fmt"

	"apartment-portal/internal/models"
)

var (
	// ErrForbidden is returned when the caller's role lacks the capability
	// an operation requires.
	ErrForbidden = errors.New("operation not permitted for role")

	// ErrBackendUnavailable wraps transport-level failures from the store's
	// backing service. Recoverable at the caller; no snapshot is corrupted.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// ValidationError reports malformed or dangling-reference input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an absent mutation target.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// InvalidTransitionError reports an illegal service request status change.
type InvalidTransitionError struct {
	From models.ServiceRequestStatus
	To   models.ServiceRequestStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition %s -> %s", e.From, e.To)
}

// DuplicateEmailError reports a user creation conflict.
type DuplicateEmailError struct {
	Email string
}

func (e *DuplicateEmailError) Error() string {
	return fmt.Sprintf("email %q is already registered", e.Email)
}

// PaymentDeclinedError reports a simulated gateway rejection. The declined
// record is persisted and carried here so callers can show the outcome.
type PaymentDeclinedError struct {
	Payment *models.PaymentInfo
}

func (e *PaymentDeclinedError) Error() string {
	return fmt.Sprintf("payment %s declined", e.Payment.ID)
}

func backendError(err error) error {
	return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
}
