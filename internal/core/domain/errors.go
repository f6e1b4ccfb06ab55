package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the core wraps exactly one of these so the
// transport layer can map it to a status code with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrAuth            = errors.New("authentication failed")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrExternalService = errors.New("external service error")
	ErrStorage         = errors.New("storage error")
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrAuth)
	ErrUserExists         = fmt.Errorf("%w: user already exists", ErrConflict)
	ErrUserNotFound       = fmt.Errorf("%w: user not found", ErrNotFound)

	ErrApartmentNotFound = fmt.Errorf("%w: apartment not found", ErrNotFound)
	ErrApartmentOccupied = fmt.Errorf("%w: apartment is already occupied", ErrConflict)

	ErrLeaseNotFound = fmt.Errorf("%w: lease not found", ErrNotFound)

	ErrApplicationNotFound = fmt.Errorf("%w: application not found", ErrNotFound)
	ErrMaintenanceNotFound = fmt.Errorf("%w: maintenance request not found", ErrNotFound)

	ErrPaymentNotCompleted    = fmt.Errorf("%w: payment has not completed", ErrValidation)
	ErrLeaseMismatch          = fmt.Errorf("%w: payment belongs to a different lease", ErrValidation)
	ErrPaymentAlreadyRecorded = fmt.Errorf("%w: payment already recorded", ErrConflict)
	ErrPaymentInProgress      = fmt.Errorf("%w: payment is already being recorded", ErrConflict)
)

// Invalidf returns a validation error with a client-facing message.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// StorageErr wraps a driver error so callers can classify it as a storage failure
// while keeping the original cause reachable.
func StorageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// ExternalErr wraps a failure from a third-party service.
func ExternalErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrExternalService, op, err)
}

// NotFoundf returns a not-found error with a client-facing message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
