package core

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to the calling boundary.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrStore        = errors.New("store error")
)

var (
	ErrMissingUser        = fmt.Errorf("%w: user id is missing", ErrUnauthorized)
	ErrInvalidAmount      = fmt.Errorf("%w: amount must be a positive number", ErrValidation)
	ErrAmountTooLarge     = fmt.Errorf("%w: amount exceeds the maximum of 10000000000000.00", ErrValidation)
	ErrInvalidCategory    = fmt.Errorf("%w: invalid category", ErrValidation)
	ErrEmptyTitle         = fmt.Errorf("%w: title is required", ErrValidation)
	ErrTitleTooLong       = fmt.Errorf("%w: title cannot exceed 100 characters", ErrValidation)
	ErrDescriptionTooLong = fmt.Errorf("%w: description cannot exceed 200 characters", ErrValidation)
	ErrInvalidDateRange   = fmt.Errorf("%w: start date must not be after end date", ErrValidation)
	ErrInvalidKind        = fmt.Errorf("%w: invalid transaction kind", ErrValidation)
	ErrMissingTargetDate  = fmt.Errorf("%w: target date is required", ErrValidation)
	ErrEmptyPatch         = fmt.Errorf("%w: at least one field is required for update", ErrValidation)
	ErrNoFinancialData    = fmt.Errorf("%w: no financial data found for the user", ErrValidation)
)

// Validationf returns a validation error with a formatted message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf returns a not-found error naming the missing record.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// StoreError wraps a persistence failure so callers can match ErrStore while
// keeping the driver error in the chain.
func StoreError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}
