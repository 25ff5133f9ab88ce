package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is a generic version of the entity-specific not found
	// errors below.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrConflict is returned when an optimistic write-back loses against a
	// concurrent writer. The caller should re-read and retry or surface the
	// conflict.
	ErrConflict = errors.New("concurrent modification conflict")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrScheduleNotFound indicates that the requested card schedule does
	// not exist in the store.
	ErrScheduleNotFound = fmt.Errorf("%w: card schedule", ErrNotFound)

	// ErrProgressNotFound indicates that the requested user progress record
	// does not exist in the store.
	ErrProgressNotFound = fmt.Errorf("%w: user progress", ErrNotFound)

	// ErrAchievementNotFound indicates that the requested achievement
	// definition does not exist in the store.
	ErrAchievementNotFound = fmt.Errorf("%w: achievement definition", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrAchievementUnlocked indicates that the (user, achievement) pair
	// already exists; the unique key on user_achievements is the source of
	// truth for "already unlocked".
	ErrAchievementUnlocked = fmt.Errorf("%w: user achievement", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with
// additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "card_schedule")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation,
// message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
