package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for these with errors.Is(); the API layer maps them to HTTP
// status codes.
var (
	// ErrReviewConflict indicates a concurrent review of the same card won
	// the write-back race and this review's schedule write was discarded.
	// API layer should map this to HTTP 409 Conflict.
	ErrReviewConflict = errors.New("concurrent review conflict")

	// ErrNotReversible indicates an undo was requested for an action whose
	// effects are monotonic and cannot be decremented.
	// API layer should map this to HTTP 400 Bad Request.
	ErrNotReversible = errors.New("action is not reversible")
)

// ReviewServiceError is a custom error type for review orchestration errors.
type ReviewServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ReviewServiceError.
func (e *ReviewServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("review service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("review service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ReviewServiceError) Unwrap() error {
	return e.Err
}

// NewReviewServiceError creates a new ReviewServiceError.
func NewReviewServiceError(operation, message string, err error) *ReviewServiceError {
	return &ReviewServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// StreakServiceError is a custom error type for streak tracker errors.
type StreakServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for StreakServiceError.
func (e *StreakServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("streak service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("streak service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StreakServiceError) Unwrap() error {
	return e.Err
}

// NewStreakServiceError creates a new StreakServiceError.
func NewStreakServiceError(operation, message string, err error) *StreakServiceError {
	return &StreakServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
