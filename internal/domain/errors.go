package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidQuality is returned when a review quality rating is outside
	// the canonical 0-5 scale.
	ErrInvalidQuality = errors.New("quality rating must be between 0 and 5")

	// ErrInvalidRating is returned when a simplified review rating is not
	// one of the recognized button values.
	ErrInvalidRating = errors.New("invalid review rating")

	// ErrInvalidMetric is returned when a daily progress metric name is not
	// part of the known metric set.
	ErrInvalidMetric = errors.New("invalid progress metric")

	// ErrInvalidCounter is returned when a cumulative counter name is not
	// part of the known counter set.
	ErrInvalidCounter = errors.New("invalid cumulative counter")

	// ErrInvalidAction is returned when an activity action identifier is
	// unknown to the engine.
	ErrInvalidAction = errors.New("invalid activity action")
)

// ValidationError describes a validation failure on a specific field.
// It wraps ErrValidation so callers can match with errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
