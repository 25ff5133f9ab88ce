package api

import (
	"errors"
	"net/http"

	"github.com/studyhall/mastery-api/internal/api/shared"
	"github.com/studyhall/mastery-api/internal/domain"
	"github.com/studyhall/mastery-api/internal/service"
	"github.com/studyhall/mastery-api/internal/service/auth"
	"github.com/studyhall/mastery-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrScheduleNotFound),
		errors.Is(err, store.ErrProgressNotFound),
		errors.Is(err, store.ErrAchievementNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrReviewConflict),
		errors.Is(err, store.ErrConflict):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidQuality),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrInvalidMetric),
		errors.Is(err, domain.ErrInvalidCounter),
		errors.Is(err, domain.ErrInvalidAction),
		errors.Is(err, service.ErrNotReversible),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, store.ErrScheduleNotFound):
		return "Card schedule not found"

	case errors.Is(err, store.ErrProgressNotFound):
		return "Progress not found"

	case errors.Is(err, store.ErrAchievementNotFound):
		return "Achievement not found"

	case errors.Is(err, service.ErrReviewConflict),
		errors.Is(err, store.ErrConflict):
		return "The card was reviewed concurrently; please retry"

	case errors.Is(err, domain.ErrInvalidQuality):
		return "Quality must be between 0 and 5"

	case errors.Is(err, domain.ErrInvalidRating):
		return "Rating must be one of: wrong, hard, good, easy"

	case errors.Is(err, domain.ErrInvalidAction):
		return "Unknown activity action"

	case errors.Is(err, service.ErrNotReversible):
		return "This action cannot be undone"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidMetric),
		errors.Is(err, domain.ErrInvalidCounter),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request"

	default:
		return "An unexpected error occurred"
	}
}

// RespondWithServiceError maps err onto a status code and safe message and
// writes the response, logging the redacted original.
func RespondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
