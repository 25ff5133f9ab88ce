// Package srs implements the SM-2 spaced repetition algorithm as a pure,
// deterministic calculation over card schedules. Nothing in this package
// performs I/O; callers supply the current schedule and clock and persist
// the returned copy themselves.
package srs

import (
	"errors"
	"time"

	"github.com/studyhall/mastery-api/internal/domain"
)

// Common errors
var (
	ErrNilSchedule = errors.New("card schedule cannot be nil")
)

// Service defines the interface for SRS algorithm operations.
type Service interface {
	// Review computes a new schedule from a canonical 0-5 quality rating.
	// An out-of-range quality is a validation failure: the error surfaces
	// to the caller and no state is touched.
	Review(schedule *domain.CardSchedule, quality int, now time.Time) (*domain.CardSchedule, error)

	// ReviewRating is Review for the simplified four-button rating scale.
	ReviewRating(
		schedule *domain.CardSchedule,
		rating domain.ReviewRating,
		now time.Time,
	) (*domain.CardSchedule, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// Review implements the Service interface for canonical quality input.
func (s *defaultService) Review(
	schedule *domain.CardSchedule,
	quality int,
	now time.Time,
) (*domain.CardSchedule, error) {
	if schedule == nil {
		return nil, ErrNilSchedule
	}

	if !domain.ValidQuality(quality) {
		return nil, domain.ErrInvalidQuality
	}

	return calculateNextSchedule(schedule, quality, now, s.params), nil
}

// ReviewRating implements the Service interface for simplified rating input.
func (s *defaultService) ReviewRating(
	schedule *domain.CardSchedule,
	rating domain.ReviewRating,
	now time.Time,
) (*domain.CardSchedule, error) {
	quality, err := rating.Quality()
	if err != nil {
		return nil, err
	}

	return s.Review(schedule, quality, now)
}
