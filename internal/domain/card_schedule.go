package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Default values for a freshly created schedule.
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// Common validation errors for CardSchedule
var (
	ErrEmptyScheduleUserID = errors.New("card schedule user ID cannot be empty")
	ErrEmptyScheduleCardID = errors.New("card schedule card ID cannot be empty")
	ErrInvalidInterval     = errors.New("interval must be greater than or equal to 0")
	ErrInvalidRepetitions  = errors.New("repetitions must be greater than or equal to 0")
	ErrInvalidEaseFactor   = errors.New("ease factor must be at least 1.3")
)

// CardSchedule tracks the spaced repetition state of a single learning item
// for a user. One schedule exists per (user, card); it is created with
// defaults when the item is first seen and mutated only through the SRS
// review calculation.
type CardSchedule struct {
	UserID         uuid.UUID  `json:"user_id"`
	CardID         uuid.UUID  `json:"card_id"`
	EaseFactor     float64    `json:"ease_factor"` // SM-2 ease factor, never below 1.3
	Interval       int        `json:"interval"`    // Current interval in days
	Repetitions    int        `json:"repetitions"` // Consecutive successful recalls
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewAt   *time.Time `json:"next_review_at,omitempty"` // Day granularity; nil means never scheduled
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewCardSchedule creates a schedule for a user and card with default values.
// A new schedule has never been reviewed and is immediately due.
func NewCardSchedule(userID, cardID uuid.UUID) (*CardSchedule, error) {
	now := time.Now().UTC()
	schedule := &CardSchedule{
		UserID:         userID,
		CardID:         cardID,
		EaseFactor:     DefaultEaseFactor,
		Interval:       0,
		Repetitions:    0,
		LastReviewedAt: nil,
		NextReviewAt:   nil,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := schedule.Validate(); err != nil {
		return nil, err
	}

	return schedule, nil
}

// Validate checks if the CardSchedule has valid data.
// Returns an error if any field fails validation.
func (s *CardSchedule) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptyScheduleUserID
	}

	if s.CardID == uuid.Nil {
		return ErrEmptyScheduleCardID
	}

	if s.Interval < 0 {
		return ErrInvalidInterval
	}

	if s.Repetitions < 0 {
		return ErrInvalidRepetitions
	}

	if s.EaseFactor < MinEaseFactor {
		return ErrInvalidEaseFactor
	}

	return nil
}

// IsDue reports whether the schedule is due for review at the given moment.
// A schedule that has never been scheduled (nil NextReviewAt) is always due.
// The comparison is made at calendar-day granularity in UTC; time of day is
// ignored.
func (s *CardSchedule) IsDue(now time.Time) bool {
	if s.NextReviewAt == nil {
		return true
	}
	return !DayFloor(*s.NextReviewAt).After(DayFloor(now))
}
