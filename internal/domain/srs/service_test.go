package srs

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/studyhall/mastery-api/internal/domain"
)

func TestServiceReviewValidation(t *testing.T) {
	t.Parallel() // Enable parallel execution
	service := NewDefaultService()
	now := time.Now().UTC()

	schedule := &domain.CardSchedule{
		UserID:      uuid.New(),
		CardID:      uuid.New(),
		EaseFactor:  2.5,
		Interval:    6,
		Repetitions: 2,
	}

	// Nil schedule is rejected
	_, err := service.Review(nil, 3, now)
	if !errors.Is(err, ErrNilSchedule) {
		t.Errorf("Expected ErrNilSchedule, got %v", err)
	}

	// Out-of-range qualities are rejected without mutation
	for _, q := range []int{-1, 6, 42} {
		_, err := service.Review(schedule, q, now)
		if !errors.Is(err, domain.ErrInvalidQuality) {
			t.Errorf("quality %d: expected ErrInvalidQuality, got %v", q, err)
		}
	}

	if schedule.Interval != 6 || schedule.Repetitions != 2 || schedule.EaseFactor != 2.5 {
		t.Error("Expected schedule to be untouched after validation failures")
	}
}

func TestServiceReviewRatingMapping(t *testing.T) {
	t.Parallel() // Enable parallel execution
	service := NewDefaultService()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	base := &domain.CardSchedule{
		UserID:      uuid.New(),
		CardID:      uuid.New(),
		EaseFactor:  2.5,
		Interval:    6,
		Repetitions: 2,
	}

	testCases := []struct {
		rating  domain.ReviewRating
		quality int
	}{
		{domain.ReviewRatingWrong, 0},
		{domain.ReviewRatingHard, 2},
		{domain.ReviewRatingGood, 3},
		{domain.ReviewRatingEasy, 5},
	}

	for _, tc := range testCases {
		t.Run(string(tc.rating), func(t *testing.T) {
			fromRating, err := service.ReviewRating(base, tc.rating, now)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			fromQuality, err := service.Review(base, tc.quality, now)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			if fromRating.Interval != fromQuality.Interval ||
				fromRating.Repetitions != fromQuality.Repetitions ||
				fromRating.EaseFactor != fromQuality.EaseFactor {
				t.Errorf("Rating %q did not match canonical quality %d", tc.rating, tc.quality)
			}
		})
	}

	// Unknown ratings are rejected
	_, err := service.ReviewRating(base, domain.ReviewRating("meh"), now)
	if !errors.Is(err, domain.ErrInvalidRating) {
		t.Errorf("Expected ErrInvalidRating, got %v", err)
	}
}

func TestServiceIsDeterministic(t *testing.T) {
	t.Parallel() // Enable parallel execution
	service := NewDefaultService()
	now := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)

	schedule := &domain.CardSchedule{
		UserID:      uuid.New(),
		CardID:      uuid.New(),
		EaseFactor:  2.1,
		Interval:    12,
		Repetitions: 4,
	}

	first, err := service.Review(schedule, 4, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := service.Review(schedule, 4, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if first.Interval != second.Interval ||
		first.EaseFactor != second.EaseFactor ||
		!first.NextReviewAt.Equal(*second.NextReviewAt) {
		t.Error("Expected identical results for identical inputs")
	}
}
