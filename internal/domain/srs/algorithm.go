package srs

import (
	"math"
	"time"

	"github.com/studyhall/mastery-api/internal/domain"
)

// calculateNewEaseFactor determines the new ease factor from a 0-5 quality
// rating using the SM-2 adjustment:
//
//	EF' = EF + (0.1 - (5-q) * (0.08 + (5-q) * 0.02))
//
// A perfect answer (q=5) raises the factor by 0.1; lower qualities reduce
// it progressively. The result never drops below params.MinEaseFactor, so
// intervals keep growing even for chronically hard cards.
func calculateNewEaseFactor(currentEF float64, quality int, params *Params) float64 {
	q := float64(quality)
	newEF := currentEF + (0.1 - (5-q)*(0.08+(5-q)*0.02))

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	return newEF
}

// calculateNextInterval determines the interval and repetition count after a
// review.
//
// A failed recall (quality below the pass threshold) resets the repetition
// sequence: repetitions go to 0 and the card comes back after one day. A
// successful recall advances the sequence: the first repetition uses
// params.FirstInterval, the second params.SecondInterval, and every later
// one multiplies the previous interval by the new ease factor, rounded to
// the nearest day.
func calculateNextInterval(
	currentInterval int,
	currentRepetitions int,
	newEaseFactor float64,
	quality int,
	params *Params,
) (interval, repetitions int) {
	if quality < params.PassThreshold {
		return 1, 0
	}

	repetitions = currentRepetitions + 1

	switch repetitions {
	case 1:
		interval = params.FirstInterval
	case 2:
		interval = params.SecondInterval
	default:
		interval = int(math.Round(float64(currentInterval) * newEaseFactor))
	}

	return interval, repetitions
}

// calculateNextSchedule creates a new CardSchedule with updated values based
// on the review quality. The input schedule is never modified; the returned
// copy carries the new ease factor, interval, repetition count and review
// timestamps. The next review lands on the start of day `interval` days
// from now, so due checks stay day-granular.
func calculateNextSchedule(
	schedule *domain.CardSchedule,
	quality int,
	now time.Time,
	params *Params,
) *domain.CardSchedule {
	next := &domain.CardSchedule{
		UserID:      schedule.UserID,
		CardID:      schedule.CardID,
		EaseFactor:  schedule.EaseFactor,
		Interval:    schedule.Interval,
		Repetitions: schedule.Repetitions,
		CreatedAt:   schedule.CreatedAt,
	}

	next.EaseFactor = calculateNewEaseFactor(schedule.EaseFactor, quality, params)
	next.Interval, next.Repetitions = calculateNextInterval(
		schedule.Interval,
		schedule.Repetitions,
		next.EaseFactor,
		quality,
		params,
	)

	reviewedAt := now.UTC()
	next.LastReviewedAt = &reviewedAt

	nextReview := domain.DayFloor(now).AddDate(0, 0, next.Interval)
	next.NextReviewAt = &nextReview

	next.UpdatedAt = reviewedAt

	return next
}
