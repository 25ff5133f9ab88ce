package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/studyhall/mastery-api/internal/domain"
)

func TestCalculateNewEaseFactor(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  float64
		quality  int
		expected float64
	}{
		{
			name:     "Perfect answer raises ease factor",
			current:  2.5,
			quality:  5,
			expected: 2.6, // 2.5 + 0.1
		},
		{
			name:     "Good answer lowers ease factor slightly",
			current:  2.5,
			quality:  3,
			expected: 2.36, // 2.5 + (0.1 - 2*(0.08 + 2*0.02)) = 2.5 - 0.14
		},
		{
			name:     "Hesitant answer keeps ease factor",
			current:  2.5,
			quality:  4,
			expected: 2.5, // 2.5 + (0.1 - 1*(0.08 + 1*0.02)) = 2.5
		},
		{
			name:     "Blackout answer drops ease factor hard",
			current:  2.5,
			quality:  0,
			expected: 1.7, // 2.5 + (0.1 - 5*(0.08 + 5*0.02)) = 2.5 - 0.8
		},
		{
			name:     "Ease factor never drops below floor",
			current:  1.35,
			quality:  0,
			expected: params.MinEaseFactor,
		},
		{
			name:     "Floor holds at the floor itself",
			current:  1.3,
			quality:  2,
			expected: params.MinEaseFactor,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			newEF := calculateNewEaseFactor(tc.current, tc.quality, params)

			if diff := newEF - tc.expected; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Expected ease factor %v, got %v", tc.expected, newEF)
			}
		})
	}
}

func TestCalculateNextInterval(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()

	testCases := []struct {
		name         string
		current      int
		reps         int
		ef           float64
		quality      int
		wantInterval int
		wantReps     int
	}{
		{
			name:         "Failed recall resets sequence",
			current:      30,
			reps:         5,
			ef:           2.5,
			quality:      2,
			wantInterval: 1,
			wantReps:     0,
		},
		{
			name:         "Complete blackout resets sequence",
			current:      6,
			reps:         2,
			ef:           2.2,
			quality:      0,
			wantInterval: 1,
			wantReps:     0,
		},
		{
			name:         "First successful repetition uses first interval",
			current:      0,
			reps:         0,
			ef:           2.36,
			quality:      3,
			wantInterval: params.FirstInterval,
			wantReps:     1,
		},
		{
			name:         "Second successful repetition uses second interval",
			current:      1,
			reps:         1,
			ef:           2.36,
			quality:      3,
			wantInterval: params.SecondInterval,
			wantReps:     2,
		},
		{
			name:         "Later repetitions multiply by ease factor",
			current:      6,
			reps:         2,
			ef:           2.5,
			quality:      4,
			wantInterval: 15, // round(6 * 2.5)
			wantReps:     3,
		},
		{
			name:         "Interval rounds to nearest day",
			current:      10,
			reps:         4,
			ef:           2.36,
			quality:      3,
			wantInterval: 24, // round(10 * 2.36) = 24
			wantReps:     5,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			interval, reps := calculateNextInterval(tc.current, tc.reps, tc.ef, tc.quality, params)

			if interval != tc.wantInterval {
				t.Errorf("Expected interval %d, got %d", tc.wantInterval, interval)
			}
			if reps != tc.wantReps {
				t.Errorf("Expected repetitions %d, got %d", tc.wantReps, reps)
			}
		})
	}
}

func TestCalculateNextScheduleWorkedExample(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()
	now := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

	schedule := &domain.CardSchedule{
		UserID:      uuid.New(),
		CardID:      uuid.New(),
		EaseFactor:  2.5,
		Interval:    0,
		Repetitions: 0,
	}

	// First good review: interval 1, reps 1
	first := calculateNextSchedule(schedule, 3, now, params)
	if first.Interval != 1 || first.Repetitions != 1 {
		t.Fatalf("Expected interval=1 reps=1 after first review, got interval=%d reps=%d",
			first.Interval, first.Repetitions)
	}

	// Second good review: interval 6, reps 2
	second := calculateNextSchedule(first, 3, now, params)
	if second.Interval != 6 || second.Repetitions != 2 {
		t.Fatalf("Expected interval=6 reps=2 after second review, got interval=%d reps=%d",
			second.Interval, second.Repetitions)
	}

	// Third review, easy: interval round(6 * EF'), reps 3
	third := calculateNextSchedule(second, 5, now, params)
	wantInterval := int(float64(6)*third.EaseFactor + 0.5)
	if third.Interval != wantInterval || third.Repetitions != 3 {
		t.Fatalf("Expected interval=%d reps=3 after third review, got interval=%d reps=%d",
			wantInterval, third.Interval, third.Repetitions)
	}

	// Next review lands on a day boundary.
	if third.NextReviewAt == nil {
		t.Fatal("Expected non-nil NextReviewAt")
	}
	wantNext := domain.DayFloor(now).AddDate(0, 0, third.Interval)
	if !third.NextReviewAt.Equal(wantNext) {
		t.Errorf("Expected next review %v, got %v", wantNext, *third.NextReviewAt)
	}

	// The input schedules were never mutated.
	if schedule.Interval != 0 || schedule.Repetitions != 0 || schedule.EaseFactor != 2.5 {
		t.Error("Expected input schedule to be unchanged")
	}
}

func TestRepeatedPerfectReviewsGrowMonotonically(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	schedule := &domain.CardSchedule{
		UserID:      uuid.New(),
		CardID:      uuid.New(),
		EaseFactor:  2.5,
		Interval:    0,
		Repetitions: 0,
	}

	prevInterval := 0
	for i := 0; i < 20; i++ {
		schedule = calculateNextSchedule(schedule, 5, now, params)

		if schedule.Interval < prevInterval {
			t.Fatalf("Interval decreased from %d to %d at repetition %d",
				prevInterval, schedule.Interval, i+1)
		}
		if schedule.EaseFactor < params.MinEaseFactor {
			t.Fatalf("Ease factor %v dropped below floor at repetition %d",
				schedule.EaseFactor, i+1)
		}
		prevInterval = schedule.Interval
	}
}

func TestFailedRecallAlwaysResets(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()
	now := time.Now().UTC()

	priorStates := []*domain.CardSchedule{
		{UserID: uuid.New(), CardID: uuid.New(), EaseFactor: 2.5, Interval: 0, Repetitions: 0},
		{UserID: uuid.New(), CardID: uuid.New(), EaseFactor: 1.3, Interval: 1, Repetitions: 1},
		{UserID: uuid.New(), CardID: uuid.New(), EaseFactor: 2.8, Interval: 180, Repetitions: 9},
	}

	for _, prior := range priorStates {
		for q := 0; q < params.PassThreshold; q++ {
			next := calculateNextSchedule(prior, q, now, params)

			if next.Repetitions != 0 {
				t.Errorf("quality %d: expected repetitions 0, got %d", q, next.Repetitions)
			}
			if next.Interval != 1 {
				t.Errorf("quality %d: expected interval 1, got %d", q, next.Interval)
			}
		}
	}
}
