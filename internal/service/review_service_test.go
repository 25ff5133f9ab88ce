package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/mastery-api/internal/domain"
	"github.com/studyhall/mastery-api/internal/domain/srs"
	"github.com/studyhall/mastery-api/internal/store"
)

func newTestReviewService(
	t *testing.T,
	scheduleStore store.CardScheduleStore,
	ledger ProgressLedger,
	xpService XPService,
	streakService StreakService,
	achievements AchievementService,
) ReviewService {
	t.Helper()

	svc, err := NewReviewService(
		scheduleStore,
		srs.NewDefaultService(),
		ledger,
		xpService,
		streakService,
		achievements,
		nil,
	)
	require.NoError(t, err)
	return svc
}

func TestSubmitReview(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()
	cardID := uuid.New()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	t.Run("first review lazily creates the schedule", func(t *testing.T) {
		t.Parallel()

		created := false
		var updated *domain.CardSchedule
		scheduleStore := &mockCardScheduleStore{
			getFn: func(ctx context.Context, uid, cid uuid.UUID) (*domain.CardSchedule, error) {
				return nil, store.ErrScheduleNotFound
			},
			createFn: func(ctx context.Context, schedule *domain.CardSchedule) error {
				created = true
				return nil
			},
			updateFn: func(ctx context.Context, schedule *domain.CardSchedule, expected time.Time) error {
				updated = schedule
				return nil
			},
		}
		svc := newTestReviewService(t, scheduleStore,
			&mockProgressLedger{}, &mockXPService{}, &mockStreakService{}, &mockAchievementService{})

		result, err := svc.SubmitReview(ctx, userID, cardID, domain.ReviewRatingGood, now)
		require.NoError(t, err)
		assert.True(t, created)
		require.NotNil(t, updated)
		assert.Equal(t, 1, result.Schedule.Repetitions)
		assert.Equal(t, 1, result.Schedule.Interval)
		assert.Empty(t, result.Degraded)
		require.NotNil(t, result.XP)
		assert.Equal(t, int64(XPPerReview), result.XP.XPGained)
	})

	t.Run("losing the creation race falls back to the winner's row", func(t *testing.T) {
		t.Parallel()

		existing, err := domain.NewCardSchedule(userID, cardID)
		require.NoError(t, err)

		firstGet := true
		scheduleStore := &mockCardScheduleStore{
			getFn: func(ctx context.Context, uid, cid uuid.UUID) (*domain.CardSchedule, error) {
				if firstGet {
					firstGet = false
					return nil, store.ErrScheduleNotFound
				}
				return existing, nil
			},
			createFn: func(ctx context.Context, schedule *domain.CardSchedule) error {
				return store.ErrDuplicate
			},
		}
		svc := newTestReviewService(t, scheduleStore,
			&mockProgressLedger{}, &mockXPService{}, &mockStreakService{}, &mockAchievementService{})

		result, err := svc.SubmitReview(ctx, userID, cardID, domain.ReviewRatingGood, now)
		require.NoError(t, err)
		assert.NotNil(t, result.Schedule)
	})

	t.Run("write-back conflict retries once then succeeds", func(t *testing.T) {
		t.Parallel()

		sched, err := domain.NewCardSchedule(userID, cardID)
		require.NoError(t, err)

		updateCalls := 0
		scheduleStore := &mockCardScheduleStore{
			getFn: func(ctx context.Context, uid, cid uuid.UUID) (*domain.CardSchedule, error) {
				return sched, nil
			},
			updateFn: func(ctx context.Context, schedule *domain.CardSchedule, expected time.Time) error {
				updateCalls++
				if updateCalls == 1 {
					return store.ErrConflict
				}
				return nil
			},
		}
		svc := newTestReviewService(t, scheduleStore,
			&mockProgressLedger{}, &mockXPService{}, &mockStreakService{}, &mockAchievementService{})

		_, err = svc.SubmitReview(ctx, userID, cardID, domain.ReviewRatingEasy, now)
		require.NoError(t, err)
		assert.Equal(t, 2, updateCalls)
	})

	t.Run("persistent conflict surfaces as typed error", func(t *testing.T) {
		t.Parallel()

		sched, err := domain.NewCardSchedule(userID, cardID)
		require.NoError(t, err)

		scheduleStore := &mockCardScheduleStore{
			getFn: func(ctx context.Context, uid, cid uuid.UUID) (*domain.CardSchedule, error) {
				return sched, nil
			},
			updateFn: func(ctx context.Context, schedule *domain.CardSchedule, expected time.Time) error {
				return store.ErrConflict
			},
		}
		svc := newTestReviewService(t, scheduleStore,
			&mockProgressLedger{}, &mockXPService{}, &mockStreakService{}, &mockAchievementService{})

		_, err = svc.SubmitReview(ctx, userID, cardID, domain.ReviewRatingGood, now)
		assert.ErrorIs(t, err, ErrReviewConflict)
	})

	t.Run("side effect failures degrade but the review succeeds", func(t *testing.T) {
		t.Parallel()

		sched, err := domain.NewCardSchedule(userID, cardID)
		require.NoError(t, err)

		scheduleStore := &mockCardScheduleStore{
			getFn: func(ctx context.Context, uid, cid uuid.UUID) (*domain.CardSchedule, error) {
				return sched, nil
			},
		}
		ledger := &mockProgressLedger{
			incrementDailyFn: func(ctx context.Context, uid uuid.UUID, metric string, amount int64, day time.Time) error {
				return assert.AnError
			},
			incrementCumulativeFn: func(ctx context.Context, uid uuid.UUID, counter string, amount int64) error {
				return assert.AnError
			},
		}
		xpService := &mockXPService{
			awardFn: func(ctx context.Context, uid uuid.UUID, amount int64) (*XPAward, error) {
				return nil, assert.AnError
			},
		}
		streakService := &mockStreakService{
			updateFn: func(ctx context.Context, uid uuid.UUID, at time.Time) (*StreakUpdate, error) {
				return nil, assert.AnError
			},
		}
		svc := newTestReviewService(t, scheduleStore, ledger, xpService, streakService, &mockAchievementService{})

		result, err := svc.SubmitReview(ctx, userID, cardID, domain.ReviewRatingGood, now)
		require.NoError(t, err)
		assert.NotNil(t, result.Schedule)
		assert.ElementsMatch(t,
			[]string{DegradedDailyCounter, DegradedCumulativeCounter, DegradedXP, DegradedStreak},
			result.Degraded)
	})

	t.Run("unlocks from streak and counters are merged", func(t *testing.T) {
		t.Parallel()

		sched, err := domain.NewCardSchedule(userID, cardID)
		require.NoError(t, err)

		scheduleStore := &mockCardScheduleStore{
			getFn: func(ctx context.Context, uid, cid uuid.UUID) (*domain.CardSchedule, error) {
				return sched, nil
			},
		}
		ledger := &mockProgressLedger{
			countersFn: func(ctx context.Context, uid uuid.UUID) (map[string]int64, error) {
				return map[string]int64{domain.CounterCardsReviewed: 100}, nil
			},
		}
		streakService := &mockStreakService{
			updateFn: func(ctx context.Context, uid uuid.UUID, at time.Time) (*StreakUpdate, error) {
				return &StreakUpdate{
					CurrentStreak: 3,
					LongestStreak: 3,
					Extended:      true,
					Unlocked:      []UnlockResult{{Key: "streak_3", Unlocked: true}},
				}, nil
			},
		}
		achievements := &mockAchievementService{
			checkCumulativeFn: func(ctx context.Context, uid uuid.UUID, counter string, value int64) ([]UnlockResult, error) {
				assert.Equal(t, domain.CounterCardsReviewed, counter)
				assert.Equal(t, int64(100), value)
				return []UnlockResult{{Key: "reviews_100", Unlocked: true}}, nil
			},
		}
		svc := newTestReviewService(t, scheduleStore, ledger, &mockXPService{}, streakService, achievements)

		result, err := svc.SubmitReview(ctx, userID, cardID, domain.ReviewRatingGood, now)
		require.NoError(t, err)

		keys := make([]string, 0, len(result.Unlocked))
		for _, u := range result.Unlocked {
			keys = append(keys, u.Key)
		}
		assert.ElementsMatch(t, []string{"streak_3", "reviews_100"}, keys)
	})

	t.Run("invalid rating is rejected before any write", func(t *testing.T) {
		t.Parallel()

		svc := newTestReviewService(t, &mockCardScheduleStore{},
			&mockProgressLedger{}, &mockXPService{}, &mockStreakService{}, &mockAchievementService{})

		_, err := svc.SubmitReview(ctx, userID, cardID, domain.ReviewRating("sideways"), now)
		assert.ErrorIs(t, err, domain.ErrInvalidRating)

		_, err = svc.SubmitReviewQuality(ctx, userID, cardID, 9, now)
		assert.ErrorIs(t, err, domain.ErrInvalidQuality)
	})
}
