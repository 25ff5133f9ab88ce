package api

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/studyhall/mastery-api/internal/catalog"
	"github.com/studyhall/mastery-api/internal/domain"
	"github.com/studyhall/mastery-api/internal/service"
	"github.com/studyhall/mastery-api/internal/store"
)

// Function-field mocks for the service interfaces the handlers depend on.

type mockReviewService struct {
	submitFn        func(ctx context.Context, userID, cardID uuid.UUID, rating domain.ReviewRating, now time.Time) (*service.ReviewResult, error)
	submitQualityFn func(ctx context.Context, userID, cardID uuid.UUID, quality int, now time.Time) (*service.ReviewResult, error)
	getScheduleFn   func(ctx context.Context, userID, cardID uuid.UUID) (*domain.CardSchedule, error)
	listDueFn       func(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]*domain.CardSchedule, error)
}

var _ service.ReviewService = (*mockReviewService)(nil)

func (m *mockReviewService) SubmitReview(
	ctx context.Context,
	userID, cardID uuid.UUID,
	rating domain.ReviewRating,
	now time.Time,
) (*service.ReviewResult, error) {
	if m.submitFn != nil {
		return m.submitFn(ctx, userID, cardID, rating, now)
	}
	quality, err := rating.Quality()
	if err != nil {
		return nil, err
	}
	return m.SubmitReviewQuality(ctx, userID, cardID, quality, now)
}

func (m *mockReviewService) SubmitReviewQuality(
	ctx context.Context,
	userID, cardID uuid.UUID,
	quality int,
	now time.Time,
) (*service.ReviewResult, error) {
	if m.submitQualityFn != nil {
		return m.submitQualityFn(ctx, userID, cardID, quality, now)
	}
	schedule, err := domain.NewCardSchedule(userID, cardID)
	if err != nil {
		return nil, err
	}
	return &service.ReviewResult{Schedule: schedule}, nil
}

func (m *mockReviewService) GetSchedule(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.CardSchedule, error) {
	if m.getScheduleFn != nil {
		return m.getScheduleFn(ctx, userID, cardID)
	}
	return nil, store.ErrScheduleNotFound
}

func (m *mockReviewService) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.CardSchedule, error) {
	if m.listDueFn != nil {
		return m.listDueFn(ctx, userID, now, limit)
	}
	return nil, nil
}

type mockProgressLedger struct {
	summaryFn func(ctx context.Context, userID uuid.UUID) (*service.ProgressSummary, error)
	dailyFn   func(ctx context.Context, userID uuid.UUID, day time.Time) (map[string]int64, error)
}

var _ service.ProgressLedger = (*mockProgressLedger)(nil)

func (m *mockProgressLedger) IncrementDaily(
	ctx context.Context,
	userID uuid.UUID,
	metric string,
	amount int64,
	day time.Time,
) error {
	return nil
}

func (m *mockProgressLedger) DecrementDaily(
	ctx context.Context,
	userID uuid.UUID,
	metric string,
	amount int64,
	day time.Time,
) error {
	return nil
}

func (m *mockProgressLedger) IncrementCumulative(
	ctx context.Context,
	userID uuid.UUID,
	counter string,
	amount int64,
) error {
	return nil
}

func (m *mockProgressLedger) Counters(ctx context.Context, userID uuid.UUID) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (m *mockProgressLedger) Summary(
	ctx context.Context,
	userID uuid.UUID,
) (*service.ProgressSummary, error) {
	if m.summaryFn != nil {
		return m.summaryFn(ctx, userID)
	}
	return &service.ProgressSummary{Level: 1, Counters: map[string]int64{}}, nil
}

func (m *mockProgressLedger) Daily(
	ctx context.Context,
	userID uuid.UUID,
	day time.Time,
) (map[string]int64, error) {
	if m.dailyFn != nil {
		return m.dailyFn(ctx, userID, day)
	}
	return map[string]int64{}, nil
}

type mockActivityService struct {
	recordFn func(ctx context.Context, userID uuid.UUID, action string, amount int64, undo bool, liveCount *int64, now time.Time) (*service.ActivityResult, error)
}

var _ service.ActivityService = (*mockActivityService)(nil)

func (m *mockActivityService) RecordActivity(
	ctx context.Context,
	userID uuid.UUID,
	action string,
	amount int64,
	undo bool,
	liveCount *int64,
	now time.Time,
) (*service.ActivityResult, error) {
	if m.recordFn != nil {
		return m.recordFn(ctx, userID, action, amount, undo, liveCount, now)
	}
	return &service.ActivityResult{Action: action, Amount: amount}, nil
}

type mockAchievementService struct {
	registry       *catalog.Registry
	listUnlockedFn func(ctx context.Context, userID uuid.UUID) ([]*domain.UserAchievement, error)
}

var _ service.AchievementService = (*mockAchievementService)(nil)

func (m *mockAchievementService) SyncCatalog(ctx context.Context) error { return nil }

func (m *mockAchievementService) CheckAndUnlock(
	ctx context.Context,
	userID uuid.UUID,
	key string,
) (*service.UnlockResult, error) {
	return &service.UnlockResult{Key: key}, nil
}

func (m *mockAchievementService) CheckStreak(
	ctx context.Context,
	userID uuid.UUID,
	currentStreak int,
) ([]service.UnlockResult, error) {
	return nil, nil
}

func (m *mockAchievementService) CheckCumulative(
	ctx context.Context,
	userID uuid.UUID,
	counter string,
	value int64,
) ([]service.UnlockResult, error) {
	return nil, nil
}

func (m *mockAchievementService) CheckLevel(
	ctx context.Context,
	userID uuid.UUID,
	level int,
) ([]service.UnlockResult, error) {
	return nil, nil
}

func (m *mockAchievementService) CheckCollection(
	ctx context.Context,
	userID uuid.UUID,
	counter string,
	liveCount int64,
) ([]service.UnlockResult, error) {
	return nil, nil
}

func (m *mockAchievementService) ListUnlocked(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.UserAchievement, error) {
	if m.listUnlockedFn != nil {
		return m.listUnlockedFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockAchievementService) Catalog() *catalog.Registry {
	return m.registry
}
