package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/studyhall/mastery-api/internal/catalog"
	"github.com/studyhall/mastery-api/internal/domain"
	"github.com/studyhall/mastery-api/internal/store"
)

// Function-field mocks for the store and service interfaces. Tests configure
// only the calls they expect; unconfigured calls return zero values.

type mockUserProgressStore struct {
	getFn              func(ctx context.Context, userID uuid.UUID) (*domain.UserProgress, error)
	getForUpdateFn     func(ctx context.Context, userID uuid.UUID) (*domain.UserProgress, error)
	addXPFn            func(ctx context.Context, userID uuid.UUID, amount int64) (int64, error)
	setStreakFn        func(ctx context.Context, userID uuid.UUID, current, longest int, lastActive time.Time) error
	incrementCounterFn func(ctx context.Context, userID uuid.UUID, counter string, amount int64) error
	getCountersFn      func(ctx context.Context, userID uuid.UUID) (map[string]int64, error)
}

var _ store.UserProgressStore = (*mockUserProgressStore)(nil)

func (m *mockUserProgressStore) Get(ctx context.Context, userID uuid.UUID) (*domain.UserProgress, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return nil, store.ErrProgressNotFound
}

func (m *mockUserProgressStore) GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.UserProgress, error) {
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, userID)
	}
	return domain.NewUserProgress(userID), nil
}

func (m *mockUserProgressStore) AddXP(ctx context.Context, userID uuid.UUID, amount int64) (int64, error) {
	if m.addXPFn != nil {
		return m.addXPFn(ctx, userID, amount)
	}
	return amount, nil
}

func (m *mockUserProgressStore) SetStreak(
	ctx context.Context,
	userID uuid.UUID,
	current, longest int,
	lastActive time.Time,
) error {
	if m.setStreakFn != nil {
		return m.setStreakFn(ctx, userID, current, longest, lastActive)
	}
	return nil
}

func (m *mockUserProgressStore) IncrementCounter(
	ctx context.Context,
	userID uuid.UUID,
	counter string,
	amount int64,
) error {
	if m.incrementCounterFn != nil {
		return m.incrementCounterFn(ctx, userID, counter, amount)
	}
	return nil
}

func (m *mockUserProgressStore) GetCounters(ctx context.Context, userID uuid.UUID) (map[string]int64, error) {
	if m.getCountersFn != nil {
		return m.getCountersFn(ctx, userID)
	}
	return map[string]int64{}, nil
}

func (m *mockUserProgressStore) WithTx(tx *sql.Tx) store.UserProgressStore { return m }

type mockDailyProgressStore struct {
	incrementFn func(ctx context.Context, userID uuid.UUID, metric string, amount int64, day time.Time) error
	decrementFn func(ctx context.Context, userID uuid.UUID, metric string, amount int64, day time.Time) error
	getDayFn    func(ctx context.Context, userID uuid.UUID, day time.Time) (map[string]int64, error)
}

var _ store.DailyProgressStore = (*mockDailyProgressStore)(nil)

func (m *mockDailyProgressStore) Increment(
	ctx context.Context,
	userID uuid.UUID,
	metric string,
	amount int64,
	day time.Time,
) error {
	if m.incrementFn != nil {
		return m.incrementFn(ctx, userID, metric, amount, day)
	}
	return nil
}

func (m *mockDailyProgressStore) Decrement(
	ctx context.Context,
	userID uuid.UUID,
	metric string,
	amount int64,
	day time.Time,
) error {
	if m.decrementFn != nil {
		return m.decrementFn(ctx, userID, metric, amount, day)
	}
	return nil
}

func (m *mockDailyProgressStore) GetDay(
	ctx context.Context,
	userID uuid.UUID,
	day time.Time,
) (map[string]int64, error) {
	if m.getDayFn != nil {
		return m.getDayFn(ctx, userID, day)
	}
	return map[string]int64{}, nil
}

func (m *mockDailyProgressStore) WithTx(tx *sql.Tx) store.DailyProgressStore { return m }

type mockAchievementStore struct {
	syncFn   func(ctx context.Context, definitions []domain.AchievementDefinition) error
	insertFn func(ctx context.Context, unlock *domain.UserAchievement) error
	listFn   func(ctx context.Context, userID uuid.UUID) ([]*domain.UserAchievement, error)
}

var _ store.AchievementStore = (*mockAchievementStore)(nil)

func (m *mockAchievementStore) SyncDefinitions(
	ctx context.Context,
	definitions []domain.AchievementDefinition,
) error {
	if m.syncFn != nil {
		return m.syncFn(ctx, definitions)
	}
	return nil
}

func (m *mockAchievementStore) InsertUserAchievement(
	ctx context.Context,
	unlock *domain.UserAchievement,
) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, unlock)
	}
	return nil
}

func (m *mockAchievementStore) ListUserAchievements(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.UserAchievement, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockAchievementStore) WithTx(tx *sql.Tx) store.AchievementStore { return m }

type mockCardScheduleStore struct {
	createFn  func(ctx context.Context, schedule *domain.CardSchedule) error
	getFn     func(ctx context.Context, userID, cardID uuid.UUID) (*domain.CardSchedule, error)
	updateFn  func(ctx context.Context, schedule *domain.CardSchedule, expectedUpdatedAt time.Time) error
	listDueFn func(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]*domain.CardSchedule, error)
}

var _ store.CardScheduleStore = (*mockCardScheduleStore)(nil)

func (m *mockCardScheduleStore) Create(ctx context.Context, schedule *domain.CardSchedule) error {
	if m.createFn != nil {
		return m.createFn(ctx, schedule)
	}
	return nil
}

func (m *mockCardScheduleStore) Get(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.CardSchedule, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID, cardID)
	}
	return nil, store.ErrScheduleNotFound
}

func (m *mockCardScheduleStore) Update(
	ctx context.Context,
	schedule *domain.CardSchedule,
	expectedUpdatedAt time.Time,
) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, schedule, expectedUpdatedAt)
	}
	return nil
}

func (m *mockCardScheduleStore) ListDue(
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

func (m *mockCardScheduleStore) WithTx(tx *sql.Tx) store.CardScheduleStore { return m }

type mockXPService struct {
	awardFn func(ctx context.Context, userID uuid.UUID, amount int64) (*XPAward, error)
}

var _ XPService = (*mockXPService)(nil)

func (m *mockXPService) AwardXP(ctx context.Context, userID uuid.UUID, amount int64) (*XPAward, error) {
	if m.awardFn != nil {
		return m.awardFn(ctx, userID, amount)
	}
	return &XPAward{XPGained: amount, TotalXP: amount, OldLevel: 1, NewLevel: 1}, nil
}

type mockStreakService struct {
	updateFn func(ctx context.Context, userID uuid.UUID, now time.Time) (*StreakUpdate, error)
}

var _ StreakService = (*mockStreakService)(nil)

func (m *mockStreakService) UpdateStreak(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) (*StreakUpdate, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, now)
	}
	return &StreakUpdate{CurrentStreak: 1, LongestStreak: 1, Extended: true}, nil
}

type mockProgressLedger struct {
	incrementDailyFn      func(ctx context.Context, userID uuid.UUID, metric string, amount int64, day time.Time) error
	decrementDailyFn      func(ctx context.Context, userID uuid.UUID, metric string, amount int64, day time.Time) error
	incrementCumulativeFn func(ctx context.Context, userID uuid.UUID, counter string, amount int64) error
	countersFn            func(ctx context.Context, userID uuid.UUID) (map[string]int64, error)
	summaryFn             func(ctx context.Context, userID uuid.UUID) (*ProgressSummary, error)
	dailyFn               func(ctx context.Context, userID uuid.UUID, day time.Time) (map[string]int64, error)
}

var _ ProgressLedger = (*mockProgressLedger)(nil)

func (m *mockProgressLedger) IncrementDaily(
	ctx context.Context,
	userID uuid.UUID,
	metric string,
	amount int64,
	day time.Time,
) error {
	if m.incrementDailyFn != nil {
		return m.incrementDailyFn(ctx, userID, metric, amount, day)
	}
	return nil
}

func (m *mockProgressLedger) DecrementDaily(
	ctx context.Context,
	userID uuid.UUID,
	metric string,
	amount int64,
	day time.Time,
) error {
	if m.decrementDailyFn != nil {
		return m.decrementDailyFn(ctx, userID, metric, amount, day)
	}
	return nil
}

func (m *mockProgressLedger) IncrementCumulative(
	ctx context.Context,
	userID uuid.UUID,
	counter string,
	amount int64,
) error {
	if m.incrementCumulativeFn != nil {
		return m.incrementCumulativeFn(ctx, userID, counter, amount)
	}
	return nil
}

func (m *mockProgressLedger) Counters(ctx context.Context, userID uuid.UUID) (map[string]int64, error) {
	if m.countersFn != nil {
		return m.countersFn(ctx, userID)
	}
	return map[string]int64{}, nil
}

func (m *mockProgressLedger) Summary(ctx context.Context, userID uuid.UUID) (*ProgressSummary, error) {
	if m.summaryFn != nil {
		return m.summaryFn(ctx, userID)
	}
	return &ProgressSummary{Level: 1, Counters: map[string]int64{}}, nil
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

type mockAchievementService struct {
	syncFn            func(ctx context.Context) error
	checkAndUnlockFn  func(ctx context.Context, userID uuid.UUID, key string) (*UnlockResult, error)
	checkStreakFn     func(ctx context.Context, userID uuid.UUID, currentStreak int) ([]UnlockResult, error)
	checkCumulativeFn func(ctx context.Context, userID uuid.UUID, counter string, value int64) ([]UnlockResult, error)
	checkLevelFn      func(ctx context.Context, userID uuid.UUID, level int) ([]UnlockResult, error)
	checkCollectionFn func(ctx context.Context, userID uuid.UUID, counter string, liveCount int64) ([]UnlockResult, error)
	listUnlockedFn    func(ctx context.Context, userID uuid.UUID) ([]*domain.UserAchievement, error)
	registry          *catalog.Registry
}

var _ AchievementService = (*mockAchievementService)(nil)

func (m *mockAchievementService) SyncCatalog(ctx context.Context) error {
	if m.syncFn != nil {
		return m.syncFn(ctx)
	}
	return nil
}

func (m *mockAchievementService) CheckAndUnlock(
	ctx context.Context,
	userID uuid.UUID,
	key string,
) (*UnlockResult, error) {
	if m.checkAndUnlockFn != nil {
		return m.checkAndUnlockFn(ctx, userID, key)
	}
	return &UnlockResult{Key: key}, nil
}

func (m *mockAchievementService) CheckStreak(
	ctx context.Context,
	userID uuid.UUID,
	currentStreak int,
) ([]UnlockResult, error) {
	if m.checkStreakFn != nil {
		return m.checkStreakFn(ctx, userID, currentStreak)
	}
	return nil, nil
}

func (m *mockAchievementService) CheckCumulative(
	ctx context.Context,
	userID uuid.UUID,
	counter string,
	value int64,
) ([]UnlockResult, error) {
	if m.checkCumulativeFn != nil {
		return m.checkCumulativeFn(ctx, userID, counter, value)
	}
	return nil, nil
}

func (m *mockAchievementService) CheckLevel(
	ctx context.Context,
	userID uuid.UUID,
	level int,
) ([]UnlockResult, error) {
	if m.checkLevelFn != nil {
		return m.checkLevelFn(ctx, userID, level)
	}
	return nil, nil
}

func (m *mockAchievementService) CheckCollection(
	ctx context.Context,
	userID uuid.UUID,
	counter string,
	liveCount int64,
) ([]UnlockResult, error) {
	if m.checkCollectionFn != nil {
		return m.checkCollectionFn(ctx, userID, counter, liveCount)
	}
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
