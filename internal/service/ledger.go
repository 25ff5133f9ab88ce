package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/studyhall/mastery-api/internal/domain"
	"github.com/studyhall/mastery-api/internal/platform/logger"
	"github.com/studyhall/mastery-api/internal/store"
)

// ProgressSummary is the read model for a user's overall progress.
type ProgressSummary struct {
	TotalXP        int64            `json:"total_xp"`
	Level          int              `json:"level"`
	LevelMinXP     int64            `json:"level_min_xp"`      // Total XP where the current level began
	NextLevelXP    int64            `json:"next_level_xp"`     // Total XP required for the next level
	CurrentStreak  int              `json:"current_streak"`
	LongestStreak  int              `json:"longest_streak"`
	LastActiveDate *time.Time       `json:"last_active_date,omitempty"`
	Counters       map[string]int64 `json:"counters"`
}

// ProgressLedger is the per-user counter ledger plus its read models. The
// write side (daily and cumulative increments) is best-effort bookkeeping
// for orchestrators; the read side serves the progress endpoints.
type ProgressLedger interface {
	// IncrementDaily adds amount to the user's daily metric for the given
	// day. Create-if-absent and increment happen as one atomic storage
	// operation.
	IncrementDaily(ctx context.Context, userID uuid.UUID, metric string, amount int64, day time.Time) error

	// DecrementDaily subtracts amount from the user's daily metric for the
	// given day, clamped at zero. Only used to undo explicit reversible
	// actions.
	DecrementDaily(ctx context.Context, userID uuid.UUID, metric string, amount int64, day time.Time) error

	// IncrementCumulative adds amount to one of the user's monotonic
	// lifetime counters. Counters are never decremented, so achievements
	// computed over them survive deletion of the source entities.
	IncrementCumulative(ctx context.Context, userID uuid.UUID, counter string, amount int64) error

	// Counters retrieves the user's cumulative counters.
	Counters(ctx context.Context, userID uuid.UUID) (map[string]int64, error)

	// Summary builds the user's overall progress view. A user with no
	// progress record yet gets the zero summary (level 1, no streak).
	Summary(ctx context.Context, userID uuid.UUID) (*ProgressSummary, error)

	// Daily retrieves the user's per-metric counts for one calendar day.
	Daily(ctx context.Context, userID uuid.UUID, day time.Time) (map[string]int64, error)
}

// progressLedgerImpl implements the ProgressLedger interface.
type progressLedgerImpl struct {
	progressStore store.UserProgressStore
	dailyStore    store.DailyProgressStore
	logger        *slog.Logger
}

// NewProgressLedger creates a new ProgressLedger.
// It returns an error if any of the required dependencies are nil.
func NewProgressLedger(
	progressStore store.UserProgressStore,
	dailyStore store.DailyProgressStore,
	logger *slog.Logger,
) (ProgressLedger, error) {
	if progressStore == nil {
		return nil, domain.NewValidationError("progressStore", "cannot be nil", domain.ErrValidation)
	}
	if dailyStore == nil {
		return nil, domain.NewValidationError("dailyStore", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &progressLedgerImpl{
		progressStore: progressStore,
		dailyStore:    dailyStore,
		logger:        logger.With(slog.String("component", "progress_ledger")),
	}, nil
}

// IncrementDaily implements ProgressLedger.IncrementDaily
func (s *progressLedgerImpl) IncrementDaily(
	ctx context.Context,
	userID uuid.UUID,
	metric string,
	amount int64,
	day time.Time,
) error {
	if err := domain.ValidateMetric(metric); err != nil {
		return err
	}
	return s.dailyStore.Increment(ctx, userID, metric, amount, day)
}

// DecrementDaily implements ProgressLedger.DecrementDaily
func (s *progressLedgerImpl) DecrementDaily(
	ctx context.Context,
	userID uuid.UUID,
	metric string,
	amount int64,
	day time.Time,
) error {
	if err := domain.ValidateMetric(metric); err != nil {
		return err
	}
	return s.dailyStore.Decrement(ctx, userID, metric, amount, day)
}

// IncrementCumulative implements ProgressLedger.IncrementCumulative
func (s *progressLedgerImpl) IncrementCumulative(
	ctx context.Context,
	userID uuid.UUID,
	counter string,
	amount int64,
) error {
	if err := domain.ValidateCounter(counter); err != nil {
		return err
	}
	return s.progressStore.IncrementCounter(ctx, userID, counter, amount)
}

// Counters implements ProgressLedger.Counters
func (s *progressLedgerImpl) Counters(
	ctx context.Context,
	userID uuid.UUID,
) (map[string]int64, error) {
	return s.progressStore.GetCounters(ctx, userID)
}

// Summary implements ProgressLedger.Summary
func (s *progressLedgerImpl) Summary(
	ctx context.Context,
	userID uuid.UUID,
) (*ProgressSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	progress, err := s.progressStore.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrProgressNotFound) {
			progress = domain.NewUserProgress(userID)
		} else {
			log.Error("failed to load user progress",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, err
		}
	}

	counters, err := s.progressStore.GetCounters(ctx, userID)
	if err != nil {
		log.Error("failed to load cumulative counters",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	level := progress.Level()
	return &ProgressSummary{
		TotalXP:        progress.TotalXP,
		Level:          level,
		LevelMinXP:     domain.XPForLevel(level),
		NextLevelXP:    domain.XPForLevel(level + 1),
		CurrentStreak:  progress.CurrentStreak,
		LongestStreak:  progress.LongestStreak,
		LastActiveDate: progress.LastActiveDate,
		Counters:       counters,
	}, nil
}

// Daily implements ProgressLedger.Daily
func (s *progressLedgerImpl) Daily(
	ctx context.Context,
	userID uuid.UUID,
	day time.Time,
) (map[string]int64, error) {
	return s.dailyStore.GetDay(ctx, userID, day)
}
