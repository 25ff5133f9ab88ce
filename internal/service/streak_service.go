package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/studyhall/mastery-api/internal/domain"
	"github.com/studyhall/mastery-api/internal/platform/logger"
	"github.com/studyhall/mastery-api/internal/store"
)

// StreakUpdate is the result of applying one activity signal to the streak
// state machine.
type StreakUpdate struct {
	CurrentStreak int            `json:"current_streak"`
	LongestStreak int            `json:"longest_streak"`
	Extended      bool           `json:"extended"` // A new active day was counted
	Reset         bool           `json:"reset"`    // A gap broke the previous streak
	Unlocked      []UnlockResult `json:"unlocked,omitempty"`
}

// StreakService maintains the consecutive-active-days streak.
type StreakService interface {
	// UpdateStreak applies an activity signal at the given time. Repeated
	// activity on the same calendar day is a no-op; the next day extends
	// the streak; any gap resets it to 1. This is the only path that
	// writes lastActiveDate. Streak achievement checks run after the
	// transaction commits and are best-effort.
	UpdateStreak(ctx context.Context, userID uuid.UUID, now time.Time) (*StreakUpdate, error)
}

// streakServiceImpl implements the StreakService interface.
type streakServiceImpl struct {
	db            *sql.DB
	progressStore store.UserProgressStore
	achievements  AchievementService
	logger        *slog.Logger
}

// NewStreakService creates a new StreakService.
// It returns an error if any of the required dependencies are nil.
func NewStreakService(
	db *sql.DB,
	progressStore store.UserProgressStore,
	achievements AchievementService,
	logger *slog.Logger,
) (StreakService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if progressStore == nil {
		return nil, domain.NewValidationError("progressStore", "cannot be nil", domain.ErrValidation)
	}
	if achievements == nil {
		return nil, domain.NewValidationError("achievements", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &streakServiceImpl{
		db:            db,
		progressStore: progressStore,
		achievements:  achievements,
		logger:        logger.With(slog.String("component", "streak_service")),
	}, nil
}

// UpdateStreak implements StreakService.UpdateStreak
// The read-compute-write runs under a row lock (SELECT FOR UPDATE inside a
// transaction) so two same-day activity signals cannot both extend the
// streak.
func (s *streakServiceImpl) UpdateStreak(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) (*StreakUpdate, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var update StreakUpdate
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.progressStore.WithTx(tx)

		progress, err := txStore.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		current, longest, extended, reset := nextStreak(
			progress.CurrentStreak,
			progress.LongestStreak,
			progress.LastActiveDate,
			now,
		)

		update = StreakUpdate{
			CurrentStreak: current,
			LongestStreak: longest,
			Extended:      extended,
			Reset:         reset,
		}

		if !extended && !reset {
			// Same-day repeat activity; nothing to write.
			return nil
		}

		return txStore.SetStreak(ctx, userID, current, longest, now)
	})
	if err != nil {
		log.Error("streak update transaction failed",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewStreakServiceError("update_streak", "failed to update streak", err)
	}

	if update.Extended || update.Reset {
		unlocked, err := s.achievements.CheckStreak(ctx, userID, update.CurrentStreak)
		if err != nil {
			// The streak itself is committed; unlock failures degrade only.
			log.Warn("streak achievement check failed",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()),
				slog.Int("current_streak", update.CurrentStreak))
		}
		update.Unlocked = unlocked
	}

	return &update, nil
}

// nextStreak is the streak state machine: given the stored streak state and
// an activity time, it returns the new state. Day arithmetic uses UTC
// calendar days.
//
//	gap of 0 days  -> unchanged
//	gap of 1 day   -> extend
//	anything else  -> reset to 1 (including clock regressions)
func nextStreak(
	current, longest int,
	lastActive *time.Time,
	now time.Time,
) (newCurrent, newLongest int, extended, reset bool) {
	switch {
	case lastActive == nil:
		newCurrent = 1
		extended = true
	case domain.DaysBetween(*lastActive, now) == 0:
		newCurrent = current
	case domain.DaysBetween(*lastActive, now) == 1:
		newCurrent = current + 1
		extended = true
	default:
		newCurrent = 1
		reset = true
	}

	newLongest = longest
	if newCurrent > newLongest {
		newLongest = newCurrent
	}
	return newCurrent, newLongest, extended, reset
}
