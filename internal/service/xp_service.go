package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/studyhall/mastery-api/internal/domain"
	"github.com/studyhall/mastery-api/internal/platform/logger"
	"github.com/studyhall/mastery-api/internal/store"
)

// XPAward is the result of an XP award: the delta, the new total, and
// whether the award crossed a level boundary.
type XPAward struct {
	XPGained  int64 `json:"xp_gained"`
	TotalXP   int64 `json:"total_xp"`
	OldLevel  int   `json:"old_level"`
	NewLevel  int   `json:"new_level"`
	LeveledUp bool  `json:"leveled_up"`
}

// XPService awards experience points and derives levels.
type XPService interface {
	// AwardXP adds a positive amount of XP to the user's total,
	// bootstrapping the progress record if absent, and reports whether the
	// award crossed a level boundary. An amount of zero or less is a no-op
	// returning the current state unchanged. XP is never reduced.
	AwardXP(ctx context.Context, userID uuid.UUID, amount int64) (*XPAward, error)
}

// xpServiceImpl implements the XPService interface.
type xpServiceImpl struct {
	progressStore store.UserProgressStore
	logger        *slog.Logger
}

// NewXPService creates a new XPService.
// It returns an error if any of the required dependencies are nil.
func NewXPService(progressStore store.UserProgressStore, logger *slog.Logger) (XPService, error) {
	if progressStore == nil {
		return nil, domain.NewValidationError("progressStore", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &xpServiceImpl{
		progressStore: progressStore,
		logger:        logger.With(slog.String("component", "xp_service")),
	}, nil
}

// AwardXP implements XPService.AwardXP
// The total is incremented by a single atomic upsert at the storage layer,
// so concurrent awards for the same user cannot lose updates. Level-up
// detection derives the old level from the returned total minus the amount,
// which is exact because the increment is atomic.
func (s *xpServiceImpl) AwardXP(
	ctx context.Context,
	userID uuid.UUID,
	amount int64,
) (*XPAward, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if amount <= 0 {
		total, err := s.currentTotal(ctx, userID)
		if err != nil {
			return nil, err
		}
		level := domain.LevelForXP(total)
		return &XPAward{
			XPGained:  0,
			TotalXP:   total,
			OldLevel:  level,
			NewLevel:  level,
			LeveledUp: false,
		}, nil
	}

	newTotal, err := s.progressStore.AddXP(ctx, userID, amount)
	if err != nil {
		log.Error("failed to add XP",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.Int64("amount", amount))
		return nil, err
	}

	oldLevel := domain.LevelForXP(newTotal - amount)
	newLevel := domain.LevelForXP(newTotal)

	award := &XPAward{
		XPGained:  amount,
		TotalXP:   newTotal,
		OldLevel:  oldLevel,
		NewLevel:  newLevel,
		LeveledUp: newLevel > oldLevel,
	}

	if award.LeveledUp {
		log.Info("user leveled up",
			slog.String("user_id", userID.String()),
			slog.Int("old_level", oldLevel),
			slog.Int("new_level", newLevel),
			slog.Int64("total_xp", newTotal))
	}

	return award, nil
}

// currentTotal reads the user's total XP, treating an absent progress record
// as zero.
func (s *xpServiceImpl) currentTotal(ctx context.Context, userID uuid.UUID) (int64, error) {
	progress, err := s.progressStore.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrProgressNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return progress.TotalXP, nil
}
