package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/studyhall/mastery-api/internal/catalog"
	"github.com/studyhall/mastery-api/internal/domain"
	"github.com/studyhall/mastery-api/internal/platform/logger"
	"github.com/studyhall/mastery-api/internal/store"
)

// UnlockResult reports the outcome of one unlock attempt.
type UnlockResult struct {
	Key       string                 `json:"key"`
	Title     string                 `json:"title"`
	Tier      domain.AchievementTier `json:"tier"`
	Unlocked  bool                   `json:"unlocked"`
	XPAwarded int                    `json:"xp_awarded"`
}

// AchievementService evaluates unlock conditions against the static catalog
// and records unlocks exactly once per (user, achievement).
type AchievementService interface {
	// SyncCatalog upserts the static catalog into storage. Run once at
	// process start so every key the engine can unlock exists for
	// reporting joins before any request is served.
	SyncCatalog(ctx context.Context) error

	// CheckAndUnlock attempts to unlock a single achievement by key. The
	// storage uniqueness constraint is the source of truth for "already
	// unlocked": a duplicate attempt returns Unlocked=false with no XP,
	// never an error. An unknown key is a data-integrity warning, also
	// Unlocked=false.
	CheckAndUnlock(ctx context.Context, userID uuid.UUID, key string) (*UnlockResult, error)

	// CheckStreak unlocks every streak achievement whose requirement the
	// given streak length satisfies. Returns the newly unlocked ones.
	CheckStreak(ctx context.Context, userID uuid.UUID, currentStreak int) ([]UnlockResult, error)

	// CheckCumulative unlocks every review or creation achievement reading
	// the given cumulative counter whose requirement the value satisfies.
	CheckCumulative(ctx context.Context, userID uuid.UUID, counter string, value int64) ([]UnlockResult, error)

	// CheckLevel unlocks every level achievement the given level satisfies.
	CheckLevel(ctx context.Context, userID uuid.UUID, level int) ([]UnlockResult, error)

	// CheckCollection unlocks collection achievements against a live count
	// supplied by the caller. Collection achievements are the documented
	// current-state exception: the count reflects what exists now, not what
	// was ever created.
	CheckCollection(ctx context.Context, userID uuid.UUID, counter string, liveCount int64) ([]UnlockResult, error)

	// ListUnlocked retrieves the user's unlock records, most recent first.
	ListUnlocked(ctx context.Context, userID uuid.UUID) ([]*domain.UserAchievement, error)

	// Catalog returns the injected registry for read-only display joins.
	Catalog() *catalog.Registry
}

// achievementServiceImpl implements the AchievementService interface.
type achievementServiceImpl struct {
	registry         *catalog.Registry
	achievementStore store.AchievementStore
	xpService        XPService
	logger           *slog.Logger
}

// NewAchievementService creates a new AchievementService.
// It returns an error if any of the required dependencies are nil.
func NewAchievementService(
	registry *catalog.Registry,
	achievementStore store.AchievementStore,
	xpService XPService,
	logger *slog.Logger,
) (AchievementService, error) {
	if registry == nil {
		return nil, domain.NewValidationError("registry", "cannot be nil", domain.ErrValidation)
	}
	if achievementStore == nil {
		return nil, domain.NewValidationError("achievementStore", "cannot be nil", domain.ErrValidation)
	}
	if xpService == nil {
		return nil, domain.NewValidationError("xpService", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &achievementServiceImpl{
		registry:         registry,
		achievementStore: achievementStore,
		xpService:        xpService,
		logger:           logger.With(slog.String("component", "achievement_service")),
	}, nil
}

// SyncCatalog implements AchievementService.SyncCatalog
func (s *achievementServiceImpl) SyncCatalog(ctx context.Context) error {
	return s.achievementStore.SyncDefinitions(ctx, s.registry.All())
}

// Catalog implements AchievementService.Catalog
func (s *achievementServiceImpl) Catalog() *catalog.Registry {
	return s.registry
}

// CheckAndUnlock implements AchievementService.CheckAndUnlock
func (s *achievementServiceImpl) CheckAndUnlock(
	ctx context.Context,
	userID uuid.UUID,
	key string,
) (*UnlockResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	def, ok := s.registry.Get(key)
	if !ok {
		// A key the binary does not know is data drift, not a caller error.
		log.Warn("unlock requested for unknown achievement key",
			slog.String("achievement_key", key),
			slog.String("user_id", userID.String()))
		return &UnlockResult{Key: key, Unlocked: false}, nil
	}

	result := &UnlockResult{
		Key:   def.Key,
		Title: def.Title,
		Tier:  def.Tier,
	}

	unlock, err := domain.NewUserAchievement(userID, key)
	if err != nil {
		return nil, err
	}

	err = s.achievementStore.InsertUserAchievement(ctx, unlock)
	if err != nil {
		if errors.Is(err, store.ErrAchievementUnlocked) {
			return result, nil
		}
		log.Error("failed to record achievement unlock",
			slog.String("error", err.Error()),
			slog.String("achievement_key", key),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	result.Unlocked = true

	// The XP reward is coupled to the first unlock only. Reward XP does not
	// re-run level checks; level achievements are evaluated on the next
	// ordinary award.
	if def.XPReward > 0 {
		if _, err := s.xpService.AwardXP(ctx, userID, int64(def.XPReward)); err != nil {
			log.Error("failed to award achievement XP",
				slog.String("error", err.Error()),
				slog.String("achievement_key", key),
				slog.String("user_id", userID.String()))
		} else {
			result.XPAwarded = def.XPReward
		}
	}

	return result, nil
}

// CheckStreak implements AchievementService.CheckStreak
func (s *achievementServiceImpl) CheckStreak(
	ctx context.Context,
	userID uuid.UUID,
	currentStreak int,
) ([]UnlockResult, error) {
	defs := s.registry.ByCategory(domain.AchievementCategoryStreak)
	return s.unlockSatisfied(ctx, userID, defs, func(def domain.AchievementDefinition) bool {
		return int64(currentStreak) >= def.Requirement
	})
}

// CheckCumulative implements AchievementService.CheckCumulative
func (s *achievementServiceImpl) CheckCumulative(
	ctx context.Context,
	userID uuid.UUID,
	counter string,
	value int64,
) ([]UnlockResult, error) {
	review := s.registry.ByCategory(domain.AchievementCategoryReview)
	creation := s.registry.ByCategory(domain.AchievementCategoryCreation)
	defs := make([]domain.AchievementDefinition, 0, len(review)+len(creation))
	defs = append(defs, review...)
	defs = append(defs, creation...)
	return s.unlockSatisfied(ctx, userID, defs, func(def domain.AchievementDefinition) bool {
		return def.Counter == counter && value >= def.Requirement
	})
}

// CheckLevel implements AchievementService.CheckLevel
func (s *achievementServiceImpl) CheckLevel(
	ctx context.Context,
	userID uuid.UUID,
	level int,
) ([]UnlockResult, error) {
	defs := s.registry.ByCategory(domain.AchievementCategoryLevel)
	return s.unlockSatisfied(ctx, userID, defs, func(def domain.AchievementDefinition) bool {
		return int64(level) >= def.Requirement
	})
}

// CheckCollection implements AchievementService.CheckCollection
func (s *achievementServiceImpl) CheckCollection(
	ctx context.Context,
	userID uuid.UUID,
	counter string,
	liveCount int64,
) ([]UnlockResult, error) {
	defs := s.registry.ByCategory(domain.AchievementCategoryCollection)
	return s.unlockSatisfied(ctx, userID, defs, func(def domain.AchievementDefinition) bool {
		return def.Counter == counter && liveCount >= def.Requirement
	})
}

// ListUnlocked implements AchievementService.ListUnlocked
func (s *achievementServiceImpl) ListUnlocked(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.UserAchievement, error) {
	return s.achievementStore.ListUserAchievements(ctx, userID)
}

// unlockSatisfied runs CheckAndUnlock for every definition the predicate
// accepts and returns the newly unlocked ones. Individual failures abort
// the batch so the caller can classify the whole check as degraded.
func (s *achievementServiceImpl) unlockSatisfied(
	ctx context.Context,
	userID uuid.UUID,
	defs []domain.AchievementDefinition,
	satisfied func(domain.AchievementDefinition) bool,
) ([]UnlockResult, error) {
	var unlocked []UnlockResult
	for _, def := range defs {
		if !satisfied(def) {
			continue
		}

		result, err := s.CheckAndUnlock(ctx, userID, def.Key)
		if err != nil {
			return unlocked, err
		}
		if result.Unlocked {
			unlocked = append(unlocked, *result)
		}
	}
	return unlocked, nil
}
