package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AchievementCategory groups achievements by the state they are computed
// from. Cumulative categories (streak, review, creation, level) read
// monotonic counters and can never regress when source entities are
// deleted. The collection category is the one current-state exception: it
// is computed from a live count supplied by the caller and is cosmetic.
type AchievementCategory string

const (
	AchievementCategoryStreak     AchievementCategory = "streak"
	AchievementCategoryReview     AchievementCategory = "review"
	AchievementCategoryCreation   AchievementCategory = "creation"
	AchievementCategoryLevel      AchievementCategory = "level"
	AchievementCategoryCollection AchievementCategory = "collection"
)

// AchievementTier is a cosmetic rarity classification. It plays no part in
// unlock logic.
type AchievementTier string

const (
	AchievementTierBronze   AchievementTier = "bronze"
	AchievementTierSilver   AchievementTier = "silver"
	AchievementTierGold     AchievementTier = "gold"
	AchievementTierPlatinum AchievementTier = "platinum"
)

// Common validation errors for achievement types
var (
	ErrEmptyAchievementKey    = errors.New("achievement key cannot be empty")
	ErrEmptyAchievementUserID = errors.New("user achievement user ID cannot be empty")
	ErrInvalidCategory        = errors.New("invalid achievement category")
	ErrInvalidTier            = errors.New("invalid achievement tier")
)

// AchievementDefinition is a static catalog entry describing one unlockable
// achievement. Definitions are read-only input to the engine, versioned
// with the binary, and never user data. Counter names the threshold applies
// to (for cumulative categories) follow the cumulative counter constants.
type AchievementDefinition struct {
	Key         string              `json:"key"` // Unique, stable identifier
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Category    AchievementCategory `json:"category"`
	Tier        AchievementTier     `json:"tier"`
	Counter     string              `json:"counter,omitempty"`     // Cumulative counter the requirement reads, if any
	Requirement int64               `json:"requirement,omitempty"` // Threshold; 0 means no numeric threshold
	XPReward    int                 `json:"xp_reward"`
}

// Validate checks if the definition has valid data.
func (d *AchievementDefinition) Validate() error {
	if d.Key == "" {
		return ErrEmptyAchievementKey
	}

	switch d.Category {
	case AchievementCategoryStreak,
		AchievementCategoryReview,
		AchievementCategoryCreation,
		AchievementCategoryLevel,
		AchievementCategoryCollection:
	default:
		return ErrInvalidCategory
	}

	switch d.Tier {
	case AchievementTierBronze,
		AchievementTierSilver,
		AchievementTierGold,
		AchievementTierPlatinum:
	default:
		return ErrInvalidTier
	}

	return nil
}

// UserAchievement records that a user unlocked an achievement. At most one
// exists per (user, achievement key) - the storage layer enforces the
// uniqueness - and it is immutable after creation; UnlockedAt is the unlock
// time.
type UserAchievement struct {
	UserID         uuid.UUID `json:"user_id"`
	AchievementKey string    `json:"achievement_key"`
	UnlockedAt     time.Time `json:"unlocked_at"`
}

// NewUserAchievement creates an unlock record stamped with the current time.
func NewUserAchievement(userID uuid.UUID, key string) (*UserAchievement, error) {
	if userID == uuid.Nil {
		return nil, ErrEmptyAchievementUserID
	}
	if key == "" {
		return nil, ErrEmptyAchievementKey
	}

	return &UserAchievement{
		UserID:         userID,
		AchievementKey: key,
		UnlockedAt:     time.Now().UTC(),
	}, nil
}
