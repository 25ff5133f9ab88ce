package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/studyhall/mastery-api/internal/domain"
)

// AchievementStore defines the interface for achievement persistence. The
// unique key on (user_id, achievement_key) is the storage-level guard that
// makes unlocks exactly-once: concurrent unlock attempts resolve to one
// winner and one ErrAchievementUnlocked.
type AchievementStore interface {
	// SyncDefinitions upserts the static catalog into storage. Run once at
	// process start; the persisted rows exist for reporting joins and are
	// never read on the unlock hot path.
	SyncDefinitions(ctx context.Context, definitions []domain.AchievementDefinition) error

	// InsertUserAchievement creates the unlock record via insert-if-absent
	// under the unique key. Returns ErrAchievementUnlocked if the user
	// already has the achievement.
	InsertUserAchievement(ctx context.Context, unlock *domain.UserAchievement) error

	// ListUserAchievements retrieves all unlock records for a user, most
	// recent first.
	ListUserAchievements(ctx context.Context, userID uuid.UUID) ([]*domain.UserAchievement, error)

	// WithTx returns a new AchievementStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) AchievementStore
}
