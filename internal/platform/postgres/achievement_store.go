package postgres

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

// PostgresAchievementStore implements the store.AchievementStore interface
// using a PostgreSQL database as the storage backend.
//
// The primary key on user_achievements (user_id, achievement_key) is the
// source of truth for "already unlocked": InsertUserAchievement races
// resolve at the constraint, not in application logic.
type PostgresAchievementStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAchievementStore creates a new PostgreSQL implementation of
// the AchievementStore interface. If logger is nil, a default logger will
// be used.
func NewPostgresAchievementStore(db store.DBTX, logger *slog.Logger) *PostgresAchievementStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAchievementStore{
		db:     db,
		logger: logger.With(slog.String("component", "achievement_store")),
	}
}

// Ensure PostgresAchievementStore implements store.AchievementStore interface
var _ store.AchievementStore = (*PostgresAchievementStore)(nil)

// SyncDefinitions implements store.AchievementStore.SyncDefinitions
// It upserts every static definition so the persisted catalog matches the
// binary's. Run at startup; a failure here fails the process rather than
// surfacing later inside the unlock path.
func (s *PostgresAchievementStore) SyncDefinitions(
	ctx context.Context,
	definitions []domain.AchievementDefinition,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO achievements (key, title, description, category, tier, counter, requirement, xp_reward, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (key) DO UPDATE
		SET title = EXCLUDED.title,
		    description = EXCLUDED.description,
		    category = EXCLUDED.category,
		    tier = EXCLUDED.tier,
		    counter = EXCLUDED.counter,
		    requirement = EXCLUDED.requirement,
		    xp_reward = EXCLUDED.xp_reward,
		    updated_at = EXCLUDED.updated_at
	`

	now := time.Now().UTC()
	for i := range definitions {
		def := definitions[i]
		if err := def.Validate(); err != nil {
			return err
		}

		_, err := s.db.ExecContext(
			ctx,
			query,
			def.Key,
			def.Title,
			def.Description,
			def.Category,
			def.Tier,
			def.Counter,
			def.Requirement,
			def.XPReward,
			now,
		)
		if err != nil {
			log.Error("failed to sync achievement definition",
				slog.String("error", err.Error()),
				slog.String("key", def.Key))
			return err
		}
	}

	log.Info("achievement catalog synced",
		slog.Int("definitions", len(definitions)))
	return nil
}

// InsertUserAchievement implements store.AchievementStore.InsertUserAchievement
// Insert-if-absent under the unique key: exactly one of any set of
// concurrent attempts wins; the rest get store.ErrAchievementUnlocked.
func (s *PostgresAchievementStore) InsertUserAchievement(
	ctx context.Context,
	unlock *domain.UserAchievement,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO user_achievements (user_id, achievement_key, unlocked_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, achievement_key) DO NOTHING
	`

	result, err := s.db.ExecContext(ctx, query, unlock.UserID, unlock.AchievementKey, unlock.UnlockedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("unlock references unknown achievement key",
				slog.String("user_id", unlock.UserID.String()),
				slog.String("achievement_key", unlock.AchievementKey))
			return store.ErrAchievementNotFound
		}

		log.Error("failed to insert user achievement",
			slog.String("error", err.Error()),
			slog.String("user_id", unlock.UserID.String()),
			slog.String("achievement_key", unlock.AchievementKey))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		log.Debug("achievement already unlocked",
			slog.String("user_id", unlock.UserID.String()),
			slog.String("achievement_key", unlock.AchievementKey))
		return store.ErrAchievementUnlocked
	}

	log.Info("achievement unlocked",
		slog.String("user_id", unlock.UserID.String()),
		slog.String("achievement_key", unlock.AchievementKey))
	return nil
}

// ListUserAchievements implements store.AchievementStore.ListUserAchievements
func (s *PostgresAchievementStore) ListUserAchievements(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.UserAchievement, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, achievement_key, unlocked_at
		FROM user_achievements
		WHERE user_id = $1
		ORDER BY unlocked_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query user achievements",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	unlocks := []*domain.UserAchievement{}
	for rows.Next() {
		var unlock domain.UserAchievement
		if err := rows.Scan(&unlock.UserID, &unlock.AchievementKey, &unlock.UnlockedAt); err != nil {
			log.Error("failed to scan user achievement row",
				slog.String("error", err.Error()))
			return nil, err
		}
		unlocks = append(unlocks, &unlock)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return unlocks, nil
}

// WithTx implements store.AchievementStore.WithTx
func (s *PostgresAchievementStore) WithTx(tx *sql.Tx) store.AchievementStore {
	return &PostgresAchievementStore{
		db:     tx,
		logger: s.logger,
	}
}
