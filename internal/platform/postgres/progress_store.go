package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/studyhall/mastery-api/internal/domain"
	"github.com/studyhall/mastery-api/internal/platform/logger"
	"github.com/studyhall/mastery-api/internal/store"
)

// PostgresUserProgressStore implements the store.UserProgressStore interface
// using a PostgreSQL database as the storage backend.
//
// XP and cumulative counter increments are single INSERT ... ON CONFLICT DO
// UPDATE statements so that create-if-absent and increment happen as one
// atomic storage operation; concurrent first activities cannot lose an
// increment to a read-modify-write race.
type PostgresUserProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserProgressStore creates a new PostgreSQL implementation of
// the UserProgressStore interface. If logger is nil, a default logger will
// be used.
func NewPostgresUserProgressStore(db store.DBTX, logger *slog.Logger) *PostgresUserProgressStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_progress_store")),
	}
}

// Ensure PostgresUserProgressStore implements store.UserProgressStore interface
var _ store.UserProgressStore = (*PostgresUserProgressStore)(nil)

// Get implements store.UserProgressStore.Get
// Returns store.ErrProgressNotFound if the user has no progress record yet.
func (s *PostgresUserProgressStore) Get(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.UserProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, total_xp, current_streak, longest_streak,
		       last_active_date, created_at, updated_at
		FROM user_progress
		WHERE user_id = $1
	`

	progress, err := scanProgress(s.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user progress not found",
				slog.String("user_id", userID.String()))
			return nil, store.ErrProgressNotFound
		}
		log.Error("failed to get user progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	return progress, nil
}

// GetForUpdate implements store.UserProgressStore.GetForUpdate
// It bootstraps a default record if none exists, then takes a row lock.
// Must run inside a transaction; the lock is what serializes concurrent
// streak updates for the same user.
func (s *PostgresUserProgressStore) GetForUpdate(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.UserProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := time.Now().UTC()
	bootstrap := `
		INSERT INTO user_progress (user_id, total_xp, current_streak, longest_streak, created_at, updated_at)
		VALUES ($1, 0, 0, 0, $2, $2)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, bootstrap, userID, now); err != nil {
		log.Error("failed to bootstrap user progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	query := `
		SELECT user_id, total_xp, current_streak, longest_streak,
		       last_active_date, created_at, updated_at
		FROM user_progress
		WHERE user_id = $1
		FOR UPDATE
	`

	progress, err := scanProgress(s.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		log.Error("failed to lock user progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	return progress, nil
}

// AddXP implements store.UserProgressStore.AddXP
// It atomically bootstraps-and-increments the user's total XP and returns
// the new total.
func (s *PostgresUserProgressStore) AddXP(
	ctx context.Context,
	userID uuid.UUID,
	amount int64,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if amount <= 0 {
		return 0, fmt.Errorf("%w: XP amount must be positive", store.ErrInvalidEntity)
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO user_progress (user_id, total_xp, current_streak, longest_streak, created_at, updated_at)
		VALUES ($1, $2, 0, 0, $3, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET total_xp = user_progress.total_xp + EXCLUDED.total_xp,
		    updated_at = EXCLUDED.updated_at
		RETURNING total_xp
	`

	var newTotal int64
	err := s.db.QueryRowContext(ctx, query, userID, amount, now).Scan(&newTotal)
	if err != nil {
		log.Error("failed to add XP",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.Int64("amount", amount))
		return 0, err
	}

	log.Debug("XP added",
		slog.String("user_id", userID.String()),
		slog.Int64("amount", amount),
		slog.Int64("total_xp", newTotal))
	return newTotal, nil
}

// SetStreak implements store.UserProgressStore.SetStreak
// Intended to run inside the transaction that locked the row via
// GetForUpdate.
func (s *PostgresUserProgressStore) SetStreak(
	ctx context.Context,
	userID uuid.UUID,
	current, longest int,
	lastActive time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE user_progress
		SET current_streak = $1,
		    longest_streak = GREATEST(longest_streak, $2),
		    last_active_date = $3,
		    updated_at = $4
		WHERE user_id = $5
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		current,
		longest,
		domain.DayFloor(lastActive),
		time.Now().UTC(),
		userID,
	)
	if err != nil {
		log.Error("failed to set streak",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return store.ErrProgressNotFound
	}

	log.Debug("streak updated",
		slog.String("user_id", userID.String()),
		slog.Int("current_streak", current),
		slog.Int("longest_streak", longest))
	return nil
}

// IncrementCounter implements store.UserProgressStore.IncrementCounter
// Cumulative counters live in their own table keyed by (user_id, counter)
// and are only ever incremented; deleting source records leaves them
// untouched, which is what keeps counter-backed achievements valid.
func (s *PostgresUserProgressStore) IncrementCounter(
	ctx context.Context,
	userID uuid.UUID,
	counter string,
	amount int64,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateCounter(counter); err != nil {
		log.Warn("unknown cumulative counter",
			slog.String("counter", counter),
			slog.String("user_id", userID.String()))
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("%w: counter amount must be positive", store.ErrInvalidEntity)
	}

	query := `
		INSERT INTO progress_counters (user_id, counter, total, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, counter) DO UPDATE
		SET total = progress_counters.total + EXCLUDED.total,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query, userID, counter, amount, time.Now().UTC())
	if err != nil {
		log.Error("failed to increment cumulative counter",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("counter", counter))
		return err
	}

	return nil
}

// GetCounters implements store.UserProgressStore.GetCounters
func (s *PostgresUserProgressStore) GetCounters(
	ctx context.Context,
	userID uuid.UUID,
) (map[string]int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT counter, total
		FROM progress_counters
		WHERE user_id = $1
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query cumulative counters",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	counters := map[string]int64{}
	for rows.Next() {
		var counter string
		var total int64
		if err := rows.Scan(&counter, &total); err != nil {
			log.Error("failed to scan counter row",
				slog.String("error", err.Error()))
			return nil, err
		}
		counters[counter] = total
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return counters, nil
}

// WithTx implements store.UserProgressStore.WithTx
func (s *PostgresUserProgressStore) WithTx(tx *sql.Tx) store.UserProgressStore {
	return &PostgresUserProgressStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanProgress reads one user_progress row.
func scanProgress(row rowScanner) (*domain.UserProgress, error) {
	var progress domain.UserProgress
	var lastActive sql.NullTime

	err := row.Scan(
		&progress.UserID,
		&progress.TotalXP,
		&progress.CurrentStreak,
		&progress.LongestStreak,
		&lastActive,
		&progress.CreatedAt,
		&progress.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastActive.Valid {
		t := lastActive.Time.UTC()
		progress.LastActiveDate = &t
	}

	return &progress, nil
}
