package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/studyhall/mastery-api/internal/domain"
	"github.com/studyhall/mastery-api/internal/platform/logger"
	"github.com/studyhall/mastery-api/internal/store"
)

// PostgresDailyProgressStore implements the store.DailyProgressStore
// interface using a PostgreSQL database as the storage backend.
//
// Increment and Decrement are the same upsert statement with opposite
// signs; the decrement clamps at zero with GREATEST. Because both run as
// one statement against the same (user_id, day, metric) row, an undo racing
// a concurrent increment serializes under row-level locking and resolves to
// some consistent order.
type PostgresDailyProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDailyProgressStore creates a new PostgreSQL implementation of
// the DailyProgressStore interface. If logger is nil, a default logger will
// be used.
func NewPostgresDailyProgressStore(db store.DBTX, logger *slog.Logger) *PostgresDailyProgressStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDailyProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "daily_progress_store")),
	}
}

// Ensure PostgresDailyProgressStore implements store.DailyProgressStore interface
var _ store.DailyProgressStore = (*PostgresDailyProgressStore)(nil)

// Increment implements store.DailyProgressStore.Increment
func (s *PostgresDailyProgressStore) Increment(
	ctx context.Context,
	userID uuid.UUID,
	metric string,
	amount int64,
	day time.Time,
) error {
	return s.apply(ctx, userID, metric, amount, day)
}

// Decrement implements store.DailyProgressStore.Decrement
// The count is clamped at zero; decrementing an absent row leaves it at
// zero rather than failing.
func (s *PostgresDailyProgressStore) Decrement(
	ctx context.Context,
	userID uuid.UUID,
	metric string,
	amount int64,
	day time.Time,
) error {
	return s.apply(ctx, userID, metric, -amount, day)
}

// apply runs the shared atomic upsert with a signed delta.
func (s *PostgresDailyProgressStore) apply(
	ctx context.Context,
	userID uuid.UUID,
	metric string,
	delta int64,
	day time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateMetric(metric); err != nil {
		log.Warn("unknown daily metric",
			slog.String("metric", metric),
			slog.String("user_id", userID.String()))
		return err
	}
	if delta == 0 {
		return fmt.Errorf("%w: amount must be non-zero", store.ErrInvalidEntity)
	}

	query := `
		INSERT INTO daily_progress (user_id, day, metric, count, updated_at)
		VALUES ($1, $2, $3, GREATEST(0, $4), $5)
		ON CONFLICT (user_id, day, metric) DO UPDATE
		SET count = GREATEST(0, daily_progress.count + $4),
		    updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		userID,
		domain.DayFloor(day),
		metric,
		delta,
		time.Now().UTC(),
	)
	if err != nil {
		log.Error("failed to apply daily progress delta",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("metric", metric),
			slog.Int64("delta", delta))
		return err
	}

	return nil
}

// GetDay implements store.DailyProgressStore.GetDay
func (s *PostgresDailyProgressStore) GetDay(
	ctx context.Context,
	userID uuid.UUID,
	day time.Time,
) (map[string]int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT metric, count
		FROM daily_progress
		WHERE user_id = $1 AND day = $2
	`

	rows, err := s.db.QueryContext(ctx, query, userID, domain.DayFloor(day))
	if err != nil {
		log.Error("failed to query daily progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	metrics := map[string]int64{}
	for rows.Next() {
		var metric string
		var count int64
		if err := rows.Scan(&metric, &count); err != nil {
			log.Error("failed to scan daily progress row",
				slog.String("error", err.Error()))
			return nil, err
		}
		metrics[metric] = count
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return metrics, nil
}

// WithTx implements store.DailyProgressStore.WithTx
func (s *PostgresDailyProgressStore) WithTx(tx *sql.Tx) store.DailyProgressStore {
	return &PostgresDailyProgressStore{
		db:     tx,
		logger: s.logger,
	}
}
