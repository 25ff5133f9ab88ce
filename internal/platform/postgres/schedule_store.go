package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/studyhall/mastery-api/internal/domain"
	"github.com/studyhall/mastery-api/internal/platform/logger"
	"github.com/studyhall/mastery-api/internal/store"
)

// PostgresCardScheduleStore implements the store.CardScheduleStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardScheduleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardScheduleStore creates a new PostgreSQL implementation of
// the CardScheduleStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardScheduleStore(db store.DBTX, logger *slog.Logger) *PostgresCardScheduleStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardScheduleStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_schedule_store")),
	}
}

// Ensure PostgresCardScheduleStore implements store.CardScheduleStore interface
var _ store.CardScheduleStore = (*PostgresCardScheduleStore)(nil)

// Create implements store.CardScheduleStore.Create
// It saves a new card schedule, handling domain validation.
// Returns store.ErrDuplicate if a schedule already exists for (user, card).
func (s *PostgresCardScheduleStore) Create(ctx context.Context, schedule *domain.CardSchedule) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := schedule.Validate(); err != nil {
		log.Warn("card schedule validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", schedule.UserID.String()),
			slog.String("card_id", schedule.CardID.String()))
		return err
	}

	query := `
		INSERT INTO card_schedules
			(user_id, card_id, ease_factor, interval_days, repetitions,
			 last_reviewed_at, next_review_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		schedule.UserID,
		schedule.CardID,
		schedule.EaseFactor,
		schedule.Interval,
		schedule.Repetitions,
		schedule.LastReviewedAt,
		schedule.NextReviewAt,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("schedule already exists",
				slog.String("user_id", schedule.UserID.String()),
				slog.String("card_id", schedule.CardID.String()))
			return store.ErrDuplicate
		}

		log.Error("failed to create card schedule",
			slog.String("error", err.Error()),
			slog.String("user_id", schedule.UserID.String()),
			slog.String("card_id", schedule.CardID.String()))
		return err
	}

	log.Debug("card schedule created",
		slog.String("user_id", schedule.UserID.String()),
		slog.String("card_id", schedule.CardID.String()))
	return nil
}

// Get implements store.CardScheduleStore.Get
// It retrieves the schedule for the combination of user ID and card ID.
// Returns store.ErrScheduleNotFound if the schedule does not exist.
func (s *PostgresCardScheduleStore) Get(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.CardSchedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, card_id, ease_factor, interval_days, repetitions,
		       last_reviewed_at, next_review_at, created_at, updated_at
		FROM card_schedules
		WHERE user_id = $1 AND card_id = $2
	`

	schedule, err := scanSchedule(s.db.QueryRowContext(ctx, query, userID, cardID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card schedule not found",
				slog.String("user_id", userID.String()),
				slog.String("card_id", cardID.String()))
			return nil, store.ErrScheduleNotFound
		}
		log.Error("failed to get card schedule",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, err
	}

	return schedule, nil
}

// Update implements store.CardScheduleStore.Update
// The write-back is optimistic: it only applies while the row still carries
// expectedUpdatedAt, so a review computed from a stale snapshot cannot
// silently overwrite a concurrent one.
func (s *PostgresCardScheduleStore) Update(
	ctx context.Context,
	schedule *domain.CardSchedule,
	expectedUpdatedAt time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := schedule.Validate(); err != nil {
		log.Warn("card schedule validation failed during update",
			slog.String("error", err.Error()),
			slog.String("user_id", schedule.UserID.String()),
			slog.String("card_id", schedule.CardID.String()))
		return err
	}

	query := `
		UPDATE card_schedules
		SET ease_factor = $1, interval_days = $2, repetitions = $3,
		    last_reviewed_at = $4, next_review_at = $5, updated_at = $6
		WHERE user_id = $7 AND card_id = $8 AND updated_at = $9
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		schedule.EaseFactor,
		schedule.Interval,
		schedule.Repetitions,
		schedule.LastReviewedAt,
		schedule.NextReviewAt,
		schedule.UpdatedAt,
		schedule.UserID,
		schedule.CardID,
		expectedUpdatedAt,
	)
	if err != nil {
		log.Error("failed to update card schedule",
			slog.String("error", err.Error()),
			slog.String("user_id", schedule.UserID.String()),
			slog.String("card_id", schedule.CardID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("card_id", schedule.CardID.String()))
		return err
	}

	if rowsAffected == 0 {
		// Distinguish a missing row from a lost optimistic race.
		existsQuery := `SELECT 1 FROM card_schedules WHERE user_id = $1 AND card_id = $2`
		var one int
		err := s.db.QueryRowContext(ctx, existsQuery, schedule.UserID, schedule.CardID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card schedule not found for update",
				slog.String("user_id", schedule.UserID.String()),
				slog.String("card_id", schedule.CardID.String()))
			return store.ErrScheduleNotFound
		}
		if err != nil {
			return err
		}

		log.Debug("card schedule write-back lost optimistic race",
			slog.String("user_id", schedule.UserID.String()),
			slog.String("card_id", schedule.CardID.String()))
		return store.ErrConflict
	}

	log.Debug("card schedule updated",
		slog.String("user_id", schedule.UserID.String()),
		slog.String("card_id", schedule.CardID.String()),
		slog.Int("interval_days", schedule.Interval))
	return nil
}

// ListDue implements store.CardScheduleStore.ListDue
// Never-reviewed schedules come first, then the most overdue.
func (s *PostgresCardScheduleStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.CardSchedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 20
	}

	// next_review_at is stored day-floored, so comparing against the end of
	// today keeps the due check day-granular.
	endOfDay := domain.DayFloor(now).AddDate(0, 0, 1)

	query := `
		SELECT user_id, card_id, ease_factor, interval_days, repetitions,
		       last_reviewed_at, next_review_at, created_at, updated_at
		FROM card_schedules
		WHERE user_id = $1 AND (next_review_at IS NULL OR next_review_at < $2)
		ORDER BY next_review_at ASC NULLS FIRST
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, query, userID, endOfDay, limit)
	if err != nil {
		log.Error("failed to query due schedules",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	schedules := []*domain.CardSchedule{}
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			log.Error("failed to scan schedule row",
				slog.String("error", err.Error()))
			return nil, err
		}
		schedules = append(schedules, schedule)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return schedules, nil
}

// WithTx implements store.CardScheduleStore.WithTx
func (s *PostgresCardScheduleStore) WithTx(tx *sql.Tx) store.CardScheduleStore {
	return &PostgresCardScheduleStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSchedule reads one card_schedules row.
func scanSchedule(row rowScanner) (*domain.CardSchedule, error) {
	var schedule domain.CardSchedule
	var lastReviewed, nextReview sql.NullTime

	err := row.Scan(
		&schedule.UserID,
		&schedule.CardID,
		&schedule.EaseFactor,
		&schedule.Interval,
		&schedule.Repetitions,
		&lastReviewed,
		&nextReview,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastReviewed.Valid {
		t := lastReviewed.Time.UTC()
		schedule.LastReviewedAt = &t
	}
	if nextReview.Valid {
		t := nextReview.Time.UTC()
		schedule.NextReviewAt = &t
	}

	return &schedule, nil
}
