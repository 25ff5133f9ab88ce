package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/studyhall/mastery-api/internal/domain"
)

// CardScheduleStore defines the interface for card schedule persistence.
type CardScheduleStore interface {
	// Create saves a new card schedule.
	// It handles domain validation internally.
	// Returns ErrDuplicate if a schedule already exists for (user, card).
	Create(ctx context.Context, schedule *domain.CardSchedule) error

	// Get retrieves the schedule for the combination of user ID and card ID.
	// Returns ErrScheduleNotFound if the schedule does not exist.
	Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.CardSchedule, error)

	// Update writes back a schedule computed from a previously read
	// snapshot. expectedUpdatedAt must carry the UpdatedAt of that snapshot:
	// the write only applies if the row has not changed since, so two
	// concurrent reviews of the same card cannot silently overwrite each
	// other. Returns ErrConflict when the guard fails and
	// ErrScheduleNotFound when the row does not exist at all.
	Update(ctx context.Context, schedule *domain.CardSchedule, expectedUpdatedAt time.Time) error

	// ListDue retrieves up to limit schedules due for review at the given
	// moment, never-reviewed cards first, then most overdue.
	ListDue(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]*domain.CardSchedule, error)

	// WithTx returns a new CardScheduleStore instance that uses the
	// provided transaction.
	WithTx(tx *sql.Tx) CardScheduleStore
}
