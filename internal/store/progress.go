package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/studyhall/mastery-api/internal/domain"
)

// UserProgressStore defines the interface for per-user progress persistence:
// total XP, streak state and the cumulative counters.
//
// The increment operations are single-statement atomic upserts at the
// storage layer - create-row-if-absent and increment as one operation -
// never a read-then-write, so concurrent writers cannot lose updates. They
// are not idempotent: a caller retrying after an ambiguous failure must
// first determine whether the increment already landed.
type UserProgressStore interface {
	// Get retrieves the progress record for a user.
	// Returns ErrProgressNotFound if the user has no progress yet.
	Get(ctx context.Context, userID uuid.UUID) (*domain.UserProgress, error)

	// GetForUpdate retrieves the progress record with a row-level lock
	// (SELECT FOR UPDATE), creating a default record first if none exists.
	// Must be called within a transaction; used by the streak state machine.
	GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.UserProgress, error)

	// AddXP atomically adds a positive amount to the user's total XP,
	// bootstrapping the progress record if absent, and returns the new
	// total. XP is never reduced; amount must be positive.
	AddXP(ctx context.Context, userID uuid.UUID, amount int64) (int64, error)

	// SetStreak writes the streak fields computed by the streak state
	// machine. lastActive is stored at day granularity.
	SetStreak(ctx context.Context, userID uuid.UUID, current, longest int, lastActive time.Time) error

	// IncrementCounter atomically adds a positive amount to one of the
	// user's cumulative counters, creating the counter row if absent.
	// Cumulative counters are monotonic and never decremented.
	IncrementCounter(ctx context.Context, userID uuid.UUID, counter string, amount int64) error

	// GetCounters retrieves all cumulative counters for a user. Counters
	// that were never incremented are absent from the map.
	GetCounters(ctx context.Context, userID uuid.UUID) (map[string]int64, error)

	// WithTx returns a new UserProgressStore instance that uses the
	// provided transaction.
	WithTx(tx *sql.Tx) UserProgressStore
}

// DailyProgressStore defines the interface for per-(user, day, metric)
// activity counters. Both Increment and Decrement funnel through the same
// atomic upsert primitive, so a same-day undo racing a concurrent increment
// serializes on the row instead of depending on incidental storage
// behavior.
type DailyProgressStore interface {
	// Increment atomically adds amount to the metric for the given day,
	// creating the row on the first activity of the day.
	Increment(ctx context.Context, userID uuid.UUID, metric string, amount int64, day time.Time) error

	// Decrement atomically subtracts amount from the metric for the given
	// day, clamped at zero. Used only to undo explicit reversible actions;
	// deletions of source records never decrement.
	Decrement(ctx context.Context, userID uuid.UUID, metric string, amount int64, day time.Time) error

	// GetDay retrieves all metric counts for a user on one calendar day.
	// Metrics with no activity are absent from the map.
	GetDay(ctx context.Context, userID uuid.UUID, day time.Time) (map[string]int64, error)

	// WithTx returns a new DailyProgressStore instance that uses the
	// provided transaction.
	WithTx(tx *sql.Tx) DailyProgressStore
}
