package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// XPPerLevelBase is the quadratic coefficient of the leveling curve:
// reaching level L requires (L-1)^2 * XPPerLevelBase total XP.
const XPPerLevelBase = 100

// UserProgress is the per-user progress record: total experience, derived
// level, streak state and the set of cumulative creation counters. It is
// created lazily on the first XP award or streak update and persists for the
// lifetime of the user, independent of the entities that produced it.
type UserProgress struct {
	UserID         uuid.UUID  `json:"user_id"`
	TotalXP        int64      `json:"total_xp"`       // Monotonic, never reduced
	CurrentStreak  int        `json:"current_streak"` // Consecutive active days
	LongestStreak  int        `json:"longest_streak"` // Monotonic high-water mark
	LastActiveDate *time.Time `json:"last_active_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewUserProgress creates an empty progress record for a user.
func NewUserProgress(userID uuid.UUID) *UserProgress {
	now := time.Now().UTC()
	return &UserProgress{
		UserID:        userID,
		TotalXP:       0,
		CurrentStreak: 0,
		LongestStreak: 0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Level returns the level derived from the record's total XP.
func (p *UserProgress) Level() int {
	return LevelForXP(p.TotalXP)
}

// LevelForXP derives a level from a total XP amount. The curve is
// floor(sqrt(xp/100)) + 1: level 1 at 0 XP, level 2 at 100 XP, level 6 at
// 2500 XP. It is a monotonic, non-decreasing step function of XP.
func LevelForXP(totalXP int64) int {
	if totalXP < 0 {
		return 1
	}
	return int(math.Sqrt(float64(totalXP)/XPPerLevelBase)) + 1
}

// XPForLevel returns the minimum total XP required to reach the given level.
// It is the inverse of LevelForXP and is used for progress display.
func XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	return int64(level-1) * int64(level-1) * XPPerLevelBase
}

// Cumulative counter names. Counters are monotonic "this has happened N
// times total" counts: they are incremented when the triggering action
// happens and never decremented, even if the source record is later
// deleted. Achievements over these counters therefore survive deletion of
// the entities that earned them.
const (
	CounterNotesCreated   = "notes_created"
	CounterDecksCreated   = "decks_created"
	CounterCardsCreated   = "cards_created"
	CounterCardsReviewed  = "cards_reviewed"
	CounterTasksCompleted = "tasks_completed"
	CounterExamsTaken     = "exams_taken"
)

// KnownCounters is the closed set of cumulative counter names.
var KnownCounters = map[string]bool{
	CounterNotesCreated:   true,
	CounterDecksCreated:   true,
	CounterCardsCreated:   true,
	CounterCardsReviewed:  true,
	CounterTasksCompleted: true,
	CounterExamsTaken:     true,
}
