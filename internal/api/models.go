package api

import (
	"time"

	"github.com/studyhall/mastery-api/internal/domain"
	"github.com/studyhall/mastery-api/internal/service"
)

// Common request/response structures

// ReviewRequest defines the payload for submitting a card review. Exactly
// one of Rating or Quality must be set: the simplified four-button scale or
// the canonical 0-5 quality.
type ReviewRequest struct {
	Rating  string `json:"rating,omitempty"  validate:"omitempty,oneof=wrong hard good easy"`
	Quality *int   `json:"quality,omitempty" validate:"omitempty,gte=0,lte=5"`
}

// ReviewResponse defines the response for a submitted review.
type ReviewResponse struct {
	Schedule *ScheduleResponse     `json:"schedule"`
	XP       *service.XPAward      `json:"xp,omitempty"`
	Streak   *service.StreakUpdate `json:"streak,omitempty"`
	Unlocked []service.UnlockResult `json:"unlocked,omitempty"`
	Degraded []string              `json:"degraded,omitempty"`
}

// ScheduleResponse is the wire form of a card schedule.
type ScheduleResponse struct {
	CardID         string     `json:"card_id"`
	EaseFactor     float64    `json:"ease_factor"`
	Interval       int        `json:"interval"`
	Repetitions    int        `json:"repetitions"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewAt   *time.Time `json:"next_review_at,omitempty"`
	Due            bool       `json:"due"`
}

// newScheduleResponse converts a domain schedule for the wire.
func newScheduleResponse(schedule *domain.CardSchedule, now time.Time) *ScheduleResponse {
	return &ScheduleResponse{
		CardID:         schedule.CardID.String(),
		EaseFactor:     schedule.EaseFactor,
		Interval:       schedule.Interval,
		Repetitions:    schedule.Repetitions,
		LastReviewedAt: schedule.LastReviewedAt,
		NextReviewAt:   schedule.NextReviewAt,
		Due:            schedule.IsDue(now),
	}
}

// ActivityRequest defines the payload for recording a collaborator activity
// event.
type ActivityRequest struct {
	Action string `json:"action" validate:"required"`
	Amount int64  `json:"amount" validate:"omitempty,gt=0"`
	Undo   bool   `json:"undo,omitempty"`
	// LiveCount is the collaborator's current live entity count after the
	// action (e.g. decks that still exist). Optional; when present it feeds
	// collection achievement checks.
	LiveCount *int64 `json:"live_count,omitempty" validate:"omitempty,gte=0"`
}

// AchievementResponse is one catalog entry joined with the user's unlock
// state.
type AchievementResponse struct {
	Key         string     `json:"key"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Tier        string     `json:"tier"`
	Requirement int64      `json:"requirement,omitempty"`
	XPReward    int        `json:"xp_reward"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

// DailyProgressResponse is the per-metric activity map for one day.
type DailyProgressResponse struct {
	Day     string           `json:"day"`
	Metrics map[string]int64 `json:"metrics"`
}
