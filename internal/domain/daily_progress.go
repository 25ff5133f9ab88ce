package domain

import (
	"time"

	"github.com/google/uuid"
)

// Daily metric names. A DailyProgress row holds one metric's count for one
// (user, calendar day). Unlike cumulative counters, daily metrics may be
// decremented, but only to undo an explicit reversible action (for example
// un-completing a task) and never below zero. Deleting a record does not
// decrement the day it was created on.
const (
	MetricCardsReviewed  = "cards_reviewed"
	MetricCardsCreated   = "cards_created"
	MetricNotesCreated   = "notes_created"
	MetricTasksCompleted = "tasks_completed"
	MetricExamsTaken     = "exams_taken"
	MetricStudyMinutes   = "study_minutes"
)

// KnownMetrics is the closed set of daily metric names.
var KnownMetrics = map[string]bool{
	MetricCardsReviewed:  true,
	MetricCardsCreated:   true,
	MetricNotesCreated:   true,
	MetricTasksCompleted: true,
	MetricExamsTaken:     true,
	MetricStudyMinutes:   true,
}

// DailyProgress is one metric counter for one user on one calendar day.
// Rows are created on the first activity of the day and incremented
// additively from then on.
type DailyProgress struct {
	UserID    uuid.UUID `json:"user_id"`
	Day       time.Time `json:"day"` // UTC day floor
	Metric    string    `json:"metric"`
	Count     int64     `json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidateMetric returns ErrInvalidMetric if the name is not a known daily
// metric.
func ValidateMetric(metric string) error {
	if !KnownMetrics[metric] {
		return ErrInvalidMetric
	}
	return nil
}

// ValidateCounter returns ErrInvalidCounter if the name is not a known
// cumulative counter.
func ValidateCounter(counter string) error {
	if !KnownCounters[counter] {
		return ErrInvalidCounter
	}
	return nil
}
