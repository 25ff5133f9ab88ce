// Package domain defines the core entities of the progress and mastery
// engine: card review schedules, per-user progress and daily activity
// counters, and the achievement catalog types. Entities carry their own
// validation; all mutation flows through the service layer.
package domain
