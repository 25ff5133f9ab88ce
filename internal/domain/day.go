package domain

import "time"

// DayFloor truncates a timestamp to the start of its UTC calendar day.
// All day-granularity comparisons in the engine (due checks, streak gaps,
// daily counter rows) go through this single definition of "day".
func DayFloor(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b,
// negative if b is on an earlier day than a.
func DaysBetween(a, b time.Time) int {
	return int(DayFloor(b).Sub(DayFloor(a)).Hours() / 24)
}
