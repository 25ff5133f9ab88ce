// Package store defines the persistence interfaces of the progress engine
// and the small database abstractions shared by their implementations. The
// contracts here are deliberately narrow: atomic upsert-and-increment for
// counters, insert-if-absent under a unique key for achievement unlocks,
// and an optimistic write-back for card schedules. Implementations live in
// internal/platform/postgres.
package store
