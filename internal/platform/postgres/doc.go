// Package postgres implements the store interfaces on PostgreSQL through
// database/sql with the pgx stdlib driver.
//
// The implementations lean on PostgreSQL primitives for the engine's
// concurrency contracts: INSERT ... ON CONFLICT DO UPDATE for atomic
// upsert-and-increment of counters, INSERT ... ON CONFLICT DO NOTHING under
// the (user_id, achievement_key) unique key for exactly-once unlocks, and
// an updated_at guard in the schedule write-back for optimistic concurrency.
package postgres
