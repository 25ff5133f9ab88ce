// Package service contains the application-level engines of the progress
// system: the progress ledger, the XP engine, the streak tracker, the
// achievement engine, and the orchestrators (review, activity) that external
// callers invoke after their own primary action succeeds.
//
// Services receive their dependencies through constructor injection:
// storage interfaces from internal/store, the SM-2 calculator from
// internal/domain/srs, and the achievement catalog as an immutable
// catalog.Registry. The layer depends on interfaces, never on the postgres
// implementations.
//
// Error handling follows two tiers. Primary operations (the schedule write
// in a review, the streak transaction) return errors to the caller.
// Secondary bookkeeping (ledger increments, XP, achievement checks) is
// best-effort: failures are logged, recorded in the result's Degraded list,
// and never fail the primary operation.
package service
