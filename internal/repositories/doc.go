// Package repositories implements SQLite persistence for synthesis history.
//
// Key Implementations:
//   - [SynthesisRepository] : one row per playlist creation attempt, with its unresolved songs in setlist order
//   - [HistoryRecorder] : adapts the repository to the recorder hook the caller-facing session calls after each run
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs and creation timestamps.
// [NextSequence] bumps a per-table counter inside the insert's transaction.
// Deletes are soft: deleted_at is set and the row is excluded from queries.
package repositories
