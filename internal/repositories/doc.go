// Package repositories implements SQLite persistence for locally cached
// content.
//
// The content cache keeps the most recently fetched feed and saved items
// browsable offline. [ContentRepository] handles CRUD with atomic sequence
// generation for stable ordering, soft deletes via deleted_at timestamps,
// and remote-identity lookups; deleted records are excluded from queries by
// default.
//
// Sequence numbers provide stable local ordering independent of UUIDs and
// creation timestamps. The [NextSequence] function atomically increments
// per-table counters held in dedicated sequence tables.
package repositories
