// Package jobs persists render job history in SQLite.
//
// Each render attempt becomes one row in render_jobs, created when the request
// is submitted and updated on every state transition the runner reports. The
// history is informational: sessions never read it back to decide anything,
// and losing the database only loses the record of past renders.
//
// The store follows the usual SQLite setup: WAL journaling, a busy timeout,
// retry with backoff on SQLITE_BUSY, and a schema_version table that must match
// the embedded schema.
package jobs
