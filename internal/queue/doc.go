// Package queue persists download queue items in SQLite and exposes the
// operations that drive their lifecycle.
//
// The Store owns the database connection, schema initialization, idempotent
// URL inserts, status transitions, safe deletion, and stats queries. URL
// uniqueness is enforced by the schema, not application logic, so concurrent
// submissions of the same URL can never race into duplicate rows.
//
// Treat this package as the single source of truth for queue semantics; when
// you add new statuses or columns, update schema.sql and bump schemaVersion.
package queue
