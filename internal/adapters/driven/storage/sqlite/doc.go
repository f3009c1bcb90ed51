// Package sqlite provides a SQLite-based implementation of the driven store ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. One database file backs three stores:
//
//   - CandidateStore: reconciled candidates and their lock flags
//   - RunStore: discovery run history
//   - SchedulerStore: schedule daemon task state and results
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.ballotwatch/data/ballotwatch.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. The database runs in WAL mode
// with a busy timeout so the schedule daemon and the CLI can share it.
package sqlite
