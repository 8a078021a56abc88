// Package sqlite provides SQLite-backed implementations of the favourite and
// scheduler store ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Both stores share a single database connection:
//
//   - FavoriteStore: favourited rules keyed by (category, rule text)
//   - SchedulerStore: background task state and run history
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each applied version is recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.architips/data/architips.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. SQLite runs in WAL mode with a
// busy timeout.
package sqlite
