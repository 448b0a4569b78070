// Package sqlite provides the SQLite-backed research report archive.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Queries go through jmoiron/sqlx.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Reports are stored as a JSON body next to the columns used for listing.
//
// # Data Location
//
// By default, the database is stored at ~/.sercha-research/data/reports.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
