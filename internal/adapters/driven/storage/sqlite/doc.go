// Package sqlite provides the SQLite-backed implementation of driven.FindingStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// The runs table holds one row per harvest run; the records table holds every
// record a run wrote, unique by (username, email).
//
// # Data Location
//
// By default, the database is stored at ~/.ghharvest/data/harvest.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
