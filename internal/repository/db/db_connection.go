package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// single writer; SQLite serializes writes anyway
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const sqliteDriverName = "sqlite"

var pragmas = []string{
	"PRAGMA journal_mode = WAL;",
	"PRAGMA foreign_keys = ON;",
	"PRAGMA busy_timeout = 5000;",
}

const schemaPreferences = `
CREATE TABLE IF NOT EXISTS preferences (
    visitor_id TEXT PRIMARY KEY,
    dark_mode BOOLEAN NOT NULL DEFAULT 0,
    ama_opened BOOLEAN NOT NULL DEFAULT 0,
    updated_at TIMESTAMP NOT NULL
);
`

const schemaTrackingEvents = `
CREATE TABLE IF NOT EXISTS tracking_events (
    id TEXT PRIMARY KEY,
    visitor_id TEXT NOT NULL DEFAULT '',
    occurred_at TIMESTAMP NOT NULL,
    type TEXT NOT NULL,
    properties TEXT,
    href TEXT
);
`

const indexTrackingOccurredAt = `
CREATE INDEX IF NOT EXISTS idx_tracking_events_occurred_at ON tracking_events (occurred_at);
`

const indexTrackingType = `
CREATE INDEX IF NOT EXISTS idx_tracking_events_type ON tracking_events (type, occurred_at);
`

const schemaUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaPreferences,
		schemaTrackingEvents,
		indexTrackingOccurredAt,
		indexTrackingType,
		schemaUsers,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
