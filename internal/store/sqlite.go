// Package store provides SQLite-backed persistence for programme snapshots.
// It is the local reference implementation of the data-provider boundary:
// the production dashboard reads the same shapes from a remote API.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// schemaV1 defines the initial database schema.
const schemaV1 = `
CREATE TABLE IF NOT EXISTS programmes (
	user_id    TEXT PRIMARY KEY,
	start_date TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS programme_rows (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	pillar      TEXT NOT NULL,
	objective   TEXT NOT NULL DEFAULT '',
	cycle_start TEXT NOT NULL DEFAULT '',
	cycle_end   TEXT NOT NULL DEFAULT '',
	position    INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_rows_user ON programme_rows(user_id, position);

CREATE TABLE IF NOT EXISTS key_results (
	id          TEXT PRIMARY KEY,
	row_id      TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	baseline    REAL,
	actual      REAL,
	target      REAL,
	cycle_start TEXT NOT NULL DEFAULT '',
	cycle_end   TEXT NOT NULL DEFAULT '',
	position    INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_krs_row ON key_results(row_id, position);

CREATE TABLE IF NOT EXISTS habit_steps (
	id       TEXT PRIMARY KEY,
	kr_id    TEXT NOT NULL,
	text     TEXT NOT NULL DEFAULT '',
	status   TEXT NOT NULL DEFAULT 'todo',
	week_no  INTEGER,
	position INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_steps_kr ON habit_steps(kr_id, position);

CREATE TABLE IF NOT EXISTS engagement_days (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	day     TEXT NOT NULL,
	UNIQUE(user_id, day)
);
CREATE INDEX IF NOT EXISTS idx_engagement_user ON engagement_days(user_id, day);

CREATE TABLE IF NOT EXISTS history_items (
	id              TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL,
	kind            TEXT NOT NULL,
	touchpoint_type TEXT NOT NULL DEFAULT '',
	timestamp_ms    INTEGER NOT NULL DEFAULT 0,
	week_no         INTEGER,
	body            TEXT NOT NULL DEFAULT '',
	full_body       TEXT NOT NULL DEFAULT '',
	is_truncated    INTEGER NOT NULL DEFAULT 0,
	audio_url       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_history_user_ts ON history_items(user_id, timestamp_ms);

CREATE TABLE IF NOT EXISTS focus_krs (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	kr_id   TEXT NOT NULL,
	UNIQUE(user_id, kr_id)
);
`

// NewDB opens a SQLite database at the given path with recommended pragmas
// and runs the V1 schema migration.
func NewDB(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Limit connections to 1 for SQLite (WAL allows concurrent reads but single writer).
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return db, nil
}

func migrate(db *sql.DB) error {
	_, err := db.ExecContext(context.Background(), schemaV1)
	return err
}
