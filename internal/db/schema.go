package db

import (
	"database/sql"
	"fmt"
)

// schema is the full journal schema. Catalogs themselves live in JSON files;
// the database only records what happened to them.
const schema = `
CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS print_runs (
    id         TEXT PRIMARY KEY,
    store_id   TEXT NOT NULL,
    file       TEXT NOT NULL,
    labels     INTEGER NOT NULL CHECK (labels > 0),
    pages      INTEGER NOT NULL CHECK (pages > 0),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS catalog_saves (
    id            INTEGER PRIMARY KEY,
    store_id      TEXT NOT NULL,
    products      INTEGER NOT NULL CHECK (products >= 0),
    price_changes INTEGER NOT NULL DEFAULT 0 CHECK (price_changes >= 0),
    backup        TEXT,
    saved_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// EnsureSchema creates all tables if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
