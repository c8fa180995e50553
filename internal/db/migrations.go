package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: per-store listing indexes.
	`CREATE INDEX IF NOT EXISTS idx_print_runs_store
	     ON print_runs(store_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_catalog_saves_store
	     ON catalog_saves(store_id, saved_at)`,
}

// Migrate creates the schema and runs the migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
