package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/etiquetas/internal/model"
)

// RecordPrintRun stores a print run. A missing ID or timestamp is filled in.
func RecordPrintRun(ctx context.Context, db *sql.DB, run *model.PrintRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	run.CreatedAt = run.CreatedAt.UTC()

	_, err := db.ExecContext(ctx,
		`INSERT INTO print_runs (id, store_id, file, labels, pages, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.StoreID, run.File, run.Labels, run.Pages, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("recording print run: %w", err)
	}
	return nil
}

// GetPrintRun returns a print run by ID, or nil if there is none.
func GetPrintRun(ctx context.Context, db *sql.DB, id string) (*model.PrintRun, error) {
	r := &model.PrintRun{}
	err := db.QueryRowContext(ctx,
		`SELECT id, store_id, file, labels, pages, created_at
		 FROM print_runs WHERE id = ?`, id,
	).Scan(&r.ID, &r.StoreID, &r.File, &r.Labels, &r.Pages, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting print run: %w", err)
	}
	return r, nil
}

// ListPrintRuns returns print runs newest first, optionally filtered by
// store. A limit of 0 or less returns all of them.
func ListPrintRuns(ctx context.Context, db *sql.DB, storeID string, limit int) ([]model.PrintRun, error) {
	query := `SELECT id, store_id, file, labels, pages, created_at
	          FROM print_runs WHERE 1=1`
	var args []any

	if storeID != "" {
		query += ` AND store_id = ?`
		args = append(args, storeID)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing print runs: %w", err)
	}
	defer rows.Close()

	var runs []model.PrintRun
	for rows.Next() {
		var r model.PrintRun
		if err := rows.Scan(&r.ID, &r.StoreID, &r.File, &r.Labels, &r.Pages, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning print run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
