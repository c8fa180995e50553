package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/etiquetas/internal/model"
)

// RecordSave stores a catalog save and sets its ID.
func RecordSave(ctx context.Context, db *sql.DB, s *model.CatalogSave) error {
	if s.SavedAt.IsZero() {
		s.SavedAt = time.Now()
	}
	s.SavedAt = s.SavedAt.UTC()

	var backup sql.NullString
	if s.Backup != "" {
		backup = sql.NullString{String: s.Backup, Valid: true}
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO catalog_saves (store_id, products, price_changes, backup, saved_at)
		 VALUES (?, ?, ?, ?, ?)`,
		s.StoreID, s.Products, s.PriceChanges, backup, s.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("recording catalog save: %w", err)
	}
	s.ID, _ = result.LastInsertId()
	return nil
}

// ListSaves returns catalog saves newest first, optionally filtered by store.
// A limit of 0 or less returns all of them.
func ListSaves(ctx context.Context, db *sql.DB, storeID string, limit int) ([]model.CatalogSave, error) {
	query := `SELECT id, store_id, products, price_changes, backup, saved_at
	          FROM catalog_saves WHERE 1=1`
	var args []any

	if storeID != "" {
		query += ` AND store_id = ?`
		args = append(args, storeID)
	}
	query += ` ORDER BY saved_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing catalog saves: %w", err)
	}
	defer rows.Close()

	var saves []model.CatalogSave
	for rows.Next() {
		var s model.CatalogSave
		var backup sql.NullString
		if err := rows.Scan(&s.ID, &s.StoreID, &s.Products, &s.PriceChanges, &backup, &s.SavedAt); err != nil {
			return nil, fmt.Errorf("scanning catalog save: %w", err)
		}
		s.Backup = backup.String
		saves = append(saves, s)
	}
	return saves, rows.Err()
}
