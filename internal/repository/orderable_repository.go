package repository

import (
	"context"
	"database/sql"

	"github.com/runboard/runboard/internal/model"
)

// MaterialRepo manages persistence for the run's orderable material list.
type MaterialRepo struct {
	db *sql.DB
}

// NewMaterialRepo constructs a MaterialRepo with the given DB handle.
func NewMaterialRepo(db *sql.DB) *MaterialRepo {
	return &MaterialRepo{db: db}
}

// ListByRun returns the run's materials in sort-key order.
func (r *MaterialRepo) ListByRun(ctx context.Context, runID uint64) ([]model.Material, error) {
	const q = `SELECT id, run_id, title, sort_key, created_at, updated_at
 FROM materials WHERE run_id = ? ORDER BY sort_key ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Material
	for rows.Next() {
		var m model.Material
		if err := rows.Scan(&m.ID, &m.RunID, &m.Title, &m.SortKey, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateSortKeys writes a batch of new sort keys in one transaction.
func (r *MaterialRepo) UpdateSortKeys(ctx context.Context, updates []model.KeyUpdate) error {
	return updateSortKeys(ctx, r.db, "materials", updates)
}

// DocumentRepo manages persistence for the run's orderable document list.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo constructs a DocumentRepo with the given DB handle.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// ListByRun returns the run's documents in sort-key order.
func (r *DocumentRepo) ListByRun(ctx context.Context, runID uint64) ([]model.Document, error) {
	const q = `SELECT id, run_id, title, sort_key, created_at, updated_at
 FROM documents WHERE run_id = ? ORDER BY sort_key ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Document
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(&d.ID, &d.RunID, &d.Title, &d.SortKey, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateSortKeys writes a batch of new sort keys in one transaction.
func (r *DocumentRepo) UpdateSortKeys(ctx context.Context, updates []model.KeyUpdate) error {
	return updateSortKeys(ctx, r.db, "documents", updates)
}

// updateSortKeys applies the key updates for one orderable table inside a
// single transaction, so a reorder is either fully visible or not at all.
func updateSortKeys(ctx context.Context, db *sql.DB, table string, updates []model.KeyUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	q := `UPDATE ` + table + ` SET sort_key = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, u := range updates {
		if _, err := stmt.ExecContext(ctx, u.Key, u.ID); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
