package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/runboard/runboard/internal/model"
)

// ErrRunNotFound indicates that a run was not located in the DB.
var ErrRunNotFound = errors.New("run not found")

// RunRepo manages persistence for production runs.
type RunRepo struct {
	db *sql.DB
}

// NewRunRepo constructs a RunRepo with the given DB handle.
func NewRunRepo(db *sql.DB) *RunRepo {
	return &RunRepo{db: db}
}

// GetByID retrieves a run by its ID.
func (r *RunRepo) GetByID(ctx context.Context, id uint64) (*model.Run, error) {
	const q = `SELECT id, title, first_day, created_at, updated_at FROM runs WHERE id = ?`
	var run model.Run
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&run.ID, &run.Title, &run.FirstDay, &run.CreatedAt, &run.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	return &run, nil
}

// ListAll returns every run ordered by first day.  Used by the periodic
// conflict scan.
func (r *RunRepo) ListAll(ctx context.Context) ([]model.Run, error) {
	const q = `SELECT id, title, first_day, created_at, updated_at FROM runs ORDER BY first_day ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Run
	for rows.Next() {
		var run model.Run
		if err := rows.Scan(&run.ID, &run.Title, &run.FirstDay, &run.CreatedAt, &run.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
