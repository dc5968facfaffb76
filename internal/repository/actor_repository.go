package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/runboard/runboard/internal/model"
)

// ErrActorNotFound indicates that an actor was not located in the DB.
var ErrActorNotFound = errors.New("actor not found")

// ActorRepo manages persistence for actors and per-run performer
// assignments.
type ActorRepo struct {
	db *sql.DB
}

// NewActorRepo constructs an ActorRepo with the given DB handle.
func NewActorRepo(db *sql.DB) *ActorRepo {
	return &ActorRepo{db: db}
}

// GetByID retrieves an actor by its ID.
func (r *ActorRepo) GetByID(ctx context.Context, id uint64) (*model.Actor, error) {
	const q = `SELECT id, name, global_performer, color_tag, created_at, updated_at
 FROM actors WHERE id = ?`
	var a model.Actor
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID, &a.Name, &a.GlobalPerformer, &a.ColorTag, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListAll returns every actor ordered by id.  The cast is small (tens of
// roles), so conflict detection simply loads it whole.
func (r *ActorRepo) ListAll(ctx context.Context) ([]model.Actor, error) {
	const q = `SELECT id, name, global_performer, color_tag, created_at, updated_at
 FROM actors ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Actor
	for rows.Next() {
		var a model.Actor
		if err := rows.Scan(&a.ID, &a.Name, &a.GlobalPerformer, &a.ColorTag, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListAssignments returns the run's actor-to-performer overrides as a map
// keyed by actor id.
func (r *ActorRepo) ListAssignments(ctx context.Context, runID uint64) (map[uint64]string, error) {
	const q = `SELECT actor_id, performer FROM performer_assignments WHERE run_id = ?`
	rows, err := r.db.QueryContext(ctx, q, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make(map[uint64]string)
	for rows.Next() {
		var actorID uint64
		var performer string
		if err := rows.Scan(&actorID, &performer); err != nil {
			return nil, err
		}
		result[actorID] = performer
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
