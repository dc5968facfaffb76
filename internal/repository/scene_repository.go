package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/runboard/runboard/internal/model"
)

// ErrSceneNotFound indicates that a scene was not located in the DB.
var ErrSceneNotFound = errors.New("scene not found")

// SceneRepo manages persistence for actor scenes.
type SceneRepo struct {
	db *sql.DB
}

// NewSceneRepo constructs a SceneRepo with the given DB handle.
func NewSceneRepo(db *sql.DB) *SceneRepo {
	return &SceneRepo{db: db}
}

const sceneColumns = `id, actor_id, run_id, day_number, start_time, duration_minutes,
 location, description, props, created_at, updated_at`

// GetByID retrieves a scene by its ID.
func (r *SceneRepo) GetByID(ctx context.Context, id uint64) (*model.Scene, error) {
	const q = `SELECT ` + sceneColumns + ` FROM scenes WHERE id = ?`
	var s model.Scene
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.ActorID, &s.RunID, &s.DayNumber, &s.StartTime, &s.DurationMinutes,
		&s.Location, &s.Description, &s.Props, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSceneNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByRun returns all scenes of a run ordered by day, start time and id.
func (r *SceneRepo) ListByRun(ctx context.Context, runID uint64) ([]model.Scene, error) {
	const q = `SELECT ` + sceneColumns + ` FROM scenes
 WHERE run_id = ?
 ORDER BY day_number ASC, start_time ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Scene
	for rows.Next() {
		var s model.Scene
		if err := rows.Scan(
			&s.ID, &s.ActorID, &s.RunID, &s.DayNumber, &s.StartTime, &s.DurationMinutes,
			&s.Location, &s.Description, &s.Props, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateSchedule mirrors an event move onto its linked scene: day, start
// time and location follow the event, the narrative fields (description,
// props) are deliberately not part of the statement.
func (r *SceneRepo) UpdateSchedule(ctx context.Context, id uint64, day int, start string, location *string) error {
	const q = `UPDATE scenes
 SET day_number = ?, start_time = ?, location = ?, updated_at = CURRENT_TIMESTAMP
 WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, day, start, location, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM scenes WHERE id = ? LIMIT 1`, id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSceneNotFound
			}
			return err
		}
	}
	return nil
}
