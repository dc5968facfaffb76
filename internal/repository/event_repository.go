package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/runboard/runboard/internal/model"
)

// ErrEventNotFound indicates that an event was not located in the DB.
var ErrEventNotFound = errors.New("event not found")

// EventRepo manages persistence for timeline events.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo constructs an EventRepo with the given DB handle.
func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

const eventColumns = `id, run_id, day_number, start_time, duration_minutes, event_type, title,
 location, linked_actor_id, linked_scene_id, linked_material_id, linked_document_id,
 performer_override, created_at, updated_at`

// Create inserts a new event and assigns the generated ID back to the
// struct.  A duplicate scene/material/document link is reported as
// ErrUniqueness per the UNIQUE indexes on the link columns.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	const q = `INSERT INTO events
 (run_id, day_number, start_time, duration_minutes, event_type, title, location,
  linked_actor_id, linked_scene_id, linked_material_id, linked_document_id, performer_override)
 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		e.RunID, e.DayNumber, e.StartTime, e.DurationMinutes, e.EventType, e.Title, e.Location,
		e.LinkedActorID, e.LinkedSceneID, e.LinkedMaterialID, e.LinkedDocumentID, e.PerformerOverride,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrUniqueness
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	// Re-read the row so DB defaults (timestamps) are populated.
	fresh, err := r.GetByID(ctx, e.ID)
	if err != nil {
		return err
	}
	*e = *fresh
	return nil
}

// GetByID retrieves an event by its ID.  It returns ErrEventNotFound when
// no matching row exists.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	var e model.Event
	err := scanEvent(r.db.QueryRowContext(ctx, q, id), &e)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &e, nil
}

// ListByRun returns all events of a run ordered by day, start time and id.
// The ordering makes downstream lane assignment deterministic.
func (r *EventRepo) ListByRun(ctx context.Context, runID uint64) ([]model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events
 WHERE run_id = ?
 ORDER BY day_number ASC, start_time ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Event
	for rows.Next() {
		var e model.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateSchedule moves an event to a new day and start time.  Only the
// scheduling fields change; everything else is left untouched.
func (r *EventRepo) UpdateSchedule(ctx context.Context, id uint64, day int, start string) error {
	const q = `UPDATE events
 SET day_number = ?, start_time = ?, updated_at = CURRENT_TIMESTAMP
 WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, day, start, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either the row is gone or the values were already identical.
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM events WHERE id = ? LIMIT 1`, id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrEventNotFound
			}
			return err
		}
	}
	return nil
}

// Update replaces the mutable fields of an event.  This is a full
// field-set replacement: concurrent editors overwrite each other last
// write wins, there is no version column.
func (r *EventRepo) Update(ctx context.Context, e *model.Event) error {
	const q = `UPDATE events
 SET day_number = ?, start_time = ?, duration_minutes = ?, event_type = ?, title = ?,
     location = ?, linked_actor_id = ?, linked_scene_id = ?, linked_material_id = ?,
     linked_document_id = ?, performer_override = ?, updated_at = CURRENT_TIMESTAMP
 WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		e.DayNumber, e.StartTime, e.DurationMinutes, e.EventType, e.Title,
		e.Location, e.LinkedActorID, e.LinkedSceneID, e.LinkedMaterialID,
		e.LinkedDocumentID, e.PerformerOverride, e.ID,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrUniqueness
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM events WHERE id = ? LIMIT 1`, e.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrEventNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes an event.  The scene link lives on the event row, so the
// linked scene survives and can be re-linked later; there is no cascade.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEventNotFound
	}
	return nil
}

// rowScanner lets scanEvent work for both QueryRow and Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner, e *model.Event) error {
	return row.Scan(
		&e.ID, &e.RunID, &e.DayNumber, &e.StartTime, &e.DurationMinutes, &e.EventType, &e.Title,
		&e.Location, &e.LinkedActorID, &e.LinkedSceneID, &e.LinkedMaterialID, &e.LinkedDocumentID,
		&e.PerformerOverride, &e.CreatedAt, &e.UpdatedAt,
	)
}
