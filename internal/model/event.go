package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/runboard/runboard/internal/schedule"
)

// Event type values stored in events.event_type.  Go has no sum types, so
// the per-type field rules of the planning domain (an actor link only makes
// sense on an entrance, a material link only on a material placement, ...)
// are enforced by Validate instead of the type system.
const (
	EventProgramme    = "PROGRAMME"  // a programme block (often mirrors a scene)
	EventMeal         = "MEAL"       // catering slot
	EventTransition   = "TRANSITION" // stage change, walking time
	EventInfo         = "INFO"       // announcement, no resources attached
	EventEntrance     = "ENTRANCE"   // a performer's entrance
	EventMaterial     = "MATERIAL"   // placement of a prop/material
	EventOrganisation = "ORG"        // internal organisational slot
)

// Event is a single timed occurrence placed on a run's timeline.  Start
// times are wall-clock strings in canonical "HH:MM:SS" form; all minute
// arithmetic happens in the schedule package.
//
// Fields:
//  ID                – primary key identifier.
//  RunID             – run this event belongs to.
//  DayNumber         – 1-based day within the run.
//  StartTime         – wall-clock start, "HH:MM:SS".
//  DurationMinutes   – length of the event, must be positive.
//  EventType         – one of the Event* constants above.
//  Title             – display title.
//  Location          – optional stage/room.
//  LinkedActorID     – actor entering; ENTRANCE events only.
//  LinkedSceneID     – mirrored scene; at most one event per scene.
//  LinkedMaterialID  – scheduled material; unique per run.
//  LinkedDocumentID  – scheduled document; unique per run.
//  PerformerOverride – free-text performer name for one-off roles, takes
//                      precedence over any registered assignment.
type Event struct {
	ID                uint64    // events.id
	RunID             uint64    // events.run_id
	DayNumber         int       // events.day_number
	StartTime         string    // events.start_time
	DurationMinutes   int       // events.duration_minutes
	EventType         string    // events.event_type
	Title             string    // events.title
	Location          *string   // events.location (nullable)
	LinkedActorID     *uint64   // events.linked_actor_id (nullable)
	LinkedSceneID     *uint64   // events.linked_scene_id (nullable, unique)
	LinkedMaterialID  *uint64   // events.linked_material_id (nullable, unique per run)
	LinkedDocumentID  *uint64   // events.linked_document_id (nullable, unique per run)
	PerformerOverride *string   // events.performer_override (nullable)
	CreatedAt         time.Time // events.created_at
	UpdatedAt         time.Time // events.updated_at
}

// ErrCrossesMidnight rejects events whose interval would run past 24:00.
// Each day is a self-contained 24-hour clock; an event never spills into
// the next day.
var ErrCrossesMidnight = errors.New("event crosses midnight")

// ErrInvalidEvent wraps all other structural validation failures.
var ErrInvalidEvent = errors.New("invalid event")

var validEventTypes = map[string]bool{
	EventProgramme:    true,
	EventMeal:         true,
	EventTransition:   true,
	EventInfo:         true,
	EventEntrance:     true,
	EventMaterial:     true,
	EventOrganisation: true,
}

// Validate checks the structural invariants of an event: positive day and
// duration, a parseable start time that keeps the whole interval inside
// one day, a known event type, and the per-type link rules.
func (e *Event) Validate() error {
	if e.RunID == 0 {
		return fmt.Errorf("%w: run_id is required", ErrInvalidEvent)
	}
	if e.DayNumber < 1 {
		return fmt.Errorf("%w: day_number must be >= 1", ErrInvalidEvent)
	}
	if e.DurationMinutes < 1 {
		return fmt.Errorf("%w: duration_minutes must be >= 1", ErrInvalidEvent)
	}
	if e.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidEvent)
	}
	if !validEventTypes[e.EventType] {
		return fmt.Errorf("%w: unknown event_type %q", ErrInvalidEvent, e.EventType)
	}
	start, err := schedule.TimeToMinutes(e.StartTime)
	if err != nil {
		return err
	}
	if start+e.DurationMinutes > schedule.MinutesPerDay {
		return ErrCrossesMidnight
	}
	if e.LinkedActorID != nil && e.EventType != EventEntrance {
		return fmt.Errorf("%w: linked_actor_id is only valid for ENTRANCE events", ErrInvalidEvent)
	}
	if e.LinkedMaterialID != nil && e.EventType != EventMaterial {
		return fmt.Errorf("%w: linked_material_id is only valid for MATERIAL events", ErrInvalidEvent)
	}
	return nil
}

// StartMinutes returns the event start as minutes since midnight.
func (e *Event) StartMinutes() (int, error) {
	return schedule.TimeToMinutes(e.StartTime)
}
