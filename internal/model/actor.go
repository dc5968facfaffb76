package model

import "time"

// Actor is a role in the production.  The real-world performer playing it
// may differ per run; GlobalPerformer is the default name used when a run
// has no specific assignment.
type Actor struct {
	ID              uint64    // actors.id
	Name            string    // actors.name
	GlobalPerformer string    // actors.global_performer (may be empty)
	ColorTag        *string   // actors.color_tag (nullable, rendering hint)
	CreatedAt       time.Time // actors.created_at
	UpdatedAt       time.Time // actors.updated_at
}

// PerformerAssignment maps an actor to the performer playing it in one
// specific run.  It overrides the actor's GlobalPerformer for that run.
type PerformerAssignment struct {
	ID        uint64 // performer_assignments.id
	RunID     uint64 // performer_assignments.run_id
	ActorID   uint64 // performer_assignments.actor_id
	Performer string // performer_assignments.performer
}
