package model

import "time"

// Scene is an actor-owned sub-schedule entry.  A scene may be mirrored by
// at most one event on the run timeline; when that event is rescheduled
// the scene's day, start time and location follow it.  The narrative
// fields (Description, Props) belong to the scene alone and are never
// touched by event updates.
//
// Fields:
//  ID              – primary key identifier.
//  ActorID         – actor this scene belongs to.
//  RunID           – run this scene belongs to.
//  DayNumber       – 1-based day within the run.
//  StartTime       – wall-clock start, "HH:MM:SS".
//  DurationMinutes – length of the scene, must be positive.
//  Location        – optional stage/room.
//  Description     – free-form narrative text.
//  Props           – free-form list of required props.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Scene struct {
	ID              uint64    // scenes.id
	ActorID         uint64    // scenes.actor_id
	RunID           uint64    // scenes.run_id
	DayNumber       int       // scenes.day_number
	StartTime       string    // scenes.start_time
	DurationMinutes int       // scenes.duration_minutes
	Location        *string   // scenes.location (nullable)
	Description     string    // scenes.description
	Props           string    // scenes.props
	CreatedAt       time.Time // scenes.created_at
	UpdatedAt       time.Time // scenes.updated_at
}
