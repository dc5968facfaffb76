// Package queue defines message payloads exchanged over the message broker
// plus the publisher and the background log consumer.
package queue

// ScheduleChangedEvent is published after a successful reschedule or day
// reorder.  It carries enough for downstream consumers (call-sheet
// regeneration, notifications) to react without querying the database.
type ScheduleChangedEvent struct {
	RunID     uint64   `json:"run_id"`
	EventIDs  []uint64 `json:"event_ids"`
	Day       int      `json:"day"`
	Source    string   `json:"source"` // "grid-drop" or "reorder"
	ChangedAt string   `json:"changed_at"`
	SceneIDs  []uint64 `json:"scene_ids,omitempty"` // scenes that followed their event
}

// ConflictDigestEvent is the periodic advisory summary of double-booked
// performers for one run.  Consumers log or notify; nothing ever blocks
// on it.
type ConflictDigestEvent struct {
	RunID     uint64   `json:"run_id"`
	ActorIDs  []uint64 `json:"actor_ids"`
	ScannedAt string   `json:"scanned_at"`
}
