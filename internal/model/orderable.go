package model

import "time"

// Material is a prop or piece of equipment tracked for a run.  Materials
// form a flat, operator-ordered list; SortKey is the integer position
// recomputed after every reorder.
type Material struct {
	ID        uint64    // materials.id
	RunID     uint64    // materials.run_id
	Title     string    // materials.title
	SortKey   int       // materials.sort_key
	CreatedAt time.Time // materials.created_at
	UpdatedAt time.Time // materials.updated_at
}

// Document is a text document attached to a run (briefings, scripts).
// Like materials, documents are a flat orderable list.
type Document struct {
	ID        uint64    // documents.id
	RunID     uint64    // documents.run_id
	Title     string    // documents.title
	SortKey   int       // documents.sort_key
	CreatedAt time.Time // documents.created_at
	UpdatedAt time.Time // documents.updated_at
}

// KeyUpdate is one element of a batch sort-key write: the record id and
// the new integer position it should take.
type KeyUpdate struct {
	ID  uint64 `json:"id"`
	Key int    `json:"key"`
}
