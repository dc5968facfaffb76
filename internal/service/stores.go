// Package service contains the coordinators between HTTP handlers and the
// data layer: grid-drop and reorder rescheduling, sort-key renumbering and
// the assembled schedule view.  Services depend on small store interfaces
// so tests can run against in-memory fakes.
package service

import (
	"context"
	"errors"

	"github.com/runboard/runboard/internal/model"
	"github.com/runboard/runboard/internal/queue"
)

// EventStore is the slice of event persistence the services need.
type EventStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Event, error)
	ListByRun(ctx context.Context, runID uint64) ([]model.Event, error)
	UpdateSchedule(ctx context.Context, id uint64, day int, start string) error
}

// SceneStore is the slice of scene persistence the services need.
type SceneStore interface {
	ListByRun(ctx context.Context, runID uint64) ([]model.Scene, error)
	UpdateSchedule(ctx context.Context, id uint64, day int, start string, location *string) error
}

// RunStore resolves runs for views and the periodic conflict scan.
type RunStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Run, error)
	ListAll(ctx context.Context) ([]model.Run, error)
}

// ActorStore provides the cast and the run-level performer assignments.
type ActorStore interface {
	ListAll(ctx context.Context) ([]model.Actor, error)
	ListAssignments(ctx context.Context, runID uint64) (map[uint64]string, error)
}

// MaterialStore is the orderable material list.
type MaterialStore interface {
	ListByRun(ctx context.Context, runID uint64) ([]model.Material, error)
	UpdateSortKeys(ctx context.Context, updates []model.KeyUpdate) error
}

// DocumentStore is the orderable document list.
type DocumentStore interface {
	ListByRun(ctx context.Context, runID uint64) ([]model.Document, error)
	UpdateSortKeys(ctx context.Context, updates []model.KeyUpdate) error
}

// Publisher pushes change notifications to the broker.  All publishing is
// best effort; services log failures and never fail a save over them.
type Publisher interface {
	PublishScheduleChanged(ctx context.Context, ev queue.ScheduleChangedEvent) error
	PublishConflictDigest(ctx context.Context, ev queue.ConflictDigestEvent) error
}

// ErrInvalidTarget rejects a drop outside the grid (bad day or slot).
var ErrInvalidTarget = errors.New("invalid drop target")

// ErrOrderMismatch rejects a reorder whose id list is not a permutation of
// the stored collection.
var ErrOrderMismatch = errors.New("ordered ids do not match stored records")

// ErrPartialWrite marks a failure that happened after at least one write
// already landed, so the caller's picture of the data is stale and must be
// re-fetched rather than patched locally.
var ErrPartialWrite = errors.New("partial write")
