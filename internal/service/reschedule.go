package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/runboard/runboard/internal/model"
	"github.com/runboard/runboard/internal/queue"
	"github.com/runboard/runboard/internal/schedule"
)

// RescheduleService relocates events: grid drops onto a (day, slot) target
// and drag reorders of a day's flat list.  Every event write cascades to
// the linked scene's day/start/location.  The event and scene writes are
// two sequential calls, not one transaction: when the scene write fails
// after the event write succeeded the two records stay inconsistent until
// the next successful update or re-fetch.  Callers surface the error and
// re-fetch; nothing is patched locally.
type RescheduleService struct {
	events      EventStore
	scenes      SceneStore
	publisher   Publisher // may be nil
	slotMinutes int
	anchor      int // reorder anchor, minutes since midnight
}

// NewRescheduleService wires the coordinator.  slotMinutes is the grid
// granularity, anchor the start-of-day minute used when renumbering a
// reordered list.
func NewRescheduleService(events EventStore, scenes SceneStore, publisher Publisher, slotMinutes, anchor int) *RescheduleService {
	if events == nil || scenes == nil {
		panic("nil store passed to NewRescheduleService")
	}
	if slotMinutes < 1 {
		slotMinutes = 15
	}
	return &RescheduleService{
		events:      events,
		scenes:      scenes,
		publisher:   publisher,
		slotMinutes: slotMinutes,
		anchor:      anchor,
	}
}

// DropResult reports the outcome of a grid drop.
type DropResult struct {
	Event   *model.Event
	NoOp    bool    // target equals the current position, nothing written
	SceneID *uint64 // linked scene that followed the event, if any
}

// DropOnGrid moves an event to the slot identified by (day, slotIndex) on
// the run's current grid.  The new start is the slot's start minute; the
// duration never changes.  Dropping an event onto its own position is an
// idempotent no-op with zero writes.
func (s *RescheduleService) DropOnGrid(ctx context.Context, eventID uint64, day, slotIndex int) (*DropResult, error) {
	if day < 1 || slotIndex < 0 {
		return nil, ErrInvalidTarget
	}
	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	runEvents, err := s.events.ListByRun(ctx, ev.RunID)
	if err != nil {
		return nil, err
	}
	boxes, err := eventBoxes(runEvents)
	if err != nil {
		return nil, err
	}
	grid := schedule.ComputeGridRange(boxes, s.slotMinutes)
	startMin := grid.SlotStart(slotIndex, s.slotMinutes)
	if startMin < 0 {
		return nil, ErrInvalidTarget
	}
	if startMin+ev.DurationMinutes > schedule.MinutesPerDay {
		return nil, model.ErrCrossesMidnight
	}
	newStart := schedule.MinutesToTime(startMin)

	if day == ev.DayNumber && newStart == ev.StartTime {
		return &DropResult{Event: ev, NoOp: true}, nil
	}

	if err := s.events.UpdateSchedule(ctx, ev.ID, day, newStart); err != nil {
		return nil, err
	}
	ev.DayNumber = day
	ev.StartTime = newStart

	res := &DropResult{Event: ev}
	if ev.LinkedSceneID != nil {
		if err := s.scenes.UpdateSchedule(ctx, *ev.LinkedSceneID, day, newStart, ev.Location); err != nil {
			// The event write already landed; see the type comment on the
			// non-atomic cascade.
			return nil, fmt.Errorf("scene cascade after event update: %w: %w", ErrPartialWrite, err)
		}
		res.SceneID = ev.LinkedSceneID
	}

	s.notify(ctx, queue.ScheduleChangedEvent{
		RunID:     ev.RunID,
		EventIDs:  []uint64{ev.ID},
		Day:       day,
		Source:    "grid-drop",
		ChangedAt: time.Now().UTC().Format(time.RFC3339),
		SceneIDs:  sceneIDList(res.SceneID),
	})
	return res, nil
}

// ReorderResult reports which records a day reorder actually wrote.
type ReorderResult struct {
	ChangedEventIDs []uint64
	SceneIDs        []uint64
}

// ReorderDay recomputes one day's sequence after a list drag: events are
// laid back to back starting at the anchor, each start being the previous
// start plus the previous duration.  Only events whose start actually
// changed are written, each cascading to its linked scene.
func (s *RescheduleService) ReorderDay(ctx context.Context, runID uint64, day int, orderedIDs []uint64) (*ReorderResult, error) {
	if day < 1 {
		return nil, ErrInvalidTarget
	}
	runEvents, err := s.events.ListByRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	dayEvents := make(map[uint64]*model.Event)
	for i := range runEvents {
		if runEvents[i].DayNumber == day {
			dayEvents[runEvents[i].ID] = &runEvents[i]
		}
	}
	if len(orderedIDs) != len(dayEvents) {
		return nil, ErrOrderMismatch
	}
	seen := make(map[uint64]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, ok := dayEvents[id]; !ok || seen[id] {
			return nil, ErrOrderMismatch
		}
		seen[id] = true
	}

	res := &ReorderResult{}
	start := s.anchor
	for _, id := range orderedIDs {
		ev := dayEvents[id]
		if start+ev.DurationMinutes > schedule.MinutesPerDay {
			return nil, model.ErrCrossesMidnight
		}
		newStart := schedule.MinutesToTime(start)
		if newStart != ev.StartTime {
			if err := s.events.UpdateSchedule(ctx, ev.ID, day, newStart); err != nil {
				if len(res.ChangedEventIDs) > 0 {
					return nil, fmt.Errorf("reorder stopped after %d writes: %w: %w", len(res.ChangedEventIDs), ErrPartialWrite, err)
				}
				return nil, err
			}
			ev.StartTime = newStart
			res.ChangedEventIDs = append(res.ChangedEventIDs, ev.ID)
			if ev.LinkedSceneID != nil {
				if err := s.scenes.UpdateSchedule(ctx, *ev.LinkedSceneID, day, newStart, ev.Location); err != nil {
					return nil, fmt.Errorf("scene cascade after event update: %w: %w", ErrPartialWrite, err)
				}
				res.SceneIDs = append(res.SceneIDs, *ev.LinkedSceneID)
			}
		}
		start += ev.DurationMinutes
	}

	if len(res.ChangedEventIDs) > 0 {
		s.notify(ctx, queue.ScheduleChangedEvent{
			RunID:     runID,
			EventIDs:  res.ChangedEventIDs,
			Day:       day,
			Source:    "reorder",
			ChangedAt: time.Now().UTC().Format(time.RFC3339),
			SceneIDs:  res.SceneIDs,
		})
	}
	return res, nil
}

func (s *RescheduleService) notify(ctx context.Context, ev queue.ScheduleChangedEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishScheduleChanged(ctx, ev); err != nil {
		log.Printf("reschedule: publish schedule.changed failed: %v", err)
	}
}

// eventBoxes maps persisted events onto the layout boxes of the schedule
// package.  A malformed stored start time is a data corruption and is
// reported rather than skipped.
func eventBoxes(events []model.Event) ([]schedule.Box, error) {
	boxes := make([]schedule.Box, 0, len(events))
	for _, e := range events {
		start, err := e.StartMinutes()
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", e.ID, err)
		}
		boxes = append(boxes, schedule.Box{
			ID:       e.ID,
			Day:      e.DayNumber,
			Start:    start,
			Duration: e.DurationMinutes,
		})
	}
	return boxes, nil
}

func sceneIDList(id *uint64) []uint64 {
	if id == nil {
		return nil
	}
	return []uint64{*id}
}
