package service

import (
	"context"
	"log"
	"time"

	"github.com/runboard/runboard/internal/clock"
	"github.com/runboard/runboard/internal/model"
	"github.com/runboard/runboard/internal/queue"
	"github.com/runboard/runboard/internal/schedule"
)

// ScheduleService assembles the rendered schedule of a run: the time grid,
// per-day lanes, advisory performer conflicts and the currently running
// event.  Everything is recomputed in full from the stored data on every
// call; nothing is cached here (the HTTP layer caches whole responses).
type ScheduleService struct {
	runs        RunStore
	events      EventStore
	scenes      SceneStore
	actors      ActorStore
	publisher   Publisher // may be nil, used by the conflict scan
	clk         clock.Clock
	slotMinutes int
}

// NewScheduleService wires the view builder.
func NewScheduleService(runs RunStore, events EventStore, scenes SceneStore, actors ActorStore, publisher Publisher, clk clock.Clock, slotMinutes int) *ScheduleService {
	if runs == nil || events == nil || scenes == nil || actors == nil || clk == nil {
		panic("nil dependency passed to NewScheduleService")
	}
	if slotMinutes < 1 {
		slotMinutes = 15
	}
	return &ScheduleService{
		runs:        runs,
		events:      events,
		scenes:      scenes,
		actors:      actors,
		publisher:   publisher,
		clk:         clk,
		slotMinutes: slotMinutes,
	}
}

// PlacedEvent is one schedule box positioned for rendering.
type PlacedEvent struct {
	ID                uint64  `json:"id"`
	StartTime         string  `json:"start_time"`
	DurationMinutes   int     `json:"duration_minutes"`
	EventType         string  `json:"event_type"`
	Title             string  `json:"title"`
	Location          *string `json:"location,omitempty"`
	Lane              int     `json:"lane"`
	LinkedActorID     *uint64 `json:"linked_actor_id,omitempty"`
	LinkedSceneID     *uint64 `json:"linked_scene_id,omitempty"`
	LinkedMaterialID  *uint64 `json:"linked_material_id,omitempty"`
	LinkedDocumentID  *uint64 `json:"linked_document_id,omitempty"`
	ResolvedPerformer string  `json:"resolved_performer,omitempty"` // entrances only
	ColorTag          *string `json:"color_tag,omitempty"`
}

// DayView is one day's column of the board.
type DayView struct {
	Day      int           `json:"day"`
	MaxLanes int           `json:"max_lanes"`
	Events   []PlacedEvent `json:"events"`
}

// ScheduleView is the full render model for one run.
type ScheduleView struct {
	RunID            uint64    `json:"run_id"`
	Title            string    `json:"title"`
	SlotMinutes      int       `json:"slot_minutes"`
	GridStart        string    `json:"grid_start"` // "HH:MM:00"
	GridEnd          string    `json:"grid_end"`
	SlotLabels       []string  `json:"slot_labels"`
	Days             []DayView `json:"days"`
	ConflictActorIDs []uint64  `json:"conflict_actor_ids"`
	CurrentEventID   *uint64   `json:"current_event_id,omitempty"`
}

// BuildView loads a run's events, scenes, cast and assignments and
// computes the complete schedule view.
func (s *ScheduleService) BuildView(ctx context.Context, runID uint64) (*ScheduleView, error) {
	run, err := s.runs.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	events, err := s.events.ListByRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	scenes, err := s.scenes.ListByRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	actors, err := s.actors.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	assignments, err := s.actors.ListAssignments(ctx, runID)
	if err != nil {
		return nil, err
	}

	boxes, err := eventBoxes(events)
	if err != nil {
		return nil, err
	}
	grid := schedule.ComputeGridRange(boxes, s.slotMinutes)

	actorsByID := make(map[uint64]model.Actor, len(actors))
	for _, a := range actors {
		actorsByID[a.ID] = a
	}

	view := &ScheduleView{
		RunID:       run.ID,
		Title:       run.Title,
		SlotMinutes: s.slotMinutes,
		GridStart:   schedule.MinutesToTime(grid.MinStart),
		GridEnd:     schedule.MinutesToTime(grid.MaxEnd),
		SlotLabels:  grid.SlotLabels,
	}

	// Lanes are assigned per day; the day count is the highest day seen.
	maxDay := 0
	byDay := make(map[int][]schedule.Box)
	for _, b := range boxes {
		byDay[b.Day] = append(byDay[b.Day], b)
		if b.Day > maxDay {
			maxDay = b.Day
		}
	}
	eventsByID := make(map[uint64]*model.Event, len(events))
	for i := range events {
		eventsByID[events[i].ID] = &events[i]
	}
	for day := 1; day <= maxDay; day++ {
		placed := schedule.AssignLanes(byDay[day])
		// Events is never nil so an eventless day still serializes as [].
		dv := DayView{Day: day, MaxLanes: schedule.MaxLanes(placed), Events: make([]PlacedEvent, 0, len(placed))}
		for _, p := range placed {
			dv.Events = append(dv.Events, s.placedEvent(eventsByID[p.ID], p.Lane, actorsByID, assignments))
		}
		view.Days = append(view.Days, dv)
	}

	view.ConflictActorIDs = schedule.DetectConflicts(commitments(events, scenes, actorsByID, assignments))
	if view.ConflictActorIDs == nil {
		view.ConflictActorIDs = []uint64{}
	}

	if id, ok := schedule.CurrentEventID(boxes, run.FirstDay, s.clk.Now()); ok {
		view.CurrentEventID = &id
	}
	return view, nil
}

func (s *ScheduleService) placedEvent(e *model.Event, lane int, actorsByID map[uint64]model.Actor, assignments map[uint64]string) PlacedEvent {
	pe := PlacedEvent{
		ID:               e.ID,
		StartTime:        e.StartTime,
		DurationMinutes:  e.DurationMinutes,
		EventType:        e.EventType,
		Title:            e.Title,
		Location:         e.Location,
		Lane:             lane,
		LinkedActorID:    e.LinkedActorID,
		LinkedSceneID:    e.LinkedSceneID,
		LinkedMaterialID: e.LinkedMaterialID,
		LinkedDocumentID: e.LinkedDocumentID,
	}
	if e.EventType == model.EventEntrance {
		pe.ResolvedPerformer = resolveEventPerformer(e, actorsByID, assignments)
		if e.LinkedActorID != nil {
			if a, ok := actorsByID[*e.LinkedActorID]; ok {
				pe.ColorTag = a.ColorTag
			}
		}
	}
	return pe
}

// commitments collects every timed performer obligation of the run: the
// entrance events and the scenes, each resolved to its effective
// performer identity.  A scene mirrored by an entrance event is skipped;
// the cascade keeps the two intervals identical, so counting both would
// flag the actor as conflicting with itself.
func commitments(events []model.Event, scenes []model.Scene, actorsByID map[uint64]model.Actor, assignments map[uint64]string) []schedule.Commitment {
	mirrored := make(map[uint64]bool)
	for i := range events {
		e := &events[i]
		if e.EventType == model.EventEntrance && e.LinkedSceneID != nil {
			mirrored[*e.LinkedSceneID] = true
		}
	}

	var out []schedule.Commitment
	for i := range events {
		e := &events[i]
		if e.EventType != model.EventEntrance {
			continue
		}
		start, err := e.StartMinutes()
		if err != nil {
			continue // corrupt row, already reported by the view path
		}
		var actorID uint64
		if e.LinkedActorID != nil {
			actorID = *e.LinkedActorID
		}
		out = append(out, schedule.Commitment{
			ActorID:   actorID,
			Performer: resolveEventPerformer(e, actorsByID, assignments),
			Day:       e.DayNumber,
			Start:     start,
			End:       start + e.DurationMinutes,
		})
	}
	for i := range scenes {
		sc := &scenes[i]
		if mirrored[sc.ID] {
			continue
		}
		start, err := schedule.TimeToMinutes(sc.StartTime)
		if err != nil {
			continue
		}
		actor := actorsByID[sc.ActorID]
		out = append(out, schedule.Commitment{
			ActorID:   sc.ActorID,
			Performer: schedule.ResolvePerformer("", assignments[sc.ActorID], actor.GlobalPerformer),
			Day:       sc.DayNumber,
			Start:     start,
			End:       start + sc.DurationMinutes,
		})
	}
	return out
}

func resolveEventPerformer(e *model.Event, actorsByID map[uint64]model.Actor, assignments map[uint64]string) string {
	override := ""
	if e.PerformerOverride != nil {
		override = *e.PerformerOverride
	}
	assignment, global := "", ""
	if e.LinkedActorID != nil {
		assignment = assignments[*e.LinkedActorID]
		global = actorsByID[*e.LinkedActorID].GlobalPerformer
	}
	return schedule.ResolvePerformer(override, assignment, global)
}

// ScanConflicts recomputes the advisory conflict set for every run and
// publishes a digest per run that has any.  Driven by the cron schedule
// in cmd/server; failures are logged, the scan moves on.
func (s *ScheduleService) ScanConflicts(ctx context.Context) {
	if s.publisher == nil {
		return
	}
	runs, err := s.runs.ListAll(ctx)
	if err != nil {
		log.Printf("conflict-scan: list runs: %v", err)
		return
	}
	for _, run := range runs {
		view, err := s.BuildView(ctx, run.ID)
		if err != nil {
			log.Printf("conflict-scan: run %d: %v", run.ID, err)
			continue
		}
		if len(view.ConflictActorIDs) == 0 {
			continue
		}
		digest := queue.ConflictDigestEvent{
			RunID:     run.ID,
			ActorIDs:  view.ConflictActorIDs,
			ScannedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.publisher.PublishConflictDigest(ctx, digest); err != nil {
			log.Printf("conflict-scan: publish digest for run %d: %v", run.ID, err)
		}
	}
}
