package service

import (
	"context"
	"errors"
	"sort"

	"github.com/runboard/runboard/internal/model"
	"github.com/runboard/runboard/internal/queue"
)

var errStoreDown = errors.New("store down")

type scheduleWrite struct {
	ID    uint64
	Day   int
	Start string
}

type fakeEventStore struct {
	events       map[uint64]*model.Event
	writes       []scheduleWrite
	failUpdateID uint64 // UpdateSchedule on this id fails
}

func newFakeEventStore(events ...model.Event) *fakeEventStore {
	s := &fakeEventStore{events: make(map[uint64]*model.Event)}
	for i := range events {
		e := events[i]
		s.events[e.ID] = &e
	}
	return s
}

func (s *fakeEventStore) GetByID(_ context.Context, id uint64) (*model.Event, error) {
	e, ok := s.events[id]
	if !ok {
		return nil, errors.New("event not found")
	}
	cp := *e
	return &cp, nil
}

func (s *fakeEventStore) ListByRun(_ context.Context, runID uint64) ([]model.Event, error) {
	var out []model.Event
	for _, e := range s.events {
		if e.RunID == runID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayNumber != out[j].DayNumber {
			return out[i].DayNumber < out[j].DayNumber
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *fakeEventStore) UpdateSchedule(_ context.Context, id uint64, day int, start string) error {
	if id == s.failUpdateID && s.failUpdateID != 0 {
		return errStoreDown
	}
	e, ok := s.events[id]
	if !ok {
		return errors.New("event not found")
	}
	e.DayNumber = day
	e.StartTime = start
	s.writes = append(s.writes, scheduleWrite{ID: id, Day: day, Start: start})
	return nil
}

type sceneWrite struct {
	ID       uint64
	Day      int
	Start    string
	Location *string
}

type fakeSceneStore struct {
	scenes       map[uint64]*model.Scene
	writes       []sceneWrite
	failUpdateID uint64
}

func newFakeSceneStore(scenes ...model.Scene) *fakeSceneStore {
	s := &fakeSceneStore{scenes: make(map[uint64]*model.Scene)}
	for i := range scenes {
		sc := scenes[i]
		s.scenes[sc.ID] = &sc
	}
	return s
}

func (s *fakeSceneStore) ListByRun(_ context.Context, runID uint64) ([]model.Scene, error) {
	var out []model.Scene
	for _, sc := range s.scenes {
		if sc.RunID == runID {
			out = append(out, *sc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeSceneStore) UpdateSchedule(_ context.Context, id uint64, day int, start string, location *string) error {
	if id == s.failUpdateID && s.failUpdateID != 0 {
		return errStoreDown
	}
	sc, ok := s.scenes[id]
	if !ok {
		return errors.New("scene not found")
	}
	sc.DayNumber = day
	sc.StartTime = start
	sc.Location = location
	s.writes = append(s.writes, sceneWrite{ID: id, Day: day, Start: start, Location: location})
	return nil
}

type fakeRunStore struct {
	runs map[uint64]*model.Run
}

func newFakeRunStore(runs ...model.Run) *fakeRunStore {
	s := &fakeRunStore{runs: make(map[uint64]*model.Run)}
	for i := range runs {
		r := runs[i]
		s.runs[r.ID] = &r
	}
	return s
}

func (s *fakeRunStore) GetByID(_ context.Context, id uint64) (*model.Run, error) {
	r, ok := s.runs[id]
	if !ok {
		return nil, errors.New("run not found")
	}
	cp := *r
	return &cp, nil
}

func (s *fakeRunStore) ListAll(_ context.Context) ([]model.Run, error) {
	var out []model.Run
	for _, r := range s.runs {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeActorStore struct {
	actors      []model.Actor
	assignments map[uint64]map[uint64]string // runID -> actorID -> performer
}

func (s *fakeActorStore) ListAll(_ context.Context) ([]model.Actor, error) {
	return append([]model.Actor(nil), s.actors...), nil
}

func (s *fakeActorStore) ListAssignments(_ context.Context, runID uint64) (map[uint64]string, error) {
	m := make(map[uint64]string)
	for actorID, performer := range s.assignments[runID] {
		m[actorID] = performer
	}
	return m, nil
}

type fakeOrderableStore struct {
	items      []model.KeyUpdate // stored id/key pairs, runID-agnostic
	batches    [][]model.KeyUpdate
	failUpdate bool
}

func (s *fakeOrderableStore) ListByRunMaterials(runID uint64) []model.Material {
	out := make([]model.Material, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, model.Material{ID: it.ID, RunID: runID, SortKey: it.Key})
	}
	return out
}

type fakeMaterialStore struct{ fakeOrderableStore }

func (s *fakeMaterialStore) ListByRun(_ context.Context, runID uint64) ([]model.Material, error) {
	return s.ListByRunMaterials(runID), nil
}

func (s *fakeMaterialStore) UpdateSortKeys(_ context.Context, updates []model.KeyUpdate) error {
	if s.failUpdate {
		return errStoreDown
	}
	s.batches = append(s.batches, updates)
	for _, u := range updates {
		for i := range s.items {
			if s.items[i].ID == u.ID {
				s.items[i].Key = u.Key
			}
		}
	}
	return nil
}

type fakeDocumentStore struct{ fakeOrderableStore }

func (s *fakeDocumentStore) ListByRun(_ context.Context, runID uint64) ([]model.Document, error) {
	out := make([]model.Document, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, model.Document{ID: it.ID, RunID: runID, SortKey: it.Key})
	}
	return out, nil
}

func (s *fakeDocumentStore) UpdateSortKeys(_ context.Context, updates []model.KeyUpdate) error {
	if s.failUpdate {
		return errStoreDown
	}
	s.batches = append(s.batches, updates)
	for _, u := range updates {
		for i := range s.items {
			if s.items[i].ID == u.ID {
				s.items[i].Key = u.Key
			}
		}
	}
	return nil
}

type fakePublisher struct {
	changed []queue.ScheduleChangedEvent
	digests []queue.ConflictDigestEvent
}

func (p *fakePublisher) PublishScheduleChanged(_ context.Context, ev queue.ScheduleChangedEvent) error {
	p.changed = append(p.changed, ev)
	return nil
}

func (p *fakePublisher) PublishConflictDigest(_ context.Context, ev queue.ConflictDigestEvent) error {
	p.digests = append(p.digests, ev)
	return nil
}

func strptr(s string) *string { return &s }

func u64ptr(v uint64) *uint64 { return &v }
