package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/runboard/runboard/internal/clock"
	"github.com/runboard/runboard/internal/model"
	"github.com/runboard/runboard/internal/repository"
	"github.com/runboard/runboard/internal/service"
)

var errStoreDown = errors.New("store down")

type stubEventStore struct {
	events     map[uint64]model.Event
	failUpdate bool
}

func (s *stubEventStore) GetByID(_ context.Context, id uint64) (*model.Event, error) {
	e, ok := s.events[id]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	return &e, nil
}

func (s *stubEventStore) ListByRun(_ context.Context, runID uint64) ([]model.Event, error) {
	var out []model.Event
	for _, e := range s.events {
		if e.RunID == runID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubEventStore) UpdateSchedule(_ context.Context, id uint64, day int, start string) error {
	if s.failUpdate {
		return errStoreDown
	}
	e := s.events[id]
	e.DayNumber = day
	e.StartTime = start
	s.events[id] = e
	return nil
}

type stubSceneStore struct {
	scenes     map[uint64]model.Scene
	failUpdate bool
}

func (s *stubSceneStore) ListByRun(_ context.Context, runID uint64) ([]model.Scene, error) {
	var out []model.Scene
	for _, sc := range s.scenes {
		if sc.RunID == runID {
			out = append(out, sc)
		}
	}
	return out, nil
}

func (s *stubSceneStore) UpdateSchedule(_ context.Context, id uint64, day int, start string, location *string) error {
	if s.failUpdate {
		return errStoreDown
	}
	sc := s.scenes[id]
	sc.DayNumber = day
	sc.StartTime = start
	sc.Location = location
	s.scenes[id] = sc
	return nil
}

type stubRunStore struct {
	runs map[uint64]model.Run
}

func (s *stubRunStore) GetByID(_ context.Context, id uint64) (*model.Run, error) {
	r, ok := s.runs[id]
	if !ok {
		return nil, repository.ErrRunNotFound
	}
	return &r, nil
}

func (s *stubRunStore) ListAll(_ context.Context) ([]model.Run, error) {
	var out []model.Run
	for _, r := range s.runs {
		out = append(out, r)
	}
	return out, nil
}

type stubActorStore struct{}

func (stubActorStore) ListAll(_ context.Context) ([]model.Actor, error) { return nil, nil }
func (stubActorStore) ListAssignments(_ context.Context, _ uint64) (map[uint64]string, error) {
	return map[uint64]string{}, nil
}

type stubOrderableStore struct {
	items []model.KeyUpdate
}

func (s *stubOrderableStore) current() []model.KeyUpdate { return s.items }

type stubMaterialStore struct{ stubOrderableStore }

func (s *stubMaterialStore) ListByRun(_ context.Context, _ uint64) ([]model.Material, error) {
	var out []model.Material
	for _, it := range s.current() {
		out = append(out, model.Material{ID: it.ID, SortKey: it.Key})
	}
	return out, nil
}

func (s *stubMaterialStore) UpdateSortKeys(_ context.Context, updates []model.KeyUpdate) error {
	return nil
}

type stubDocumentStore struct{ stubOrderableStore }

func (s *stubDocumentStore) ListByRun(_ context.Context, _ uint64) ([]model.Document, error) {
	var out []model.Document
	for _, it := range s.current() {
		out = append(out, model.Document{ID: it.ID, SortKey: it.Key})
	}
	return out, nil
}

func (s *stubDocumentStore) UpdateSortKeys(_ context.Context, updates []model.KeyUpdate) error {
	return nil
}

func strptr(s string) *string { return &s }
func u64ptr(v uint64) *uint64 { return &v }

func fixture() (*stubEventStore, *stubSceneStore, *stubRunStore) {
	events := &stubEventStore{events: map[uint64]model.Event{
		1: {ID: 1, RunID: 7, DayNumber: 1, StartTime: "09:00:00", DurationMinutes: 30, EventType: model.EventProgramme, Title: "Opening"},
		2: {ID: 2, RunID: 7, DayNumber: 1, StartTime: "09:30:00", DurationMinutes: 15, EventType: model.EventProgramme, Title: "Reveal", LinkedSceneID: u64ptr(40), Location: strptr("Main stage")},
	}}
	scenes := &stubSceneStore{scenes: map[uint64]model.Scene{
		40: {ID: 40, ActorID: 5, RunID: 7, DayNumber: 1, StartTime: "09:30:00", DurationMinutes: 15, Description: "The reveal"},
	}}
	runs := &stubRunStore{runs: map[uint64]model.Run{
		7: {ID: 7, Title: "Spring run", FirstDay: time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)},
	}}
	return events, scenes, runs
}

func newHandler(events *stubEventStore, scenes *stubSceneStore, runs *stubRunStore) *ScheduleHandler {
	clk := clock.NewFixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	sched := service.NewScheduleService(runs, events, scenes, stubActorStore{}, nil, clk, 15)
	resched := service.NewRescheduleService(events, scenes, nil, 15, 480)
	ordering := service.NewOrderingService(&stubMaterialStore{}, &stubDocumentStore{})
	return NewScheduleHandler(sched, resched, ordering, nil)
}

func doJSON(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestGetSchedule(t *testing.T) {
	e := echo.New()
	h := newHandler(fixture())

	t.Run("returns the rendered view", func(t *testing.T) {
		c, rec := doJSON(e, http.MethodGet, "/", "")
		c.SetPath("/v1/runs/:id/schedule")
		c.SetParamNames("id")
		c.SetParamValues("7")

		if err := h.GetSchedule(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var view struct {
			RunID      uint64   `json:"run_id"`
			GridStart  string   `json:"grid_start"`
			SlotLabels []string `json:"slot_labels"`
			Days       []struct {
				Day    int `json:"day"`
				Events []struct {
					ID   uint64 `json:"id"`
					Lane int    `json:"lane"`
				} `json:"events"`
			} `json:"days"`
			ConflictActorIDs []uint64 `json:"conflict_actor_ids"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if view.RunID != 7 || view.GridStart != "09:00:00" {
			t.Fatalf("unexpected view header: run %d grid %s", view.RunID, view.GridStart)
		}
		if len(view.Days) != 1 || len(view.Days[0].Events) != 2 {
			t.Fatalf("expected one day with two events, got %+v", view.Days)
		}
		for _, ev := range view.Days[0].Events {
			if ev.Lane != 0 {
				t.Fatalf("non-overlapping events must share lane 0, got %d for event %d", ev.Lane, ev.ID)
			}
		}
		if view.ConflictActorIDs == nil {
			t.Fatal("conflict_actor_ids must be an empty array, not null")
		}
	})

	t.Run("rejects a malformed run id", func(t *testing.T) {
		c, rec := doJSON(e, http.MethodGet, "/", "")
		c.SetPath("/v1/runs/:id/schedule")
		c.SetParamNames("id")
		c.SetParamValues("abc")

		if err := h.GetSchedule(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("maps a missing run to 404", func(t *testing.T) {
		c, rec := doJSON(e, http.MethodGet, "/", "")
		c.SetPath("/v1/runs/:id/schedule")
		c.SetParamNames("id")
		c.SetParamValues("99")

		if err := h.GetSchedule(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestDropEvent(t *testing.T) {
	e := echo.New()

	t.Run("moves the event and reports the cascaded scene", func(t *testing.T) {
		events, scenes, runs := fixture()
		h := newHandler(events, scenes, runs)

		c, rec := doJSON(e, http.MethodPost, "/", `{"day":2,"slot_index":1}`)
		c.SetPath("/v1/events/:id/drop")
		c.SetParamNames("id")
		c.SetParamValues("2")

		if err := h.DropEvent(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var res dropResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if res.Day != 2 || res.StartTime != "09:15:00" || res.NoOp {
			t.Fatalf("unexpected drop result: %+v", res)
		}
		if res.SceneID == nil || *res.SceneID != 40 {
			t.Fatalf("expected scene 40 in response, got %v", res.SceneID)
		}
		if sc := scenes.scenes[40]; sc.DayNumber != 2 || sc.StartTime != "09:15:00" {
			t.Fatalf("scene did not follow the event: %+v", sc)
		}
	})

	t.Run("rejects a slot outside the grid", func(t *testing.T) {
		h := newHandler(fixture())

		c, rec := doJSON(e, http.MethodPost, "/", `{"day":1,"slot_index":500}`)
		c.SetPath("/v1/events/:id/drop")
		c.SetParamNames("id")
		c.SetParamValues("1")

		if err := h.DropEvent(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("flags a failed scene cascade for re-fetch", func(t *testing.T) {
		events, scenes, runs := fixture()
		scenes.failUpdate = true
		h := newHandler(events, scenes, runs)

		c, rec := doJSON(e, http.MethodPost, "/", `{"day":2,"slot_index":1}`)
		c.SetPath("/v1/events/:id/drop")
		c.SetParamNames("id")
		c.SetParamValues("2")

		if err := h.DropEvent(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		var body struct {
			Refetch bool `json:"refetch"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if !body.Refetch {
			t.Fatalf("expected refetch flag, got %s", rec.Body.String())
		}
	})
}

func TestReorderDay(t *testing.T) {
	e := echo.New()

	t.Run("rewrites the day back to back", func(t *testing.T) {
		events, scenes, runs := fixture()
		h := newHandler(events, scenes, runs)

		c, rec := doJSON(e, http.MethodPost, "/", `{"ordered_ids":[2,1]}`)
		c.SetPath("/v1/runs/:id/days/:day/reorder")
		c.SetParamNames("id", "day")
		c.SetParamValues("7", "1")

		if err := h.ReorderDay(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got := events.events[2].StartTime; got != "08:00:00" {
			t.Fatalf("event 2 should lead the day at 08:00:00, got %s", got)
		}
		if got := events.events[1].StartTime; got != "08:15:00" {
			t.Fatalf("event 1 should follow at 08:15:00, got %s", got)
		}
	})

	t.Run("rejects an id list that is not a permutation", func(t *testing.T) {
		h := newHandler(fixture())

		c, rec := doJSON(e, http.MethodPost, "/", `{"ordered_ids":[1]}`)
		c.SetPath("/v1/runs/:id/days/:day/reorder")
		c.SetParamNames("id", "day")
		c.SetParamValues("7", "1")

		if err := h.ReorderDay(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
