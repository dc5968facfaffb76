package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/runboard/runboard/internal/middleware"
	"github.com/runboard/runboard/internal/model"
	"github.com/runboard/runboard/internal/repository"
	"github.com/runboard/runboard/internal/schedule"
)

// EventHandler is the minimal event CRUD for editors.  Updates are full
// field-set replacements with last-write-wins semantics; there is no
// version column, concurrent editors overwrite each other.
type EventHandler struct {
	EventRepo *repository.EventRepo
	RunRepo   *repository.RunRepo
	Redis     *redis.Client // may be nil
}

// NewEventHandler constructs an EventHandler and panics on nil
// repositories.
func NewEventHandler(events *repository.EventRepo, runs *repository.RunRepo, rdb *redis.Client) *EventHandler {
	if events == nil || runs == nil {
		panic("nil repository passed to NewEventHandler")
	}
	return &EventHandler{EventRepo: events, RunRepo: runs, Redis: rdb}
}

// eventRequest carries the writable fields of an event.  Start times
// accept "HH:MM" or "HH:MM:SS" and are normalized before persisting.
type eventRequest struct {
	RunID             uint64  `json:"run_id"`
	DayNumber         int     `json:"day_number"`
	StartTime         string  `json:"start_time"`
	DurationMinutes   int     `json:"duration_minutes"`
	EventType         string  `json:"event_type"`
	Title             string  `json:"title"`
	Location          *string `json:"location"`
	LinkedActorID     *uint64 `json:"linked_actor_id"`
	LinkedSceneID     *uint64 `json:"linked_scene_id"`
	LinkedMaterialID  *uint64 `json:"linked_material_id"`
	LinkedDocumentID  *uint64 `json:"linked_document_id"`
	PerformerOverride *string `json:"performer_override"`
}

func (req *eventRequest) apply(e *model.Event) error {
	start, err := schedule.TimeToMinutes(req.StartTime)
	if err != nil {
		return err
	}
	e.DayNumber = req.DayNumber
	e.StartTime = schedule.MinutesToTime(start)
	e.DurationMinutes = req.DurationMinutes
	e.EventType = req.EventType
	e.Title = req.Title
	e.Location = req.Location
	e.LinkedActorID = req.LinkedActorID
	e.LinkedSceneID = req.LinkedSceneID
	e.LinkedMaterialID = req.LinkedMaterialID
	e.LinkedDocumentID = req.LinkedDocumentID
	e.PerformerOverride = req.PerformerOverride
	return e.Validate()
}

// CreateEvent inserts a new event after validating its structural
// invariants.  A duplicate scene/material/document link maps to 409.
func (h *EventHandler) CreateEvent(c echo.Context) error {
	ctx := c.Request().Context()
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if _, err := h.RunRepo.GetByID(ctx, req.RunID); err != nil {
		return writeError(c, err)
	}
	ev := &model.Event{RunID: req.RunID}
	if err := req.apply(ev); err != nil {
		return writeError(c, err)
	}
	if err := h.EventRepo.Create(ctx, ev); err != nil {
		return writeError(c, err)
	}
	middleware.BumpCacheEpoch(ctx, h.Redis)
	return c.JSON(http.StatusCreated, echo.Map{"id": ev.ID})
}

// UpdateEvent replaces the writable fields of an existing event.  The
// run id of an event never changes.
func (h *EventHandler) UpdateEvent(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ev, err := h.EventRepo.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := req.apply(ev); err != nil {
		return writeError(c, err)
	}
	if err := h.EventRepo.Update(ctx, ev); err != nil {
		return writeError(c, err)
	}
	middleware.BumpCacheEpoch(ctx, h.Redis)
	return c.JSON(http.StatusOK, echo.Map{"id": ev.ID})
}

// DeleteEvent removes an event.  The scene link lives on the event row,
// so any linked scene survives untouched.
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	if err := h.EventRepo.Delete(ctx, id); err != nil {
		return writeError(c, err)
	}
	middleware.BumpCacheEpoch(ctx, h.Redis)
	return c.NoContent(http.StatusNoContent)
}
