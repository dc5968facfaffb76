package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/runboard/runboard/internal/middleware"
	"github.com/runboard/runboard/internal/model"
	"github.com/runboard/runboard/internal/service"
)

// ScheduleHandler serves the rendered board and the reschedule/reorder
// mutations.  Redis may be nil; the cache epoch bump then degrades to a
// no-op alongside the disabled response cache.
type ScheduleHandler struct {
	Schedule   *service.ScheduleService
	Reschedule *service.RescheduleService
	Ordering   *service.OrderingService
	Redis      *redis.Client
}

// NewScheduleHandler wires the handler and panics on missing services.
func NewScheduleHandler(sched *service.ScheduleService, resched *service.RescheduleService, ordering *service.OrderingService, rdb *redis.Client) *ScheduleHandler {
	if sched == nil || resched == nil || ordering == nil {
		panic("nil service passed to NewScheduleHandler")
	}
	return &ScheduleHandler{Schedule: sched, Reschedule: resched, Ordering: ordering, Redis: rdb}
}

// GetSchedule returns the full rendered view of one run: grid range and
// slot labels, per-day events with lane indices, conflicting actor ids and
// the currently running event.
func (h *ScheduleHandler) GetSchedule(c echo.Context) error {
	runID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid run id"})
	}
	view, err := h.Schedule.BuildView(c.Request().Context(), runID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

type dropRequest struct {
	Day       int `json:"day"`
	SlotIndex int `json:"slot_index"`
}

type dropResponse struct {
	EventID   uint64  `json:"event_id"`
	Day       int     `json:"day"`
	StartTime string  `json:"start_time"`
	NoOp      bool    `json:"no_op"`
	SceneID   *uint64 `json:"scene_id,omitempty"`
}

// DropEvent moves an event onto a (day, slot) grid target.  The linked
// scene, if any, follows the event.
func (h *ScheduleHandler) DropEvent(c echo.Context) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req dropRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	res, err := h.Reschedule.DropOnGrid(c.Request().Context(), eventID, req.Day, req.SlotIndex)
	if err != nil {
		return writeError(c, err)
	}
	if !res.NoOp {
		middleware.BumpCacheEpoch(c.Request().Context(), h.Redis)
	}
	return c.JSON(http.StatusOK, dropResponse{
		EventID:   res.Event.ID,
		Day:       res.Event.DayNumber,
		StartTime: res.Event.StartTime,
		NoOp:      res.NoOp,
		SceneID:   res.SceneID,
	})
}

type reorderRequest struct {
	OrderedIDs []uint64 `json:"ordered_ids"`
}

// ReorderDay rewrites one day's event sequence back to back in the given
// order and reports which records actually changed.
func (h *ScheduleHandler) ReorderDay(c echo.Context) error {
	runID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid run id"})
	}
	day, err := pathInt(c, "day")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid day"})
	}
	var req reorderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	res, err := h.Reschedule.ReorderDay(c.Request().Context(), runID, day, req.OrderedIDs)
	if err != nil {
		return writeError(c, err)
	}
	if len(res.ChangedEventIDs) > 0 {
		middleware.BumpCacheEpoch(c.Request().Context(), h.Redis)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"changed_event_ids": idsOrEmpty(res.ChangedEventIDs),
		"scene_ids":         idsOrEmpty(res.SceneIDs),
	})
}

// ReorderMaterials renumbers the run's material list.
func (h *ScheduleHandler) ReorderMaterials(c echo.Context) error {
	return h.reorderList(c, h.Ordering.ReorderMaterials)
}

// ReorderDocuments renumbers the run's document list.
func (h *ScheduleHandler) ReorderDocuments(c echo.Context) error {
	return h.reorderList(c, h.Ordering.ReorderDocuments)
}

func (h *ScheduleHandler) reorderList(c echo.Context, reorder func(ctx context.Context, runID uint64, orderedIDs []uint64) ([]model.KeyUpdate, error)) error {
	runID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid run id"})
	}
	var req reorderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	changed, err := reorder(c.Request().Context(), runID, req.OrderedIDs)
	if err != nil {
		return writeError(c, err)
	}
	if len(changed) > 0 {
		middleware.BumpCacheEpoch(c.Request().Context(), h.Redis)
	}
	if changed == nil {
		changed = []model.KeyUpdate{}
	}
	return c.JSON(http.StatusOK, echo.Map{"changed": changed})
}

func idsOrEmpty(ids []uint64) []uint64 {
	if ids == nil {
		return []uint64{}
	}
	return ids
}
