package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/runboard/runboard/internal/repository"
)

// BrowseHandler aggregates the repositories behind the raw read endpoints.
// Responses expose only presentation-safe fields; internal timestamps are
// filtered out.
type BrowseHandler struct {
	RunRepo      *repository.RunRepo
	EventRepo    *repository.EventRepo
	SceneRepo    *repository.SceneRepo
	ActorRepo    *repository.ActorRepo
	MaterialRepo *repository.MaterialRepo
	DocumentRepo *repository.DocumentRepo
}

// NewBrowseHandler constructs a BrowseHandler and panics on nil
// dependencies.
func NewBrowseHandler(runs *repository.RunRepo, events *repository.EventRepo, scenes *repository.SceneRepo, actors *repository.ActorRepo, materials *repository.MaterialRepo, documents *repository.DocumentRepo) *BrowseHandler {
	if runs == nil || events == nil || scenes == nil || actors == nil || materials == nil || documents == nil {
		panic("nil repository passed to NewBrowseHandler")
	}
	return &BrowseHandler{RunRepo: runs, EventRepo: events, SceneRepo: scenes, ActorRepo: actors, MaterialRepo: materials, DocumentRepo: documents}
}

// RunItem is a run in list responses.
type RunItem struct {
	ID       uint64 `json:"id"`
	Title    string `json:"title"`
	FirstDay string `json:"first_day"` // "YYYY-MM-DD"
}

// EventItem is one event row of a run listing.
type EventItem struct {
	ID                uint64  `json:"id"`
	DayNumber         int     `json:"day_number"`
	StartTime         string  `json:"start_time"`
	DurationMinutes   int     `json:"duration_minutes"`
	EventType         string  `json:"event_type"`
	Title             string  `json:"title"`
	Location          *string `json:"location,omitempty"`
	LinkedActorID     *uint64 `json:"linked_actor_id,omitempty"`
	LinkedSceneID     *uint64 `json:"linked_scene_id,omitempty"`
	LinkedMaterialID  *uint64 `json:"linked_material_id,omitempty"`
	LinkedDocumentID  *uint64 `json:"linked_document_id,omitempty"`
	PerformerOverride *string `json:"performer_override,omitempty"`
}

// SceneItem is one scene row of a run listing, narrative fields included.
type SceneItem struct {
	ID              uint64  `json:"id"`
	ActorID         uint64  `json:"actor_id"`
	DayNumber       int     `json:"day_number"`
	StartTime       string  `json:"start_time"`
	DurationMinutes int     `json:"duration_minutes"`
	Location        *string `json:"location,omitempty"`
	Description     string  `json:"description"`
	Props           string  `json:"props"`
}

// GetRuns lists every run.
func (h *BrowseHandler) GetRuns(c echo.Context) error {
	runs, err := h.RunRepo.ListAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]RunItem, 0, len(runs))
	for _, r := range runs {
		out = append(out, RunItem{ID: r.ID, Title: r.Title, FirstDay: r.FirstDay.Format(time.DateOnly)})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetRunEvents lists a run's events in day/start/id order.
func (h *BrowseHandler) GetRunEvents(c echo.Context) error {
	ctx := c.Request().Context()
	runID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid run id"})
	}
	if _, err := h.RunRepo.GetByID(ctx, runID); err != nil {
		return writeError(c, err)
	}
	events, err := h.EventRepo.ListByRun(ctx, runID)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]EventItem, 0, len(events))
	for _, e := range events {
		out = append(out, EventItem{
			ID:                e.ID,
			DayNumber:         e.DayNumber,
			StartTime:         e.StartTime,
			DurationMinutes:   e.DurationMinutes,
			EventType:         e.EventType,
			Title:             e.Title,
			Location:          e.Location,
			LinkedActorID:     e.LinkedActorID,
			LinkedSceneID:     e.LinkedSceneID,
			LinkedMaterialID:  e.LinkedMaterialID,
			LinkedDocumentID:  e.LinkedDocumentID,
			PerformerOverride: e.PerformerOverride,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// OrderableItem is one row of the material or document listings, in the
// operator-chosen order.
type OrderableItem struct {
	ID      uint64 `json:"id"`
	Title   string `json:"title"`
	SortKey int    `json:"sort_key"`
}

// GetRunMaterials lists a run's materials by sort key.
func (h *BrowseHandler) GetRunMaterials(c echo.Context) error {
	runID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid run id"})
	}
	mats, err := h.MaterialRepo.ListByRun(c.Request().Context(), runID)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]OrderableItem, 0, len(mats))
	for _, m := range mats {
		out = append(out, OrderableItem{ID: m.ID, Title: m.Title, SortKey: m.SortKey})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetRunDocuments lists a run's documents by sort key.
func (h *BrowseHandler) GetRunDocuments(c echo.Context) error {
	runID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid run id"})
	}
	docs, err := h.DocumentRepo.ListByRun(c.Request().Context(), runID)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]OrderableItem, 0, len(docs))
	for _, d := range docs {
		out = append(out, OrderableItem{ID: d.ID, Title: d.Title, SortKey: d.SortKey})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetRunScenes lists a run's scenes.
func (h *BrowseHandler) GetRunScenes(c echo.Context) error {
	ctx := c.Request().Context()
	runID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid run id"})
	}
	if _, err := h.RunRepo.GetByID(ctx, runID); err != nil {
		return writeError(c, err)
	}
	scenes, err := h.SceneRepo.ListByRun(ctx, runID)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]SceneItem, 0, len(scenes))
	for _, s := range scenes {
		out = append(out, SceneItem{
			ID:              s.ID,
			ActorID:         s.ActorID,
			DayNumber:       s.DayNumber,
			StartTime:       s.StartTime,
			DurationMinutes: s.DurationMinutes,
			Location:        s.Location,
			Description:     s.Description,
			Props:           s.Props,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetScene returns one scene with its narrative fields, for the detail
// popup behind a linked event.
func (h *BrowseHandler) GetScene(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid scene id"})
	}
	s, err := h.SceneRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SceneItem{
		ID:              s.ID,
		ActorID:         s.ActorID,
		DayNumber:       s.DayNumber,
		StartTime:       s.StartTime,
		DurationMinutes: s.DurationMinutes,
		Location:        s.Location,
		Description:     s.Description,
		Props:           s.Props,
	})
}

// ActorDetail is one actor exposed via the read API.
type ActorDetail struct {
	ID              uint64  `json:"id"`
	Name            string  `json:"name"`
	GlobalPerformer string  `json:"global_performer,omitempty"`
	ColorTag        *string `json:"color_tag,omitempty"`
}

// GetActor returns one actor's role and default performer.
func (h *BrowseHandler) GetActor(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid actor id"})
	}
	a, err := h.ActorRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ActorDetail{
		ID:              a.ID,
		Name:            a.Name,
		GlobalPerformer: a.GlobalPerformer,
		ColorTag:        a.ColorTag,
	})
}
