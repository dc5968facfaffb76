package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/runboard/runboard/internal/model"
	"github.com/runboard/runboard/internal/repository"
	"github.com/runboard/runboard/internal/schedule"
	"github.com/runboard/runboard/internal/service"
)

// pathID parses the :id style path parameter named name as uint64.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// pathInt parses a small positive integer path parameter such as :day.
func pathInt(c echo.Context, name string) (int, error) {
	return strconv.Atoi(c.Param(name))
}

// writeError maps domain errors onto HTTP responses.  Errors marked as
// partial writes additionally carry "refetch": true so clients reload the
// schedule instead of patching their local copy.
func writeError(c echo.Context, err error) error {
	body := echo.Map{"error": err.Error()}
	if errors.Is(err, service.ErrPartialWrite) {
		body["refetch"] = true
		return c.JSON(http.StatusInternalServerError, body)
	}

	var fe *schedule.FormatError
	switch {
	case errors.Is(err, repository.ErrEventNotFound),
		errors.Is(err, repository.ErrRunNotFound),
		errors.Is(err, repository.ErrSceneNotFound),
		errors.Is(err, repository.ErrActorNotFound):
		return c.JSON(http.StatusNotFound, body)
	case errors.Is(err, repository.ErrUniqueness):
		return c.JSON(http.StatusConflict, body)
	case errors.Is(err, service.ErrInvalidTarget),
		errors.Is(err, service.ErrOrderMismatch),
		errors.Is(err, model.ErrInvalidEvent),
		errors.Is(err, model.ErrCrossesMidnight),
		errors.As(err, &fe):
		return c.JSON(http.StatusBadRequest, body)
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
