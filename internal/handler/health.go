// Package handler exposes the HTTP endpoints of the scheduling service:
// public read endpoints for the rendered board and the raw listings, and
// authenticated mutation endpoints for rescheduling, reordering and the
// minimal event CRUD.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the liveness probe used by load balancers and monitoring.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
