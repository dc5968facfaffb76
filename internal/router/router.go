// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/runboard/runboard/internal/config"
	"github.com/runboard/runboard/internal/handler"
	"github.com/runboard/runboard/internal/middleware"
)

// RegisterRoutes registers the health check and other routes that carry no
// middleware at all.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated read endpoints: the
// rendered schedule view and the raw listings.  Responses go through the
// Redis response cache when it is enabled; a nil Redis client disables
// caching transparently.
func RegisterPublic(e *echo.Echo, b *handler.BrowseHandler, s *handler.ScheduleHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/v1", middleware.NewRedisCache(cacheCfg, rdb))
	g.GET("/runs", b.GetRuns)
	g.GET("/runs/:id/schedule", s.GetSchedule)
	g.GET("/runs/:id/events", b.GetRunEvents)
	g.GET("/runs/:id/scenes", b.GetRunScenes)
	g.GET("/runs/:id/materials", b.GetRunMaterials)
	g.GET("/runs/:id/documents", b.GetRunDocuments)
	g.GET("/scenes/:id", b.GetScene)
	g.GET("/actors/:id", b.GetActor)
}

// RegisterMutations registers every write endpoint under JWT auth and the
// EDITOR/ADMIN role gate.  The rate limiter applies to this group only;
// reads are protected by the response cache instead.
func RegisterMutations(e *echo.Echo, s *handler.ScheduleHandler, ev *handler.EventHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1")
	g.Use(middleware.NewTokenBucket(rlCfg, rdb))
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("EDITOR", "ADMIN"))

	g.POST("/events", ev.CreateEvent)
	g.PATCH("/events/:id", ev.UpdateEvent)
	g.DELETE("/events/:id", ev.DeleteEvent)

	g.POST("/events/:id/drop", s.DropEvent)
	g.POST("/runs/:id/days/:day/reorder", s.ReorderDay)
	g.POST("/runs/:id/materials/reorder", s.ReorderMaterials)
	g.POST("/runs/:id/documents/reorder", s.ReorderDocuments)
}
