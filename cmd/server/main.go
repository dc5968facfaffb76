// Command server runs the production scheduling API: the rendered board
// with its time grid and lanes, grid-drop and reorder rescheduling, and
// the flat material/document ordering.
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"

	"github.com/runboard/runboard/internal/clock"
	"github.com/runboard/runboard/internal/config"
	"github.com/runboard/runboard/internal/database"
	"github.com/runboard/runboard/internal/handler"
	"github.com/runboard/runboard/internal/queue"
	"github.com/runboard/runboard/internal/repository"
	"github.com/runboard/runboard/internal/router"
	"github.com/runboard/runboard/internal/service"
	"github.com/runboard/runboard/migrations"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if err := migrations.Apply(context.Background(), db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	rdb := config.NewRedisClient() // nil when Redis is unreachable

	runRepo := repository.NewRunRepo(db)
	eventRepo := repository.NewEventRepo(db)
	sceneRepo := repository.NewSceneRepo(db)
	actorRepo := repository.NewActorRepo(db)
	materialRepo := repository.NewMaterialRepo(db)
	documentRepo := repository.NewDocumentRepo(db)

	publisher := queue.NewPublisher()
	scheduleSvc := service.NewScheduleService(runRepo, eventRepo, sceneRepo, actorRepo, publisher, clock.NewSystem(), cfg.SlotMinutes)
	rescheduleSvc := service.NewRescheduleService(eventRepo, sceneRepo, publisher, cfg.SlotMinutes, cfg.AnchorMinute)
	orderingSvc := service.NewOrderingService(materialRepo, documentRepo)

	browseHandler := handler.NewBrowseHandler(runRepo, eventRepo, sceneRepo, actorRepo, materialRepo, documentRepo)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, rescheduleSvc, orderingSvc, rdb)
	eventHandler := handler.NewEventHandler(eventRepo, runRepo, rdb)

	// Broker consumer and the periodic conflict scan run alongside the
	// HTTP server; both tolerate a missing broker and just log.
	go func() {
		if err := queue.StartScheduleConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()
	cr := cron.New()
	if _, err := cr.AddFunc(cfg.ConflictCron, func() {
		scheduleSvc.ScanConflicts(context.Background())
	}); err != nil {
		log.Fatalf("conflict scan cron %q: %v", cfg.ConflictCron, err)
	}
	cr.Start()
	defer cr.Stop()

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e)
	router.RegisterPublic(e, browseHandler, scheduleHandler, config.LoadCacheConfig(), rdb)
	router.RegisterMutations(e, scheduleHandler, eventHandler, cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
