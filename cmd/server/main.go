package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/config"
	httpapi "github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/http"
	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/logging"
	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/publish"
	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/random"
	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/render"
	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/repository/sqlite"
	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/server"
	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/service"
	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/storage"
)

func main() {
	// Load config
	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Init logger
	logger := logging.NewLogger(cfg.Env)
	logger.Info("starting service", "env", cfg.Env, "db", cfg.DB.Path)

	// Init DB
	db, err := sqlite.NewDB(cfg.DB)

	if err != nil {
		logger.Error("failed to open db", "err", err)
		os.Exit(1)
	}

	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close db", "err", err)
		}
	}()

	// Run migrations
	if err := storage.RunMigrations(db, "migrations"); err != nil {
		logger.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}

	// Repository
	eventRepo := sqlite.NewEventRepository(db)

	// Random source
	randSource := random.NewCryptoRand()

	// External collaborators
	chartRenderer := render.NewChartRenderer()
	drivePublisher := publish.NewDrivePublisher(cfg.Drive)

	// Services
	ingestSvc := service.NewIngestService(eventRepo)
	historySvc := service.NewHistoryService(eventRepo)
	statsSvc := service.NewStatsService(eventRepo, cfg.TrackedStates)
	timelineSvc := service.NewTimelineService(eventRepo, cfg.TrackedStates)
	vizSvc := service.NewVizService(timelineSvc, statsSvc, chartRenderer, drivePublisher, randSource)

	// HTTP router
	router := httpapi.NewRouter(ingestSvc, historySvc, statsSvc, timelineSvc, vizSvc, cfg, logger)

	// HTTP server
	httpServer := server.NewHTTPServer(cfg.HTTP, router, logger)

	// Graceful shutdown
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error("http server error", "err", err)
		}
	}()

	logger.Info("server started", "addr", cfg.HTTP.Addr())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)

	} else {
		logger.Info("server stopped gracefully")
	}
}
