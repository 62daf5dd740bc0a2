package main

import (
	"context"
	"log"
	"os"

	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/backfill"
	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/config"
	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/logging"
	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/repository/sqlite"
	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/service"
	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/storage"
)

// Разовый импорт существующих задач из Linear в хранилище событий.
// Повторный запуск безопасен: дубликаты отбрасываются по ключу дедупликации.
func main() {
	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.NewLogger(cfg.Env).WithComponent("backfill")

	if cfg.Linear.APIToken == "" || cfg.Linear.TeamID == "" {
		logger.Error("LINEAR_API_TOKEN and LINEAR_TEAM_ID are required")
		os.Exit(1)
	}

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

	if err := storage.RunMigrations(db, "migrations"); err != nil {
		logger.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}

	eventRepo := sqlite.NewEventRepository(db)
	ingestSvc := service.NewIngestService(eventRepo)
	source := backfill.NewLinearClient(cfg.Linear, cfg.TrackedStates)
	importer := backfill.NewImporter(source, ingestSvc, logger)

	summary, err := importer.Run(context.Background())

	if err != nil {
		logger.Error("import failed", "err", err)
		os.Exit(1)
	}

	logger.Info("import complete",
		"total", summary.Total,
		"created", summary.Created,
		"updated", summary.Updated,
		"skipped", summary.Skipped,
	)
}
