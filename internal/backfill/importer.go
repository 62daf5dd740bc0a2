package backfill

import (
	"context"
	"fmt"
	"time"

	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/logging"
	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/service"
)

// IssueSnapshot — текущее состояние задачи во внешнем трекере.
type IssueSnapshot struct {
	Identifier string
	Title      string
	TeamID     string
	TeamName   string
	State      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Source задаёт интерфейс перечисления существующих задач внешнего трекера.
type Source interface {
	Issues(ctx context.Context) ([]IssueSnapshot, error)
}

// Summary — итоги прогона импорта.
type Summary struct {
	Total   int
	Created int
	Updated int
	Skipped int
}

// Importer разово проигрывает существующие задачи трекера через обычный
// путь приёма событий. Детерминированные ключи дедупликации делают
// повторный прогон идемпотентным.
type Importer struct {
	src    Source
	ingest *service.IngestService
	logger *logging.Logger
}

// NewImporter создаёт новый Importer.
func NewImporter(src Source, ingest *service.IngestService, logger *logging.Logger) *Importer {
	return &Importer{
		src:    src,
		ingest: ingest,
		logger: logger,
	}
}

// Run импортирует снимки задач. Качество истории — best effort: источник
// отдаёт только текущий статус, поэтому для каждой задачи записывается
// состояние на момент создания и, если отличается, на момент обновления.
func (imp *Importer) Run(ctx context.Context) (Summary, error) {
	snapshots, err := imp.src.Issues(ctx)

	if err != nil {
		return Summary{}, fmt.Errorf("list issues from source: %w", err)
	}

	summary := Summary{Total: len(snapshots)}

	for _, snap := range snapshots {
		created, err := imp.replay(ctx, snap, service.ActionCreate, snap.CreatedAt)

		if err != nil {
			return summary, err
		}

		count(&summary, created)

		if !snap.UpdatedAt.IsZero() && !snap.UpdatedAt.Equal(snap.CreatedAt) {
			updated, err := imp.replay(ctx, snap, service.ActionUpdate, snap.UpdatedAt)

			if err != nil {
				return summary, err
			}

			count(&summary, updated)
		}

		imp.logger.Info("imported issue",
			"identifier", snap.Identifier,
			"state", snap.State,
		)
	}

	return summary, nil
}

func (imp *Importer) replay(ctx context.Context, snap IssueSnapshot, action string, observedAt time.Time) (service.IngestResult, error) {
	notification := service.ChangeNotification{
		Action: action,
		Issue: service.IssueChange{
			Identifier: snap.Identifier,
			Title:      snap.Title,
			TeamID:     snap.TeamID,
			TeamName:   snap.TeamName,
			State:      snap.State,
			CreatedAt:  snap.CreatedAt,
			UpdatedAt:  observedAt,
		},
	}

	result, err := imp.ingest.Ingest(ctx, notification)

	if err != nil {
		return "", fmt.Errorf("replay issue %s: %w", snap.Identifier, err)
	}

	return result, nil
}

func count(summary *Summary, result service.IngestResult) {
	switch result {
	case service.ResultCreated:
		summary.Created++

	case service.ResultUpdated:
		summary.Updated++

	case service.ResultSkipped:
		summary.Skipped++
	}
}
