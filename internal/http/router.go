package httpapi

import (
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/config"
	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/logging"
	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/service"
)

// NewRouter настраивает HTTP-маршруты и middleware сервиса.
func NewRouter(
	ingestSvc *service.IngestService,
	historySvc *service.HistoryService,
	statsSvc *service.StatsService,
	timelineSvc *service.TimelineService,
	vizSvc *service.VizService,
	cfg *config.Config,
	logger *logging.Logger,
) nethttp.Handler {
	r := chi.NewRouter()

	r.Use(LoggingMiddleware(logger))
	r.Use(RecoveryMiddleware(logger))

	webhookHandlers := NewWebhookHandlers(ingestSvc)
	issueHandlers := NewIssueHandlers(historySvc)
	vizHandlers := NewVizHandlers(statsSvc, timelineSvc, vizSvc)

	r.Get("/health", HealthHandler)

	r.With(WebhookSignatureMiddleware(cfg.WebhookSecret)).
		Post("/webhook", webhookHandlers.Handle)

	r.Route("/issues", func(r chi.Router) {
		r.Get("/", issueHandlers.GetAll)
		r.Get("/state/{state}", issueHandlers.GetByState)
		r.Get("/{identifier}", issueHandlers.GetByIdentifier)
	})

	// Визуализация закрыта API-ключом
	r.Route("/visualize", func(r chi.Router) {
		r.Use(APIKeyMiddleware(cfg.APIKey))
		r.Get("/timeline", vizHandlers.GetTimeline)
		r.Get("/stats", vizHandlers.GetStats)
	})

	return r
}
