package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/domain"
	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/service"
)

// WebhookHandlers содержит HTTP-обработчик входящих уведомлений трекера.
type WebhookHandlers struct {
	svc *service.IngestService
}

// NewWebhookHandlers создаёт набор HTTP-обработчиков вебхуков.
func NewWebhookHandlers(svc *service.IngestService) *WebhookHandlers {
	return &WebhookHandlers{svc: svc}
}

// Handle обрабатывает уведомление об изменении задачи. Повторные доставки
// и незнакомые действия — не ошибки: отвечаем 200 со статусом info.
func (h *WebhookHandlers) Handle(w http.ResponseWriter, r *http.Request) {
	var req WebhookRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, domain.NewDomainError(domain.ErrorCodeValidation, err))
		return
	}

	notification := service.ChangeNotification{
		Action:     req.Data.Action,
		DeliveryID: r.Header.Get(headerWebhookID),
		Issue: service.IssueChange{
			Identifier: req.Data.Data.Identifier,
			Title:      req.Data.Data.Title,
			TeamID:     req.Data.Data.TeamID,
			TeamName:   req.Data.Data.Team.Name,
			State:      req.Data.Data.State.Name,
			CreatedAt:  req.Data.Data.CreatedAt,
			UpdatedAt:  req.Data.Data.UpdatedAt,
		},
	}

	result, err := h.svc.Ingest(r.Context(), notification)

	if err != nil {
		WriteError(w, err)
		return
	}

	resp := webhookResponse(result, req)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func webhookResponse(result service.IngestResult, req WebhookRequest) WebhookResponse {
	identifier := req.Data.Data.Identifier

	switch result {
	case service.ResultCreated:
		return WebhookResponse{
			Status:  "success",
			Message: fmt.Sprintf("Issue %s created", identifier),
			Action:  "created",
		}

	case service.ResultUpdated:
		return WebhookResponse{
			Status:  "success",
			Message: fmt.Sprintf("Issue %s state updated", identifier),
			Action:  "updated",
		}

	case service.ResultSkipped:
		return WebhookResponse{
			Status:  "info",
			Message: fmt.Sprintf("Issue %s event already recorded", identifier),
			Action:  "skipped",
		}

	default:
		return WebhookResponse{
			Status:  "info",
			Message: fmt.Sprintf("Unhandled action type: %s", req.Data.Action),
			Action:  "ignored",
		}
	}
}
