package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/service"
)

// IssueHandlers содержит HTTP-обработчики чтения задач и их историй.
type IssueHandlers struct {
	svc *service.HistoryService
}

// NewIssueHandlers создаёт набор HTTP-обработчиков для работы с задачами.
func NewIssueHandlers(svc *service.HistoryService) *IssueHandlers {
	return &IssueHandlers{svc: svc}
}

// GetAll возвращает все задачи с историями статусов.
func (h *IssueHandlers) GetAll(w http.ResponseWriter, r *http.Request) {
	issues, err := h.svc.ListIssues(r.Context())

	if err != nil {
		WriteError(w, err)
		return
	}

	resp := IssuesResponse{
		Status: "success",
		Count:  len(issues),
		Issues: mapIssuesToDTO(issues),
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// GetByIdentifier возвращает одну задачу с историей статусов.
func (h *IssueHandlers) GetByIdentifier(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	issue, err := h.svc.GetIssue(r.Context(), identifier)

	if err != nil {
		WriteError(w, err)
		return
	}

	resp := IssueResponse{
		Status: "success",
		Issue:  mapIssueToDTO(issue),
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// GetByState возвращает задачи, находящиеся сейчас в указанном статусе.
func (h *IssueHandlers) GetByState(w http.ResponseWriter, r *http.Request) {
	state := chi.URLParam(r, "state")

	issues, err := h.svc.ListIssuesByState(r.Context(), state)

	if err != nil {
		WriteError(w, err)
		return
	}

	resp := IssuesByStateResponse{
		Status: "success",
		State:  state,
		Count:  len(issues),
		Issues: mapIssuesToDTO(issues),
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
