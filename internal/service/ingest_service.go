package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/domain"
)

// Действия трекера, которые сервис принимает как изменение статуса.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
)

// IngestResult описывает исход обработки уведомления.
type IngestResult string

// Исходы обработки: событие записано, повторная доставка пропущена,
// незнакомое действие проигнорировано.
const (
	ResultCreated IngestResult = "created"
	ResultUpdated IngestResult = "updated"
	ResultSkipped IngestResult = "skipped"
	ResultIgnored IngestResult = "ignored"
)

// ChangeNotification — нормализованное уведомление об изменении задачи.
type ChangeNotification struct {
	Action     string
	DeliveryID string
	Issue      IssueChange
}

// IssueChange — данные задачи из уведомления.
type IssueChange struct {
	Identifier string
	Title      string
	TeamID     string
	TeamName   string
	State      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IngestService нормализует уведомления трекера в события хранилища.
type IngestService struct {
	repo domain.EventRepository
}

// NewIngestService создаёт новый IngestService.
func NewIngestService(repo domain.EventRepository) *IngestService {
	return &IngestService{
		repo: repo,
	}
}

// Ingest записывает событие статуса из уведомления. Повторная доставка
// (знакомый source_event_id) — успех с результатом ResultSkipped: отправители
// вебхуков доставляют как минимум один раз, и дубликат не ошибка. Действия,
// отличные от create/update, игнорируются без записи.
func (s *IngestService) Ingest(ctx context.Context, n ChangeNotification) (IngestResult, error) {
	if n.Action != ActionCreate && n.Action != ActionUpdate {
		return ResultIgnored, nil
	}

	observedAt := n.Issue.UpdatedAt

	if n.Action == ActionCreate || observedAt.IsZero() {
		observedAt = n.Issue.CreatedAt
	}

	if err := validateChange(n.Issue, observedAt); err != nil {
		return "", domain.NewDomainError(domain.ErrorCodeValidation, err)
	}

	rec := domain.EventRecord{
		IssueID:       n.Issue.Identifier,
		TeamID:        n.Issue.TeamID,
		TeamName:      n.Issue.TeamName,
		Title:         n.Issue.Title,
		State:         n.Issue.State,
		ObservedAt:    observedAt.UTC(),
		SourceEventID: sourceEventID(n, observedAt),
	}

	err := s.repo.RecordEvent(ctx, rec)

	if errors.Is(err, domain.ErrDuplicateEvent) {
		return ResultSkipped, nil
	}

	if err != nil {
		return "", domain.NewDomainError(domain.ErrorCodeStorage, err)
	}

	if n.Action == ActionCreate {
		return ResultCreated, nil
	}

	return ResultUpdated, nil
}

func validateChange(issue IssueChange, observedAt time.Time) error {
	if issue.Identifier == "" {
		return fmt.Errorf("missing required field: identifier")
	}

	if issue.TeamID == "" {
		return fmt.Errorf("missing required field: teamId")
	}

	if issue.State == "" {
		return fmt.Errorf("missing required field: state")
	}

	if observedAt.IsZero() {
		return fmt.Errorf("missing required field: timestamp")
	}

	return nil
}

// sourceEventID — ключ дедупликации: идентификатор доставки вебхука, а для
// бэкфилла (где его нет) детерминированная комбинация задачи, статуса и времени.
func sourceEventID(n ChangeNotification, observedAt time.Time) string {
	if n.DeliveryID != "" {
		return n.DeliveryID
	}

	return fmt.Sprintf("%s:%s:%s", n.Issue.Identifier, n.Issue.State, observedAt.UTC().Format(time.RFC3339))
}
