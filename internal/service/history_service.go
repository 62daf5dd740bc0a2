package service

import (
	"context"

	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/domain"
)

// HistoryService восстанавливает упорядоченные истории статусов задач.
type HistoryService struct {
	repo domain.EventRepository
}

// NewHistoryService создаёт новый HistoryService.
func NewHistoryService(repo domain.EventRepository) *HistoryService {
	return &HistoryService{
		repo: repo,
	}
}

// IssueWithHistory — задача вместе с её упорядоченной историей событий.
type IssueWithHistory struct {
	Issue  domain.Issue
	Events []domain.StateEvent
}

// BuildHistory возвращает события задачи в порядке (observed_at, seq).
func (s *HistoryService) BuildHistory(ctx context.Context, issueID string) ([]domain.StateEvent, error) {
	return s.repo.ListEventsForIssue(ctx, issueID)
}

// GetIssue возвращает задачу с историей; для неизвестного идентификатора — NOT_FOUND.
func (s *HistoryService) GetIssue(ctx context.Context, issueID string) (IssueWithHistory, error) {
	issue, err := s.repo.GetIssue(ctx, issueID)

	if err != nil {
		if err == domain.ErrNotFound {
			return IssueWithHistory{}, domain.NewDomainError(domain.ErrorCodeNotFound, err)
		}

		return IssueWithHistory{}, domain.NewDomainError(domain.ErrorCodeStorage, err)
	}

	events, err := s.repo.ListEventsForIssue(ctx, issueID)

	if err != nil {
		return IssueWithHistory{}, domain.NewDomainError(domain.ErrorCodeStorage, err)
	}

	return IssueWithHistory{Issue: issue, Events: events}, nil
}

// ListIssues возвращает все задачи с историями.
func (s *HistoryService) ListIssues(ctx context.Context) ([]IssueWithHistory, error) {
	issues, err := s.repo.ListIssues(ctx)

	if err != nil {
		return nil, domain.NewDomainError(domain.ErrorCodeStorage, err)
	}

	return s.attachHistories(ctx, issues)
}

// ListIssuesByState возвращает задачи в указанном текущем статусе с историями.
func (s *HistoryService) ListIssuesByState(ctx context.Context, state string) ([]IssueWithHistory, error) {
	issues, err := s.repo.ListIssuesByCurrentState(ctx, state)

	if err != nil {
		return nil, domain.NewDomainError(domain.ErrorCodeStorage, err)
	}

	return s.attachHistories(ctx, issues)
}

func (s *HistoryService) attachHistories(ctx context.Context, issues []domain.Issue) ([]IssueWithHistory, error) {
	res := make([]IssueWithHistory, 0, len(issues))

	for _, issue := range issues {
		events, err := s.repo.ListEventsForIssue(ctx, issue.Identifier)

		if err != nil {
			return nil, domain.NewDomainError(domain.ErrorCodeStorage, err)
		}

		res = append(res, IssueWithHistory{Issue: issue, Events: events})
	}

	return res, nil
}

// DeriveTransitions строит переходы по соседним парам событий одной задачи.
// Переход возникает только между различными статусами: повторная доставка
// того же статуса схлопывается и перехода не даёт. Нулевые и отрицательные
// длительности (рассинхронизация часов, бэкфилл) сохраняются как есть —
// агрегация сознательно показывает такие аномалии, а не прячет их.
func DeriveTransitions(history []domain.StateEvent) []domain.Transition {
	if len(history) == 0 {
		return nil
	}

	var transitions []domain.Transition

	// last — первое событие текущей серии одинаковых статусов:
	// длительность перехода меряется от первого попадания в статус
	last := history[0]

	for _, cur := range history[1:] {
		if cur.State == last.State {
			continue
		}

		transitions = append(transitions, domain.Transition{
			From:     last.State,
			To:       cur.State,
			Duration: cur.ObservedAt.Sub(last.ObservedAt),
		})

		last = cur
	}

	return transitions
}

// FilterStates оставляет в истории только события с перечисленными статусами,
// сохраняя порядок.
func FilterStates(history []domain.StateEvent, allowed []string) []domain.StateEvent {
	if len(allowed) == 0 {
		return history
	}

	set := make(map[string]struct{}, len(allowed))

	for _, s := range allowed {
		set[s] = struct{}{}
	}

	var filtered []domain.StateEvent

	for _, ev := range history {
		if _, ok := set[ev.State]; ok {
			filtered = append(filtered, ev)
		}
	}

	return filtered
}
