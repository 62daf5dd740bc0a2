package service

import (
	"context"

	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/domain"
)

// TimelineService приводит истории задач к форме, пригодной для построения
// таймлайна: одна серия на задачу, вертикальная ось — фиксированный
// упорядоченный список отслеживаемых статусов.
type TimelineService struct {
	repo    domain.EventRepository
	tracked []string
}

// NewTimelineService создаёт новый TimelineService.
func NewTimelineService(repo domain.EventRepository, tracked []string) *TimelineService {
	return &TimelineService{
		repo:    repo,
		tracked: tracked,
	}
}

// Tracked возвращает отслеживаемые статусы в порядке ординалов оси.
func (s *TimelineService) Tracked() []string {
	return s.tracked
}

// GetTimelineData строит серии по задачам и метрики переходов между
// отслеживаемыми статусами. Задачи без событий в отслеживаемых статусах
// в таймлайн не попадают (но продолжают учитываться в распределениях).
// filterStates дополнительно сужает выборку до задач, побывавших хотя бы
// в одном из перечисленных статусов.
func (s *TimelineService) GetTimelineData(ctx context.Context, filterStates []string) (domain.TimelineData, error) {
	issues, err := s.repo.ListIssues(ctx)

	if err != nil {
		return domain.TimelineData{}, domain.NewDomainError(domain.ErrorCodeStorage, err)
	}

	positions := make(map[string]int, len(s.tracked))

	for i, state := range s.tracked {
		positions[state] = i
	}

	filter := make(map[string]struct{}, len(filterStates))

	for _, state := range filterStates {
		filter[state] = struct{}{}
	}

	data := domain.TimelineData{
		Metrics: make(map[domain.TransitionKey]domain.TransitionMetric),
	}

	for _, issue := range issues {
		history, err := s.repo.ListEventsForIssue(ctx, issue.Identifier)

		if err != nil {
			return domain.TimelineData{}, domain.NewDomainError(domain.ErrorCodeStorage, err)
		}

		trackedHistory := FilterStates(history, s.tracked)

		if len(trackedHistory) == 0 {
			continue
		}

		if len(filter) > 0 && !hasAnyState(trackedHistory, filter) {
			continue
		}

		series := domain.TimelineSeries{
			Identifier: issue.Identifier,
			Title:      issue.Title,
			Points:     make([]domain.TimelinePoint, 0, len(trackedHistory)),
		}

		for _, ev := range trackedHistory {
			series.Points = append(series.Points, domain.TimelinePoint{
				State:      ev.State,
				Position:   positions[ev.State],
				ObservedAt: ev.ObservedAt,
			})
		}

		data.Series = append(data.Series, series)

		foldTransitions(data.Metrics, DeriveTransitions(trackedHistory))
	}

	if len(data.Series) == 0 {
		return domain.TimelineData{}, domain.NewDomainError(domain.ErrorCodeNotFound, domain.ErrNoIssues)
	}

	return data, nil
}

func hasAnyState(history []domain.StateEvent, states map[string]struct{}) bool {
	for _, ev := range history {
		if _, ok := states[ev.State]; ok {
			return true
		}
	}

	return false
}
