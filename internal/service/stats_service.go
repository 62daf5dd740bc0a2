package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/domain"
)

// Количество переходов в топе сводной статистики.
const commonTransitionsLimit = 10

// StatsService считает агрегированную статистику по историям всех задач.
// Метрики нигде не кэшируются: каждый запрос пересчитывает их по
// зафиксированным на момент чтения данным.
type StatsService struct {
	repo    domain.EventRepository
	tracked []string
}

// NewStatsService создаёт новый StatsService.
func NewStatsService(repo domain.EventRepository, tracked []string) *StatsService {
	return &StatsService{
		repo:    repo,
		tracked: tracked,
	}
}

// ComputeTransitionMetrics агрегирует длительности переходов по всем задачам.
// Участвуют все наблюдавшиеся статусы без ограничений.
func (s *StatsService) ComputeTransitionMetrics(ctx context.Context) (map[domain.TransitionKey]domain.TransitionMetric, error) {
	return s.computeMetrics(ctx, nil)
}

// ComputeStateDistribution возвращает количество задач по текущим статусам.
func (s *StatsService) ComputeStateDistribution(ctx context.Context) (map[string]int, error) {
	issues, err := s.repo.ListIssues(ctx)

	if err != nil {
		return nil, domain.NewDomainError(domain.ErrorCodeStorage, err)
	}

	dist := make(map[string]int)

	for _, issue := range issues {
		dist[issue.CurrentState]++
	}

	return dist, nil
}

// ComputeTeamDistribution возвращает количество задач по командам.
func (s *StatsService) ComputeTeamDistribution(ctx context.Context) (map[string]int, error) {
	issues, err := s.repo.ListIssues(ctx)

	if err != nil {
		return nil, domain.NewDomainError(domain.ErrorCodeStorage, err)
	}

	dist := make(map[string]int)

	for _, issue := range issues {
		team := issue.TeamName

		if team == "" {
			team = "Unknown"
		}

		dist[team]++
	}

	return dist, nil
}

// GetStats собирает полную сводку: распределения, топ переходов, перечень
// наблюдавшихся статусов и метрики по отслеживаемым статусам.
func (s *StatsService) GetStats(ctx context.Context) (domain.Stats, error) {
	issues, err := s.repo.ListIssues(ctx)

	if err != nil {
		return domain.Stats{}, domain.NewDomainError(domain.ErrorCodeStorage, err)
	}

	stats := domain.Stats{
		TotalIssues:       len(issues),
		StateDistribution: make(map[string]int),
		TeamDistribution:  make(map[string]int),
	}

	transitionCounts := make(map[string]int)
	targetMetrics := make(map[domain.TransitionKey]domain.TransitionMetric)
	seenStates := make(map[string]struct{})

	for _, issue := range issues {
		stats.StateDistribution[issue.CurrentState]++

		team := issue.TeamName

		if team == "" {
			team = "Unknown"
		}

		stats.TeamDistribution[team]++

		history, err := s.repo.ListEventsForIssue(ctx, issue.Identifier)

		if err != nil {
			return domain.Stats{}, domain.NewDomainError(domain.ErrorCodeStorage, err)
		}

		for _, ev := range history {
			seenStates[ev.State] = struct{}{}
		}

		for _, tr := range DeriveTransitions(history) {
			transitionCounts[fmt.Sprintf("%s → %s", tr.From, tr.To)]++
		}

		foldTransitions(targetMetrics, DeriveTransitions(FilterStates(history, s.tracked)))
	}

	stats.CommonTransitions = topTransitions(transitionCounts, commonTransitionsLimit)
	stats.TargetStateMetrics = targetMetrics

	for state := range seenStates {
		stats.StatesTracked = append(stats.StatesTracked, state)
	}

	sort.Strings(stats.StatesTracked)

	return stats, nil
}

func (s *StatsService) computeMetrics(ctx context.Context, filter []string) (map[domain.TransitionKey]domain.TransitionMetric, error) {
	issues, err := s.repo.ListIssues(ctx)

	if err != nil {
		return nil, domain.NewDomainError(domain.ErrorCodeStorage, err)
	}

	metrics := make(map[domain.TransitionKey]domain.TransitionMetric)

	for _, issue := range issues {
		history, err := s.repo.ListEventsForIssue(ctx, issue.Identifier)

		if err != nil {
			return nil, domain.NewDomainError(domain.ErrorCodeStorage, err)
		}

		foldTransitions(metrics, DeriveTransitions(FilterStates(history, filter)))
	}

	return metrics, nil
}

// foldTransitions добавляет переходы в агрегат, создавая бакет при первом
// появлении пары статусов.
func foldTransitions(metrics map[domain.TransitionKey]domain.TransitionMetric, transitions []domain.Transition) {
	for _, tr := range transitions {
		key := domain.TransitionKey{From: tr.From, To: tr.To}
		m, ok := metrics[key]

		if !ok {
			m = domain.TransitionMetric{Min: tr.Duration, Max: tr.Duration}
		}

		m.Count++
		m.Sum += tr.Duration

		if tr.Duration < m.Min {
			m.Min = tr.Duration
		}

		if tr.Duration > m.Max {
			m.Max = tr.Duration
		}

		metrics[key] = m
	}
}

func topTransitions(counts map[string]int, limit int) map[string]int {
	type kv struct {
		key   string
		count int
	}

	sorted := make([]kv, 0, len(counts))

	for k, c := range counts {
		sorted = append(sorted, kv{key: k, count: c})
	}

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}

		return sorted[i].key < sorted[j].key
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	top := make(map[string]int, len(sorted))

	for _, e := range sorted {
		top[e.key] = e.count
	}

	return top
}
