package service

import (
	"context"
	"testing"
	"time"

	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/domain"
)

var testTracked = []string{"Running", "Review", "Merged"}

func TestComputeTransitionMetrics(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewStatsService(repo, testTracked)

	base := ts(t, "2025-06-01T00:00:00Z")

	// Три задачи с переходом A -> B длительностью 2, 4 и 6 часов
	for i, hours := range []int{2, 4, 6} {
		id := string(rune('a'+i)) + "-1"
		mustRecord(t, repo, id, "A", base)
		mustRecord(t, repo, id, "B", base.Add(time.Duration(hours)*time.Hour))
	}

	metrics, err := svc.ComputeTransitionMetrics(context.Background())

	if err != nil {
		t.Fatalf("failed to compute metrics: %v", err)
	}

	m, ok := metrics[domain.TransitionKey{From: "A", To: "B"}]

	if !ok {
		t.Fatalf("expected bucket (A,B), got %v", metrics)
	}

	if m.Count != 3 {
		t.Fatalf("expected count 3, got %d", m.Count)
	}

	if m.Avg() != 4*time.Hour {
		t.Fatalf("expected avg 4h, got %v", m.Avg())
	}

	if m.Min != 2*time.Hour || m.Max != 6*time.Hour {
		t.Fatalf("expected min 2h max 6h, got min %v max %v", m.Min, m.Max)
	}
}

func TestDistributionsSumToIssueCount(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewStatsService(repo, testTracked)

	base := ts(t, "2025-06-01T00:00:00Z")

	record := func(id, team, state string, at time.Time) {
		err := repo.RecordEvent(context.Background(), domain.EventRecord{
			IssueID:       id,
			TeamID:        team,
			TeamName:      team,
			State:         state,
			ObservedAt:    at,
			SourceEventID: id + ":" + state,
		})

		if err != nil {
			t.Fatalf("failed to record: %v", err)
		}
	}

	record("X-1", "alpha", "Running", base)
	record("X-2", "alpha", "Review", base.Add(time.Hour))
	record("X-3", "beta", "Running", base.Add(2*time.Hour))

	states, err := svc.ComputeStateDistribution(context.Background())

	if err != nil {
		t.Fatalf("failed to compute state distribution: %v", err)
	}

	teams, err := svc.ComputeTeamDistribution(context.Background())

	if err != nil {
		t.Fatalf("failed to compute team distribution: %v", err)
	}

	sum := func(m map[string]int) int {
		total := 0

		for _, c := range m {
			total += c
		}

		return total
	}

	if sum(states) != 3 || sum(teams) != 3 {
		t.Fatalf("distributions must sum to 3 issues, got states=%d teams=%d",
			sum(states), sum(teams))
	}

	if states["Running"] != 2 || states["Review"] != 1 {
		t.Fatalf("unexpected state distribution: %v", states)
	}

	if teams["alpha"] != 2 || teams["beta"] != 1 {
		t.Fatalf("unexpected team distribution: %v", teams)
	}
}

func TestGetStats(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewStatsService(repo, testTracked)

	base := ts(t, "2025-06-01T09:00:00Z")

	mustRecord(t, repo, "X-1", "Backlog", base.Add(-time.Hour))
	mustRecord(t, repo, "X-1", "Running", base)
	mustRecord(t, repo, "X-1", "Review", base.Add(90*time.Minute))
	mustRecord(t, repo, "X-2", "Running", base)

	stats, err := svc.GetStats(context.Background())

	if err != nil {
		t.Fatalf("failed to get stats: %v", err)
	}

	if stats.TotalIssues != 2 {
		t.Fatalf("expected 2 issues, got %d", stats.TotalIssues)
	}

	// Backlog -> Running не входит в метрики по отслеживаемым статусам,
	// но входит в общий счётчик переходов
	if stats.CommonTransitions["Backlog → Running"] != 1 {
		t.Fatalf("expected common transition Backlog → Running, got %v", stats.CommonTransitions)
	}

	m, ok := stats.TargetStateMetrics[domain.TransitionKey{From: "Running", To: "Review"}]

	if !ok || m.Count != 1 {
		t.Fatalf("expected tracked bucket (Running,Review) with count 1, got %v", stats.TargetStateMetrics)
	}

	if _, ok := stats.TargetStateMetrics[domain.TransitionKey{From: "Backlog", To: "Running"}]; ok {
		t.Fatalf("untracked states must not appear in target metrics: %v", stats.TargetStateMetrics)
	}

	want := []string{"Backlog", "Review", "Running"}

	if len(stats.StatesTracked) != len(want) {
		t.Fatalf("expected observed states %v, got %v", want, stats.StatesTracked)
	}

	for i, state := range want {
		if stats.StatesTracked[i] != state {
			t.Fatalf("expected observed states %v, got %v", want, stats.StatesTracked)
		}
	}
}

func TestTransitionMetricAvg(t *testing.T) {
	m := domain.TransitionMetric{}

	if m.Avg() != 0 {
		t.Fatalf("empty metric avg must be 0, got %v", m.Avg())
	}
}
