package service

import (
	"context"
	"sort"

	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/domain"
)

// fakeEventRepo — хранилище в памяти с теми же инвариантами, что и SQLite:
// порядок (observed_at, seq), дедупликация по (issue, source_event_id),
// upsert задачи при каждой записи.
type fakeEventRepo struct {
	seq    int64
	issues map[string]domain.Issue
	events map[string][]domain.StateEvent
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		issues: make(map[string]domain.Issue),
		events: make(map[string][]domain.StateEvent),
	}
}

func (f *fakeEventRepo) RecordEvent(_ context.Context, rec domain.EventRecord) error {
	for _, ev := range f.events[rec.IssueID] {
		if ev.SourceEventID == rec.SourceEventID {
			return domain.ErrDuplicateEvent
		}
	}

	f.seq++
	f.events[rec.IssueID] = append(f.events[rec.IssueID], domain.StateEvent{
		Seq:           f.seq,
		IssueID:       rec.IssueID,
		State:         rec.State,
		ObservedAt:    rec.ObservedAt,
		SourceEventID: rec.SourceEventID,
	})

	events := f.events[rec.IssueID]
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].ObservedAt.Equal(events[j].ObservedAt) {
			return events[i].ObservedAt.Before(events[j].ObservedAt)
		}

		return events[i].Seq < events[j].Seq
	})

	issue, ok := f.issues[rec.IssueID]

	if !ok {
		issue = domain.Issue{
			Identifier: rec.IssueID,
			CreatedAt:  rec.ObservedAt,
		}
	}

	issue.TeamID = rec.TeamID
	issue.TeamName = rec.TeamName
	issue.Title = rec.Title
	issue.CurrentState = rec.State
	issue.LastUpdated = rec.ObservedAt
	f.issues[rec.IssueID] = issue

	return nil
}

func (f *fakeEventRepo) ListEventsForIssue(_ context.Context, issueID string) ([]domain.StateEvent, error) {
	events := f.events[issueID]
	res := make([]domain.StateEvent, len(events))
	copy(res, events)

	return res, nil
}

func (f *fakeEventRepo) GetIssue(_ context.Context, issueID string) (domain.Issue, error) {
	issue, ok := f.issues[issueID]

	if !ok {
		return domain.Issue{}, domain.ErrNotFound
	}

	return issue, nil
}

func (f *fakeEventRepo) ListIssues(_ context.Context) ([]domain.Issue, error) {
	ids := make([]string, 0, len(f.issues))

	for id := range f.issues {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	issues := make([]domain.Issue, 0, len(ids))

	for _, id := range ids {
		issues = append(issues, f.issues[id])
	}

	return issues, nil
}

func (f *fakeEventRepo) ListIssuesByCurrentState(ctx context.Context, state string) ([]domain.Issue, error) {
	all, _ := f.ListIssues(ctx)

	var issues []domain.Issue

	for _, issue := range all {
		if issue.CurrentState == state {
			issues = append(issues, issue)
		}
	}

	return issues, nil
}
