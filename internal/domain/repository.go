package domain

import "context"

// EventRepository описывает операции хранилища событий статусов.
// RecordEvent атомарно пишет событие и обновляет строку задачи, так что
// читатель никогда не видит задачу с CurrentState, не соответствующим
// её последнему событию.
type EventRepository interface {
	RecordEvent(ctx context.Context, rec EventRecord) error
	ListEventsForIssue(ctx context.Context, issueID string) ([]StateEvent, error)
	GetIssue(ctx context.Context, issueID string) (Issue, error)
	ListIssues(ctx context.Context) ([]Issue, error)
	ListIssuesByCurrentState(ctx context.Context, state string) ([]Issue, error)
}
