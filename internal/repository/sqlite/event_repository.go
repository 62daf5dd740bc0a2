package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/domain"
)

// EventRepository реализует domain.EventRepository для SQLite.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository создаёт новый EventRepository.
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// RecordEvent пишет событие статуса и обновляет строку задачи в одной транзакции.
// Повторный source_event_id для той же задачи даёт domain.ErrDuplicateEvent,
// при этом ничего не записывается.
func (r *EventRepository) RecordEvent(ctx context.Context, rec domain.EventRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)

	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO issues (identifier, team_id, team_name, title, current_state, created_at, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (identifier) DO UPDATE SET
		     team_id       = excluded.team_id,
		     team_name     = excluded.team_name,
		     title         = excluded.title,
		     current_state = excluded.current_state,
		     last_updated  = excluded.last_updated`,
		rec.IssueID, rec.TeamID, rec.TeamName, rec.Title,
		rec.State, rec.ObservedAt.UTC(), rec.ObservedAt.UTC(),
	)

	if err != nil {
		return fmt.Errorf("upsert issue: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO issue_events (issue_id, state, observed_at, source_event_id)
		 VALUES (?, ?, ?, ?)`,
		rec.IssueID, rec.State, rec.ObservedAt.UTC(), rec.SourceEventID,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEvent
		}

		return fmt.Errorf("insert issue_event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// ListEventsForIssue возвращает события задачи, упорядоченные по (observed_at, seq).
func (r *EventRepository) ListEventsForIssue(ctx context.Context, issueID string) ([]domain.StateEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, issue_id, state, observed_at, source_event_id
		   FROM issue_events
		  WHERE issue_id = ?
		  ORDER BY observed_at ASC, seq ASC`,
		issueID,
	)

	if err != nil {
		return nil, fmt.Errorf("select issue_events: %w", err)
	}

	defer func() {
		_ = rows.Close()
	}()

	var events []domain.StateEvent

	for rows.Next() {
		var ev domain.StateEvent

		if err := rows.Scan(&ev.Seq, &ev.IssueID, &ev.State, &ev.ObservedAt, &ev.SourceEventID); err != nil {
			return nil, fmt.Errorf("scan issue_event: %w", err)
		}

		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issue_events: %w", err)
	}

	return events, nil
}

// GetIssue возвращает задачу по идентификатору.
func (r *EventRepository) GetIssue(ctx context.Context, issueID string) (domain.Issue, error) {
	var issue domain.Issue

	err := r.db.QueryRowContext(ctx,
		`SELECT identifier, team_id, team_name, title, current_state, created_at, last_updated
		   FROM issues
		  WHERE identifier = ?`,
		issueID,
	).Scan(
		&issue.Identifier, &issue.TeamID, &issue.TeamName, &issue.Title,
		&issue.CurrentState, &issue.CreatedAt, &issue.LastUpdated,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Issue{}, domain.ErrNotFound
	}

	if err != nil {
		return domain.Issue{}, fmt.Errorf("select issue: %w", err)
	}

	return issue, nil
}

// ListIssues возвращает все задачи, недавно обновлённые первыми.
func (r *EventRepository) ListIssues(ctx context.Context) ([]domain.Issue, error) {
	return r.queryIssues(ctx,
		`SELECT identifier, team_id, team_name, title, current_state, created_at, last_updated
		   FROM issues
		  ORDER BY last_updated DESC`,
	)
}

// ListIssuesByCurrentState возвращает задачи, находящиеся сейчас в указанном статусе.
func (r *EventRepository) ListIssuesByCurrentState(ctx context.Context, state string) ([]domain.Issue, error) {
	return r.queryIssues(ctx,
		`SELECT identifier, team_id, team_name, title, current_state, created_at, last_updated
		   FROM issues
		  WHERE current_state = ?
		  ORDER BY last_updated DESC`,
		state,
	)
}

func (r *EventRepository) queryIssues(ctx context.Context, query string, args ...any) ([]domain.Issue, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)

	if err != nil {
		return nil, fmt.Errorf("select issues: %w", err)
	}

	defer func() {
		_ = rows.Close()
	}()

	var issues []domain.Issue

	for rows.Next() {
		var issue domain.Issue

		if err := rows.Scan(
			&issue.Identifier, &issue.TeamID, &issue.TeamName, &issue.Title,
			&issue.CurrentState, &issue.CreatedAt, &issue.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}

		issues = append(issues, issue)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issues: %w", err)
	}

	return issues, nil
}

func isUniqueViolation(err error) bool {
	var liteErr *sqlite.Error

	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	return false
}
