package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/domain"
	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/service"
)

type memRepo struct {
	events map[string][]domain.EventRecord
}

func newMemRepo() *memRepo {
	return &memRepo{events: make(map[string][]domain.EventRecord)}
}

func (m *memRepo) RecordEvent(_ context.Context, rec domain.EventRecord) error {
	for _, ev := range m.events[rec.IssueID] {
		if ev.SourceEventID == rec.SourceEventID {
			return domain.ErrDuplicateEvent
		}
	}

	m.events[rec.IssueID] = append(m.events[rec.IssueID], rec)
	return nil
}

func (m *memRepo) ListEventsForIssue(context.Context, string) ([]domain.StateEvent, error) {
	return nil, nil
}

func (m *memRepo) GetIssue(context.Context, string) (domain.Issue, error) {
	return domain.Issue{}, domain.ErrNotFound
}

func (m *memRepo) ListIssues(context.Context) ([]domain.Issue, error) { return nil, nil }

func (m *memRepo) ListIssuesByCurrentState(context.Context, string) ([]domain.Issue, error) {
	return nil, nil
}

func webhookBody(t *testing.T, action, identifier, state string) []byte {
	t.Helper()

	payload := map[string]any{
		"data": map[string]any{
			"action": action,
			"data": map[string]any{
				"id":         "uuid-1",
				"identifier": identifier,
				"title":      "Test issue",
				"teamId":     "team-1",
				"createdAt":  "2025-06-01T09:00:00Z",
				"updatedAt":  "2025-06-01T10:00:00Z",
				"team":       map[string]any{"id": "team-1", "name": "Platform"},
				"state":      map[string]any{"id": "st-1", "name": state, "type": "started"},
			},
		},
	}

	body, err := json.Marshal(payload)

	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	return body
}

func postWebhook(t *testing.T, h *WebhookHandlers, body []byte, deliveryID string) (*httptest.ResponseRecorder, WebhookResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))

	if deliveryID != "" {
		req.Header.Set(headerWebhookID, deliveryID)
	}

	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	var resp WebhookResponse

	if rec.Code == http.StatusOK {
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}

	return rec, resp
}

func TestWebhookHandlerUpdate(t *testing.T) {
	repo := newMemRepo()
	h := NewWebhookHandlers(service.NewIngestService(repo))

	rec, resp := postWebhook(t, h, webhookBody(t, "update", "X-1", "Review"), "msg-1")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if resp.Action != "updated" || resp.Status != "success" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	if len(repo.events["X-1"]) != 1 {
		t.Fatalf("expected 1 stored event, got %d", len(repo.events["X-1"]))
	}
}

func TestWebhookHandlerDuplicateDelivery(t *testing.T) {
	repo := newMemRepo()
	h := NewWebhookHandlers(service.NewIngestService(repo))

	body := webhookBody(t, "update", "X-1", "Review")

	postWebhook(t, h, body, "msg-1")
	rec, resp := postWebhook(t, h, body, "msg-1")

	// Повторная доставка — не ошибка
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for duplicate, got %d", rec.Code)
	}

	if resp.Action != "skipped" || resp.Status != "info" {
		t.Fatalf("unexpected duplicate response: %+v", resp)
	}

	if len(repo.events["X-1"]) != 1 {
		t.Fatalf("expected 1 stored event, got %d", len(repo.events["X-1"]))
	}
}

func TestWebhookHandlerIgnoresUnknownAction(t *testing.T) {
	repo := newMemRepo()
	h := NewWebhookHandlers(service.NewIngestService(repo))

	rec, resp := postWebhook(t, h, webhookBody(t, "remove", "X-1", "Review"), "msg-1")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for ignored action, got %d", rec.Code)
	}

	if resp.Action != "ignored" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	if len(repo.events) != 0 {
		t.Fatalf("ignored action must not persist anything")
	}
}

func TestWebhookHandlerMalformedPayload(t *testing.T) {
	h := NewWebhookHandlers(service.NewIngestService(newMemRepo()))

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed payload, got %d", rec.Code)
	}
}

func TestWebhookHandlerMissingFields(t *testing.T) {
	repo := newMemRepo()
	h := NewWebhookHandlers(service.NewIngestService(repo))

	rec, _ := postWebhook(t, h, webhookBody(t, "update", "", "Review"), "msg-1")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing identifier, got %d", rec.Code)
	}

	if len(repo.events) != 0 {
		t.Fatalf("invalid payload must not persist anything")
	}
}
