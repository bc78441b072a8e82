package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/openalum/alumnet-backend/internal/queue"
)

func TestNotificationCreatePublishes(t *testing.T) {
	env := newTestEnv(t)
	_, aliceTok := env.signup(t, "alice")
	bobID, bobTok := env.signup(t, "bob")

	published := make(chan queue.NotificationCreatedEvent, 1)
	env.notifications.Publish = func(ctx context.Context, ev queue.NotificationCreatedEvent) error {
		published <- ev
		return nil
	}

	rec := env.do(t, http.MethodPost, "/api/notifications", aliceTok, map[string]any{
		"user_id": bobID,
		"type":    "CONNECTION_REQUEST",
		"message": "alice wants to connect",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body %s", rec.Code, rec.Body.String())
	}

	select {
	case ev := <-published:
		if ev.UserID != bobID || ev.Type != "CONNECTION_REQUEST" {
			t.Fatalf("published event = %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event published")
	}

	// The notification is visible to its target only.
	rec = env.do(t, http.MethodGet, "/api/notifications", bobTok, nil)
	var rows []struct {
		Message string `json:"message"`
	}
	decode(t, rec, &rows)
	if len(rows) != 1 || rows[0].Message != "alice wants to connect" {
		t.Fatalf("bob's notifications = %+v", rows)
	}

	rec = env.do(t, http.MethodGet, "/api/notifications", aliceTok, nil)
	decode(t, rec, &rows)
	if len(rows) != 0 {
		t.Fatalf("alice's notifications = %+v, want none", rows)
	}
}

func TestNotificationValidation(t *testing.T) {
	env := newTestEnv(t)
	_, tok := env.signup(t, "alice")

	// Missing fields.
	rec := env.do(t, http.MethodPost, "/api/notifications", tok, map[string]any{
		"user_id": 0, "type": "", "message": "",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty body status = %d, want 400", rec.Code)
	}

	// Unknown target user.
	env.notifications.Publish = func(ctx context.Context, ev queue.NotificationCreatedEvent) error { return nil }
	rec = env.do(t, http.MethodPost, "/api/notifications", tok, map[string]any{
		"user_id": 99999, "type": "X", "message": "hello",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown target status = %d, want 404", rec.Code)
	}
}
