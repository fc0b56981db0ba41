package notification

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.trackdeck.dev/internal/platform/common"
)

func testEvent() common.DomainEvent {
	execCtx := common.NewExecutionContext("user-1")
	return common.NewBaseDomainEvent(execCtx, "tracker:issue:status-changed", "tracker.issue.iss-1")
}

func TestNotifyPostsEnvelope(t *testing.T) {
	received := make(chan envelope, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sink-token" {
			t.Errorf("Authorization = %q", auth)
		}
		var env envelope
		if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
			t.Errorf("decode body: %v", err)
		}
		received <- env
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.URL = server.URL
	cfg.AuthToken = "sink-token"
	sink := NewSink(cfg)

	sink.Notify(testEvent())

	select {
	case env := <-received:
		if env.EventType != "tracker:issue:status-changed" {
			t.Errorf("eventType = %q", env.EventType)
		}
		if env.Subject != "tracker.issue.iss-1" {
			t.Errorf("subject = %q", env.Subject)
		}
		if env.EventID == "" {
			t.Error("eventId missing")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no delivery received")
	}
}

func TestNotifyUnconfiguredIsNoop(t *testing.T) {
	sink := NewSink(nil)
	if sink.Enabled() {
		t.Fatal("sink without URL must be disabled")
	}
	// Must not panic or block.
	sink.Notify(testEvent())
}

func TestNotifyServerErrorDoesNotPropagate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.URL = server.URL
	sink := NewSink(cfg)

	// Failure is logged and absorbed by the breaker; the caller never sees it.
	sink.Notify(testEvent())
	time.Sleep(100 * time.Millisecond)
}
