package github

import (
	"encoding/json"
	"testing"
	"time"
)

// fakeMessage implements queue.Message for dispatcher tests.
type fakeMessage struct {
	data    []byte
	acked   bool
	naked   bool
	nakWait time.Duration
}

func (m *fakeMessage) ID() string                  { return "msg-1" }
func (m *fakeMessage) Data() []byte                { return m.data }
func (m *fakeMessage) Subject() string             { return QueueSubject }
func (m *fakeMessage) MessageGroup() string        { return "" }
func (m *fakeMessage) Ack() error                  { m.acked = true; return nil }
func (m *fakeMessage) Nak() error                  { m.naked = true; return nil }
func (m *fakeMessage) InProgress() error           { return nil }
func (m *fakeMessage) Metadata() map[string]string { return nil }

func (m *fakeMessage) NakWithDelay(delay time.Duration) error {
	m.naked = true
	m.nakWait = delay
	return nil
}

func queuedMessage(t *testing.T, webhookID string) *fakeMessage {
	t.Helper()
	data, err := json.Marshal(QueueMessage{
		WebhookID:     webhookID,
		DeliveryID:    "delivery-1",
		EventType:     "pull_request",
		CorrelationID: "corr-1",
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return &fakeMessage{data: data}
}

func TestDispatcherAcksProcessedMessage(t *testing.T) {
	w := receivedWebhook("pull_request", "opened")
	w.PullRequest = &PullRequestInfo{Number: 7, Title: "no issue reference", HeadBranch: "main"}
	p, webhooks, _, _ := newTestProcessor(w)

	d := NewDispatcher(nil, p)
	msg := queuedMessage(t, w.ID)

	if err := d.handle(msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !msg.acked || msg.naked {
		t.Errorf("acked = %v, naked = %v, want ack only", msg.acked, msg.naked)
	}
	if webhooks.webhooks[w.ID].Status != WebhookStatusIgnored {
		t.Errorf("status = %s, want ignored", webhooks.webhooks[w.ID].Status)
	}
}

func TestDispatcherNaksOnProcessingError(t *testing.T) {
	w := receivedWebhook("pull_request", "opened")
	p, _, _, _ := newTestProcessor(w)

	d := NewDispatcher(nil, p)
	msg := queuedMessage(t, "wh-missing")

	if err := d.handle(msg); err == nil {
		t.Fatal("expected an error for an unknown webhook id")
	}
	if !msg.naked || msg.acked {
		t.Errorf("acked = %v, naked = %v, want nak only", msg.acked, msg.naked)
	}
	if msg.nakWait != redeliveryDelay {
		t.Errorf("nak delay = %v, want %v", msg.nakWait, redeliveryDelay)
	}
}

func TestDispatcherAcksMalformedPayload(t *testing.T) {
	w := receivedWebhook("pull_request", "opened")
	p, webhooks, _, _ := newTestProcessor(w)

	d := NewDispatcher(nil, p)
	msg := &fakeMessage{data: []byte("{ not json }")}

	if err := d.handle(msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !msg.acked {
		t.Error("malformed payload must be acked, not redelivered")
	}
	if webhooks.webhooks[w.ID].Status != WebhookStatusReceived {
		t.Error("malformed payload must not touch webhook records")
	}
}
