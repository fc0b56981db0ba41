package nats

import (
	"testing"

	"go.trackdeck.dev/internal/queue"
)

// TestNewPublisher tests publisher creation
func TestNewPublisher(t *testing.T) {
	// We can't test with a real JetStream without a NATS connection
	// but we can verify the constructor doesn't panic
	publisher := NewPublisher(nil, "TEST")

	if publisher == nil {
		t.Error("NewPublisher returned nil")
	}

	if publisher.stream != "TEST" {
		t.Errorf("Expected stream 'TEST', got '%s'", publisher.stream)
	}
}

// TestNewConsumer tests consumer creation
func TestNewConsumer(t *testing.T) {
	consumer := NewConsumer(nil, "test-consumer")

	if consumer == nil {
		t.Error("NewConsumer returned nil")
	}

	if consumer.name != "test-consumer" {
		t.Errorf("Expected name 'test-consumer', got '%s'", consumer.name)
	}
}

// TestPublisherClose tests publisher close
func TestPublisherClose(t *testing.T) {
	publisher := NewPublisher(nil, "TEST")

	err := publisher.Close()
	if err != nil {
		t.Errorf("Close returned error: %v", err)
	}
}

// TestConsumerClose tests consumer close
func TestConsumerClose(t *testing.T) {
	consumer := NewConsumer(nil, "test-consumer")

	err := consumer.Close()
	if err != nil {
		t.Errorf("Close returned error: %v", err)
	}
}

// TestNATSConfig tests config defaults
func TestNATSConfig(t *testing.T) {
	cfg := queue.NATSConfig{
		URL:        "nats://localhost:4222",
		StreamName: "WEBHOOKS",
	}

	if cfg.URL != "nats://localhost:4222" {
		t.Errorf("Expected URL 'nats://localhost:4222', got '%s'", cfg.URL)
	}

	if cfg.StreamName != "WEBHOOKS" {
		t.Errorf("Expected StreamName 'WEBHOOKS', got '%s'", cfg.StreamName)
	}
}

// TestNATSConfigDefaults tests empty config handling
func TestNATSConfigDefaults(t *testing.T) {
	cfg := queue.NATSConfig{}

	if cfg.URL != "" {
		t.Errorf("Expected empty URL, got '%s'", cfg.URL)
	}

	if cfg.AckWait != 0 {
		t.Errorf("Expected 0 AckWait, got %v", cfg.AckWait)
	}

	if cfg.MaxDeliver != 0 {
		t.Errorf("Expected 0 MaxDeliver, got %d", cfg.MaxDeliver)
	}
}

// TestMessageBuilderIntegration tests MessageBuilder with NATS headers
func TestMessageBuilderIntegration(t *testing.T) {
	builder := queue.NewMessageBuilder("trackdeck.webhooks.received").
		WithData([]byte(`{"webhookId": "wh-1"}`)).
		WithMessageGroup("int-1").
		WithDeduplicationID("delivery-123").
		WithMetadata("eventType", "pull_request")

	if builder.Subject() != "trackdeck.webhooks.received" {
		t.Errorf("Expected subject 'trackdeck.webhooks.received', got '%s'", builder.Subject())
	}

	if builder.MessageGroup() != "int-1" {
		t.Errorf("Expected message group 'int-1', got '%s'", builder.MessageGroup())
	}

	if builder.DeduplicationID() != "delivery-123" {
		t.Errorf("Expected deduplication ID 'delivery-123', got '%s'", builder.DeduplicationID())
	}

	metadata := builder.Metadata()
	if metadata["eventType"] != "pull_request" {
		t.Errorf("Expected eventType 'pull_request', got '%s'", metadata["eventType"])
	}
}
