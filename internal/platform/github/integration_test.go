//go:build integration

// Integration tests for the webhook repository against a real MongoDB.
// Requires Docker.
package github

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.trackdeck.dev/internal/common/mongo/testutil"
	"go.trackdeck.dev/internal/common/repository"

	commonmongo "go.trackdeck.dev/internal/common/mongo"
)

func TestWebhookRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	mc, err := testutil.StartMongoDB(ctx, t, "trackdeck_test")
	if err != nil {
		t.Fatalf("Failed to start MongoDB: %v", err)
	}
	defer mc.Terminate(ctx)

	// Indexes first: deduplication depends on the deliveryId unique index
	if err := commonmongo.NewIndexInitializer(mc.Client).Initialize(ctx); err != nil {
		t.Fatalf("Failed to initialize indexes: %v", err)
	}

	repo := NewWebhookRepository(mc.Client.Database())

	t.Run("insert and find by delivery id", func(t *testing.T) {
		w := &Webhook{
			IntegrationID: "int-1",
			ProjectID:     "proj-1",
			DeliveryID:    "delivery-001",
			EventType:     "pull_request",
			Action:        "opened",
			Repository:    RepositorySnapshot{FullName: "acme/api", Owner: "acme", Name: "api"},
			Status:        WebhookStatusReceived,
			RawPayload:    []byte(`{"action":"opened"}`),
			ReceivedAt:    time.Now(),
		}
		if err := repo.Insert(ctx, w); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		if w.ID == "" {
			t.Fatal("Insert did not assign an ID")
		}

		found, err := repo.FindByDeliveryID(ctx, "delivery-001")
		if err != nil {
			t.Fatalf("FindByDeliveryID failed: %v", err)
		}
		if found == nil || found.ID != w.ID {
			t.Fatalf("FindByDeliveryID returned %+v, want record %s", found, w.ID)
		}
		if found.EventType != "pull_request" || found.Status != WebhookStatusReceived {
			t.Errorf("Unexpected record: eventType=%s status=%s", found.EventType, found.Status)
		}
	})

	t.Run("duplicate delivery id is rejected", func(t *testing.T) {
		dup := &Webhook{
			IntegrationID: "int-1",
			ProjectID:     "proj-1",
			DeliveryID:    "delivery-001",
			EventType:     "pull_request",
			Status:        WebhookStatusReceived,
			RawPayload:    []byte(`{}`),
		}
		err := repo.Insert(ctx, dup)
		if !errors.Is(err, repository.ErrDuplicateKey) {
			t.Fatalf("Insert with duplicate delivery id returned %v, want ErrDuplicateKey", err)
		}
	})

	t.Run("conditional status swap", func(t *testing.T) {
		w := &Webhook{
			IntegrationID: "int-1",
			ProjectID:     "proj-1",
			DeliveryID:    "delivery-002",
			EventType:     "issues",
			Status:        WebhookStatusReceived,
			RawPayload:    []byte(`{}`),
		}
		if err := repo.Insert(ctx, w); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}

		ok, err := repo.UpdateStatusIf(ctx, w.ID, WebhookStatusReceived, WebhookStatusProcessing)
		if err != nil {
			t.Fatalf("UpdateStatusIf failed: %v", err)
		}
		if !ok {
			t.Fatal("Expected claim to succeed from received")
		}

		// A competing claim must lose
		ok, err = repo.UpdateStatusIf(ctx, w.ID, WebhookStatusReceived, WebhookStatusProcessing)
		if err != nil {
			t.Fatalf("UpdateStatusIf failed: %v", err)
		}
		if ok {
			t.Fatal("Expected second claim to fail once status moved on")
		}

		found, err := repo.FindByID(ctx, w.ID)
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if found.Status != WebhookStatusProcessing {
			t.Errorf("Status = %s, want processing", found.Status)
		}
	})

	t.Run("stats aggregate per status", func(t *testing.T) {
		stats, err := repo.Stats(ctx, "int-1")
		if err != nil {
			t.Fatalf("Stats failed: %v", err)
		}
		if stats.Total != 2 {
			t.Errorf("Total = %d, want 2", stats.Total)
		}
		if stats.Received != 1 || stats.Processing != 1 {
			t.Errorf("Stats = %+v, want 1 received and 1 processing", stats)
		}
	})
}
