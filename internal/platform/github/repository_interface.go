package github

import (
	"context"
	"time"
)

// IntegrationRepository defines data access for GitHub integrations.
// All implementations must be wrapped with instrumentation.
type IntegrationRepository interface {
	FindAll(ctx context.Context) ([]*Integration, error)
	FindByID(ctx context.Context, id string) (*Integration, error)
	FindByProjectID(ctx context.Context, projectID string) (*Integration, error)

	// Upsert inserts or replaces the integration keyed by project.
	// The unique index on projectId enforces one integration per project.
	Upsert(ctx context.Context, integration *Integration) error

	// MarkSynced records a successful processing run.
	MarkSynced(ctx context.Context, id string, at time.Time) error

	// MarkError records a failed processing run with an error snapshot.
	MarkError(ctx context.Context, id string, snapshot IntegrationError) error
}

// WebhookStats summarizes webhook records per status for one integration.
type WebhookStats struct {
	Total      int64 `json:"total"`
	Received   int64 `json:"received"`
	Processing int64 `json:"processing"`
	Processed  int64 `json:"processed"`
	Ignored    int64 `json:"ignored"`
	Failed     int64 `json:"failed"`
}

// WebhookRepository defines data access for webhook records.
// All implementations must be wrapped with instrumentation.
type WebhookRepository interface {
	FindByID(ctx context.Context, id string) (*Webhook, error)
	FindByDeliveryID(ctx context.Context, deliveryID string) (*Webhook, error)
	FindByIntegration(ctx context.Context, integrationID string, limit int64) ([]*Webhook, error)
	Insert(ctx context.Context, webhook *Webhook) error
	Update(ctx context.Context, webhook *Webhook) error

	// UpdateStatusIf performs a conditional status swap, returning whether
	// it applied. Enforces the state machine's legal transitions under
	// concurrent processors.
	UpdateStatusIf(ctx context.Context, id, from, to string) (bool, error)

	// Stats aggregates record counts per status for an integration.
	Stats(ctx context.Context, integrationID string) (*WebhookStats, error)
}
