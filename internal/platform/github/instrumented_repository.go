package github

import (
	"context"
	"time"

	"go.trackdeck.dev/internal/common/repository"
)

const (
	integrationCollection = "github_integrations"
	webhookCollection     = "github_webhooks"
)

// instrumentedIntegrationRepository wraps an IntegrationRepository with metrics
type instrumentedIntegrationRepository struct {
	inner IntegrationRepository
}

func newInstrumentedIntegrationRepository(inner IntegrationRepository) IntegrationRepository {
	return &instrumentedIntegrationRepository{inner: inner}
}

func (r *instrumentedIntegrationRepository) FindAll(ctx context.Context) ([]*Integration, error) {
	return repository.Instrument(ctx, integrationCollection, "FindAll", func() ([]*Integration, error) {
		return r.inner.FindAll(ctx)
	})
}

func (r *instrumentedIntegrationRepository) FindByID(ctx context.Context, id string) (*Integration, error) {
	return repository.Instrument(ctx, integrationCollection, "FindByID", func() (*Integration, error) {
		return r.inner.FindByID(ctx, id)
	})
}

func (r *instrumentedIntegrationRepository) FindByProjectID(ctx context.Context, projectID string) (*Integration, error) {
	return repository.Instrument(ctx, integrationCollection, "FindByProjectID", func() (*Integration, error) {
		return r.inner.FindByProjectID(ctx, projectID)
	})
}

func (r *instrumentedIntegrationRepository) Upsert(ctx context.Context, integration *Integration) error {
	return repository.InstrumentVoid(ctx, integrationCollection, "Upsert", func() error {
		return r.inner.Upsert(ctx, integration)
	})
}

func (r *instrumentedIntegrationRepository) MarkSynced(ctx context.Context, id string, at time.Time) error {
	return repository.InstrumentVoid(ctx, integrationCollection, "MarkSynced", func() error {
		return r.inner.MarkSynced(ctx, id, at)
	})
}

func (r *instrumentedIntegrationRepository) MarkError(ctx context.Context, id string, snapshot IntegrationError) error {
	return repository.InstrumentVoid(ctx, integrationCollection, "MarkError", func() error {
		return r.inner.MarkError(ctx, id, snapshot)
	})
}

// instrumentedWebhookRepository wraps a WebhookRepository with metrics
type instrumentedWebhookRepository struct {
	inner WebhookRepository
}

func newInstrumentedWebhookRepository(inner WebhookRepository) WebhookRepository {
	return &instrumentedWebhookRepository{inner: inner}
}

func (r *instrumentedWebhookRepository) FindByID(ctx context.Context, id string) (*Webhook, error) {
	return repository.Instrument(ctx, webhookCollection, "FindByID", func() (*Webhook, error) {
		return r.inner.FindByID(ctx, id)
	})
}

func (r *instrumentedWebhookRepository) FindByDeliveryID(ctx context.Context, deliveryID string) (*Webhook, error) {
	return repository.Instrument(ctx, webhookCollection, "FindByDeliveryID", func() (*Webhook, error) {
		return r.inner.FindByDeliveryID(ctx, deliveryID)
	})
}

func (r *instrumentedWebhookRepository) FindByIntegration(ctx context.Context, integrationID string, limit int64) ([]*Webhook, error) {
	return repository.Instrument(ctx, webhookCollection, "FindByIntegration", func() ([]*Webhook, error) {
		return r.inner.FindByIntegration(ctx, integrationID, limit)
	})
}

func (r *instrumentedWebhookRepository) Insert(ctx context.Context, webhook *Webhook) error {
	return repository.InstrumentVoid(ctx, webhookCollection, "Insert", func() error {
		return r.inner.Insert(ctx, webhook)
	})
}

func (r *instrumentedWebhookRepository) Update(ctx context.Context, webhook *Webhook) error {
	return repository.InstrumentVoid(ctx, webhookCollection, "Update", func() error {
		return r.inner.Update(ctx, webhook)
	})
}

func (r *instrumentedWebhookRepository) UpdateStatusIf(ctx context.Context, id, from, to string) (bool, error) {
	return repository.Instrument(ctx, webhookCollection, "UpdateStatusIf", func() (bool, error) {
		return r.inner.UpdateStatusIf(ctx, id, from, to)
	})
}

func (r *instrumentedWebhookRepository) Stats(ctx context.Context, integrationID string) (*WebhookStats, error) {
	return repository.Instrument(ctx, webhookCollection, "Stats", func() (*WebhookStats, error) {
		return r.inner.Stats(ctx, integrationID)
	})
}
