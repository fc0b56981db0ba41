package github

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go.trackdeck.dev/internal/common/repository"
)

// mongoIntegrationRepository provides MongoDB access to integrations
type mongoIntegrationRepository struct {
	collection *mongo.Collection
}

// NewIntegrationRepository creates an integration repository with instrumentation
func NewIntegrationRepository(db *mongo.Database) IntegrationRepository {
	return newInstrumentedIntegrationRepository(&mongoIntegrationRepository{
		collection: db.Collection("github_integrations"),
	})
}

// FindAll finds all integrations
func (r *mongoIntegrationRepository) FindAll(ctx context.Context) ([]*Integration, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var integrations []*Integration
	if err := cursor.All(ctx, &integrations); err != nil {
		return nil, err
	}
	return integrations, nil
}

// FindByID finds an integration by ID
func (r *mongoIntegrationRepository) FindByID(ctx context.Context, id string) (*Integration, error) {
	var integration Integration
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&integration)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &integration, nil
}

// FindByProjectID finds the integration for a project
func (r *mongoIntegrationRepository) FindByProjectID(ctx context.Context, projectID string) (*Integration, error) {
	var integration Integration
	err := r.collection.FindOne(ctx, bson.M{"projectId": projectID}).Decode(&integration)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &integration, nil
}

// Upsert inserts or replaces the integration keyed by project
func (r *mongoIntegrationRepository) Upsert(ctx context.Context, integration *Integration) error {
	if integration.ID == "" {
		integration.ID = uuid.NewString()
		integration.CreatedAt = time.Now()
	}
	integration.UpdatedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"projectId": integration.ProjectID}, integration, opts)
	return err
}

// MarkSynced records a successful processing run
func (r *mongoIntegrationRepository) MarkSynced(ctx context.Context, id string, at time.Time) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"syncStatus": SyncStatusActive,
		"lastSyncAt": at,
		"updatedAt":  time.Now(),
	}})
	return err
}

// MarkError records a failed processing run with an error snapshot
func (r *mongoIntegrationRepository) MarkError(ctx context.Context, id string, snapshot IntegrationError) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"syncStatus": SyncStatusError,
		"lastError":  snapshot,
		"updatedAt":  time.Now(),
	}})
	return err
}

// mongoWebhookRepository provides MongoDB access to webhook records
type mongoWebhookRepository struct {
	collection *mongo.Collection
}

// NewWebhookRepository creates a webhook repository with instrumentation
func NewWebhookRepository(db *mongo.Database) WebhookRepository {
	return newInstrumentedWebhookRepository(&mongoWebhookRepository{
		collection: db.Collection("github_webhooks"),
	})
}

// FindByID finds a webhook record by ID
func (r *mongoWebhookRepository) FindByID(ctx context.Context, id string) (*Webhook, error) {
	var webhook Webhook
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&webhook)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &webhook, nil
}

// FindByDeliveryID finds a webhook record by its external delivery id
func (r *mongoWebhookRepository) FindByDeliveryID(ctx context.Context, deliveryID string) (*Webhook, error) {
	var webhook Webhook
	err := r.collection.FindOne(ctx, bson.M{"deliveryId": deliveryID}).Decode(&webhook)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &webhook, nil
}

// FindByIntegration finds recent webhook records for an integration
func (r *mongoWebhookRepository) FindByIntegration(ctx context.Context, integrationID string, limit int64) ([]*Webhook, error) {
	if limit <= 0 {
		limit = 50
	}
	cursor, err := r.collection.Find(ctx,
		bson.M{"integrationId": integrationID},
		options.Find().SetSort(bson.M{"receivedAt": -1}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var webhooks []*Webhook
	if err := cursor.All(ctx, &webhooks); err != nil {
		return nil, err
	}
	return webhooks, nil
}

// Insert inserts a new webhook record.
// Returns repository.ErrDuplicateKey when the delivery id already exists.
func (r *mongoWebhookRepository) Insert(ctx context.Context, webhook *Webhook) error {
	if webhook.ID == "" {
		webhook.ID = uuid.NewString()
	}
	if webhook.ReceivedAt.IsZero() {
		webhook.ReceivedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, webhook)
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicateKey
	}
	return err
}

// Update updates a webhook record
func (r *mongoWebhookRepository) Update(ctx context.Context, webhook *Webhook) error {
	_, err := r.collection.UpdateByID(ctx, webhook.ID, bson.M{"$set": webhook})
	return err
}

// UpdateStatusIf swaps status only when the stored value still equals from
func (r *mongoWebhookRepository) UpdateStatusIf(ctx context.Context, id, from, to string) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

// Stats aggregates record counts per status for an integration
func (r *mongoWebhookRepository) Stats(ctx context.Context, integrationID string) (*WebhookStats, error) {
	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"integrationId": integrationID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	stats := &WebhookStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case WebhookStatusReceived:
			stats.Received = row.Count
		case WebhookStatusProcessing:
			stats.Processing = row.Count
		case WebhookStatusProcessed:
			stats.Processed = row.Count
		case WebhookStatusIgnored:
			stats.Ignored = row.Count
		case WebhookStatusFailed:
			stats.Failed = row.Count
		}
	}
	return stats, nil
}
