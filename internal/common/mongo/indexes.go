package mongo

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexDefinition defines a MongoDB index
type IndexDefinition struct {
	Collection string
	Keys       bson.D
	Options    *options.IndexOptions
}

// IndexInitializer creates indexes on startup
type IndexInitializer struct {
	client *Client
}

// NewIndexInitializer creates a new index initializer
func NewIndexInitializer(client *Client) *IndexInitializer {
	return &IndexInitializer{client: client}
}

// Initialize creates all required indexes
func (i *IndexInitializer) Initialize(ctx context.Context) error {
	indexes := i.getIndexDefinitions()

	for _, idx := range indexes {
		if err := i.createIndex(ctx, idx); err != nil {
			slog.Warn("Failed to create index (may already exist)",
				"error", err,
				"collection", idx.Collection)
		}
	}

	slog.Info("Index initialization complete", "count", len(indexes))
	return nil
}

func (i *IndexInitializer) createIndex(ctx context.Context, idx IndexDefinition) error {
	collection := i.client.Collection(idx.Collection)

	indexModel := mongo.IndexModel{
		Keys:    idx.Keys,
		Options: idx.Options,
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}

func (i *IndexInitializer) getIndexDefinitions() []IndexDefinition {
	return []IndexDefinition{
		// auth_roles: role names are globally unique
		{
			Collection: "auth_roles",
			Keys:       bson.D{{Key: "name", Value: 1}},
			Options:    options.Index().SetUnique(true),
		},
		{
			Collection: "auth_roles",
			Keys:       bson.D{{Key: "isActive", Value: 1}},
		},

		// users
		{
			Collection: "users",
			Keys:       bson.D{{Key: "email", Value: 1}},
			Options:    options.Index().SetUnique(true),
		},
		{
			Collection: "users",
			Keys:       bson.D{{Key: "roleId", Value: 1}},
		},

		// projects
		{
			Collection: "projects",
			Keys:       bson.D{{Key: "key", Value: 1}},
			Options:    options.Index().SetUnique(true),
		},
		{
			Collection: "projects",
			Keys:       bson.D{{Key: "ownerId", Value: 1}},
		},
		{
			Collection: "projects",
			Keys:       bson.D{{Key: "members.userId", Value: 1}},
		},

		// issues
		{
			Collection: "issues",
			Keys:       bson.D{{Key: "key", Value: 1}},
			Options:    options.Index().SetUnique(true),
		},
		{
			Collection: "issues",
			Keys:       bson.D{{Key: "projectId", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Collection: "issues",
			Keys:       bson.D{{Key: "projectId", Value: 1}, {Key: "githubIssueNumber", Value: 1}},
			Options:    options.Index().SetSparse(true),
		},

		// github_integrations: one integration per project
		{
			Collection: "github_integrations",
			Keys:       bson.D{{Key: "projectId", Value: 1}},
			Options:    options.Index().SetUnique(true),
		},

		// github_webhooks: deliveryId is the idempotency key
		{
			Collection: "github_webhooks",
			Keys:       bson.D{{Key: "deliveryId", Value: 1}},
			Options:    options.Index().SetUnique(true),
		},
		{
			Collection: "github_webhooks",
			Keys:       bson.D{{Key: "integrationId", Value: 1}, {Key: "receivedAt", Value: -1}},
		},
		{
			Collection: "github_webhooks",
			Keys:       bson.D{{Key: "status", Value: 1}},
		},

		// audit_logs
		{
			Collection: "audit_logs",
			Keys:       bson.D{{Key: "entityType", Value: 1}, {Key: "performedAt", Value: -1}},
		},
		{
			Collection: "audit_logs",
			Keys:       bson.D{{Key: "principalId", Value: 1}},
		},

		// domain_events
		{
			Collection: "domain_events",
			Keys:       bson.D{{Key: "correlationId", Value: 1}},
		},
		{
			Collection: "domain_events",
			Keys:       bson.D{{Key: "subject", Value: 1}, {Key: "time", Value: -1}},
		},
	}
}
