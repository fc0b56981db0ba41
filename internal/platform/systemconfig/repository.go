package systemconfig

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go.trackdeck.dev/internal/common/repository"
)

const collectionName = "system_config"

// Repository defines access to the system config singleton.
type Repository interface {
	// GetOrCreate returns the singleton, creating it with defaults on
	// first read. The create is an atomic upsert on the fixed id, not a
	// read-then-write.
	GetOrCreate(ctx context.Context) (*SystemConfig, error)

	Update(ctx context.Context, config *SystemConfig) error
}

type mongoRepository struct {
	collection *mongo.Collection
}

// NewRepository creates a system config repository with instrumentation
func NewRepository(db *mongo.Database) Repository {
	return &instrumentedRepository{inner: &mongoRepository{
		collection: db.Collection(collectionName),
	}}
}

func (r *mongoRepository) GetOrCreate(ctx context.Context) (*SystemConfig, error) {
	defaults := Defaults()
	now := time.Now()

	// $setOnInsert writes the defaults only when the document is absent;
	// concurrent callers all converge on the same single document.
	var config SystemConfig
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": SingletonID},
		bson.M{"$setOnInsert": bson.M{
			"instanceName":    defaults.InstanceName,
			"defaultRoleName": defaults.DefaultRoleName,
			"webhooksEnabled": defaults.WebhooksEnabled,
			"createdAt":       now,
			"updatedAt":       now,
		}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *mongoRepository) Update(ctx context.Context, config *SystemConfig) error {
	config.ID = SingletonID
	config.UpdatedAt = time.Now()
	_, err := r.collection.UpdateByID(ctx, SingletonID, bson.M{"$set": config})
	return err
}

// instrumentedRepository wraps the Repository with metrics and logging
type instrumentedRepository struct {
	inner Repository
}

func (r *instrumentedRepository) GetOrCreate(ctx context.Context) (*SystemConfig, error) {
	return repository.Instrument(ctx, collectionName, "GetOrCreate", func() (*SystemConfig, error) {
		return r.inner.GetOrCreate(ctx)
	})
}

func (r *instrumentedRepository) Update(ctx context.Context, config *SystemConfig) error {
	return repository.InstrumentVoid(ctx, collectionName, "Update", func() error {
		return r.inner.Update(ctx, config)
	})
}
