package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "audit_logs"

var (
	ErrNotFound = errors.New("audit log not found")
)

// Repository provides access to audit log data
type Repository struct {
	collection *mongo.Collection
}

// NewRepository creates a new audit log repository
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		collection: db.Collection(collectionName),
	}
}

// Insert creates a new audit log entry
func (r *Repository) Insert(ctx context.Context, log *AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.PerformedAt.IsZero() {
		log.PerformedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, log)
	return err
}

// FindByID finds an audit log by ID
func (r *Repository) FindByID(ctx context.Context, id string) (*AuditLog, error) {
	var log AuditLog
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// FindByEntity finds audit logs for a specific entity
func (r *Repository) FindByEntity(ctx context.Context, entityType, entityID string) ([]*AuditLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "performedAt", Value: -1}})

	filter := bson.M{"entityType": entityType, "entityId": entityID}
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []*AuditLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// FindByPrincipal finds audit logs by principal ID
func (r *Repository) FindByPrincipal(ctx context.Context, principalID string) ([]*AuditLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "performedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"principalId": principalID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []*AuditLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// FindPaged returns audit logs with pagination, newest first. An empty
// entityType matches everything.
func (r *Repository) FindPaged(ctx context.Context, entityType string, page, pageSize int) ([]*AuditLog, error) {
	skip := int64(page * pageSize)
	limit := int64(pageSize)

	opts := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.D{{Key: "performedAt", Value: -1}})

	filter := bson.M{}
	if entityType != "" {
		filter["entityType"] = entityType
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []*AuditLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// Count returns the number of audit logs matching an optional entity type
func (r *Repository) Count(ctx context.Context, entityType string) (int64, error) {
	filter := bson.M{}
	if entityType != "" {
		filter["entityType"] = entityType
	}
	return r.collection.CountDocuments(ctx, filter)
}

// EnsureIndexes creates indexes for audit log queries
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "entityType", Value: 1},
				{Key: "entityId", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "principalId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "performedAt", Value: -1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
