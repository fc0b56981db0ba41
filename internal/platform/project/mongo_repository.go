package project

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoRepository provides MongoDB access to project data
type mongoRepository struct {
	collection *mongo.Collection
}

// NewRepository creates a new project repository with instrumentation
func NewRepository(db *mongo.Database) Repository {
	return newInstrumentedRepository(&mongoRepository{
		collection: db.Collection("projects"),
	})
}

// FindAll finds all projects sorted by key
func (r *mongoRepository) FindAll(ctx context.Context) ([]*Project, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"key": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var projects []*Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// FindByID finds a project by ID
func (r *mongoRepository) FindByID(ctx context.Context, id string) (*Project, error) {
	var project Project
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

// FindByKey finds a project by its unique key
func (r *mongoRepository) FindByKey(ctx context.Context, key string) (*Project, error) {
	var project Project
	err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&project)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

// Insert inserts a new project
func (r *mongoRepository) Insert(ctx context.Context, project *Project) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	project.CreatedAt = time.Now()
	project.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, project)
	return err
}

// Update updates a project
func (r *mongoRepository) Update(ctx context.Context, project *Project) error {
	project.UpdatedAt = time.Now()
	_, err := r.collection.UpdateByID(ctx, project.ID, bson.M{"$set": project})
	return err
}

// Delete deletes a project
func (r *mongoRepository) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// NextIssueNumber atomically increments the project's issue sequence
func (r *mongoRepository) NextIssueNumber(ctx context.Context, projectID string) (int64, error) {
	var updated Project
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": projectID},
		bson.M{"$inc": bson.M{"issueSeq": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, mongo.ErrNoDocuments
		}
		return 0, err
	}
	return updated.IssueSeq, nil
}
