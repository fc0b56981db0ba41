package issue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoRepository provides MongoDB access to issue data
type mongoRepository struct {
	collection *mongo.Collection
}

// NewRepository creates a new issue repository with instrumentation
func NewRepository(db *mongo.Database) Repository {
	return newInstrumentedRepository(&mongoRepository{
		collection: db.Collection("issues"),
	})
}

// FindByProject finds all issues of a project sorted by key
func (r *mongoRepository) FindByProject(ctx context.Context, projectID string) ([]*Issue, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"projectId": projectID},
		options.Find().SetSort(bson.M{"key": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var issues []*Issue
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// FindByID finds an issue by ID
func (r *mongoRepository) FindByID(ctx context.Context, id string) (*Issue, error) {
	var issue Issue
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &issue, nil
}

// FindByKey finds an issue by its unique key (e.g. ABC-42)
func (r *mongoRepository) FindByKey(ctx context.Context, key string) (*Issue, error) {
	var issue Issue
	err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &issue, nil
}

// FindByGitHubIssueNumber finds an issue by its external back-reference
func (r *mongoRepository) FindByGitHubIssueNumber(ctx context.Context, projectID string, number int) (*Issue, error) {
	var issue Issue
	err := r.collection.FindOne(ctx, bson.M{
		"projectId":         projectID,
		"githubIssueNumber": number,
	}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &issue, nil
}

// FindByGitHubPRNumber finds an issue linked to an external pull request
func (r *mongoRepository) FindByGitHubPRNumber(ctx context.Context, projectID string, number int) (*Issue, error) {
	var issue Issue
	err := r.collection.FindOne(ctx, bson.M{
		"projectId":      projectID,
		"githubPrNumber": number,
	}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &issue, nil
}

// Insert inserts a new issue
func (r *mongoRepository) Insert(ctx context.Context, issue *Issue) error {
	if issue.ID == "" {
		issue.ID = uuid.NewString()
	}
	issue.CreatedAt = time.Now()
	issue.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, issue)
	return err
}

// Update updates an issue
func (r *mongoRepository) Update(ctx context.Context, issue *Issue) error {
	issue.UpdatedAt = time.Now()
	_, err := r.collection.UpdateByID(ctx, issue.ID, bson.M{"$set": issue})
	return err
}

// Delete deletes an issue
func (r *mongoRepository) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// UpdateStatusIf swaps status only when the stored value still equals from
func (r *mongoRepository) UpdateStatusIf(ctx context.Context, id, from, to string) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now()}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}
