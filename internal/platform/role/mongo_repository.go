package role

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoRepository provides MongoDB access to role data
type mongoRepository struct {
	collection *mongo.Collection
	users      *mongo.Collection
}

// NewRepository creates a new role repository with instrumentation
func NewRepository(db *mongo.Database) Repository {
	return newInstrumentedRepository(&mongoRepository{
		collection: db.Collection("auth_roles"),
		users:      db.Collection("users"),
	})
}

// FindAll finds all roles sorted by name
func (r *mongoRepository) FindAll(ctx context.Context) ([]*Role, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var roles []*Role
	if err := cursor.All(ctx, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// FindByID finds a role by ID
func (r *mongoRepository) FindByID(ctx context.Context, id string) (*Role, error) {
	var role Role
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&role)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

// FindByName finds a role by its unique name
func (r *mongoRepository) FindByName(ctx context.Context, name string) (*Role, error) {
	var role Role
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&role)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

// FindActiveByName finds an active role by name
func (r *mongoRepository) FindActiveByName(ctx context.Context, name string) (*Role, error) {
	var role Role
	err := r.collection.FindOne(ctx, bson.M{"name": name, "isActive": true}).Decode(&role)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

// Insert inserts a new role
func (r *mongoRepository) Insert(ctx context.Context, role *Role) error {
	if role.ID == "" {
		role.ID = uuid.NewString()
	}
	role.CreatedAt = time.Now()
	role.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, role)
	return err
}

// Update updates a role
func (r *mongoRepository) Update(ctx context.Context, role *Role) error {
	role.UpdatedAt = time.Now()
	_, err := r.collection.UpdateByID(ctx, role.ID, bson.M{"$set": role})
	return err
}

// Delete deletes a role
func (r *mongoRepository) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// CountUsersWithRole counts users referencing the role
func (r *mongoRepository) CountUsersWithRole(ctx context.Context, roleID string) (int64, error) {
	return r.users.CountDocuments(ctx, bson.M{"roleId": roleID})
}
