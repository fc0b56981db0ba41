package common

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUnitOfWork implements UnitOfWork using MongoDB transactions.
// It ensures that aggregate persistence, domain event creation, and
// audit logging all happen atomically within a single transaction.
type MongoUnitOfWork struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoUnitOfWork creates a new MongoDB-backed UnitOfWork.
func NewMongoUnitOfWork(client *mongo.Client, db *mongo.Database) *MongoUnitOfWork {
	return &MongoUnitOfWork{
		client: client,
		db:     db,
	}
}

// Commit persists an aggregate with its domain event atomically.
func (uow *MongoUnitOfWork) Commit(
	ctx context.Context,
	aggregate any,
	event DomainEvent,
	command any,
) Result[DomainEvent] {
	return uow.CommitAll(ctx, []any{aggregate}, event, command)
}

// CommitAll persists multiple aggregates with a domain event atomically.
func (uow *MongoUnitOfWork) CommitAll(
	ctx context.Context,
	aggregates []any,
	event DomainEvent,
	command any,
) Result[DomainEvent] {
	session, err := uow.client.StartSession()
	if err != nil {
		return Failure[DomainEvent](InternalError(
			ErrCodeCommitFailed,
			"Failed to start session: "+err.Error(),
			nil,
		))
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		for _, aggregate := range aggregates {
			if err := uow.persistAggregate(sessCtx, aggregate); err != nil {
				return nil, fmt.Errorf("persist aggregate: %w", err)
			}
		}

		if err := uow.createEvent(sessCtx, event); err != nil {
			return nil, fmt.Errorf("create event: %w", err)
		}

		if err := uow.createAuditLog(sessCtx, event, command); err != nil {
			return nil, fmt.Errorf("create audit log: %w", err)
		}

		return nil, nil
	})

	if err != nil {
		return Failure[DomainEvent](BusinessRuleError(
			ErrCodeCommitFailed,
			"Transaction failed: "+err.Error(),
			nil,
		))
	}

	// ONLY HERE can we return success - via unexported constructor
	return newSuccess[DomainEvent](event)
}

// CommitDelete deletes an aggregate with its domain event atomically.
func (uow *MongoUnitOfWork) CommitDelete(
	ctx context.Context,
	aggregate any,
	event DomainEvent,
	command any,
) Result[DomainEvent] {
	session, err := uow.client.StartSession()
	if err != nil {
		return Failure[DomainEvent](InternalError(
			ErrCodeCommitFailed,
			"Failed to start session: "+err.Error(),
			nil,
		))
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		if err := uow.deleteAggregate(sessCtx, aggregate); err != nil {
			return nil, fmt.Errorf("delete aggregate: %w", err)
		}

		if err := uow.createEvent(sessCtx, event); err != nil {
			return nil, fmt.Errorf("create event: %w", err)
		}

		if err := uow.createAuditLog(sessCtx, event, command); err != nil {
			return nil, fmt.Errorf("create audit log: %w", err)
		}

		return nil, nil
	})

	if err != nil {
		return Failure[DomainEvent](BusinessRuleError(
			ErrCodeCommitFailed,
			"Transaction failed: "+err.Error(),
			nil,
		))
	}

	return newSuccess[DomainEvent](event)
}

// persistAggregate upserts an aggregate by its ID.
func (uow *MongoUnitOfWork) persistAggregate(ctx mongo.SessionContext, aggregate any) error {
	collectionName := uow.getCollectionName(aggregate)
	id := uow.extractID(aggregate)
	if id == "" {
		return fmt.Errorf("aggregate has no ID")
	}

	collection := uow.db.Collection(collectionName)
	opts := options.Replace().SetUpsert(true)
	_, err := collection.ReplaceOne(ctx, bson.M{"_id": id}, aggregate, opts)
	return err
}

// deleteAggregate removes an aggregate by its ID.
func (uow *MongoUnitOfWork) deleteAggregate(ctx mongo.SessionContext, aggregate any) error {
	collectionName := uow.getCollectionName(aggregate)
	id := uow.extractID(aggregate)
	if id == "" {
		return fmt.Errorf("aggregate has no ID")
	}

	collection := uow.db.Collection(collectionName)
	_, err := collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// createEvent stores the domain event.
func (uow *MongoUnitOfWork) createEvent(ctx mongo.SessionContext, event DomainEvent) error {
	persisted := ToPersistedEvent(event)
	collection := uow.db.Collection("domain_events")
	_, err := collection.InsertOne(ctx, persisted)
	return err
}

// createAuditLog stores an audit log entry for the operation.
func (uow *MongoUnitOfWork) createAuditLog(ctx mongo.SessionContext, event DomainEvent, command any) error {
	operationJSON := ""
	if auditable, ok := command.(Auditable); ok {
		operationJSON = auditable.ToAuditJSON()
	} else if command != nil {
		if data, err := json.Marshal(command); err == nil {
			operationJSON = string(data)
		}
	}

	auditLog := bson.M{
		"_id":           uuid.NewString(),
		"entityType":    extractEntityType(event.Subject()),
		"entityId":      extractEntityID(event.Subject()),
		"operation":     extractOperationName(command),
		"operationJson": operationJSON,
		"principalId":   event.PrincipalID(),
		"performedAt":   event.Time(),
	}

	collection := uow.db.Collection("audit_logs")
	_, err := collection.InsertOne(ctx, auditLog)
	return err
}

// getCollectionName determines the MongoDB collection for an aggregate.
func (uow *MongoUnitOfWork) getCollectionName(aggregate any) string {
	if ar, ok := aggregate.(AggregateRoot); ok {
		return ar.CollectionName()
	}

	t := reflect.TypeOf(aggregate)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	typeName := t.Name()

	collectionMap := map[string]string{
		"Role":         "auth_roles",
		"User":         "users",
		"Project":      "projects",
		"Issue":        "issues",
		"Integration":  "github_integrations",
		"Webhook":      "github_webhooks",
		"SystemConfig": "system_config",
	}

	if collection, ok := collectionMap[typeName]; ok {
		return collection
	}

	// Default: convert PascalCase to snake_case and pluralize
	return toSnakeCase(typeName) + "s"
}

// extractID gets the ID from an aggregate using reflection.
func (uow *MongoUnitOfWork) extractID(aggregate any) string {
	if ar, ok := aggregate.(AggregateRoot); ok {
		return ar.AggregateID()
	}

	v := reflect.ValueOf(aggregate)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return ""
	}

	for _, fieldName := range []string{"ID", "Id", "id"} {
		field := v.FieldByName(fieldName)
		if field.IsValid() && field.Kind() == reflect.String {
			return field.String()
		}
	}

	return ""
}

// extractEntityType extracts entity type from subject.
// Subject format: {domain}.{aggregate}.{id}
func extractEntityType(subject string) string {
	parts := strings.Split(subject, ".")
	if len(parts) >= 2 {
		return toPascalCase(parts[1])
	}
	return "Unknown"
}

// extractEntityID extracts entity ID from subject.
func extractEntityID(subject string) string {
	parts := strings.Split(subject, ".")
	if len(parts) >= 3 {
		return parts[2]
	}
	return ""
}

// extractOperationName extracts operation name from command type.
func extractOperationName(command any) string {
	if command == nil {
		return ""
	}
	t := reflect.TypeOf(command)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// toSnakeCase converts PascalCase to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}

// toPascalCase converts a lowercase string to PascalCase.
func toPascalCase(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
