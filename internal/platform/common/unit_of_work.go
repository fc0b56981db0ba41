package common

import "context"

// UnitOfWork defines the interface for atomic operations that persist
// aggregates, emit domain events, and create audit logs transactionally.
//
// This is the ONLY way to return a successful Result from a use case.
// The Commit methods return Result using the unexported newSuccess constructor,
// which guarantees that:
//  1. Domain events are always emitted when state changes
//  2. Audit logs are always created for operations
//  3. Entity state and events are consistent (atomic commit)
type UnitOfWork interface {
	// Commit persists an aggregate with its domain event atomically.
	//
	// Within a single database transaction:
	//  1. Persists or updates the aggregate entity (upsert by ID)
	//  2. Creates the domain event in the domain_events collection
	//  3. Creates the audit log entry
	//
	// If any step fails, the entire transaction is rolled back.
	Commit(ctx context.Context, aggregate any, event DomainEvent, command any) Result[DomainEvent]

	// CommitDelete deletes an aggregate with its domain event atomically.
	CommitDelete(ctx context.Context, aggregate any, event DomainEvent, command any) Result[DomainEvent]

	// CommitAll persists multiple aggregates with a domain event atomically.
	// Used for operations that touch more than one aggregate, such as a
	// webhook run that updates both the webhook record and the issue.
	CommitAll(ctx context.Context, aggregates []any, event DomainEvent, command any) Result[DomainEvent]
}

// AggregateRoot is an optional interface that aggregates can implement
// to provide collection name and ID extraction.
type AggregateRoot interface {
	// AggregateID returns the unique identifier for this aggregate.
	AggregateID() string

	// CollectionName returns the MongoDB collection name for this aggregate type.
	CollectionName() string
}

// Auditable is an optional interface that commands can implement
// to customize how they are serialized for audit logging.
// Use this to redact sensitive fields like passwords and webhook secrets.
type Auditable interface {
	ToAuditJSON() string
}
