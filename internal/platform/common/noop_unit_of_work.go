package common

import "context"

// noopUnitOfWork returns success without persisting anything.
type noopUnitOfWork struct{}

// NewNoopUnitOfWork creates a UnitOfWork that commits nothing. Intended
// for tests that exercise use-case flow without a database; it is the only
// way outside MongoUnitOfWork to obtain a successful Result.
func NewNoopUnitOfWork() UnitOfWork {
	return noopUnitOfWork{}
}

func (noopUnitOfWork) Commit(ctx context.Context, aggregate any, event DomainEvent, command any) Result[DomainEvent] {
	return newSuccess(event)
}

func (noopUnitOfWork) CommitDelete(ctx context.Context, aggregate any, event DomainEvent, command any) Result[DomainEvent] {
	return newSuccess(event)
}

func (noopUnitOfWork) CommitAll(ctx context.Context, aggregates []any, event DomainEvent, command any) Result[DomainEvent] {
	return newSuccess(event)
}
