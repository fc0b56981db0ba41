package user

import (
	"context"

	"go.trackdeck.dev/internal/common/repository"
)

const collectionName = "users"

// instrumentedRepository wraps a Repository with metrics and logging
type instrumentedRepository struct {
	inner Repository
}

// newInstrumentedRepository creates an instrumented wrapper around a Repository
func newInstrumentedRepository(inner Repository) Repository {
	return &instrumentedRepository{inner: inner}
}

func (r *instrumentedRepository) FindAll(ctx context.Context) ([]*User, error) {
	return repository.Instrument(ctx, collectionName, "FindAll", func() ([]*User, error) {
		return r.inner.FindAll(ctx)
	})
}

func (r *instrumentedRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return repository.Instrument(ctx, collectionName, "FindByID", func() (*User, error) {
		return r.inner.FindByID(ctx, id)
	})
}

func (r *instrumentedRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return repository.Instrument(ctx, collectionName, "FindByEmail", func() (*User, error) {
		return r.inner.FindByEmail(ctx, email)
	})
}

func (r *instrumentedRepository) Insert(ctx context.Context, user *User) error {
	return repository.InstrumentVoid(ctx, collectionName, "Insert", func() error {
		return r.inner.Insert(ctx, user)
	})
}

func (r *instrumentedRepository) Update(ctx context.Context, user *User) error {
	return repository.InstrumentVoid(ctx, collectionName, "Update", func() error {
		return r.inner.Update(ctx, user)
	})
}
