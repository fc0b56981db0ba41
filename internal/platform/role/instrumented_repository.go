package role

import (
	"context"

	"go.trackdeck.dev/internal/common/repository"
)

const collectionName = "auth_roles"

// instrumentedRepository wraps a Repository with metrics and logging
type instrumentedRepository struct {
	inner Repository
}

// newInstrumentedRepository creates an instrumented wrapper around a Repository
func newInstrumentedRepository(inner Repository) Repository {
	return &instrumentedRepository{inner: inner}
}

func (r *instrumentedRepository) FindAll(ctx context.Context) ([]*Role, error) {
	return repository.Instrument(ctx, collectionName, "FindAll", func() ([]*Role, error) {
		return r.inner.FindAll(ctx)
	})
}

func (r *instrumentedRepository) FindByID(ctx context.Context, id string) (*Role, error) {
	return repository.Instrument(ctx, collectionName, "FindByID", func() (*Role, error) {
		return r.inner.FindByID(ctx, id)
	})
}

func (r *instrumentedRepository) FindByName(ctx context.Context, name string) (*Role, error) {
	return repository.Instrument(ctx, collectionName, "FindByName", func() (*Role, error) {
		return r.inner.FindByName(ctx, name)
	})
}

func (r *instrumentedRepository) FindActiveByName(ctx context.Context, name string) (*Role, error) {
	return repository.Instrument(ctx, collectionName, "FindActiveByName", func() (*Role, error) {
		return r.inner.FindActiveByName(ctx, name)
	})
}

func (r *instrumentedRepository) Insert(ctx context.Context, role *Role) error {
	return repository.InstrumentVoid(ctx, collectionName, "Insert", func() error {
		return r.inner.Insert(ctx, role)
	})
}

func (r *instrumentedRepository) Update(ctx context.Context, role *Role) error {
	return repository.InstrumentVoid(ctx, collectionName, "Update", func() error {
		return r.inner.Update(ctx, role)
	})
}

func (r *instrumentedRepository) Delete(ctx context.Context, id string) error {
	return repository.InstrumentVoid(ctx, collectionName, "Delete", func() error {
		return r.inner.Delete(ctx, id)
	})
}

func (r *instrumentedRepository) CountUsersWithRole(ctx context.Context, roleID string) (int64, error) {
	return repository.Instrument(ctx, collectionName, "CountUsersWithRole", func() (int64, error) {
		return r.inner.CountUsersWithRole(ctx, roleID)
	})
}
