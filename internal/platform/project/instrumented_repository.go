package project

import (
	"context"

	"go.trackdeck.dev/internal/common/repository"
)

const collectionName = "projects"

// instrumentedRepository wraps a Repository with metrics and logging
type instrumentedRepository struct {
	inner Repository
}

// newInstrumentedRepository creates an instrumented wrapper around a Repository
func newInstrumentedRepository(inner Repository) Repository {
	return &instrumentedRepository{inner: inner}
}

func (r *instrumentedRepository) FindAll(ctx context.Context) ([]*Project, error) {
	return repository.Instrument(ctx, collectionName, "FindAll", func() ([]*Project, error) {
		return r.inner.FindAll(ctx)
	})
}

func (r *instrumentedRepository) FindByID(ctx context.Context, id string) (*Project, error) {
	return repository.Instrument(ctx, collectionName, "FindByID", func() (*Project, error) {
		return r.inner.FindByID(ctx, id)
	})
}

func (r *instrumentedRepository) FindByKey(ctx context.Context, key string) (*Project, error) {
	return repository.Instrument(ctx, collectionName, "FindByKey", func() (*Project, error) {
		return r.inner.FindByKey(ctx, key)
	})
}

func (r *instrumentedRepository) Insert(ctx context.Context, project *Project) error {
	return repository.InstrumentVoid(ctx, collectionName, "Insert", func() error {
		return r.inner.Insert(ctx, project)
	})
}

func (r *instrumentedRepository) Update(ctx context.Context, project *Project) error {
	return repository.InstrumentVoid(ctx, collectionName, "Update", func() error {
		return r.inner.Update(ctx, project)
	})
}

func (r *instrumentedRepository) Delete(ctx context.Context, id string) error {
	return repository.InstrumentVoid(ctx, collectionName, "Delete", func() error {
		return r.inner.Delete(ctx, id)
	})
}

func (r *instrumentedRepository) NextIssueNumber(ctx context.Context, projectID string) (int64, error) {
	return repository.Instrument(ctx, collectionName, "NextIssueNumber", func() (int64, error) {
		return r.inner.NextIssueNumber(ctx, projectID)
	})
}
