package issue

import (
	"context"

	"go.trackdeck.dev/internal/common/repository"
)

const collectionName = "issues"

// instrumentedRepository wraps a Repository with metrics and logging
type instrumentedRepository struct {
	inner Repository
}

// newInstrumentedRepository creates an instrumented wrapper around a Repository
func newInstrumentedRepository(inner Repository) Repository {
	return &instrumentedRepository{inner: inner}
}

func (r *instrumentedRepository) FindByProject(ctx context.Context, projectID string) ([]*Issue, error) {
	return repository.Instrument(ctx, collectionName, "FindByProject", func() ([]*Issue, error) {
		return r.inner.FindByProject(ctx, projectID)
	})
}

func (r *instrumentedRepository) FindByID(ctx context.Context, id string) (*Issue, error) {
	return repository.Instrument(ctx, collectionName, "FindByID", func() (*Issue, error) {
		return r.inner.FindByID(ctx, id)
	})
}

func (r *instrumentedRepository) FindByKey(ctx context.Context, key string) (*Issue, error) {
	return repository.Instrument(ctx, collectionName, "FindByKey", func() (*Issue, error) {
		return r.inner.FindByKey(ctx, key)
	})
}

func (r *instrumentedRepository) FindByGitHubIssueNumber(ctx context.Context, projectID string, number int) (*Issue, error) {
	return repository.Instrument(ctx, collectionName, "FindByGitHubIssueNumber", func() (*Issue, error) {
		return r.inner.FindByGitHubIssueNumber(ctx, projectID, number)
	})
}

func (r *instrumentedRepository) FindByGitHubPRNumber(ctx context.Context, projectID string, number int) (*Issue, error) {
	return repository.Instrument(ctx, collectionName, "FindByGitHubPRNumber", func() (*Issue, error) {
		return r.inner.FindByGitHubPRNumber(ctx, projectID, number)
	})
}

func (r *instrumentedRepository) Insert(ctx context.Context, issue *Issue) error {
	return repository.InstrumentVoid(ctx, collectionName, "Insert", func() error {
		return r.inner.Insert(ctx, issue)
	})
}

func (r *instrumentedRepository) Update(ctx context.Context, issue *Issue) error {
	return repository.InstrumentVoid(ctx, collectionName, "Update", func() error {
		return r.inner.Update(ctx, issue)
	})
}

func (r *instrumentedRepository) Delete(ctx context.Context, id string) error {
	return repository.InstrumentVoid(ctx, collectionName, "Delete", func() error {
		return r.inner.Delete(ctx, id)
	})
}

func (r *instrumentedRepository) UpdateStatusIf(ctx context.Context, id, from, to string) (bool, error) {
	return repository.Instrument(ctx, collectionName, "UpdateStatusIf", func() (bool, error) {
		return r.inner.UpdateStatusIf(ctx, id, from, to)
	})
}
