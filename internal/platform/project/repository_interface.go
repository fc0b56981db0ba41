package project

import "context"

// Repository defines the interface for project data access.
// All implementations must be wrapped with instrumentation.
type Repository interface {
	FindAll(ctx context.Context) ([]*Project, error)
	FindByID(ctx context.Context, id string) (*Project, error)
	FindByKey(ctx context.Context, key string) (*Project, error)
	Insert(ctx context.Context, project *Project) error
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id string) error

	// NextIssueNumber atomically increments and returns the project's
	// issue sequence, used to allocate keys like ABC-42.
	NextIssueNumber(ctx context.Context, projectID string) (int64, error)
}
