package issue

import "context"

// Repository defines the interface for issue data access.
// All implementations must be wrapped with instrumentation.
type Repository interface {
	FindByProject(ctx context.Context, projectID string) ([]*Issue, error)
	FindByID(ctx context.Context, id string) (*Issue, error)
	FindByKey(ctx context.Context, key string) (*Issue, error)
	FindByGitHubIssueNumber(ctx context.Context, projectID string, number int) (*Issue, error)
	FindByGitHubPRNumber(ctx context.Context, projectID string, number int) (*Issue, error)
	Insert(ctx context.Context, issue *Issue) error
	Update(ctx context.Context, issue *Issue) error
	Delete(ctx context.Context, id string) error

	// UpdateStatusIf performs a conditional status swap: the update applies
	// only when the stored status still equals from. Returns whether the
	// swap applied. Guards against interleaved webhook deliveries racing
	// on the same issue.
	UpdateStatusIf(ctx context.Context, id, from, to string) (bool, error)
}
