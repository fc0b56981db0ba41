package role

import "context"

// Repository defines the interface for role data access.
// All implementations must be wrapped with instrumentation.
type Repository interface {
	FindAll(ctx context.Context) ([]*Role, error)
	FindByID(ctx context.Context, id string) (*Role, error)
	FindByName(ctx context.Context, name string) (*Role, error)
	FindActiveByName(ctx context.Context, name string) (*Role, error)
	Insert(ctx context.Context, role *Role) error
	Update(ctx context.Context, role *Role) error
	Delete(ctx context.Context, id string) error

	// CountUsersWithRole counts users referencing the role.
	// Used by the delete path to reject deleting roles still in use.
	CountUsersWithRole(ctx context.Context, roleID string) (int64, error)
}
