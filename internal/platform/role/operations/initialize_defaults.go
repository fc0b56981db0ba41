package operations

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"go.trackdeck.dev/internal/platform/permission"
	"go.trackdeck.dev/internal/platform/role"
)

// systemRoleDefinitions are the roles seeded at startup.
var systemRoleDefinitions = []role.Role{
	{
		Name:        role.SystemRoleAdmin,
		DisplayName: "Administrator",
		Description: "Full access to every resource",
		Permissions: permission.All(),
	},
	{
		Name:        role.SystemRoleManager,
		DisplayName: "Manager",
		Description: "Manages projects, issues, users and integrations",
		Permissions: []string{
			permission.ProjectsRead, permission.ProjectsCreate, permission.ProjectsUpdate,
			permission.IssuesRead, permission.IssuesCreate, permission.IssuesUpdate, permission.IssuesDelete,
			permission.SprintsRead, permission.SprintsCreate, permission.SprintsUpdate,
			permission.BoardsRead, permission.BoardsUpdate,
			permission.BudgetsRead, permission.BudgetsUpdate,
			permission.UsersRead,
			permission.RolesRead,
			permission.IntegrationsRead, permission.IntegrationsCreate, permission.IntegrationsUpdate,
			permission.WebhooksRead, permission.WebhooksRetry,
		},
	},
	{
		Name:        role.SystemRoleDeveloper,
		DisplayName: "Developer",
		Description: "Works on issues and boards",
		Permissions: []string{
			permission.ProjectsRead,
			permission.IssuesRead, permission.IssuesCreate, permission.IssuesUpdate,
			permission.SprintsRead,
			permission.BoardsRead, permission.BoardsUpdate,
			permission.WebhooksRead,
		},
	},
	{
		Name:        role.SystemRoleViewer,
		DisplayName: "Viewer",
		Description: "Read-only access",
		Permissions: []string{
			permission.ProjectsRead,
			permission.IssuesRead,
			permission.SprintsRead,
			permission.BoardsRead,
		},
	},
}

// InitializeDefaultsUseCase seeds the system roles at startup.
// Idempotent: roles that already exist are left untouched.
type InitializeDefaultsUseCase struct {
	repo   role.Repository
	logger *slog.Logger
}

// NewInitializeDefaultsUseCase creates a new InitializeDefaultsUseCase
func NewInitializeDefaultsUseCase(repo role.Repository, logger *slog.Logger) *InitializeDefaultsUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &InitializeDefaultsUseCase{repo: repo, logger: logger}
}

// Execute seeds missing system roles. Startup bootstrap writes directly
// through the repository; there is no principal yet to attribute a
// domain event to.
func (uc *InitializeDefaultsUseCase) Execute(ctx context.Context) error {
	for _, def := range systemRoleDefinitions {
		existing, err := uc.repo.FindByName(ctx, def.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		now := time.Now()
		r := def
		r.ID = uuid.NewString()
		r.IsSystem = true
		r.IsActive = true
		r.CreatedBy = "system"
		r.LastModifiedBy = "system"
		r.CreatedAt = now
		r.UpdatedAt = now

		if err := uc.repo.Insert(ctx, &r); err != nil {
			return err
		}
		uc.logger.Info("seeded system role", "name", r.Name, "permissions", len(r.Permissions))
	}
	return nil
}
