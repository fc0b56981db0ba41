// Package operations contains the role use cases.
package operations

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/events"
	"go.trackdeck.dev/internal/platform/permission"
	"go.trackdeck.dev/internal/platform/role"
)

// CreateRoleCommand contains the data needed to create a role
type CreateRoleCommand struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	OrgID       string   `json:"orgId,omitempty"`
}

// CreateRoleUseCase handles creating a new role
type CreateRoleUseCase struct {
	repo       role.Repository
	unitOfWork common.UnitOfWork
}

// NewCreateRoleUseCase creates a new CreateRoleUseCase
func NewCreateRoleUseCase(repo role.Repository, uow common.UnitOfWork) *CreateRoleUseCase {
	return &CreateRoleUseCase{
		repo:       repo,
		unitOfWork: uow,
	}
}

// Execute creates a new role
func (uc *CreateRoleUseCase) Execute(
	ctx context.Context,
	cmd CreateRoleCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	if cmd.Name == "" {
		return common.Failure[common.DomainEvent](
			common.ValidationError("MISSING_NAME", "Role name is required", nil),
		)
	}

	if unknown := permission.Validate(cmd.Permissions); len(unknown) > 0 {
		return common.Failure[common.DomainEvent](
			common.ValidationError("UNKNOWN_PERMISSIONS",
				"One or more permission tokens are not recognized",
				map[string]any{"unknown": unknown}),
		)
	}

	// Check for duplicate name
	existing, err := uc.repo.FindByName(ctx, cmd.Name)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.InternalError("DB_ERROR", "Failed to check for existing role", map[string]any{"error": err.Error()}),
		)
	}
	if existing != nil {
		return common.Failure[common.DomainEvent](
			common.BusinessRuleError(common.ErrCodeDuplicateName,
				"A role with this name already exists",
				map[string]any{"name": cmd.Name}),
		)
	}

	displayName := cmd.DisplayName
	if displayName == "" {
		displayName = cmd.Name
	}

	now := time.Now()
	r := &role.Role{
		ID:             uuid.NewString(),
		Name:           cmd.Name,
		DisplayName:    displayName,
		Description:    cmd.Description,
		Permissions:    cmd.Permissions,
		IsSystem:       false,
		IsActive:       true,
		OrgID:          cmd.OrgID,
		CreatedBy:      execCtx.PrincipalID,
		LastModifiedBy: execCtx.PrincipalID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	event := events.NewRoleCreated(execCtx, r)

	return uc.unitOfWork.Commit(ctx, r, event, cmd)
}
