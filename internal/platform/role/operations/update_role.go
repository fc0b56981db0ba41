package operations

import (
	"context"
	"time"

	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/events"
	"go.trackdeck.dev/internal/platform/permission"
	"go.trackdeck.dev/internal/platform/role"
)

// UpdateRoleCommand contains the data needed to update a role
type UpdateRoleCommand struct {
	RoleID      string    `json:"roleId"`
	DisplayName *string   `json:"displayName,omitempty"`
	Description *string   `json:"description,omitempty"`
	Permissions *[]string `json:"permissions,omitempty"`
	IsActive    *bool     `json:"isActive,omitempty"`
}

// UpdateRoleUseCase handles updating a role
type UpdateRoleUseCase struct {
	repo       role.Repository
	unitOfWork common.UnitOfWork
}

// NewUpdateRoleUseCase creates a new UpdateRoleUseCase
func NewUpdateRoleUseCase(repo role.Repository, uow common.UnitOfWork) *UpdateRoleUseCase {
	return &UpdateRoleUseCase{
		repo:       repo,
		unitOfWork: uow,
	}
}

// Execute updates a role. System roles reject mutation unconditionally,
// regardless of the caller's permissions.
func (uc *UpdateRoleUseCase) Execute(
	ctx context.Context,
	cmd UpdateRoleCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	if cmd.RoleID == "" {
		return common.Failure[common.DomainEvent](
			common.ValidationError("MISSING_ROLE_ID", "Role ID is required", nil),
		)
	}

	r, err := uc.repo.FindByID(ctx, cmd.RoleID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.InternalError("DB_ERROR", "Failed to load role", map[string]any{"error": err.Error()}),
		)
	}
	if r == nil {
		return common.Failure[common.DomainEvent](
			common.NotFoundError(common.ErrCodeRoleNotFound, "Role not found", map[string]any{"roleId": cmd.RoleID}),
		)
	}

	if r.IsSystem {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeSystemRole,
				"System roles cannot be modified",
				map[string]any{"name": r.Name}),
		)
	}

	if cmd.Permissions != nil {
		if unknown := permission.Validate(*cmd.Permissions); len(unknown) > 0 {
			return common.Failure[common.DomainEvent](
				common.ValidationError("UNKNOWN_PERMISSIONS",
					"One or more permission tokens are not recognized",
					map[string]any{"unknown": unknown}),
			)
		}
		r.Permissions = *cmd.Permissions
	}
	if cmd.DisplayName != nil {
		r.DisplayName = *cmd.DisplayName
	}
	if cmd.Description != nil {
		r.Description = *cmd.Description
	}
	if cmd.IsActive != nil {
		r.IsActive = *cmd.IsActive
	}
	r.LastModifiedBy = execCtx.PrincipalID
	r.UpdatedAt = time.Now()

	event := events.NewRoleUpdated(execCtx, r)

	return uc.unitOfWork.Commit(ctx, r, event, cmd)
}
