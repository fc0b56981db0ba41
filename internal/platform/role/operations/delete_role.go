package operations

import (
	"context"

	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/events"
	"go.trackdeck.dev/internal/platform/role"
)

// DeleteRoleCommand contains the data needed to delete a role
type DeleteRoleCommand struct {
	RoleID string `json:"roleId"`
}

// DeleteRoleUseCase handles deleting a role
type DeleteRoleUseCase struct {
	repo       role.Repository
	unitOfWork common.UnitOfWork
}

// NewDeleteRoleUseCase creates a new DeleteRoleUseCase
func NewDeleteRoleUseCase(repo role.Repository, uow common.UnitOfWork) *DeleteRoleUseCase {
	return &DeleteRoleUseCase{
		repo:       repo,
		unitOfWork: uow,
	}
}

// Execute deletes a role. System roles and roles still referenced by
// users are rejected.
func (uc *DeleteRoleUseCase) Execute(
	ctx context.Context,
	cmd DeleteRoleCommand,
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
				"System roles cannot be deleted",
				map[string]any{"name": r.Name}),
		)
	}

	inUse, err := uc.repo.CountUsersWithRole(ctx, r.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.InternalError("DB_ERROR", "Failed to count role references", map[string]any{"error": err.Error()}),
		)
	}
	if inUse > 0 {
		return common.Failure[common.DomainEvent](
			common.BusinessRuleError(common.ErrCodeRoleInUse,
				"Role is still assigned to users",
				map[string]any{"name": r.Name, "userCount": inUse}),
		)
	}

	event := events.NewRoleDeleted(execCtx, r)

	return uc.unitOfWork.CommitDelete(ctx, r, event, cmd)
}
