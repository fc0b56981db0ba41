package operations

import (
	"context"
	"time"

	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/events"
	"go.trackdeck.dev/internal/platform/role"
	"go.trackdeck.dev/internal/platform/user"
)

// AssignRoleCommand contains the data needed to change a user's role
type AssignRoleCommand struct {
	UserID string `json:"userId"`
	RoleID string `json:"roleId"`
}

// AssignRoleUseCase handles changing a user's role reference
type AssignRoleUseCase struct {
	userRepo   user.Repository
	roleRepo   role.Repository
	unitOfWork common.UnitOfWork
}

// NewAssignRoleUseCase creates a new AssignRoleUseCase
func NewAssignRoleUseCase(userRepo user.Repository, roleRepo role.Repository, uow common.UnitOfWork) *AssignRoleUseCase {
	return &AssignRoleUseCase{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		unitOfWork: uow,
	}
}

// Execute assigns a role to a user. Only the reference changes; the
// user's effective permissions follow the role from the next request on.
func (uc *AssignRoleUseCase) Execute(
	ctx context.Context,
	cmd AssignRoleCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	if cmd.UserID == "" || cmd.RoleID == "" {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeRequired, "User ID and role ID are required", nil),
		)
	}

	u, err := uc.userRepo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.InternalError("DB_ERROR", "Failed to load user", map[string]any{"error": err.Error()}),
		)
	}
	if u == nil {
		return common.Failure[common.DomainEvent](
			common.NotFoundError(common.ErrCodeUserNotFound, "User not found", map[string]any{"userId": cmd.UserID}),
		)
	}

	r, err := uc.roleRepo.FindByID(ctx, cmd.RoleID)
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

	fromRoleID := u.RoleID
	u.RoleID = r.ID
	u.UpdatedAt = time.Now()

	event := events.NewUserRoleAssigned(execCtx, u, fromRoleID)

	return uc.unitOfWork.Commit(ctx, u, event, cmd)
}
