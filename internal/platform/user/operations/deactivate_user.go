package operations

import (
	"context"
	"time"

	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/events"
	"go.trackdeck.dev/internal/platform/user"
)

// DeactivateUserCommand contains the data needed to deactivate a user
type DeactivateUserCommand struct {
	UserID string `json:"userId"`
}

// DeactivateUserUseCase handles deactivating a user
type DeactivateUserUseCase struct {
	userRepo   user.Repository
	unitOfWork common.UnitOfWork
}

// NewDeactivateUserUseCase creates a new DeactivateUserUseCase
func NewDeactivateUserUseCase(userRepo user.Repository, uow common.UnitOfWork) *DeactivateUserUseCase {
	return &DeactivateUserUseCase{
		userRepo:   userRepo,
		unitOfWork: uow,
	}
}

// Execute deactivates a user. Their sessions stop authenticating on the
// next request; the account record is retained.
func (uc *DeactivateUserUseCase) Execute(
	ctx context.Context,
	cmd DeactivateUserCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	if cmd.UserID == "" {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeRequired, "User ID is required", nil),
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

	if !u.IsActive {
		return common.Failure[common.DomainEvent](
			common.BusinessRuleError(common.ErrCodeInvalidState, "User is already deactivated", nil),
		)
	}

	u.IsActive = false
	u.UpdatedAt = time.Now()

	event := events.NewUserDeactivated(execCtx, u)

	return uc.unitOfWork.Commit(ctx, u, event, cmd)
}
