package operations

import (
	"context"
	"time"

	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/events"
	"go.trackdeck.dev/internal/platform/project"
)

// UpdateMemberCommand contains the data needed to change a member's project-role
type UpdateMemberCommand struct {
	ProjectID string `json:"projectId"`
	UserID    string `json:"userId"`
	Role      string `json:"role"`
}

// UpdateMemberUseCase handles changing a member's project-role
type UpdateMemberUseCase struct {
	projectRepo project.Repository
	unitOfWork  common.UnitOfWork
}

// NewUpdateMemberUseCase creates a new UpdateMemberUseCase
func NewUpdateMemberUseCase(projectRepo project.Repository, uow common.UnitOfWork) *UpdateMemberUseCase {
	return &UpdateMemberUseCase{
		projectRepo: projectRepo,
		unitOfWork:  uow,
	}
}

// Execute updates a member's project-role.
func (uc *UpdateMemberUseCase) Execute(
	ctx context.Context,
	cmd UpdateMemberCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	if cmd.ProjectID == "" || cmd.UserID == "" {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeRequired, "Project ID and user ID are required", nil),
		)
	}
	if !project.ValidMemberRole(cmd.Role) {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeInvalidValue,
				"Invalid project role",
				map[string]any{"role": cmd.Role}),
		)
	}

	p, err := uc.projectRepo.FindByID(ctx, cmd.ProjectID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.InternalError("DB_ERROR", "Failed to load project", map[string]any{"error": err.Error()}),
		)
	}
	if p == nil {
		return common.Failure[common.DomainEvent](
			common.NotFoundError(common.ErrCodeProjectNotFound, "Project not found", map[string]any{"projectId": cmd.ProjectID}),
		)
	}

	updated := false
	fromRole := ""
	for i := range p.Members {
		if p.Members[i].UserID == cmd.UserID {
			fromRole = p.Members[i].Role
			p.Members[i].Role = cmd.Role
			updated = true
			break
		}
	}
	if !updated {
		return common.Failure[common.DomainEvent](
			common.NotFoundError(common.ErrCodeMemberNotFound,
				"User is not a member of this project",
				map[string]any{"userId": cmd.UserID}),
		)
	}
	p.UpdatedAt = time.Now()

	event := events.NewProjectMemberUpdated(execCtx, p, cmd.UserID, fromRole, cmd.Role)

	return uc.unitOfWork.Commit(ctx, p, event, cmd)
}
