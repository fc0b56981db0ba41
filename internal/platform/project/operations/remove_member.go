package operations

import (
	"context"
	"time"

	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/events"
	"go.trackdeck.dev/internal/platform/project"
)

// RemoveMemberCommand contains the data needed to remove a project member
type RemoveMemberCommand struct {
	ProjectID string `json:"projectId"`
	UserID    string `json:"userId"`
}

// RemoveMemberUseCase handles removing a member from a project
type RemoveMemberUseCase struct {
	projectRepo project.Repository
	unitOfWork  common.UnitOfWork
}

// NewRemoveMemberUseCase creates a new RemoveMemberUseCase
func NewRemoveMemberUseCase(projectRepo project.Repository, uow common.UnitOfWork) *RemoveMemberUseCase {
	return &RemoveMemberUseCase{
		projectRepo: projectRepo,
		unitOfWork:  uow,
	}
}

// Execute removes a member. Removing an absent member is not-found,
// never a silent success.
func (uc *RemoveMemberUseCase) Execute(
	ctx context.Context,
	cmd RemoveMemberCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	if cmd.ProjectID == "" || cmd.UserID == "" {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeRequired, "Project ID and user ID are required", nil),
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

	removed := false
	for i := range p.Members {
		if p.Members[i].UserID == cmd.UserID {
			p.Members = append(p.Members[:i], p.Members[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		return common.Failure[common.DomainEvent](
			common.NotFoundError(common.ErrCodeMemberNotFound,
				"User is not a member of this project",
				map[string]any{"userId": cmd.UserID}),
		)
	}
	p.UpdatedAt = time.Now()

	event := events.NewProjectMemberRemoved(execCtx, p, cmd.UserID)

	return uc.unitOfWork.Commit(ctx, p, event, cmd)
}
