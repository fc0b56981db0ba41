package operations

import (
	"context"
	"time"

	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/events"
	"go.trackdeck.dev/internal/platform/issue"
	"go.trackdeck.dev/internal/platform/project"
)

// UpdateStatusCommand contains the data needed to move an issue between statuses
type UpdateStatusCommand struct {
	IssueID string `json:"issueId"`
	Status  string `json:"status"`
}

// UpdateStatusUseCase handles manual issue status transitions
type UpdateStatusUseCase struct {
	issueRepo   issue.Repository
	projectRepo project.Repository
	unitOfWork  common.UnitOfWork
}

// NewUpdateStatusUseCase creates a new UpdateStatusUseCase
func NewUpdateStatusUseCase(issueRepo issue.Repository, projectRepo project.Repository, uow common.UnitOfWork) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{
		issueRepo:   issueRepo,
		projectRepo: projectRepo,
		unitOfWork:  uow,
	}
}

// Execute moves an issue to a new status. The target must belong to the
// owning project's status vocabulary; statuses are otherwise opaque and
// any-to-any transitions are allowed.
func (uc *UpdateStatusUseCase) Execute(
	ctx context.Context,
	cmd UpdateStatusCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	if cmd.IssueID == "" || cmd.Status == "" {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeRequired, "Issue ID and status are required", nil),
		)
	}

	i, err := uc.issueRepo.FindByID(ctx, cmd.IssueID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.InternalError("DB_ERROR", "Failed to load issue", map[string]any{"error": err.Error()}),
		)
	}
	if i == nil {
		return common.Failure[common.DomainEvent](
			common.NotFoundError(common.ErrCodeIssueNotFound, "Issue not found", map[string]any{"issueId": cmd.IssueID}),
		)
	}

	p, err := uc.projectRepo.FindByID(ctx, i.ProjectID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.InternalError("DB_ERROR", "Failed to load project", map[string]any{"error": err.Error()}),
		)
	}
	if p == nil {
		return common.Failure[common.DomainEvent](
			common.NotFoundError(common.ErrCodeProjectNotFound, "Project not found", map[string]any{"projectId": i.ProjectID}),
		)
	}
	if !p.HasStatus(cmd.Status) {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeInvalidValue,
				"Status is not part of the project's vocabulary",
				map[string]any{"status": cmd.Status, "statuses": p.Statuses}),
		)
	}

	if i.Status == cmd.Status {
		return common.Failure[common.DomainEvent](
			common.BusinessRuleError(common.ErrCodeInvalidState,
				"Issue is already in the requested status",
				map[string]any{"status": cmd.Status}),
		)
	}

	fromStatus := i.Status
	i.Status = cmd.Status
	i.UpdatedAt = time.Now()

	event := events.NewIssueStatusChanged(execCtx, i, fromStatus)

	return uc.unitOfWork.Commit(ctx, i, event, cmd)
}
