// Package operations contains the issue use cases.
package operations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/events"
	"go.trackdeck.dev/internal/platform/issue"
	"go.trackdeck.dev/internal/platform/project"
)

// CreateIssueCommand contains the data needed to create an issue
type CreateIssueCommand struct {
	ProjectID   string `json:"projectId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	AssigneeID  string `json:"assigneeId,omitempty"`
}

// CreateIssueUseCase handles creating a new issue
type CreateIssueUseCase struct {
	issueRepo   issue.Repository
	projectRepo project.Repository
	unitOfWork  common.UnitOfWork
}

// NewCreateIssueUseCase creates a new CreateIssueUseCase
func NewCreateIssueUseCase(issueRepo issue.Repository, projectRepo project.Repository, uow common.UnitOfWork) *CreateIssueUseCase {
	return &CreateIssueUseCase{
		issueRepo:   issueRepo,
		projectRepo: projectRepo,
		unitOfWork:  uow,
	}
}

// Execute creates a new issue. The key is allocated from the project's
// issue sequence (ABC-42) and the initial status is the first entry of
// the project's status vocabulary.
func (uc *CreateIssueUseCase) Execute(
	ctx context.Context,
	cmd CreateIssueCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	if cmd.Title == "" {
		return common.Failure[common.DomainEvent](
			common.ValidationError("MISSING_TITLE", "Issue title is required", nil),
		)
	}
	if cmd.ProjectID == "" {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeRequired, "Project ID is required", nil),
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
	if len(p.Statuses) == 0 {
		return common.Failure[common.DomainEvent](
			common.BusinessRuleError(common.ErrCodeInvalidState,
				"Project has no status vocabulary",
				map[string]any{"projectId": p.ID}),
		)
	}

	seq, err := uc.projectRepo.NextIssueNumber(ctx, p.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.InternalError("DB_ERROR", "Failed to allocate issue number", map[string]any{"error": err.Error()}),
		)
	}

	now := time.Now()
	i := &issue.Issue{
		ID:          uuid.NewString(),
		ProjectID:   p.ID,
		Key:         fmt.Sprintf("%s-%d", p.Key, seq),
		Title:       cmd.Title,
		Description: cmd.Description,
		Status:      p.Statuses[0],
		AssigneeID:  cmd.AssigneeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	event := events.NewIssueCreated(execCtx, i)

	return uc.unitOfWork.Commit(ctx, i, event, cmd)
}
