// Package operations contains the project use cases.
package operations

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"

	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/events"
	"go.trackdeck.dev/internal/platform/project"
)

// keyPattern constrains project keys: uppercase letters and digits,
// starting with a letter (e.g. ABC, X9).
var keyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]*$`)

// CreateProjectCommand contains the data needed to create a project
type CreateProjectCommand struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Statuses    []string `json:"statuses,omitempty"`
}

// CreateProjectUseCase handles creating a new project
type CreateProjectUseCase struct {
	repo       project.Repository
	unitOfWork common.UnitOfWork
}

// NewCreateProjectUseCase creates a new CreateProjectUseCase
func NewCreateProjectUseCase(repo project.Repository, uow common.UnitOfWork) *CreateProjectUseCase {
	return &CreateProjectUseCase{
		repo:       repo,
		unitOfWork: uow,
	}
}

// Execute creates a new project. The caller becomes the owner.
func (uc *CreateProjectUseCase) Execute(
	ctx context.Context,
	cmd CreateProjectCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	if cmd.Name == "" {
		return common.Failure[common.DomainEvent](
			common.ValidationError("MISSING_NAME", "Project name is required", nil),
		)
	}
	if !keyPattern.MatchString(cmd.Key) {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeInvalidFormat,
				"Project key must be uppercase letters and digits, starting with a letter",
				map[string]any{"key": cmd.Key}),
		)
	}

	existing, err := uc.repo.FindByKey(ctx, cmd.Key)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.InternalError("DB_ERROR", "Failed to check for existing project", map[string]any{"error": err.Error()}),
		)
	}
	if existing != nil {
		return common.Failure[common.DomainEvent](
			common.BusinessRuleError(common.ErrCodeAlreadyExists,
				"A project with this key already exists",
				map[string]any{"key": cmd.Key}),
		)
	}

	statuses := cmd.Statuses
	if len(statuses) == 0 {
		statuses = project.DefaultStatuses
	}

	now := time.Now()
	p := &project.Project{
		ID:          uuid.NewString(),
		Key:         cmd.Key,
		Name:        cmd.Name,
		Description: cmd.Description,
		OwnerID:     execCtx.PrincipalID,
		Statuses:    statuses,
		Members:     []project.Member{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	event := events.NewProjectCreated(execCtx, p)

	return uc.unitOfWork.Commit(ctx, p, event, cmd)
}
