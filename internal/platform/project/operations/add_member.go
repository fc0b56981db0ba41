package operations

import (
	"context"
	"time"

	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/events"
	"go.trackdeck.dev/internal/platform/project"
	"go.trackdeck.dev/internal/platform/user"
)

// AddMemberCommand contains the data needed to add a project member
type AddMemberCommand struct {
	ProjectID string `json:"projectId"`
	UserID    string `json:"userId"`
	Role      string `json:"role,omitempty"`
}

// AddMemberUseCase handles adding a member to a project
type AddMemberUseCase struct {
	projectRepo project.Repository
	userRepo    user.Repository
	unitOfWork  common.UnitOfWork
}

// NewAddMemberUseCase creates a new AddMemberUseCase
func NewAddMemberUseCase(projectRepo project.Repository, userRepo user.Repository, uow common.UnitOfWork) *AddMemberUseCase {
	return &AddMemberUseCase{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		unitOfWork:  uow,
	}
}

// Execute adds a member. Default project-role is assignee; adding an
// existing member is rejected. Authorization (project admin or global
// admin) is the handler's responsibility.
func (uc *AddMemberUseCase) Execute(
	ctx context.Context,
	cmd AddMemberCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	if cmd.ProjectID == "" || cmd.UserID == "" {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeRequired, "Project ID and user ID are required", nil),
		)
	}

	memberRole := cmd.Role
	if memberRole == "" {
		memberRole = project.MemberRoleAssignee
	}
	if !project.ValidMemberRole(memberRole) {
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

	if p.HasMember(cmd.UserID) {
		return common.Failure[common.DomainEvent](
			common.BusinessRuleError(common.ErrCodeAlreadyExists,
				"User is already a member of this project",
				map[string]any{"userId": cmd.UserID}),
		)
	}

	member := project.Member{
		UserID:  cmd.UserID,
		Role:    memberRole,
		AddedAt: time.Now(),
		AddedBy: execCtx.PrincipalID,
	}
	p.Members = append(p.Members, member)
	p.UpdatedAt = time.Now()

	event := events.NewProjectMemberAdded(execCtx, p, member)

	return uc.unitOfWork.Commit(ctx, p, event, cmd)
}
