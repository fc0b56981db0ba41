// Package operations contains the user use cases.
package operations

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go.trackdeck.dev/internal/platform/auth/local"
	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/events"
	"go.trackdeck.dev/internal/platform/role"
	"go.trackdeck.dev/internal/platform/user"
)

// CreateUserCommand contains the data needed to create a user
type CreateUserCommand struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	RoleID   string `json:"roleId"`
}

// ToAuditJSON redacts the password from audit logs.
func (c CreateUserCommand) ToAuditJSON() string {
	redacted := struct {
		Email  string `json:"email"`
		Name   string `json:"name"`
		RoleID string `json:"roleId"`
	}{c.Email, c.Name, c.RoleID}
	return common.MarshalDataJSON(redacted)
}

// CreateUserUseCase handles creating a new user
type CreateUserUseCase struct {
	userRepo        user.Repository
	roleRepo        role.Repository
	passwordService *local.PasswordService
	unitOfWork      common.UnitOfWork
}

// NewCreateUserUseCase creates a new CreateUserUseCase
func NewCreateUserUseCase(userRepo user.Repository, roleRepo role.Repository, uow common.UnitOfWork) *CreateUserUseCase {
	return &CreateUserUseCase{
		userRepo:        userRepo,
		roleRepo:        roleRepo,
		passwordService: local.NewPasswordService(),
		unitOfWork:      uow,
	}
}

// Execute creates a new user
func (uc *CreateUserUseCase) Execute(
	ctx context.Context,
	cmd CreateUserCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	if cmd.Email == "" {
		return common.Failure[common.DomainEvent](
			common.ValidationError("MISSING_EMAIL", "Email is required", nil),
		)
	}
	if cmd.RoleID == "" {
		return common.Failure[common.DomainEvent](
			common.ValidationError("MISSING_ROLE_ID", "Role ID is required", nil),
		)
	}
	if err := uc.passwordService.ValidatePasswordStrength(cmd.Password); err != nil {
		return common.Failure[common.DomainEvent](
			common.ValidationError("WEAK_PASSWORD", "Password does not meet requirements", nil),
		)
	}

	email := local.NormalizeEmail(cmd.Email)

	existing, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.InternalError("DB_ERROR", "Failed to check for existing user", map[string]any{"error": err.Error()}),
		)
	}
	if existing != nil {
		return common.Failure[common.DomainEvent](
			common.BusinessRuleError(common.ErrCodeDuplicateEmail,
				"A user with this email already exists",
				map[string]any{"email": email}),
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

	hash, err := uc.passwordService.HashPassword(cmd.Password)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.InternalError("HASH_FAILED", "Failed to hash password", nil),
		)
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         cmd.Name,
		PasswordHash: hash,
		RoleID:       r.ID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	event := events.NewUserCreated(execCtx, u)

	return uc.unitOfWork.Commit(ctx, u, event, cmd)
}
