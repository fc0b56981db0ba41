package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/permission"
	"go.trackdeck.dev/internal/platform/role"
	"go.trackdeck.dev/internal/platform/user"
	"go.trackdeck.dev/internal/platform/user/operations"
)

// UserHandler handles user endpoints using UseCases
type UserHandler struct {
	repo user.Repository
	auth *AuthMiddleware

	// UseCases
	createUseCase     *operations.CreateUserUseCase
	assignRoleUseCase *operations.AssignRoleUseCase
	deactivateUseCase *operations.DeactivateUserUseCase
}

// NewUserHandler creates a new user handler with UseCases
func NewUserHandler(
	repo user.Repository,
	roleRepo role.Repository,
	uow common.UnitOfWork,
	auth *AuthMiddleware,
) *UserHandler {
	return &UserHandler{
		repo:              repo,
		auth:              auth,
		createUseCase:     operations.NewCreateUserUseCase(repo, roleRepo, uow),
		assignRoleUseCase: operations.NewAssignRoleUseCase(repo, roleRepo, uow),
		deactivateUseCase: operations.NewDeactivateUserUseCase(repo, uow),
	}
}

// Routes returns the router for user endpoints
func (h *UserHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.auth.RequirePermission(permission.UsersRead)).Get("/", h.List)
	r.With(h.auth.RequirePermission(permission.UsersRead)).Get("/{id}", h.Get)
	r.With(h.auth.RequirePermission(permission.UsersCreate)).Post("/", h.Create)
	r.With(h.auth.RequirePermission(permission.UsersUpdate)).Put("/{id}/role", h.AssignRole)
	r.With(h.auth.RequirePermission(permission.UsersUpdate)).Post("/{id}/deactivate", h.Deactivate)

	return r
}

// List handles GET /api/users
// @Summary List all users
// @Tags Users
// @Produce json
// @Success 200 {array} user.User
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/users [get]
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.FindAll(r.Context())
	if err != nil {
		slog.Error("Failed to list users", "error", err)
		WriteInternalError(w, "Failed to list users")
		return
	}
	WriteJSON(w, http.StatusOK, users)
}

// Get handles GET /api/users/{id}
// @Summary Get user by ID
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} user.User
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/users/{id} [get]
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	u, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("Failed to get user", "error", err, "id", id)
		WriteInternalError(w, "Failed to get user")
		return
	}
	if u == nil {
		WriteNotFound(w, "User not found")
		return
	}
	WriteJSON(w, http.StatusOK, u)
}

// Create handles POST /api/users (using UseCase)
// @Summary Create a new user
// @Description Creates a user with a hashed password and a role reference
// @Tags Users
// @Accept json
// @Produce json
// @Param request body operations.CreateUserCommand true "User details"
// @Success 201 {object} user.User
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/users [post]
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd operations.CreateUserCommand
	if err := DecodeJSON(r, &cmd); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	execCtx := common.ExecutionContextFromRequest(r, getPrincipalID(r))
	result := h.createUseCase.Execute(r.Context(), cmd, execCtx)

	WriteUseCaseResult(w, result, http.StatusCreated)
}

// AssignRole handles PUT /api/users/{id}/role (using UseCase)
// @Summary Assign a role to a user
// @Description Changes the user's global role reference
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body operations.AssignRoleCommand true "Role assignment"
// @Success 200 {object} user.User
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/users/{id}/role [put]
func (h *UserHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var cmd operations.AssignRoleCommand
	if err := DecodeJSON(r, &cmd); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}
	cmd.UserID = id

	execCtx := common.ExecutionContextFromRequest(r, getPrincipalID(r))
	result := h.assignRoleUseCase.Execute(r.Context(), cmd, execCtx)

	WriteUseCaseResult(w, result, http.StatusOK)
}

// Deactivate handles POST /api/users/{id}/deactivate (using UseCase)
// @Summary Deactivate a user
// @Description Deactivated users fail authentication on the next request
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} user.User
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "User already deactivated"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	cmd := operations.DeactivateUserCommand{UserID: id}

	execCtx := common.ExecutionContextFromRequest(r, getPrincipalID(r))
	result := h.deactivateUseCase.Execute(r.Context(), cmd, execCtx)

	WriteUseCaseResult(w, result, http.StatusOK)
}
