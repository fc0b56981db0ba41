package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/permission"
	"go.trackdeck.dev/internal/platform/role"
	"go.trackdeck.dev/internal/platform/role/operations"
)

// RoleHandler handles role endpoints using UseCases
// @Description Role management API for access control
type RoleHandler struct {
	repo role.Repository
	auth *AuthMiddleware

	// UseCases
	createUseCase *operations.CreateRoleUseCase
	updateUseCase *operations.UpdateRoleUseCase
	deleteUseCase *operations.DeleteRoleUseCase
}

// NewRoleHandler creates a new role handler with UseCases
func NewRoleHandler(
	repo role.Repository,
	uow common.UnitOfWork,
	auth *AuthMiddleware,
) *RoleHandler {
	return &RoleHandler{
		repo:          repo,
		auth:          auth,
		createUseCase: operations.NewCreateRoleUseCase(repo, uow),
		updateUseCase: operations.NewUpdateRoleUseCase(repo, uow),
		deleteUseCase: operations.NewDeleteRoleUseCase(repo, uow),
	}
}

// Routes returns the router for role endpoints. Mutations require both the
// permission token and a global admin or manager role.
func (h *RoleHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.auth.RequirePermission(permission.RolesRead)).Get("/", h.List)
	r.With(h.auth.RequirePermission(permission.RolesRead)).Get("/{id}", h.Get)
	r.With(
		h.auth.RequirePermission(permission.RolesCreate),
		h.auth.RequireRole("admin", "manager"),
	).Post("/", h.Create)
	r.With(
		h.auth.RequirePermission(permission.RolesUpdate),
		h.auth.RequireRole("admin", "manager"),
	).Put("/{id}", h.Update)
	r.With(
		h.auth.RequirePermission(permission.RolesDelete),
		h.auth.RequireRole("admin", "manager"),
	).Delete("/{id}", h.Delete)

	return r
}

// List handles GET /api/roles
// @Summary List all roles
// @Description Returns a list of all roles in the system
// @Tags Roles
// @Accept json
// @Produce json
// @Success 200 {array} role.Role
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/roles [get]
func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.repo.FindAll(r.Context())
	if err != nil {
		slog.Error("Failed to list roles", "error", err)
		WriteInternalError(w, "Failed to list roles")
		return
	}
	WriteJSON(w, http.StatusOK, roles)
}

// Get handles GET /api/roles/{id}
// @Summary Get role by ID
// @Description Returns a single role by its ID
// @Tags Roles
// @Accept json
// @Produce json
// @Param id path string true "Role ID"
// @Success 200 {object} role.Role
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/roles/{id} [get]
func (h *RoleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	roleData, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("Failed to get role", "error", err, "id", id)
		WriteInternalError(w, "Failed to get role")
		return
	}
	if roleData == nil {
		WriteNotFound(w, "Role not found")
		return
	}
	WriteJSON(w, http.StatusOK, roleData)
}

// Create handles POST /api/roles (using UseCase)
// @Summary Create a new role
// @Description Creates a new role with specified permission tokens
// @Tags Roles
// @Accept json
// @Produce json
// @Param request body operations.CreateRoleCommand true "Role details"
// @Success 201 {object} role.Role
// @Failure 400 {object} ErrorResponse "Unknown permission token"
// @Failure 409 {object} ErrorResponse "Role with name already exists"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/roles [post]
func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd operations.CreateRoleCommand
	if err := DecodeJSON(r, &cmd); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	execCtx := common.ExecutionContextFromRequest(r, getPrincipalID(r))
	result := h.createUseCase.Execute(r.Context(), cmd, execCtx)

	WriteUseCaseResult(w, result, http.StatusCreated)
}

// Update handles PUT /api/roles/{id} (using UseCase)
// @Summary Update a role
// @Description Updates an existing role (system roles cannot be modified)
// @Tags Roles
// @Accept json
// @Produce json
// @Param id path string true "Role ID"
// @Param request body operations.UpdateRoleCommand true "Updated role details"
// @Success 200 {object} role.Role
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Cannot modify system role"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/roles/{id} [put]
func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var cmd operations.UpdateRoleCommand
	if err := DecodeJSON(r, &cmd); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}
	cmd.RoleID = id

	execCtx := common.ExecutionContextFromRequest(r, getPrincipalID(r))
	result := h.updateUseCase.Execute(r.Context(), cmd, execCtx)

	WriteUseCaseResult(w, result, http.StatusOK)
}

// Delete handles DELETE /api/roles/{id} (using UseCase)
// @Summary Delete a role
// @Description Deletes a role (system roles and roles in use cannot be deleted)
// @Tags Roles
// @Accept json
// @Produce json
// @Param id path string true "Role ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Role is in use or is a system role"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/roles/{id} [delete]
func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	cmd := operations.DeleteRoleCommand{RoleID: id}

	execCtx := common.ExecutionContextFromRequest(r, getPrincipalID(r))
	result := h.deleteUseCase.Execute(r.Context(), cmd, execCtx)

	if result.IsFailure() {
		WriteUseCaseError(w, result.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
