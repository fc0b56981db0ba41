package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/permission"
	"go.trackdeck.dev/internal/platform/project"
	"go.trackdeck.dev/internal/platform/project/operations"
	"go.trackdeck.dev/internal/platform/user"
)

// ProjectHandler handles project and membership endpoints using UseCases
type ProjectHandler struct {
	repo project.Repository
	auth *AuthMiddleware

	// UseCases
	createUseCase       *operations.CreateProjectUseCase
	addMemberUseCase    *operations.AddMemberUseCase
	updateMemberUseCase *operations.UpdateMemberUseCase
	removeMemberUseCase *operations.RemoveMemberUseCase
}

// NewProjectHandler creates a new project handler with UseCases
func NewProjectHandler(
	repo project.Repository,
	userRepo user.Repository,
	uow common.UnitOfWork,
	auth *AuthMiddleware,
) *ProjectHandler {
	return &ProjectHandler{
		repo:                repo,
		auth:                auth,
		createUseCase:       operations.NewCreateProjectUseCase(repo, uow),
		addMemberUseCase:    operations.NewAddMemberUseCase(repo, userRepo, uow),
		updateMemberUseCase: operations.NewUpdateMemberUseCase(repo, uow),
		removeMemberUseCase: operations.NewRemoveMemberUseCase(repo, uow),
	}
}

// Routes returns the router for project endpoints
func (h *ProjectHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.auth.RequirePermission(permission.ProjectsRead)).Get("/", h.List)
	r.With(h.auth.RequirePermission(permission.ProjectsRead)).Get("/{id}", h.Get)
	r.With(h.auth.RequirePermission(permission.ProjectsCreate)).Post("/", h.Create)

	r.With(h.auth.RequirePermission(permission.ProjectsUpdate)).Post("/{id}/members", h.AddMember)
	r.With(h.auth.RequirePermission(permission.ProjectsUpdate)).Put("/{id}/members/{userId}", h.UpdateMember)
	r.With(h.auth.RequirePermission(permission.ProjectsUpdate)).Delete("/{id}/members/{userId}", h.RemoveMember)

	return r
}

// List handles GET /api/projects
// @Summary List all projects
// @Tags Projects
// @Produce json
// @Success 200 {array} project.Project
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/projects [get]
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.repo.FindAll(r.Context())
	if err != nil {
		slog.Error("Failed to list projects", "error", err)
		WriteInternalError(w, "Failed to list projects")
		return
	}
	WriteJSON(w, http.StatusOK, projects)
}

// Get handles GET /api/projects/{id}
// @Summary Get project by ID
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} project.Project
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/projects/{id} [get]
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("Failed to get project", "error", err, "id", id)
		WriteInternalError(w, "Failed to get project")
		return
	}
	if p == nil {
		WriteNotFound(w, "Project not found")
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

// Create handles POST /api/projects (using UseCase)
// @Summary Create a new project
// @Description Creates a project with a unique key and a status vocabulary
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body operations.CreateProjectCommand true "Project details"
// @Success 201 {object} project.Project
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Project key already exists"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/projects [post]
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd operations.CreateProjectCommand
	if err := DecodeJSON(r, &cmd); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	execCtx := common.ExecutionContextFromRequest(r, getPrincipalID(r))
	result := h.createUseCase.Execute(r.Context(), cmd, execCtx)

	WriteUseCaseResult(w, result, http.StatusCreated)
}

// AddMember handles POST /api/projects/{id}/members (using UseCase)
// @Summary Add a member to a project
// @Description Requires project admin membership or the global admin role
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body operations.AddMemberCommand true "Member details"
// @Success 200 {object} project.Project
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "User is already a member"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/projects/{id}/members [post]
func (h *ProjectHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.canManageMembers(w, r, id) {
		return
	}

	var cmd operations.AddMemberCommand
	if err := DecodeJSON(r, &cmd); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}
	cmd.ProjectID = id

	execCtx := common.ExecutionContextFromRequest(r, getPrincipalID(r))
	result := h.addMemberUseCase.Execute(r.Context(), cmd, execCtx)

	WriteUseCaseResult(w, result, http.StatusOK)
}

// UpdateMember handles PUT /api/projects/{id}/members/{userId} (using UseCase)
// @Summary Change a member's project role
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param userId path string true "User ID"
// @Param request body operations.UpdateMemberCommand true "New project role"
// @Success 200 {object} project.Project
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/projects/{id}/members/{userId} [put]
func (h *ProjectHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := chi.URLParam(r, "userId")
	if !h.canManageMembers(w, r, id) {
		return
	}

	var cmd operations.UpdateMemberCommand
	if err := DecodeJSON(r, &cmd); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}
	cmd.ProjectID = id
	cmd.UserID = userID

	execCtx := common.ExecutionContextFromRequest(r, getPrincipalID(r))
	result := h.updateMemberUseCase.Execute(r.Context(), cmd, execCtx)

	WriteUseCaseResult(w, result, http.StatusOK)
}

// RemoveMember handles DELETE /api/projects/{id}/members/{userId} (using UseCase)
// @Summary Remove a member from a project
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Param userId path string true "User ID"
// @Success 200 {object} project.Project
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/projects/{id}/members/{userId} [delete]
func (h *ProjectHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := chi.URLParam(r, "userId")
	if !h.canManageMembers(w, r, id) {
		return
	}

	cmd := operations.RemoveMemberCommand{ProjectID: id, UserID: userID}

	execCtx := common.ExecutionContextFromRequest(r, getPrincipalID(r))
	result := h.removeMemberUseCase.Execute(r.Context(), cmd, execCtx)

	WriteUseCaseResult(w, result, http.StatusOK)
}

// canManageMembers loads the project and checks the membership-management
// gate: project admins (or the owner fallback) and the global admin role.
// Writes the error response when the check fails.
func (h *ProjectHandler) canManageMembers(w http.ResponseWriter, r *http.Request, projectID string) bool {
	principal := GetPrincipal(r.Context())
	if principal == nil {
		WriteUnauthorized(w, "Authentication required")
		return false
	}

	p, err := h.repo.FindByID(r.Context(), projectID)
	if err != nil {
		slog.Error("Failed to load project for membership check", "error", err, "projectId", projectID)
		WriteInternalError(w, "Failed to load project")
		return false
	}
	if p == nil {
		WriteNotFound(w, "Project not found")
		return false
	}

	if !project.CanManageMembers(p, principal.ID, principal.RoleName, slog.Default()) {
		WriteForbidden(w, "Requires project admin membership or the global admin role")
		return false
	}
	return true
}
