package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/issue"
	"go.trackdeck.dev/internal/platform/issue/operations"
	"go.trackdeck.dev/internal/platform/permission"
	"go.trackdeck.dev/internal/platform/project"
)

// IssueHandler handles issue endpoints using UseCases
type IssueHandler struct {
	repo issue.Repository
	auth *AuthMiddleware

	// UseCases
	createUseCase       *operations.CreateIssueUseCase
	updateStatusUseCase *operations.UpdateStatusUseCase
}

// NewIssueHandler creates a new issue handler with UseCases
func NewIssueHandler(
	repo issue.Repository,
	projectRepo project.Repository,
	uow common.UnitOfWork,
	auth *AuthMiddleware,
) *IssueHandler {
	return &IssueHandler{
		repo:                repo,
		auth:                auth,
		createUseCase:       operations.NewCreateIssueUseCase(repo, projectRepo, uow),
		updateStatusUseCase: operations.NewUpdateStatusUseCase(repo, projectRepo, uow),
	}
}

// Routes returns the router for issue endpoints
func (h *IssueHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.auth.RequirePermission(permission.IssuesRead)).Get("/", h.List)
	r.With(h.auth.RequirePermission(permission.IssuesRead)).Get("/{id}", h.Get)
	r.With(h.auth.RequirePermission(permission.IssuesRead)).Get("/key/{key}", h.GetByKey)
	r.With(h.auth.RequirePermission(permission.IssuesCreate)).Post("/", h.Create)
	r.With(h.auth.RequirePermission(permission.IssuesUpdate)).Put("/{id}/status", h.UpdateStatus)

	return r
}

// List handles GET /api/issues?projectId=...
// @Summary List issues for a project
// @Tags Issues
// @Produce json
// @Param projectId query string true "Project ID"
// @Success 200 {array} issue.Issue
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/issues [get]
func (h *IssueHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("projectId")
	if projectID == "" {
		WriteBadRequest(w, "projectId query parameter is required")
		return
	}

	issues, err := h.repo.FindByProject(r.Context(), projectID)
	if err != nil {
		slog.Error("Failed to list issues", "error", err, "projectId", projectID)
		WriteInternalError(w, "Failed to list issues")
		return
	}
	WriteJSON(w, http.StatusOK, issues)
}

// Get handles GET /api/issues/{id}
// @Summary Get issue by ID
// @Tags Issues
// @Produce json
// @Param id path string true "Issue ID"
// @Success 200 {object} issue.Issue
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/issues/{id} [get]
func (h *IssueHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	i, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("Failed to get issue", "error", err, "id", id)
		WriteInternalError(w, "Failed to get issue")
		return
	}
	if i == nil {
		WriteNotFound(w, "Issue not found")
		return
	}
	WriteJSON(w, http.StatusOK, i)
}

// GetByKey handles GET /api/issues/key/{key}
// @Summary Get issue by key
// @Description Looks up an issue by its human-readable key, e.g. PROJ-42
// @Tags Issues
// @Produce json
// @Param key path string true "Issue key"
// @Success 200 {object} issue.Issue
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/issues/key/{key} [get]
func (h *IssueHandler) GetByKey(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	i, err := h.repo.FindByKey(r.Context(), key)
	if err != nil {
		slog.Error("Failed to get issue by key", "error", err, "key", key)
		WriteInternalError(w, "Failed to get issue")
		return
	}
	if i == nil {
		WriteNotFound(w, "Issue not found")
		return
	}
	WriteJSON(w, http.StatusOK, i)
}

// Create handles POST /api/issues (using UseCase)
// @Summary Create a new issue
// @Description Allocates the next issue key in the project sequence
// @Tags Issues
// @Accept json
// @Produce json
// @Param request body operations.CreateIssueCommand true "Issue details"
// @Success 201 {object} issue.Issue
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Project not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/issues [post]
func (h *IssueHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd operations.CreateIssueCommand
	if err := DecodeJSON(r, &cmd); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	execCtx := common.ExecutionContextFromRequest(r, getPrincipalID(r))
	result := h.createUseCase.Execute(r.Context(), cmd, execCtx)

	WriteUseCaseResult(w, result, http.StatusCreated)
}

// UpdateStatus handles PUT /api/issues/{id}/status (using UseCase)
// @Summary Transition an issue to another status
// @Description The target status must belong to the project's status vocabulary
// @Tags Issues
// @Accept json
// @Produce json
// @Param id path string true "Issue ID"
// @Param request body operations.UpdateStatusCommand true "Target status"
// @Success 200 {object} issue.Issue
// @Failure 400 {object} ErrorResponse "Status not in project vocabulary"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Issue already in target status"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/issues/{id}/status [put]
func (h *IssueHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var cmd operations.UpdateStatusCommand
	if err := DecodeJSON(r, &cmd); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}
	cmd.IssueID = id

	execCtx := common.ExecutionContextFromRequest(r, getPrincipalID(r))
	result := h.updateStatusUseCase.Execute(r.Context(), cmd, execCtx)

	WriteUseCaseResult(w, result, http.StatusOK)
}
