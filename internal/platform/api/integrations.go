package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/github"
	"go.trackdeck.dev/internal/platform/github/operations"
	"go.trackdeck.dev/internal/platform/permission"
	"go.trackdeck.dev/internal/platform/project"
)

// IntegrationHandler handles GitHub integration endpoints using UseCases
type IntegrationHandler struct {
	repo github.IntegrationRepository
	auth *AuthMiddleware

	// UseCases
	configureUseCase *operations.ConfigureIntegrationUseCase
}

// NewIntegrationHandler creates a new integration handler with UseCases
func NewIntegrationHandler(
	repo github.IntegrationRepository,
	projectRepo project.Repository,
	uow common.UnitOfWork,
	auth *AuthMiddleware,
) *IntegrationHandler {
	return &IntegrationHandler{
		repo:             repo,
		auth:             auth,
		configureUseCase: operations.NewConfigureIntegrationUseCase(repo, projectRepo, uow),
	}
}

// Routes returns the router for integration endpoints
func (h *IntegrationHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.auth.RequirePermission(permission.IntegrationsRead)).Get("/", h.List)
	r.With(h.auth.RequirePermission(permission.IntegrationsRead)).Get("/project/{projectId}", h.GetByProject)
	r.With(h.auth.RequireAnyPermission(
		permission.IntegrationsCreate,
		permission.IntegrationsUpdate,
	)).Put("/project/{projectId}", h.Configure)

	return r
}

// List handles GET /api/integrations
// @Summary List all GitHub integrations
// @Tags Integrations
// @Produce json
// @Success 200 {array} github.Integration
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/integrations [get]
func (h *IntegrationHandler) List(w http.ResponseWriter, r *http.Request) {
	integrations, err := h.repo.FindAll(r.Context())
	if err != nil {
		slog.Error("Failed to list integrations", "error", err)
		WriteInternalError(w, "Failed to list integrations")
		return
	}
	WriteJSON(w, http.StatusOK, integrations)
}

// GetByProject handles GET /api/integrations/project/{projectId}
// @Summary Get the integration configured for a project
// @Tags Integrations
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} github.Integration
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/integrations/project/{projectId} [get]
func (h *IntegrationHandler) GetByProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")

	integration, err := h.repo.FindByProjectID(r.Context(), projectID)
	if err != nil {
		slog.Error("Failed to get integration", "error", err, "projectId", projectID)
		WriteInternalError(w, "Failed to get integration")
		return
	}
	if integration == nil {
		WriteNotFound(w, "No integration configured for project")
		return
	}
	WriteJSON(w, http.StatusOK, integration)
}

// Configure handles PUT /api/integrations/project/{projectId} (using UseCase)
// @Summary Configure the GitHub integration for a project
// @Description Creates or replaces the integration. Credentials are carried
// @Description over from the existing configuration when not supplied.
// @Tags Integrations
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param request body operations.ConfigureIntegrationCommand true "Integration details"
// @Success 200 {object} github.Integration
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Project not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/integrations/project/{projectId} [put]
func (h *IntegrationHandler) Configure(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")

	var cmd operations.ConfigureIntegrationCommand
	if err := DecodeJSON(r, &cmd); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}
	cmd.ProjectID = projectID

	execCtx := common.ExecutionContextFromRequest(r, getPrincipalID(r))
	result := h.configureUseCase.Execute(r.Context(), cmd, execCtx)

	WriteUseCaseResult(w, result, http.StatusOK)
}
