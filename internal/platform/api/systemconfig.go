package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/events"
	"go.trackdeck.dev/internal/platform/permission"
	"go.trackdeck.dev/internal/platform/systemconfig"
)

// SystemConfigHandler handles the system configuration singleton
type SystemConfigHandler struct {
	repo       systemconfig.Repository
	unitOfWork common.UnitOfWork
	auth       *AuthMiddleware
}

// NewSystemConfigHandler creates a new system config handler
func NewSystemConfigHandler(
	repo systemconfig.Repository,
	uow common.UnitOfWork,
	auth *AuthMiddleware,
) *SystemConfigHandler {
	return &SystemConfigHandler{
		repo:       repo,
		unitOfWork: uow,
		auth:       auth,
	}
}

// Routes returns the router for system config endpoints
func (h *SystemConfigHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.auth.RequirePermission(permission.SystemConfigRead)).Get("/", h.Get)
	r.With(h.auth.RequirePermission(permission.SystemConfigUpdate)).Put("/", h.Update)

	return r
}

// UpdateSystemConfigCommand carries the updatable fields. Pointers
// distinguish "leave unchanged" from an explicit value.
type UpdateSystemConfigCommand struct {
	InstanceName    *string `json:"instanceName,omitempty"`
	DefaultRoleName *string `json:"defaultRoleName,omitempty"`
	WebhooksEnabled *bool   `json:"webhooksEnabled,omitempty"`
}

// Get handles GET /api/system-config
// @Summary Get the system configuration
// @Description Returns the singleton, creating it with defaults on first read
// @Tags System Config
// @Produce json
// @Success 200 {object} systemconfig.SystemConfig
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/system-config [get]
func (h *SystemConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	config, err := h.repo.GetOrCreate(r.Context())
	if err != nil {
		slog.Error("Failed to get system config", "error", err)
		WriteInternalError(w, "Failed to get system config")
		return
	}
	WriteJSON(w, http.StatusOK, config)
}

// Update handles PUT /api/system-config
// @Summary Update the system configuration
// @Tags System Config
// @Accept json
// @Produce json
// @Param request body UpdateSystemConfigCommand true "Fields to update"
// @Success 200 {object} systemconfig.SystemConfig
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/system-config [put]
func (h *SystemConfigHandler) Update(w http.ResponseWriter, r *http.Request) {
	var cmd UpdateSystemConfigCommand
	if err := DecodeJSON(r, &cmd); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	config, err := h.repo.GetOrCreate(r.Context())
	if err != nil {
		slog.Error("Failed to load system config", "error", err)
		WriteInternalError(w, "Failed to load system config")
		return
	}

	if cmd.InstanceName != nil {
		if *cmd.InstanceName == "" {
			WriteBadRequest(w, "instanceName cannot be empty")
			return
		}
		config.InstanceName = *cmd.InstanceName
	}
	if cmd.DefaultRoleName != nil {
		if *cmd.DefaultRoleName == "" {
			WriteBadRequest(w, "defaultRoleName cannot be empty")
			return
		}
		config.DefaultRoleName = *cmd.DefaultRoleName
	}
	if cmd.WebhooksEnabled != nil {
		config.WebhooksEnabled = *cmd.WebhooksEnabled
	}

	config.UpdatedAt = time.Now()

	execCtx := common.ExecutionContextFromRequest(r, getPrincipalID(r))
	result := h.unitOfWork.Commit(r.Context(), config,
		events.NewSystemConfigUpdated(execCtx, config), cmd)
	if result.IsFailure() {
		WriteUseCaseError(w, result.Error())
		return
	}

	WriteJSON(w, http.StatusOK, config)
}
