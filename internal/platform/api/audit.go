package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"go.trackdeck.dev/internal/platform/audit"
	"go.trackdeck.dev/internal/platform/permission"
	"go.trackdeck.dev/internal/platform/user"
)

// AuditLogHandler handles audit log read endpoints
type AuditLogHandler struct {
	repo     *audit.Repository
	userRepo user.Repository
	auth     *AuthMiddleware
}

// NewAuditLogHandler creates a new audit log handler
func NewAuditLogHandler(repo *audit.Repository, userRepo user.Repository, auth *AuthMiddleware) *AuditLogHandler {
	return &AuditLogHandler{
		repo:     repo,
		userRepo: userRepo,
		auth:     auth,
	}
}

// Routes returns the router for audit log endpoints
func (h *AuditLogHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.auth.RequirePermission(permission.AuditLogsRead)).Get("/", h.List)
	r.With(h.auth.RequirePermission(permission.AuditLogsRead)).Get("/{id}", h.Get)
	r.With(h.auth.RequirePermission(permission.AuditLogsRead)).Get("/entity/{entityType}/{entityId}", h.GetForEntity)

	return r
}

// List handles GET /api/audit-logs?page=&pageSize=&entityType=
// @Summary List audit logs
// @Description Returns audit logs newest first, optionally filtered by entity type
// @Tags Audit
// @Produce json
// @Param page query int false "Page number (0-based)"
// @Param pageSize query int false "Page size (default 50)"
// @Param entityType query string false "Filter by entity type"
// @Success 200 {object} PagedResponse[audit.AuditLogDTO]
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/audit-logs [get]
func (h *AuditLogHandler) List(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r.URL.Query().Get("page"), 0)
	pageSize := int(parseLimit(r.URL.Query().Get("pageSize"), 50))
	entityType := r.URL.Query().Get("entityType")

	logs, err := h.repo.FindPaged(r.Context(), entityType, page, pageSize)
	if err != nil {
		slog.Error("Failed to list audit logs", "error", err)
		WriteInternalError(w, "Failed to list audit logs")
		return
	}

	total, err := h.repo.Count(r.Context(), entityType)
	if err != nil {
		slog.Error("Failed to count audit logs", "error", err)
		WriteInternalError(w, "Failed to list audit logs")
		return
	}

	names := h.principalNames(r, logs)
	dtos := make([]audit.AuditLogDTO, 0, len(logs))
	for _, l := range logs {
		dtos = append(dtos, l.ToDTO(names[l.PrincipalID]))
	}

	WriteJSON(w, http.StatusOK, NewPagedResponse(dtos, page, pageSize, total))
}

// Get handles GET /api/audit-logs/{id}
// @Summary Get an audit log entry
// @Tags Audit
// @Produce json
// @Param id path string true "Audit log ID"
// @Success 200 {object} audit.AuditLogDetailDTO
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/audit-logs/{id} [get]
func (h *AuditLogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	log, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		if err == audit.ErrNotFound {
			WriteNotFound(w, "Audit log not found")
			return
		}
		slog.Error("Failed to get audit log", "error", err, "id", id)
		WriteInternalError(w, "Failed to get audit log")
		return
	}

	WriteJSON(w, http.StatusOK, log.ToDetailDTO(h.principalName(r, log.PrincipalID)))
}

// GetForEntity handles GET /api/audit-logs/entity/{entityType}/{entityId}
// @Summary Audit trail for one entity
// @Tags Audit
// @Produce json
// @Param entityType path string true "Entity type"
// @Param entityId path string true "Entity ID"
// @Success 200 {array} audit.AuditLogDTO
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/audit-logs/entity/{entityType}/{entityId} [get]
func (h *AuditLogHandler) GetForEntity(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "entityType")
	entityID := chi.URLParam(r, "entityId")

	logs, err := h.repo.FindByEntity(r.Context(), entityType, entityID)
	if err != nil {
		slog.Error("Failed to get audit logs for entity", "error", err,
			"entityType", entityType, "entityId", entityID)
		WriteInternalError(w, "Failed to get audit logs")
		return
	}

	names := h.principalNames(r, logs)
	dtos := make([]audit.AuditLogDTO, 0, len(logs))
	for _, l := range logs {
		dtos = append(dtos, l.ToDTO(names[l.PrincipalID]))
	}
	WriteJSON(w, http.StatusOK, dtos)
}

// principalNames resolves display names for the distinct principals in a
// page of logs. Unresolvable principals (integrations, the system id)
// keep their raw id as the name.
func (h *AuditLogHandler) principalNames(r *http.Request, logs []*audit.AuditLog) map[string]string {
	names := make(map[string]string)
	for _, l := range logs {
		if _, seen := names[l.PrincipalID]; seen {
			continue
		}
		names[l.PrincipalID] = h.principalName(r, l.PrincipalID)
	}
	return names
}

func (h *AuditLogHandler) principalName(r *http.Request, principalID string) string {
	if principalID == "" || principalID == audit.SystemPrincipalID {
		return principalID
	}
	if u, err := h.userRepo.FindByID(r.Context(), principalID); err == nil && u != nil {
		return u.Name
	}
	return principalID
}

// parsePage parses a 0-based page query value.
func parsePage(raw string, def int) int {
	if raw == "" {
		return def
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 0 {
		return def
	}
	return page
}
