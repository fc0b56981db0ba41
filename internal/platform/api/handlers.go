// Package api exposes the HTTP surface: authentication middleware,
// permission gates, the webhook ingest endpoint, and the admin CRUD
// handlers built on use cases.
package api

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"

	"go.trackdeck.dev/internal/common/secrets"
	"go.trackdeck.dev/internal/platform/audit"
	"go.trackdeck.dev/internal/platform/auth"
	"go.trackdeck.dev/internal/platform/auth/jwt"
	"go.trackdeck.dev/internal/platform/auth/session"
	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/github"
	"go.trackdeck.dev/internal/platform/issue"
	"go.trackdeck.dev/internal/platform/permission"
	"go.trackdeck.dev/internal/platform/project"
	"go.trackdeck.dev/internal/platform/role"
	"go.trackdeck.dev/internal/platform/systemconfig"
	"go.trackdeck.dev/internal/platform/user"
	"go.trackdeck.dev/internal/queue"
)

// Handlers contains all API handlers
type Handlers struct {
	db *mongo.Database

	// UnitOfWork for atomic operations
	unitOfWork common.UnitOfWork

	// Repositories
	roleRepo         role.Repository
	userRepo         user.Repository
	projectRepo      project.Repository
	issueRepo        issue.Repository
	integrationRepo  github.IntegrationRepository
	webhookRepo      github.WebhookRepository
	systemConfigRepo systemconfig.Repository
	auditRepo        *audit.Repository

	// Services
	auditService *audit.Service
	authService  *auth.AuthService
	resolver     *role.Resolver

	// Middleware
	authMiddleware *AuthMiddleware

	// Individual handlers
	roleHandler         *RoleHandler
	userHandler         *UserHandler
	projectHandler      *ProjectHandler
	issueHandler        *IssueHandler
	integrationHandler  *IntegrationHandler
	webhookHandler      *WebhookHandler
	systemConfigHandler *SystemConfigHandler
	auditLogHandler     *AuditLogHandler
}

// NewHandlers creates all API handlers. The secrets provider may be nil
// when no external secret backend is configured.
func NewHandlers(
	mongoClient *mongo.Client,
	db *mongo.Database,
	tokenService *jwt.TokenService,
	sessionManager *session.Manager,
	publisher queue.Publisher,
	secretsProvider secrets.Provider,
) *Handlers {
	h := &Handlers{
		db: db,
	}

	// Initialize UnitOfWork for atomic operations
	h.unitOfWork = common.NewMongoUnitOfWork(mongoClient, db)

	// Initialize repositories
	h.roleRepo = role.NewRepository(db)
	h.userRepo = user.NewRepository(db)
	h.projectRepo = project.NewRepository(db)
	h.issueRepo = issue.NewRepository(db)
	h.integrationRepo = github.NewIntegrationRepository(db)
	h.webhookRepo = github.NewWebhookRepository(db)
	h.systemConfigRepo = systemconfig.NewRepository(db)
	h.auditRepo = audit.NewRepository(db)

	// Initialize services
	h.auditService = audit.NewService(h.auditRepo)
	h.authService = auth.NewAuthService(h.userRepo, h.roleRepo, tokenService, sessionManager)
	h.resolver = role.NewResolver(h.roleRepo, slog.Default())

	// Middleware resolves the principal's role and permission set once per
	// request; every permission gate below is an in-memory check.
	h.authMiddleware = NewAuthMiddleware(tokenService, sessionManager, h.userRepo, h.resolver)

	// Initialize handlers (with UseCases where applicable)
	h.roleHandler = NewRoleHandler(h.roleRepo, h.unitOfWork, h.authMiddleware)
	h.userHandler = NewUserHandler(h.userRepo, h.roleRepo, h.unitOfWork, h.authMiddleware)
	h.projectHandler = NewProjectHandler(h.projectRepo, h.userRepo, h.unitOfWork, h.authMiddleware)
	h.issueHandler = NewIssueHandler(h.issueRepo, h.projectRepo, h.unitOfWork, h.authMiddleware)
	h.integrationHandler = NewIntegrationHandler(h.integrationRepo, h.projectRepo, h.unitOfWork, h.authMiddleware)
	h.webhookHandler = NewWebhookHandler(
		h.webhookRepo, h.integrationRepo, h.systemConfigRepo,
		h.unitOfWork, publisher, secretsProvider, h.authMiddleware)
	h.systemConfigHandler = NewSystemConfigHandler(h.systemConfigRepo, h.unitOfWork, h.authMiddleware)
	h.auditLogHandler = NewAuditLogHandler(h.auditRepo, h.userRepo, h.authMiddleware)

	return h
}

// Router assembles the full route tree. The ingest endpoint and the auth
// endpoints are public; everything under /api requires a valid session.
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Public: login, logout, session introspection
	r.Post("/auth/login", h.authService.HandleLogin)
	r.Post("/auth/logout", h.authService.HandleLogout)
	r.Get("/auth/me", h.authService.HandleMe)

	// Public: webhook ingest, gated by HMAC signature instead of a session
	r.Post("/webhooks/github/{integrationId}", h.webhookHandler.Ingest)

	r.Route("/api", func(api chi.Router) {
		api.Use(h.authMiddleware.RequireAuth)

		api.Mount("/roles", h.roleHandler.Routes())
		api.Mount("/users", h.userHandler.Routes())
		api.Mount("/projects", h.projectHandler.Routes())
		api.Mount("/issues", h.issueHandler.Routes())
		api.Mount("/integrations", h.integrationHandler.Routes())
		api.Mount("/webhooks", h.webhookHandler.Routes())
		api.Mount("/system-config", h.systemConfigHandler.Routes())
		api.Mount("/audit-logs", h.auditLogHandler.Routes())

		api.With(h.authMiddleware.RequirePermission(permission.RolesRead)).
			Get("/permissions", h.ListPermissions)
	})

	return r
}

// ListPermissions handles GET /api/permissions
// @Summary List the permission token catalog
// @Description Returns every known permission token, sorted
// @Tags Roles
// @Produce json
// @Success 200 {array} string
// @Security BearerAuth
// @Router /api/permissions [get]
func (h *Handlers) ListPermissions(w http.ResponseWriter, r *http.Request) {
	tokens := permission.All()
	sort.Strings(tokens)
	WriteJSON(w, http.StatusOK, tokens)
}

// GetAuditService returns the audit service for use outside the API layer
func (h *Handlers) GetAuditService() *audit.Service {
	return h.auditService
}

// SetIngestRate applies the configured webhook ingest rate limit.
func (h *Handlers) SetIngestRate(perSecond float64, burst int) {
	h.webhookHandler.SetIngestRate(perSecond, burst)
}

// UnitOfWork exposes the shared unit of work for bootstrap wiring.
func (h *Handlers) UnitOfWork() common.UnitOfWork {
	return h.unitOfWork
}

// Repos needed by bootstrap code (index creation, seeding, dispatcher wiring).

func (h *Handlers) RoleRepo() role.Repository { return h.roleRepo }

func (h *Handlers) UserRepo() user.Repository { return h.userRepo }

func (h *Handlers) ProjectRepo() project.Repository { return h.projectRepo }

func (h *Handlers) IssueRepo() issue.Repository { return h.issueRepo }

func (h *Handlers) IntegrationRepo() github.IntegrationRepository { return h.integrationRepo }

func (h *Handlers) WebhookRepo() github.WebhookRepository { return h.webhookRepo }

func (h *Handlers) SystemConfigRepo() systemconfig.Repository { return h.systemConfigRepo }

func (h *Handlers) AuditRepo() *audit.Repository { return h.auditRepo }
