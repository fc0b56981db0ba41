package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"go.trackdeck.dev/internal/common/metrics"
	"go.trackdeck.dev/internal/common/secrets"
	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/events"
	"go.trackdeck.dev/internal/platform/github"
	"go.trackdeck.dev/internal/platform/github/operations"
	"go.trackdeck.dev/internal/platform/permission"
	"go.trackdeck.dev/internal/platform/systemconfig"
	"go.trackdeck.dev/internal/queue"
)

// maxWebhookPayloadBytes caps the ingest body read. GitHub caps webhook
// payloads at 25 MB; anything larger is not a legitimate delivery.
const maxWebhookPayloadBytes = 25 << 20

// Default per-integration ingest rate: sustained rps with a burst allowance
// for GitHub's delivery batching after an outage.
const (
	defaultIngestRate  = rate.Limit(10)
	defaultIngestBurst = 30
)

// WebhookHandler handles webhook ingestion and the webhook admin endpoints.
type WebhookHandler struct {
	webhookRepo     github.WebhookRepository
	integrationRepo github.IntegrationRepository
	configRepo      systemconfig.Repository
	unitOfWork      common.UnitOfWork
	publisher       queue.Publisher
	secrets         secrets.Provider
	auth            *AuthMiddleware

	retryUseCase *operations.RetryWebhookUseCase

	// Per-integration ingest limiters, created on first delivery.
	limiterMu sync.Mutex
	limiters  map[string]*rate.Limiter
	rateLimit rate.Limit
	burst     int
}

// NewWebhookHandler creates a new webhook handler. The secrets provider is
// optional; without it secret references on integrations cannot be resolved
// and only inline secrets verify.
func NewWebhookHandler(
	webhookRepo github.WebhookRepository,
	integrationRepo github.IntegrationRepository,
	configRepo systemconfig.Repository,
	uow common.UnitOfWork,
	publisher queue.Publisher,
	secretsProvider secrets.Provider,
	auth *AuthMiddleware,
) *WebhookHandler {
	return &WebhookHandler{
		webhookRepo:     webhookRepo,
		integrationRepo: integrationRepo,
		configRepo:      configRepo,
		unitOfWork:      uow,
		publisher:       publisher,
		secrets:         secretsProvider,
		auth:            auth,
		retryUseCase:    operations.NewRetryWebhookUseCase(webhookRepo, uow),
		limiters:        make(map[string]*rate.Limiter),
		rateLimit:       defaultIngestRate,
		burst:           defaultIngestBurst,
	}
}

// SetIngestRate overrides the default per-integration rate limit. Call
// before serving; existing limiters are not rebuilt.
func (h *WebhookHandler) SetIngestRate(perSecond float64, burst int) {
	if perSecond > 0 {
		h.rateLimit = rate.Limit(perSecond)
	}
	if burst > 0 {
		h.burst = burst
	}
}

// Routes returns the router for the authenticated webhook admin endpoints.
// The ingest endpoint is public and mounted separately.
func (h *WebhookHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.auth.RequirePermission(permission.WebhooksRead)).Get("/", h.List)
	r.With(h.auth.RequirePermission(permission.WebhooksRead)).Get("/stats", h.Stats)
	r.With(h.auth.RequirePermission(permission.WebhooksRead)).Get("/{id}", h.Get)
	r.With(h.auth.RequirePermission(permission.WebhooksRetry)).Post("/{id}/retry", h.Retry)

	return r
}

// IngestResponse is the body returned to the webhook provider.
type IngestResponse struct {
	ID        string `json:"id,omitempty"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

// ingestAudit is what lands in the audit log for a received delivery.
// The raw payload is on the webhook record, not the audit trail.
type ingestAudit struct {
	DeliveryID string `json:"deliveryId"`
	EventType  string `json:"eventType"`
	Action     string `json:"action,omitempty"`
	Repository string `json:"repository"`
}

// Ingest handles POST /webhooks/github/{integrationId}.
//
// Order matters: the rate limiter runs before the body is read, the
// signature check runs before anything is persisted, and the delivery-id
// dedup returns the original record so provider retries are harmless.
// @Summary Receive a GitHub webhook delivery
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param integrationId path string true "Integration ID"
// @Success 200 {object} IngestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Signature verification failed"
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /webhooks/github/{integrationId} [post]
func (h *WebhookHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	integrationID := chi.URLParam(r, "integrationId")

	if !h.limiter(integrationID).Allow() {
		metrics.WebhooksReceived.WithLabelValues(r.Header.Get(github.EventHeader), "rate_limited").Inc()
		WriteError(w, http.StatusTooManyRequests, "rate_limited", "Too many deliveries")
		return
	}

	integration, err := h.integrationRepo.FindByID(r.Context(), integrationID)
	if err != nil {
		slog.Error("Failed to load integration for ingest", "error", err, "integrationId", integrationID)
		WriteInternalError(w, "Failed to load integration")
		return
	}
	if integration == nil {
		WriteNotFound(w, "Integration not found")
		return
	}

	// Inactive integration or globally disabled ingestion: acknowledge so
	// the provider stops retrying, persist nothing.
	if !integration.IsActive || !h.webhooksEnabled(r) {
		metrics.WebhooksReceived.WithLabelValues(r.Header.Get(github.EventHeader), "ignored").Inc()
		WriteJSON(w, http.StatusOK, IngestResponse{Status: "ignored"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookPayloadBytes))
	if err != nil {
		WriteBadRequest(w, "Failed to read request body")
		return
	}

	secret := h.resolveSecret(r, integration)
	if secret == "" || !github.VerifySignature(secret, body, r.Header.Get(github.SignatureHeader)) {
		slog.Warn("Webhook signature verification failed",
			"integrationId", integrationID,
			"deliveryId", r.Header.Get(github.DeliveryHeader))
		metrics.WebhooksReceived.WithLabelValues(r.Header.Get(github.EventHeader), "rejected").Inc()
		WriteUnauthorized(w, "Signature verification failed")
		return
	}

	deliveryID := r.Header.Get(github.DeliveryHeader)
	if deliveryID == "" {
		WriteBadRequest(w, "Missing "+github.DeliveryHeader+" header")
		return
	}
	eventType := r.Header.Get(github.EventHeader)
	if eventType == "" {
		WriteBadRequest(w, "Missing "+github.EventHeader+" header")
		return
	}

	if existing, err := h.webhookRepo.FindByDeliveryID(r.Context(), deliveryID); err == nil && existing != nil {
		metrics.WebhooksReceived.WithLabelValues(eventType, "duplicate").Inc()
		WriteJSON(w, http.StatusOK, IngestResponse{ID: existing.ID, Status: existing.Status, Duplicate: true})
		return
	}

	webhook, err := github.ParsePayload(eventType, body)
	if err != nil {
		WriteBadRequest(w, "Invalid webhook payload")
		return
	}
	webhook.ID = uuid.NewString()
	webhook.IntegrationID = integration.ID
	webhook.ProjectID = integration.ProjectID
	webhook.DeliveryID = deliveryID
	webhook.Status = github.WebhookStatusReceived
	webhook.ReceivedAt = time.Now()

	// The integration is the acting principal for deliveries.
	execCtx := common.ExecutionContextFromRequest(r, integration.ID)
	result := h.unitOfWork.Commit(r.Context(), webhook,
		events.NewWebhookReceived(execCtx, webhook),
		ingestAudit{
			DeliveryID: deliveryID,
			EventType:  eventType,
			Action:     webhook.Action,
			Repository: webhook.Repository.FullName,
		})
	if result.IsFailure() {
		// A concurrent delivery of the same id can lose the insert race to
		// the unique index; that is a dedup, not an error.
		if existing, ferr := h.webhookRepo.FindByDeliveryID(r.Context(), deliveryID); ferr == nil && existing != nil {
			WriteJSON(w, http.StatusOK, IngestResponse{ID: existing.ID, Status: existing.Status, Duplicate: true})
			return
		}
		WriteUseCaseError(w, result.Error())
		return
	}

	h.enqueue(r, webhook, execCtx)

	metrics.WebhooksReceived.WithLabelValues(eventType, "accepted").Inc()
	WriteJSON(w, http.StatusOK, IngestResponse{ID: webhook.ID, Status: webhook.Status})
}

// enqueue hands the persisted record to the async processor. A publish
// failure is logged, not surfaced: the record is durable and an operator
// retry can pick it up.
func (h *WebhookHandler) enqueue(r *http.Request, webhook *github.Webhook, execCtx *common.ExecutionContext) {
	if h.publisher == nil {
		return
	}

	msg := github.QueueMessage{
		WebhookID:     webhook.ID,
		DeliveryID:    webhook.DeliveryID,
		EventType:     webhook.EventType,
		CorrelationID: execCtx.CorrelationID,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("Failed to encode webhook queue message", "error", err, "webhookId", webhook.ID)
		return
	}

	if err := h.publisher.PublishWithDeduplication(r.Context(), github.QueueSubject, data, webhook.DeliveryID); err != nil {
		slog.Error("Failed to enqueue webhook for processing",
			"error", err, "webhookId", webhook.ID, "deliveryId", webhook.DeliveryID)
	}
}

// webhooksEnabled reads the system config toggle. Config read failures do
// not block ingestion.
func (h *WebhookHandler) webhooksEnabled(r *http.Request) bool {
	if h.configRepo == nil {
		return true
	}
	cfg, err := h.configRepo.GetOrCreate(r.Context())
	if err != nil {
		slog.Warn("Failed to read system config for ingest, proceeding", "error", err)
		return true
	}
	return cfg.WebhooksEnabled
}

// resolveSecret returns the verification secret for an integration,
// preferring a secrets-provider reference over the inline value.
func (h *WebhookHandler) resolveSecret(r *http.Request, integration *github.Integration) string {
	if integration.WebhookSecretRef != "" && h.secrets != nil {
		secret, err := h.secrets.Get(r.Context(), integration.WebhookSecretRef)
		if err == nil && secret != "" {
			return secret
		}
		slog.Warn("Failed to resolve webhook secret reference, falling back to inline secret",
			"error", err, "integrationId", integration.ID, "ref", integration.WebhookSecretRef)
	}
	return integration.WebhookSecret
}

// limiter returns the per-integration rate limiter, creating it lazily.
func (h *WebhookHandler) limiter(integrationID string) *rate.Limiter {
	h.limiterMu.Lock()
	defer h.limiterMu.Unlock()

	l, ok := h.limiters[integrationID]
	if !ok {
		l = rate.NewLimiter(h.rateLimit, h.burst)
		h.limiters[integrationID] = l
	}
	return l
}

// List handles GET /api/webhooks?integrationId=...&limit=...
// @Summary List webhook records for an integration
// @Tags Webhooks
// @Produce json
// @Param integrationId query string true "Integration ID"
// @Param limit query int false "Maximum records to return (default 50)"
// @Success 200 {array} github.Webhook
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/webhooks [get]
func (h *WebhookHandler) List(w http.ResponseWriter, r *http.Request) {
	integrationID := r.URL.Query().Get("integrationId")
	if integrationID == "" {
		WriteBadRequest(w, "integrationId query parameter is required")
		return
	}

	limit := parseLimit(r.URL.Query().Get("limit"), 50)

	webhooks, err := h.webhookRepo.FindByIntegration(r.Context(), integrationID, limit)
	if err != nil {
		slog.Error("Failed to list webhooks", "error", err, "integrationId", integrationID)
		WriteInternalError(w, "Failed to list webhooks")
		return
	}
	WriteJSON(w, http.StatusOK, webhooks)
}

// Get handles GET /api/webhooks/{id}
// @Summary Get a webhook record
// @Tags Webhooks
// @Produce json
// @Param id path string true "Webhook ID"
// @Success 200 {object} github.Webhook
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/webhooks/{id} [get]
func (h *WebhookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	webhook, err := h.webhookRepo.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("Failed to get webhook", "error", err, "id", id)
		WriteInternalError(w, "Failed to get webhook")
		return
	}
	if webhook == nil {
		WriteNotFound(w, "Webhook not found")
		return
	}
	WriteJSON(w, http.StatusOK, webhook)
}

// Stats handles GET /api/webhooks/stats?integrationId=...
// @Summary Webhook record counts per status for an integration
// @Tags Webhooks
// @Produce json
// @Param integrationId query string true "Integration ID"
// @Success 200 {object} github.WebhookStats
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/webhooks/stats [get]
func (h *WebhookHandler) Stats(w http.ResponseWriter, r *http.Request) {
	integrationID := r.URL.Query().Get("integrationId")
	if integrationID == "" {
		WriteBadRequest(w, "integrationId query parameter is required")
		return
	}

	stats, err := h.webhookRepo.Stats(r.Context(), integrationID)
	if err != nil {
		slog.Error("Failed to get webhook stats", "error", err, "integrationId", integrationID)
		WriteInternalError(w, "Failed to get webhook stats")
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

// Retry handles POST /api/webhooks/{id}/retry (using UseCase)
// @Summary Retry a failed webhook
// @Description Resets a failed record to received and re-enqueues it
// @Tags Webhooks
// @Produce json
// @Param id path string true "Webhook ID"
// @Success 200 {object} github.Webhook
// @Failure 400 {object} ErrorResponse "Webhook is not in failed status"
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/webhooks/{id}/retry [post]
func (h *WebhookHandler) Retry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	cmd := operations.RetryWebhookCommand{WebhookID: id}

	execCtx := common.ExecutionContextFromRequest(r, getPrincipalID(r))
	result := h.retryUseCase.Execute(r.Context(), cmd, execCtx)

	if result.IsFailure() {
		WriteUseCaseError(w, result.Error())
		return
	}

	// Re-enqueue so the dispatcher picks the reset record up. The retry is
	// a fresh attempt, so the dedup id gets a retry suffix.
	if webhook, err := h.webhookRepo.FindByID(r.Context(), id); err == nil && webhook != nil {
		h.enqueueRetry(r, webhook, execCtx)
	}
	metrics.WebhookRetries.Inc()

	WriteUseCaseResult(w, result, http.StatusOK)
}

func (h *WebhookHandler) enqueueRetry(r *http.Request, webhook *github.Webhook, execCtx *common.ExecutionContext) {
	if h.publisher == nil {
		return
	}

	msg := github.QueueMessage{
		WebhookID:     webhook.ID,
		DeliveryID:    webhook.DeliveryID,
		EventType:     webhook.EventType,
		CorrelationID: execCtx.CorrelationID,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("Failed to encode webhook queue message", "error", err, "webhookId", webhook.ID)
		return
	}

	dedupID := webhook.DeliveryID + ":retry:" + execCtx.ExecutionID
	if err := h.publisher.PublishWithDeduplication(r.Context(), github.QueueSubject, data, dedupID); err != nil {
		slog.Error("Failed to enqueue webhook retry", "error", err, "webhookId", webhook.ID)
	}
}

// parseLimit parses a limit query value with a fallback default.
func parseLimit(raw string, def int64) int64 {
	if raw == "" {
		return def
	}
	limit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || limit <= 0 || limit > 500 {
		return def
	}
	return limit
}
