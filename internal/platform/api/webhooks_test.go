package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/github"
	"go.trackdeck.dev/internal/platform/systemconfig"
)

type stubIntegrationRepo struct {
	github.IntegrationRepository
	byID map[string]*github.Integration
}

func (s *stubIntegrationRepo) FindByID(ctx context.Context, id string) (*github.Integration, error) {
	return s.byID[id], nil
}

type stubWebhookRepo struct {
	github.WebhookRepository
	byDelivery map[string]*github.Webhook
}

func (s *stubWebhookRepo) FindByDeliveryID(ctx context.Context, deliveryID string) (*github.Webhook, error) {
	return s.byDelivery[deliveryID], nil
}

type stubConfigRepo struct {
	config *systemconfig.SystemConfig
}

func (s *stubConfigRepo) GetOrCreate(ctx context.Context) (*systemconfig.SystemConfig, error) {
	if s.config == nil {
		return systemconfig.Defaults(), nil
	}
	return s.config, nil
}

func (s *stubConfigRepo) Update(ctx context.Context, config *systemconfig.SystemConfig) error {
	s.config = config
	return nil
}

const testSecret = "webhook-secret"

func testIntegration() *github.Integration {
	return &github.Integration{
		ID:            "int-1",
		ProjectID:     "proj-1",
		RepoOwner:     "acme",
		RepoName:      "rocket",
		RepoFullName:  "acme/rocket",
		WebhookSecret: testSecret,
		IsActive:      true,
		SyncStatus:    github.SyncStatusActive,
		CreatedAt:     time.Now(),
	}
}

func newIngestFixture(integrations ...*github.Integration) (*WebhookHandler, *stubWebhookRepo) {
	integrationRepo := &stubIntegrationRepo{byID: make(map[string]*github.Integration)}
	for _, i := range integrations {
		integrationRepo.byID[i.ID] = i
	}
	webhookRepo := &stubWebhookRepo{byDelivery: make(map[string]*github.Webhook)}

	h := NewWebhookHandler(
		webhookRepo,
		integrationRepo,
		&stubConfigRepo{},
		common.NewNoopUnitOfWork(),
		nil, // no publisher; enqueue is skipped
		nil, // no secrets provider
		nil, // auth middleware unused on the ingest path
	)
	return h, webhookRepo
}

func ingestRequest(body []byte, deliveryID, eventType, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/github/int-1", bytes.NewReader(body))
	if deliveryID != "" {
		req.Header.Set(github.DeliveryHeader, deliveryID)
	}
	if eventType != "" {
		req.Header.Set(github.EventHeader, eventType)
	}
	if signature != "" {
		req.Header.Set(github.SignatureHeader, signature)
	}

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("integrationId", "int-1")
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

var prOpenedBody = []byte(`{
	"action": "opened",
	"repository": {"full_name": "acme/rocket", "name": "rocket", "owner": {"login": "acme"}},
	"pull_request": {"number": 7, "title": "PROJ-1 fix pump", "state": "open", "head": {"ref": "feature/PROJ-1"}, "base": {"ref": "main"}}
}`)

func TestIngestAcceptsSignedDelivery(t *testing.T) {
	h, _ := newIngestFixture(testIntegration())

	sig := github.ComputeSignature(testSecret, prOpenedBody)
	rec := httptest.NewRecorder()
	h.Ingest(rec, ingestRequest(prOpenedBody, "delivery-1", "pull_request", sig))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp IngestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID == "" || resp.Status != github.WebhookStatusReceived {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Duplicate {
		t.Error("fresh delivery flagged as duplicate")
	}
}

func TestIngestRejectsBadSignature(t *testing.T) {
	h, _ := newIngestFixture(testIntegration())

	sig := github.ComputeSignature("wrong-secret", prOpenedBody)
	rec := httptest.NewRecorder()
	h.Ingest(rec, ingestRequest(prOpenedBody, "delivery-1", "pull_request", sig))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestIngestRejectsMissingSignature(t *testing.T) {
	h, _ := newIngestFixture(testIntegration())

	rec := httptest.NewRecorder()
	h.Ingest(rec, ingestRequest(prOpenedBody, "delivery-1", "pull_request", ""))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestIngestUnknownIntegration(t *testing.T) {
	h, _ := newIngestFixture() // no integrations

	sig := github.ComputeSignature(testSecret, prOpenedBody)
	rec := httptest.NewRecorder()
	h.Ingest(rec, ingestRequest(prOpenedBody, "delivery-1", "pull_request", sig))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestIngestInactiveIntegrationAcknowledgesSilently(t *testing.T) {
	integration := testIntegration()
	integration.IsActive = false
	h, _ := newIngestFixture(integration)

	rec := httptest.NewRecorder()
	// No signature needed: the delivery is acknowledged before verification.
	h.Ingest(rec, ingestRequest(prOpenedBody, "delivery-1", "pull_request", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp IngestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ignored" || resp.ID != "" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestIngestDuplicateDeliveryReturnsOriginal(t *testing.T) {
	h, webhookRepo := newIngestFixture(testIntegration())
	webhookRepo.byDelivery["delivery-1"] = &github.Webhook{
		ID:         "wh-original",
		DeliveryID: "delivery-1",
		Status:     github.WebhookStatusProcessed,
	}

	sig := github.ComputeSignature(testSecret, prOpenedBody)
	rec := httptest.NewRecorder()
	h.Ingest(rec, ingestRequest(prOpenedBody, "delivery-1", "pull_request", sig))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp IngestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != "wh-original" || !resp.Duplicate {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestIngestMissingDeliveryHeader(t *testing.T) {
	h, _ := newIngestFixture(testIntegration())

	sig := github.ComputeSignature(testSecret, prOpenedBody)
	rec := httptest.NewRecorder()
	h.Ingest(rec, ingestRequest(prOpenedBody, "", "pull_request", sig))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestIngestRateLimitExhausted(t *testing.T) {
	h, _ := newIngestFixture(testIntegration())
	h.rateLimit = rate.Limit(1)
	h.burst = 1

	sig := github.ComputeSignature(testSecret, prOpenedBody)

	rec := httptest.NewRecorder()
	h.Ingest(rec, ingestRequest(prOpenedBody, "delivery-1", "pull_request", sig))
	if rec.Code != http.StatusOK {
		t.Fatalf("first delivery: status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.Ingest(rec, ingestRequest(prOpenedBody, "delivery-2", "pull_request", sig))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second delivery: status = %d, want 429", rec.Code)
	}
}

func TestIngestWebhooksDisabledAcknowledgesSilently(t *testing.T) {
	h, _ := newIngestFixture(testIntegration())
	h.configRepo = &stubConfigRepo{config: &systemconfig.SystemConfig{
		ID:              systemconfig.SingletonID,
		WebhooksEnabled: false,
	}}

	rec := httptest.NewRecorder()
	h.Ingest(rec, ingestRequest(prOpenedBody, "delivery-1", "pull_request", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp IngestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ignored" {
		t.Errorf("unexpected response: %+v", resp)
	}
}
