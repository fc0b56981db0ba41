package operations

import (
	"context"
	"testing"

	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/github"
)

type stubWebhookRepo struct {
	github.WebhookRepository
	webhook *github.Webhook
}

func (s *stubWebhookRepo) FindByID(ctx context.Context, id string) (*github.Webhook, error) {
	if s.webhook != nil && s.webhook.ID == id {
		return s.webhook, nil
	}
	return nil, nil
}

func TestRetryWebhookFailedResetsToReceived(t *testing.T) {
	w := &github.Webhook{
		ID:           "wh-1",
		DeliveryID:   "delivery-1",
		Status:       github.WebhookStatusFailed,
		ErrorMessage: "boom",
		Actions:      []github.Action{{Type: github.ActionTypeInfo}},
	}
	uc := NewRetryWebhookUseCase(&stubWebhookRepo{webhook: w}, common.NewNoopUnitOfWork())

	result := uc.Execute(context.Background(), RetryWebhookCommand{WebhookID: "wh-1"}, common.NewExecutionContext("op-1"))

	if !result.IsSuccess() {
		t.Fatalf("expected success, got %v", result.Error())
	}
	if w.Status != github.WebhookStatusReceived {
		t.Errorf("status = %q, want received", w.Status)
	}
	if w.ErrorMessage != "" {
		t.Error("error message not cleared")
	}
	if w.Actions != nil {
		t.Error("stale actions not cleared")
	}
}

func TestRetryWebhookNonFailedRejected(t *testing.T) {
	for _, status := range []string{
		github.WebhookStatusReceived,
		github.WebhookStatusProcessing,
		github.WebhookStatusProcessed,
		github.WebhookStatusIgnored,
	} {
		t.Run(status, func(t *testing.T) {
			w := &github.Webhook{ID: "wh-1", Status: status}
			uc := NewRetryWebhookUseCase(&stubWebhookRepo{webhook: w}, common.NewNoopUnitOfWork())

			result := uc.Execute(context.Background(), RetryWebhookCommand{WebhookID: "wh-1"}, common.NewExecutionContext("op-1"))

			if result.IsSuccess() {
				t.Fatal("expected failure")
			}
			if result.Error().Kind != common.ErrorKindValidation {
				t.Errorf("kind = %v, want validation", result.Error().Kind)
			}
			if w.Status != status {
				t.Errorf("status mutated to %q", w.Status)
			}
		})
	}
}

func TestRetryWebhookNotFound(t *testing.T) {
	uc := NewRetryWebhookUseCase(&stubWebhookRepo{}, common.NewNoopUnitOfWork())

	result := uc.Execute(context.Background(), RetryWebhookCommand{WebhookID: "ghost"}, common.NewExecutionContext("op-1"))

	if result.Error() == nil || result.Error().Code != common.ErrCodeWebhookNotFound {
		t.Errorf("expected WEBHOOK_NOT_FOUND, got %v", result.Error())
	}
}
