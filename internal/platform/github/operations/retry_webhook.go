package operations

import (
	"context"

	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/events"
	"go.trackdeck.dev/internal/platform/github"
)

// RetryWebhookCommand contains the data needed to retry a failed webhook
type RetryWebhookCommand struct {
	WebhookID string `json:"webhookId"`
}

// RetryWebhookUseCase handles operator-triggered webhook retries
type RetryWebhookUseCase struct {
	webhookRepo github.WebhookRepository
	unitOfWork  common.UnitOfWork
}

// NewRetryWebhookUseCase creates a new RetryWebhookUseCase
func NewRetryWebhookUseCase(webhookRepo github.WebhookRepository, uow common.UnitOfWork) *RetryWebhookUseCase {
	return &RetryWebhookUseCase{
		webhookRepo: webhookRepo,
		unitOfWork:  uow,
	}
}

// Execute resets a failed webhook to received so the state machine re-runs
// it. Only failed records are retryable; processed and ignored are terminal.
func (uc *RetryWebhookUseCase) Execute(
	ctx context.Context,
	cmd RetryWebhookCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	if cmd.WebhookID == "" {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeRequired, "Webhook ID is required", nil),
		)
	}

	w, err := uc.webhookRepo.FindByID(ctx, cmd.WebhookID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.InternalError("DB_ERROR", "Failed to load webhook", map[string]any{"error": err.Error()}),
		)
	}
	if w == nil {
		return common.Failure[common.DomainEvent](
			common.NotFoundError(common.ErrCodeWebhookNotFound, "Webhook not found", map[string]any{"webhookId": cmd.WebhookID}),
		)
	}

	if w.Status != github.WebhookStatusFailed {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeInvalidState,
				"Only failed webhooks can be retried",
				map[string]any{"status": w.Status}),
		)
	}

	w.Status = github.WebhookStatusReceived
	w.ErrorMessage = ""
	w.Actions = nil

	event := events.NewWebhookRetried(execCtx, w)

	return uc.unitOfWork.Commit(ctx, w, event, cmd)
}
