package github

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.trackdeck.dev/internal/common/metrics"
	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/issue"
)

// ProcessWebhookCommand is the audit-log payload for a processor run.
type ProcessWebhookCommand struct {
	WebhookID  string `json:"webhookId"`
	DeliveryID string `json:"deliveryId"`
	EventType  string `json:"eventType"`
}

// WebhookEventFactory builds the domain event committed with a finished
// webhook record, chosen by the record's final status. Injected so the
// processor package does not depend on the events package (which imports
// this one).
type WebhookEventFactory func(execCtx *common.ExecutionContext, w *Webhook) common.DomainEvent

// handlerFunc dispatches one webhook variant and returns the actions taken.
type handlerFunc func(ctx context.Context, w *Webhook, integ *Integration) ([]Action, error)

// Processor runs the asynchronous webhook state machine:
//
//	received → processing → {processed, ignored, failed}
//
// One run per persisted record. Failures are terminal for the run and are
// recorded on both the webhook and the integration; they never propagate
// to the original HTTP caller.
type Processor struct {
	webhookRepo     WebhookRepository
	integrationRepo IntegrationRepository
	issueRepo       issue.Repository
	unitOfWork      common.UnitOfWork
	locker          IssueLocker
	newEvent        WebhookEventFactory

	handlers map[EventVariant]handlerFunc
}

// NewProcessor creates a webhook processor. Pass NoopLocker for
// single-instance deployments.
func NewProcessor(
	webhookRepo WebhookRepository,
	integrationRepo IntegrationRepository,
	issueRepo issue.Repository,
	unitOfWork common.UnitOfWork,
	locker IssueLocker,
	newEvent WebhookEventFactory,
) *Processor {
	if locker == nil {
		locker = NoopLocker{}
	}
	p := &Processor{
		webhookRepo:     webhookRepo,
		integrationRepo: integrationRepo,
		issueRepo:       issueRepo,
		unitOfWork:      unitOfWork,
		locker:          locker,
		newEvent:        newEvent,
	}
	p.handlers = map[EventVariant]handlerFunc{
		EventPullRequest: p.handlePullRequest,
		EventIssue:       p.handleIssues,
		EventReview:      p.handleReview,
		EventPush:        p.handlePush,
		EventCheckRun:    p.handleCheckRun,
	}
	return p
}

// Process runs the state machine for one webhook record.
//
// A record not in the received state is skipped silently: either another
// processor instance claimed it first, or it already reached a terminal
// state. The returned error mirrors what the terminal failure handler
// recorded; callers use it only for logging.
func (p *Processor) Process(ctx context.Context, webhookID string, execCtx *common.ExecutionContext) error {
	w, err := p.webhookRepo.FindByID(ctx, webhookID)
	if err != nil {
		return fmt.Errorf("load webhook %s: %w", webhookID, err)
	}
	if w == nil {
		return fmt.Errorf("webhook %s not found", webhookID)
	}

	claimed, err := p.webhookRepo.UpdateStatusIf(ctx, w.ID, WebhookStatusReceived, WebhookStatusProcessing)
	if err != nil {
		return fmt.Errorf("claim webhook %s: %w", w.ID, err)
	}
	if !claimed {
		slog.Debug("Webhook not in received state, skipping",
			"webhookId", w.ID, "status", w.Status)
		return nil
	}
	w.Status = WebhookStatusProcessing

	started := time.Now()
	defer func() {
		metrics.WebhookProcessingDuration.WithLabelValues(w.EventType).Observe(time.Since(started).Seconds())
		metrics.WebhooksProcessed.WithLabelValues(w.EventType, w.Status).Inc()
	}()

	integ, err := p.integrationRepo.FindByID(ctx, w.IntegrationID)
	if err != nil || integ == nil {
		if err == nil {
			err = fmt.Errorf("integration %s not found", w.IntegrationID)
		}
		p.fail(ctx, execCtx, w, nil, err)
		return err
	}

	actions, err := p.dispatch(ctx, w, integ)
	if err != nil {
		p.fail(ctx, execCtx, w, integ, err)
		return err
	}

	now := time.Now()
	w.Actions = actions
	w.ProcessedAt = now
	if len(actions) > 0 {
		w.Status = WebhookStatusProcessed
	} else {
		w.Status = WebhookStatusIgnored
	}

	event := p.newEvent(execCtx, w)
	result := p.unitOfWork.Commit(ctx, w, event, ProcessWebhookCommand{
		WebhookID:  w.ID,
		DeliveryID: w.DeliveryID,
		EventType:  w.EventType,
	})
	if !result.IsSuccess() {
		err := fmt.Errorf("commit webhook result: %s", result.Error().Message)
		p.fail(ctx, execCtx, w, integ, err)
		return err
	}

	if err := p.integrationRepo.MarkSynced(ctx, integ.ID, now); err != nil {
		// The webhook outcome is already durable; sync bookkeeping is
		// advisory.
		slog.Error("Failed to mark integration synced",
			"integrationId", integ.ID, "error", err)
	}

	slog.Info("Webhook processed",
		"webhookId", w.ID,
		"deliveryId", w.DeliveryID,
		"eventType", w.EventType,
		"status", w.Status,
		"actions", len(actions))
	return nil
}

// dispatch routes a webhook to its variant handler. Unknown variants take
// no actions and end up ignored.
func (p *Processor) dispatch(ctx context.Context, w *Webhook, integ *Integration) ([]Action, error) {
	handler, ok := p.handlers[ParseEventVariant(w.EventType)]
	if !ok {
		slog.Debug("No handler for event type", "eventType", w.EventType, "webhookId", w.ID)
		return nil, nil
	}
	return handler(ctx, w, integ)
}

// fail is the terminal failure handler. It records the failure on the
// webhook and the integration and never raises further. The failure event
// is committed best-effort; when the commit itself fails the record is
// still updated directly so the failed state is durable.
func (p *Processor) fail(ctx context.Context, execCtx *common.ExecutionContext, w *Webhook, integ *Integration, cause error) {
	now := time.Now()
	w.Status = WebhookStatusFailed
	w.ErrorMessage = cause.Error()
	w.ProcessedAt = now

	result := p.unitOfWork.Commit(ctx, w, p.newEvent(execCtx, w), ProcessWebhookCommand{
		WebhookID:  w.ID,
		DeliveryID: w.DeliveryID,
		EventType:  w.EventType,
	})
	if !result.IsSuccess() {
		slog.Error("Failed to commit webhook failure event, falling back to direct update",
			"webhookId", w.ID, "error", result.Error().Message)
		if err := p.webhookRepo.Update(ctx, w); err != nil {
			slog.Error("Failed to record webhook failure",
				"webhookId", w.ID, "cause", cause, "error", err)
		}
	}

	if integ != nil {
		snapshot := IntegrationError{
			Message:    cause.Error(),
			Event:      w.EventType,
			OccurredAt: now,
		}
		if err := p.integrationRepo.MarkError(ctx, integ.ID, snapshot); err != nil {
			slog.Error("Failed to record integration error",
				"integrationId", integ.ID, "error", err)
		}
	}

	slog.Error("Webhook processing failed",
		"webhookId", w.ID,
		"deliveryId", w.DeliveryID,
		"eventType", w.EventType,
		"error", cause)
}

// findIssueForPR locates the issue a pull request refers to: issue key in
// the PR title, then in the head branch name, then the stored pull-request
// back-reference.
func (p *Processor) findIssueForPR(ctx context.Context, w *Webhook) (*issue.Issue, error) {
	pr := w.PullRequest
	if pr == nil {
		return nil, nil
	}

	if key := ExtractIssueKey(pr.Title); key != "" {
		i, err := p.issueRepo.FindByKey(ctx, key)
		if err != nil {
			return nil, err
		}
		if i != nil && i.ProjectID == w.ProjectID {
			return i, nil
		}
	}

	if key := ExtractIssueKey(pr.HeadBranch); key != "" {
		i, err := p.issueRepo.FindByKey(ctx, key)
		if err != nil {
			return nil, err
		}
		if i != nil && i.ProjectID == w.ProjectID {
			return i, nil
		}
	}

	return p.issueRepo.FindByGitHubPRNumber(ctx, w.ProjectID, pr.Number)
}

// transition applies a mapped status change through the conditional update
// and returns the recorded action, or nil when the issue is already in the
// target status or another processor won the race.
func (p *Processor) transition(ctx context.Context, i *issue.Issue, target, description string) (*Action, error) {
	if i.Status == target {
		return nil, nil
	}

	release, acquired := p.locker.TryLock(ctx, i.ID)
	if !acquired {
		slog.Debug("Issue locked by another processor, skipping transition",
			"issueId", i.ID, "target", target)
		return nil, nil
	}
	defer release()

	applied, err := p.issueRepo.UpdateStatusIf(ctx, i.ID, i.Status, target)
	if err != nil {
		return nil, fmt.Errorf("transition issue %s: %w", i.Key, err)
	}
	if !applied {
		slog.Debug("Issue status changed concurrently, transition skipped",
			"issueId", i.ID, "expected", i.Status, "target", target)
		return nil, nil
	}

	metrics.IssueTransitions.WithLabelValues(target).Inc()

	action := &Action{
		Type:        ActionTypeIssueTransition,
		Description: description,
		IssueID:     i.ID,
		FromStatus:  i.Status,
		ToStatus:    target,
		Timestamp:   time.Now(),
	}
	i.Status = target
	return action, nil
}

func (p *Processor) handlePullRequest(ctx context.Context, w *Webhook, integ *Integration) ([]Action, error) {
	if w.PullRequest == nil {
		return nil, nil
	}

	i, err := p.findIssueForPR(ctx, w)
	if err != nil {
		return nil, err
	}
	if i == nil {
		return nil, nil
	}

	mapping := integ.FindMapping(MappingEventPullRequest, w.Action)
	if mapping == nil {
		return nil, nil
	}

	desc := fmt.Sprintf("PR #%d %s: %s", w.PullRequest.Number, w.Action, w.PullRequest.Title)
	action, err := p.transition(ctx, i, mapping.ProjectStatus, desc)
	if err != nil {
		return nil, err
	}
	if action == nil {
		return nil, nil
	}
	return []Action{*action}, nil
}

func (p *Processor) handleIssues(ctx context.Context, w *Webhook, integ *Integration) ([]Action, error) {
	if w.Issue == nil {
		return nil, nil
	}

	i, err := p.issueRepo.FindByGitHubIssueNumber(ctx, w.ProjectID, w.Issue.Number)
	if err != nil {
		return nil, err
	}
	if i == nil {
		return nil, nil
	}

	mapping := integ.FindMapping(MappingEventIssue, w.Action)
	if mapping == nil {
		return nil, nil
	}

	desc := fmt.Sprintf("GitHub issue #%d %s: %s", w.Issue.Number, w.Action, w.Issue.Title)
	action, err := p.transition(ctx, i, mapping.ProjectStatus, desc)
	if err != nil {
		return nil, err
	}
	if action == nil {
		return nil, nil
	}
	return []Action{*action}, nil
}

// handleReview matches on the review's action (submitted, dismissed). The
// review state (approved, changes_requested) is recorded in the action
// description only, never used as the mapping key.
func (p *Processor) handleReview(ctx context.Context, w *Webhook, integ *Integration) ([]Action, error) {
	i, err := p.findIssueForPR(ctx, w)
	if err != nil {
		return nil, err
	}
	if i == nil {
		return nil, nil
	}

	mapping := integ.FindMapping(MappingEventReview, w.Action)
	if mapping == nil {
		return nil, nil
	}

	desc := fmt.Sprintf("Review %s", w.Action)
	if w.Review != nil && w.Review.State != "" {
		desc = fmt.Sprintf("Review %s (%s)", w.Action, w.Review.State)
	}
	action, err := p.transition(ctx, i, mapping.ProjectStatus, desc)
	if err != nil {
		return nil, err
	}
	if action == nil {
		return nil, nil
	}
	return []Action{*action}, nil
}

// handlePush scans every commit message for closing-keyword references and
// transitions each matched issue at most once per delivery.
func (p *Processor) handlePush(ctx context.Context, w *Webhook, integ *Integration) ([]Action, error) {
	mapping := integ.FindMapping(MappingEventCommit, "pushed")
	if mapping == nil {
		return nil, nil
	}

	var actions []Action
	handled := make(map[string]struct{})

	for _, commit := range w.Commits {
		for _, number := range ExtractClosingReferences(commit.Message) {
			i, err := p.resolveByNumber(ctx, w.ProjectID, number)
			if err != nil {
				return nil, err
			}
			if i == nil {
				continue
			}
			if _, done := handled[i.ID]; done {
				continue
			}
			handled[i.ID] = struct{}{}

			desc := fmt.Sprintf("Commit %.7s references #%d", commit.SHA, number)
			action, err := p.transition(ctx, i, mapping.ProjectStatus, desc)
			if err != nil {
				return nil, err
			}
			if action != nil {
				actions = append(actions, *action)
			}
		}
	}
	return actions, nil
}

// resolveByNumber resolves a closing reference: the external back-reference
// first, then a key-suffix scan over the project's issues (#42 matches
// ABC-42).
func (p *Processor) resolveByNumber(ctx context.Context, projectID string, number int) (*issue.Issue, error) {
	i, err := p.issueRepo.FindByGitHubIssueNumber(ctx, projectID, number)
	if err != nil {
		return nil, err
	}
	if i != nil {
		return i, nil
	}

	issues, err := p.issueRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, candidate := range issues {
		if KeyMatchesNumber(candidate.Key, number) {
			return candidate, nil
		}
	}
	return nil, nil
}

// handleCheckRun emits one informational action. No transition logic; a
// placeholder until check conclusions drive mappings.
func (p *Processor) handleCheckRun(ctx context.Context, w *Webhook, integ *Integration) ([]Action, error) {
	if w.CheckRun == nil {
		return nil, nil
	}
	return []Action{{
		Type:        ActionTypeInfo,
		Description: fmt.Sprintf("Check run %q %s: %s", w.CheckRun.Name, w.CheckRun.Status, w.CheckRun.Conclusion),
		Timestamp:   time.Now(),
	}}, nil
}
