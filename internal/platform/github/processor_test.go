package github

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/issue"
)

type stubWebhookRepo struct {
	WebhookRepository
	webhooks map[string]*Webhook
	updated  []*Webhook
}

func (s *stubWebhookRepo) FindByID(ctx context.Context, id string) (*Webhook, error) {
	return s.webhooks[id], nil
}

func (s *stubWebhookRepo) Update(ctx context.Context, w *Webhook) error {
	s.updated = append(s.updated, w)
	return nil
}

func (s *stubWebhookRepo) UpdateStatusIf(ctx context.Context, id, from, to string) (bool, error) {
	w, ok := s.webhooks[id]
	if !ok || w.Status != from {
		return false, nil
	}
	w.Status = to
	return true, nil
}

type stubIntegrationRepo struct {
	IntegrationRepository
	integration *Integration
	synced      bool
	lastError   *IntegrationError
}

func (s *stubIntegrationRepo) FindByID(ctx context.Context, id string) (*Integration, error) {
	if s.integration != nil && s.integration.ID == id {
		return s.integration, nil
	}
	return nil, nil
}

func (s *stubIntegrationRepo) MarkSynced(ctx context.Context, id string, at time.Time) error {
	s.synced = true
	return nil
}

func (s *stubIntegrationRepo) MarkError(ctx context.Context, id string, snapshot IntegrationError) error {
	s.lastError = &snapshot
	return nil
}

type stubIssueRepo struct {
	issue.Repository
	issues  []*issue.Issue
	failAll bool
}

func (s *stubIssueRepo) find(match func(*issue.Issue) bool) *issue.Issue {
	for _, i := range s.issues {
		if match(i) {
			return i
		}
	}
	return nil
}

func (s *stubIssueRepo) FindByKey(ctx context.Context, key string) (*issue.Issue, error) {
	if s.failAll {
		return nil, errors.New("repo down")
	}
	return s.find(func(i *issue.Issue) bool { return i.Key == key }), nil
}

func (s *stubIssueRepo) FindByGitHubIssueNumber(ctx context.Context, projectID string, number int) (*issue.Issue, error) {
	if s.failAll {
		return nil, errors.New("repo down")
	}
	return s.find(func(i *issue.Issue) bool {
		return i.ProjectID == projectID && i.GitHubIssueNumber == number
	}), nil
}

func (s *stubIssueRepo) FindByGitHubPRNumber(ctx context.Context, projectID string, number int) (*issue.Issue, error) {
	if s.failAll {
		return nil, errors.New("repo down")
	}
	return s.find(func(i *issue.Issue) bool {
		return i.ProjectID == projectID && i.GitHubPRNumber == number
	}), nil
}

func (s *stubIssueRepo) FindByProject(ctx context.Context, projectID string) ([]*issue.Issue, error) {
	if s.failAll {
		return nil, errors.New("repo down")
	}
	var out []*issue.Issue
	for _, i := range s.issues {
		if i.ProjectID == projectID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (s *stubIssueRepo) UpdateStatusIf(ctx context.Context, id, from, to string) (bool, error) {
	if s.failAll {
		return false, errors.New("repo down")
	}
	i := s.find(func(i *issue.Issue) bool { return i.ID == id })
	if i == nil || i.Status != from {
		return false, nil
	}
	i.Status = to
	return true, nil
}

func testEventFactory(execCtx *common.ExecutionContext, w *Webhook) common.DomainEvent {
	return common.NewBaseDomainEvent(execCtx, "tracker:webhook:"+w.Status, "tracker.webhook."+w.ID)
}

func testIntegration() *Integration {
	return &Integration{
		ID:        "integ-1",
		ProjectID: "proj-1",
		IsActive:  true,
		WorkflowMappings: []WorkflowMapping{{
			IssueType: "default",
			StatusMappings: []StatusMapping{
				{GitHubEvent: MappingEventPullRequest, GitHubStatus: "opened", ProjectStatus: "development"},
				{GitHubEvent: MappingEventPullRequest, GitHubStatus: MappingStatusAny, ProjectStatus: "review"},
				{GitHubEvent: MappingEventCommit, GitHubStatus: "pushed", ProjectStatus: "released"},
				{GitHubEvent: MappingEventIssue, GitHubStatus: "closed", ProjectStatus: "done"},
				{GitHubEvent: MappingEventReview, GitHubStatus: "submitted", ProjectStatus: "approved"},
			},
		}},
	}
}

func newTestProcessor(w *Webhook, issues ...*issue.Issue) (*Processor, *stubWebhookRepo, *stubIntegrationRepo, *stubIssueRepo) {
	webhooks := &stubWebhookRepo{webhooks: map[string]*Webhook{w.ID: w}}
	integrations := &stubIntegrationRepo{integration: testIntegration()}
	issueRepo := &stubIssueRepo{issues: issues}
	p := NewProcessor(webhooks, integrations, issueRepo, common.NewNoopUnitOfWork(), NoopLocker{}, testEventFactory)
	return p, webhooks, integrations, issueRepo
}

func receivedWebhook(eventType, action string) *Webhook {
	return &Webhook{
		ID:            "wh-1",
		IntegrationID: "integ-1",
		ProjectID:     "proj-1",
		DeliveryID:    "delivery-1",
		EventType:     eventType,
		Action:        action,
		Status:        WebhookStatusReceived,
		ReceivedAt:    time.Now(),
	}
}

func TestProcessPullRequestTransitionsIssueFromTitle(t *testing.T) {
	w := receivedWebhook("pull_request", "opened")
	w.PullRequest = &PullRequestInfo{Number: 7, Title: "Fix ABC-42 login bug", HeadBranch: "main"}
	target := &issue.Issue{ID: "iss-1", ProjectID: "proj-1", Key: "ABC-42", Status: "backlog"}

	p, _, integrations, _ := newTestProcessor(w, target)
	execCtx := common.NewExecutionContext("system")

	if err := p.Process(context.Background(), "wh-1", execCtx); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if w.Status != WebhookStatusProcessed {
		t.Errorf("status = %q, want processed", w.Status)
	}
	if target.Status != "development" {
		t.Errorf("issue status = %q, want development", target.Status)
	}
	if len(w.Actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(w.Actions))
	}
	a := w.Actions[0]
	if a.Type != ActionTypeIssueTransition || a.FromStatus != "backlog" || a.ToStatus != "development" {
		t.Errorf("unexpected action: %+v", a)
	}
	if !integrations.synced {
		t.Error("integration not marked synced")
	}
}

func TestProcessPullRequestHeadBranchFallback(t *testing.T) {
	w := receivedWebhook("pull_request", "closed")
	w.PullRequest = &PullRequestInfo{Number: 7, Title: "no key here", HeadBranch: "feature/ABC-9-cleanup"}
	target := &issue.Issue{ID: "iss-9", ProjectID: "proj-1", Key: "ABC-9", Status: "development"}

	p, _, _, _ := newTestProcessor(w, target)
	if err := p.Process(context.Background(), "wh-1", common.NewExecutionContext("system")); err != nil {
		t.Fatalf("Process: %v", err)
	}

	// "closed" hits the wildcard mapping.
	if target.Status != "review" {
		t.Errorf("issue status = %q, want review", target.Status)
	}
}

func TestProcessNoMatchingIssueIsIgnored(t *testing.T) {
	w := receivedWebhook("pull_request", "opened")
	w.PullRequest = &PullRequestInfo{Number: 7, Title: "unrelated change"}

	p, _, _, _ := newTestProcessor(w)
	if err := p.Process(context.Background(), "wh-1", common.NewExecutionContext("system")); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if w.Status != WebhookStatusIgnored {
		t.Errorf("status = %q, want ignored", w.Status)
	}
	if len(w.Actions) != 0 {
		t.Errorf("actions = %d, want 0", len(w.Actions))
	}
	if w.ProcessedAt.IsZero() {
		t.Error("processedAt not recorded")
	}
}

func TestProcessAlreadyInTargetStatusIsIgnored(t *testing.T) {
	w := receivedWebhook("pull_request", "opened")
	w.PullRequest = &PullRequestInfo{Number: 7, Title: "Fix ABC-42"}
	target := &issue.Issue{ID: "iss-1", ProjectID: "proj-1", Key: "ABC-42", Status: "development"}

	p, _, _, _ := newTestProcessor(w, target)
	if err := p.Process(context.Background(), "wh-1", common.NewExecutionContext("system")); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if w.Status != WebhookStatusIgnored {
		t.Errorf("status = %q, want ignored", w.Status)
	}
}

func TestProcessPushClosingReference(t *testing.T) {
	w := receivedWebhook("push", "")
	w.Commits = []CommitInfo{
		{SHA: "abc1234def", Message: "fixes #42"},
		{SHA: "fff0000aaa", Message: "closes #42 again"},
	}
	target := &issue.Issue{ID: "iss-1", ProjectID: "proj-1", Key: "ABC-42", Status: "done"}

	p, _, _, _ := newTestProcessor(w, target)
	if err := p.Process(context.Background(), "wh-1", common.NewExecutionContext("system")); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if target.Status != "released" {
		t.Errorf("issue status = %q, want released", target.Status)
	}
	// Second commit references the same issue; transition applies once.
	if len(w.Actions) != 1 {
		t.Errorf("actions = %d, want 1", len(w.Actions))
	}
}

func TestProcessIssuesEventUsesBackReference(t *testing.T) {
	w := receivedWebhook("issues", "closed")
	w.Issue = &IssueInfo{Number: 17, Title: "upstream issue"}
	target := &issue.Issue{ID: "iss-1", ProjectID: "proj-1", Key: "ABC-3", Status: "in_progress", GitHubIssueNumber: 17}

	p, _, _, _ := newTestProcessor(w, target)
	if err := p.Process(context.Background(), "wh-1", common.NewExecutionContext("system")); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if target.Status != "done" {
		t.Errorf("issue status = %q, want done", target.Status)
	}
}

func TestProcessReviewMatchesOnAction(t *testing.T) {
	w := receivedWebhook("pull_request_review", "submitted")
	w.PullRequest = &PullRequestInfo{Number: 7, Title: "Fix ABC-42"}
	w.Review = &ReviewInfo{State: "approved", Reviewer: "alice"}
	target := &issue.Issue{ID: "iss-1", ProjectID: "proj-1", Key: "ABC-42", Status: "review"}

	p, _, _, _ := newTestProcessor(w, target)
	if err := p.Process(context.Background(), "wh-1", common.NewExecutionContext("system")); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if w.Status != WebhookStatusProcessed {
		t.Errorf("status = %q, want processed", w.Status)
	}
	if target.Status != "approved" {
		t.Errorf("issue status = %q, want approved", target.Status)
	}
	if len(w.Actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(w.Actions))
	}
	a := w.Actions[0]
	if a.FromStatus != "review" || a.ToStatus != "approved" {
		t.Errorf("unexpected action: %+v", a)
	}
	// The review state is descriptive only; the mapping keyed on the action.
	if !strings.Contains(a.Description, "(approved)") {
		t.Errorf("description %q does not carry the review state", a.Description)
	}
}

func TestProcessReviewUnmappedActionIsIgnored(t *testing.T) {
	w := receivedWebhook("pull_request_review", "dismissed")
	w.PullRequest = &PullRequestInfo{Number: 7, Title: "Fix ABC-42"}
	w.Review = &ReviewInfo{State: "approved"}
	target := &issue.Issue{ID: "iss-1", ProjectID: "proj-1", Key: "ABC-42", Status: "review"}

	p, _, _, _ := newTestProcessor(w, target)
	if err := p.Process(context.Background(), "wh-1", common.NewExecutionContext("system")); err != nil {
		t.Fatalf("Process: %v", err)
	}

	// No mapping for "dismissed": the state alone must not trigger one.
	if w.Status != WebhookStatusIgnored {
		t.Errorf("status = %q, want ignored", w.Status)
	}
	if target.Status != "review" {
		t.Errorf("issue status = %q, want review untouched", target.Status)
	}
}

func TestProcessCheckRunIsInformational(t *testing.T) {
	w := receivedWebhook("check_run", "completed")
	w.CheckRun = &CheckRunInfo{Name: "ci", Status: "completed", Conclusion: "success"}
	target := &issue.Issue{ID: "iss-1", ProjectID: "proj-1", Key: "ABC-1", Status: "backlog"}

	p, _, _, _ := newTestProcessor(w, target)
	if err := p.Process(context.Background(), "wh-1", common.NewExecutionContext("system")); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if w.Status != WebhookStatusProcessed {
		t.Errorf("status = %q, want processed", w.Status)
	}
	if len(w.Actions) != 1 || w.Actions[0].Type != ActionTypeInfo {
		t.Fatalf("expected one info action, got %+v", w.Actions)
	}
	if target.Status != "backlog" {
		t.Errorf("check_run must not transition issues, status = %q", target.Status)
	}
}

func TestProcessRepoFailureRecordsErrorSnapshot(t *testing.T) {
	w := receivedWebhook("pull_request", "opened")
	w.PullRequest = &PullRequestInfo{Number: 7, Title: "Fix ABC-42"}

	p, _, integrations, issueRepo := newTestProcessor(w)
	issueRepo.failAll = true

	err := p.Process(context.Background(), "wh-1", common.NewExecutionContext("system"))
	if err == nil {
		t.Fatal("expected error from failed run")
	}

	if w.Status != WebhookStatusFailed {
		t.Errorf("status = %q, want failed", w.Status)
	}
	if w.ErrorMessage == "" {
		t.Error("error message not recorded")
	}
	if integrations.lastError == nil {
		t.Fatal("integration error snapshot not recorded")
	}
	if integrations.lastError.Event != "pull_request" {
		t.Errorf("snapshot event = %q, want pull_request", integrations.lastError.Event)
	}
	if integrations.synced {
		t.Error("failed run must not mark integration synced")
	}
}

func TestProcessSkipsNonReceivedRecord(t *testing.T) {
	w := receivedWebhook("pull_request", "opened")
	w.Status = WebhookStatusProcessed

	p, _, integrations, _ := newTestProcessor(w)
	if err := p.Process(context.Background(), "wh-1", common.NewExecutionContext("system")); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if w.Status != WebhookStatusProcessed {
		t.Errorf("terminal record mutated: %q", w.Status)
	}
	if integrations.synced {
		t.Error("skipped record must not touch the integration")
	}
}

func TestProcessUnknownEventTypeIsIgnored(t *testing.T) {
	w := receivedWebhook("deployment_status", "created")

	p, _, _, _ := newTestProcessor(w)
	if err := p.Process(context.Background(), "wh-1", common.NewExecutionContext("system")); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if w.Status != WebhookStatusIgnored {
		t.Errorf("status = %q, want ignored", w.Status)
	}
}
