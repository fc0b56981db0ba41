package github

import "time"

// QueueSubject is the queue subject webhook IDs are published on after
// ingestion. The dispatcher consumes it and invokes the processor.
const QueueSubject = "trackdeck.webhooks.received"

// QueueMessage is the payload published on QueueSubject. It carries just
// enough to reload the record and continue the delivery's trace.
type QueueMessage struct {
	WebhookID     string `json:"webhookId"`
	DeliveryID    string `json:"deliveryId"`
	EventType     string `json:"eventType"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Webhook processing states.
//
// received → processing → {processed, ignored, failed}
// failed → received (manual retry only)
const (
	WebhookStatusReceived   = "received"
	WebhookStatusProcessing = "processing"
	WebhookStatusProcessed  = "processed"
	WebhookStatusFailed     = "failed"
	WebhookStatusIgnored    = "ignored"
)

// EventVariant is the closed set of webhook event types the processor
// dispatches on. Everything else is Unknown.
type EventVariant int

const (
	EventUnknown EventVariant = iota
	EventPullRequest
	EventIssue
	EventReview
	EventPush
	EventCheckRun
)

// ParseEventVariant maps the X-GitHub-Event header value to a variant.
func ParseEventVariant(eventType string) EventVariant {
	switch eventType {
	case "pull_request":
		return EventPullRequest
	case "issues":
		return EventIssue
	case "pull_request_review":
		return EventReview
	case "push":
		return EventPush
	case "check_run":
		return EventCheckRun
	default:
		return EventUnknown
	}
}

// String returns the variant's wire name.
func (v EventVariant) String() string {
	switch v {
	case EventPullRequest:
		return "pull_request"
	case EventIssue:
		return "issues"
	case EventReview:
		return "pull_request_review"
	case EventPush:
		return "push"
	case EventCheckRun:
		return "check_run"
	default:
		return "unknown"
	}
}

// RepositorySnapshot captures the repository identity from a delivery.
type RepositorySnapshot struct {
	FullName string `bson:"fullName" json:"fullName"`
	Owner    string `bson:"owner" json:"owner"`
	Name     string `bson:"name" json:"name"`
}

// PullRequestInfo is the projection of a pull_request payload.
type PullRequestInfo struct {
	Number     int    `bson:"number" json:"number"`
	Title      string `bson:"title" json:"title"`
	State      string `bson:"state" json:"state"`
	HeadBranch string `bson:"headBranch" json:"headBranch"`
	BaseBranch string `bson:"baseBranch" json:"baseBranch"`
	Merged     bool   `bson:"merged" json:"merged"`
	HTMLURL    string `bson:"htmlUrl,omitempty" json:"htmlUrl,omitempty"`
}

// IssueInfo is the projection of an issues payload.
type IssueInfo struct {
	Number  int    `bson:"number" json:"number"`
	Title   string `bson:"title" json:"title"`
	State   string `bson:"state" json:"state"`
	HTMLURL string `bson:"htmlUrl,omitempty" json:"htmlUrl,omitempty"`
}

// ReviewInfo is the projection of a pull_request_review payload.
type ReviewInfo struct {
	State    string `bson:"state" json:"state"`
	Reviewer string `bson:"reviewer,omitempty" json:"reviewer,omitempty"`
}

// CommitInfo is the projection of one commit in a push payload.
type CommitInfo struct {
	SHA     string `bson:"sha" json:"sha"`
	Message string `bson:"message" json:"message"`
	Author  string `bson:"author,omitempty" json:"author,omitempty"`
}

// CheckRunInfo is the projection of a check_run payload.
type CheckRunInfo struct {
	Name       string `bson:"name" json:"name"`
	Status     string `bson:"status" json:"status"`
	Conclusion string `bson:"conclusion,omitempty" json:"conclusion,omitempty"`
}

// Action types recorded on a webhook after processing.
const (
	ActionTypeIssueTransition = "issue_transition"
	ActionTypeInfo            = "info"
)

// Action is one auditable step the processor took for a delivery.
type Action struct {
	Type        string    `bson:"type" json:"type"`
	Description string    `bson:"description" json:"description"`
	IssueID     string    `bson:"issueId,omitempty" json:"issueId,omitempty"`
	FromStatus  string    `bson:"fromStatus,omitempty" json:"fromStatus,omitempty"`
	ToStatus    string    `bson:"toStatus,omitempty" json:"toStatus,omitempty"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
}

// Webhook is one record per received external event.
type Webhook struct {
	ID            string `bson:"_id" json:"id"`
	IntegrationID string `bson:"integrationId" json:"integrationId"`
	ProjectID     string `bson:"projectId" json:"projectId"`

	// DeliveryID is the external provider's unique delivery identifier,
	// the idempotency key. A unique index rejects duplicates at insert.
	DeliveryID string `bson:"deliveryId" json:"deliveryId"`

	EventType string `bson:"eventType" json:"eventType"`
	Action    string `bson:"action,omitempty" json:"action,omitempty"`

	Repository RepositorySnapshot `bson:"repository" json:"repository"`

	PullRequest *PullRequestInfo `bson:"pullRequest,omitempty" json:"pullRequest,omitempty"`
	Issue       *IssueInfo       `bson:"issue,omitempty" json:"issue,omitempty"`
	Review      *ReviewInfo      `bson:"review,omitempty" json:"review,omitempty"`
	Commits     []CommitInfo     `bson:"commits,omitempty" json:"commits,omitempty"`
	CheckRun    *CheckRunInfo    `bson:"checkRun,omitempty" json:"checkRun,omitempty"`

	Status       string    `bson:"status" json:"status"`
	Actions      []Action  `bson:"actions,omitempty" json:"actions,omitempty"`
	ErrorMessage string    `bson:"errorMessage,omitempty" json:"errorMessage,omitempty"`
	RawPayload   []byte    `bson:"rawPayload" json:"-"`
	ReceivedAt   time.Time `bson:"receivedAt" json:"receivedAt"`
	ProcessedAt  time.Time `bson:"processedAt,omitempty" json:"processedAt,omitempty"`
}

// AggregateID implements common.AggregateRoot.
func (w *Webhook) AggregateID() string { return w.ID }

// CollectionName implements common.AggregateRoot.
func (w *Webhook) CollectionName() string { return "github_webhooks" }
