// Package github holds the GitHub integration aggregate, the webhook record,
// and the processor that maps external events to issue-status transitions.
package github

import "time"

// Sync status values for an integration.
const (
	SyncStatusActive = "active"
	SyncStatusError  = "error"
	SyncStatusPaused = "paused"
)

// External event names used in workflow mappings.
const (
	MappingEventPullRequest = "pull_request"
	MappingEventIssue       = "issue"
	MappingEventCommit      = "commit"
	MappingEventReview      = "review"
	MappingEventCheckRun    = "check_run"
)

// MappingStatusAny is the wildcard githubStatus matching every action.
const MappingStatusAny = "any"

// StatusMapping translates one external (event, status) pair into an
// internal project status.
type StatusMapping struct {
	GitHubEvent   string `bson:"githubEvent" json:"githubEvent"`
	GitHubStatus  string `bson:"githubStatus" json:"githubStatus"`
	ProjectStatus string `bson:"projectStatus" json:"projectStatus"`
}

// BranchPattern maps a branch-name pattern to an issue type.
// Informational only; not consulted for transitions.
type BranchPattern struct {
	Pattern   string `bson:"pattern" json:"pattern"`
	IssueType string `bson:"issueType" json:"issueType"`
}

// WorkflowMapping is a per-issue-type table of status mappings.
type WorkflowMapping struct {
	IssueType      string          `bson:"issueType" json:"issueType"`
	StatusMappings []StatusMapping `bson:"statusMappings" json:"statusMappings"`
	BranchPatterns []BranchPattern `bson:"branchPatterns,omitempty" json:"branchPatterns,omitempty"`
}

// IntegrationError is a timestamped error snapshot kept on the integration
// after a processing failure.
type IntegrationError struct {
	Message    string    `bson:"message" json:"message"`
	Event      string    `bson:"event" json:"event"`
	OccurredAt time.Time `bson:"occurredAt" json:"occurredAt"`
}

// Integration is the one-per-project GitHub configuration.
type Integration struct {
	ID            string `bson:"_id" json:"id"`
	ProjectID     string `bson:"projectId" json:"projectId"`
	RepoOwner     string `bson:"repoOwner" json:"repoOwner"`
	RepoName      string `bson:"repoName" json:"repoName"`
	RepoFullName  string `bson:"repoFullName" json:"repoFullName"`
	AccessToken   string `bson:"accessToken,omitempty" json:"-"`
	WebhookSecret string `bson:"webhookSecret" json:"-"`

	// WebhookSecretRef optionally points at a secrets-provider entry
	// instead of carrying the secret inline.
	WebhookSecretRef string `bson:"webhookSecretRef,omitempty" json:"webhookSecretRef,omitempty"`

	WorkflowMappings []WorkflowMapping `bson:"workflowMappings" json:"workflowMappings"`

	AutoTransition bool `bson:"autoTransition" json:"autoTransition"`
	AutoLink       bool `bson:"autoLink" json:"autoLink"`

	IsActive   bool              `bson:"isActive" json:"isActive"`
	SyncStatus string            `bson:"syncStatus" json:"syncStatus"`
	LastSyncAt time.Time         `bson:"lastSyncAt,omitempty" json:"lastSyncAt,omitempty"`
	LastError  *IntegrationError `bson:"lastError,omitempty" json:"lastError,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// AggregateID implements common.AggregateRoot.
func (i *Integration) AggregateID() string { return i.ID }

// CollectionName implements common.AggregateRoot.
func (i *Integration) CollectionName() string { return "github_integrations" }

// FindMapping scans the integration's workflow mappings for the first
// status mapping whose event matches and whose githubStatus equals the
// action or the literal wildcard "any". First match wins, in stored order.
func (i *Integration) FindMapping(event, action string) *StatusMapping {
	for wi := range i.WorkflowMappings {
		for si := range i.WorkflowMappings[wi].StatusMappings {
			m := &i.WorkflowMappings[wi].StatusMappings[si]
			if m.GitHubEvent != event {
				continue
			}
			if m.GitHubStatus == action || m.GitHubStatus == MappingStatusAny {
				return m
			}
		}
	}
	return nil
}
