// Package events defines all domain events for the tracker.
// These events are emitted when state changes occur in the domain aggregates.
package events

import (
	"fmt"

	"go.trackdeck.dev/internal/platform/common"
)

// Event type codes follow the format: {domain}:{aggregate}:{action}

// Role event codes
const (
	EventTypeRoleCreated = "tracker:role:created"
	EventTypeRoleUpdated = "tracker:role:updated"
	EventTypeRoleDeleted = "tracker:role:deleted"
)

// User event codes
const (
	EventTypeUserCreated      = "tracker:user:created"
	EventTypeUserRoleAssigned = "tracker:user:role-assigned"
	EventTypeUserDeactivated  = "tracker:user:deactivated"
)

// Project event codes
const (
	EventTypeProjectCreated       = "tracker:project:created"
	EventTypeProjectMemberAdded   = "tracker:project:member-added"
	EventTypeProjectMemberUpdated = "tracker:project:member-updated"
	EventTypeProjectMemberRemoved = "tracker:project:member-removed"
)

// Issue event codes
const (
	EventTypeIssueCreated       = "tracker:issue:created"
	EventTypeIssueStatusChanged = "tracker:issue:status-changed"
)

// Integration event codes
const (
	EventTypeIntegrationConfigured = "tracker:integration:configured"
)

// Webhook event codes
const (
	EventTypeWebhookReceived  = "tracker:webhook:received"
	EventTypeWebhookProcessed = "tracker:webhook:processed"
	EventTypeWebhookIgnored   = "tracker:webhook:ignored"
	EventTypeWebhookFailed    = "tracker:webhook:failed"
	EventTypeWebhookRetried   = "tracker:webhook:retried"
)

// System config event codes
const (
	EventTypeSystemConfigUpdated = "tracker:systemconfig:updated"
)

// subject builds a subject string for domain events
// Format: tracker.{aggregate}.{id}
func subject(aggregate, id string) string {
	return fmt.Sprintf("tracker.%s.%s", aggregate, id)
}

// newBase creates a BaseDomainEvent with standard settings
func newBase(ctx *common.ExecutionContext, eventType, aggregate, id string) common.BaseDomainEvent {
	return common.NewBaseDomainEvent(ctx, eventType, subject(aggregate, id))
}
