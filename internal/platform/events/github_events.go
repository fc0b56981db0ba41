package events

import (
	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/github"
)

// IntegrationConfigured is emitted when a project's GitHub integration is
// created or replaced
type IntegrationConfigured struct {
	common.BaseDomainEvent
	IntegrationID string `json:"integrationId"`
	ProjectID     string `json:"projectId"`
	RepoFullName  string `json:"repoFullName"`
	IsActive      bool   `json:"isActive"`
}

func (e *IntegrationConfigured) ToDataJSON() string {
	return common.MarshalDataJSON(struct {
		IntegrationID string `json:"integrationId"`
		ProjectID     string `json:"projectId"`
		RepoFullName  string `json:"repoFullName"`
		IsActive      bool   `json:"isActive"`
	}{
		IntegrationID: e.IntegrationID,
		ProjectID:     e.ProjectID,
		RepoFullName:  e.RepoFullName,
		IsActive:      e.IsActive,
	})
}

func NewIntegrationConfigured(ctx *common.ExecutionContext, i *github.Integration) *IntegrationConfigured {
	return &IntegrationConfigured{
		BaseDomainEvent: newBase(ctx, EventTypeIntegrationConfigured, "integration", i.ID),
		IntegrationID:   i.ID,
		ProjectID:       i.ProjectID,
		RepoFullName:    i.RepoFullName,
		IsActive:        i.IsActive,
	}
}

// WebhookReceived is emitted when a delivery passes signature verification
// and is persisted
type WebhookReceived struct {
	common.BaseDomainEvent
	WebhookID       string `json:"webhookId"`
	DeliveryID      string `json:"deliveryId"`
	GitHubEventType string `json:"eventType"`
	Action          string `json:"action,omitempty"`
}

func (e *WebhookReceived) ToDataJSON() string {
	return common.MarshalDataJSON(struct {
		WebhookID  string `json:"webhookId"`
		DeliveryID string `json:"deliveryId"`
		EventType  string `json:"eventType"`
		Action     string `json:"action,omitempty"`
	}{
		WebhookID:  e.WebhookID,
		DeliveryID: e.DeliveryID,
		EventType:  e.GitHubEventType,
		Action:     e.Action,
	})
}

func NewWebhookReceived(ctx *common.ExecutionContext, w *github.Webhook) *WebhookReceived {
	return &WebhookReceived{
		BaseDomainEvent: newBase(ctx, EventTypeWebhookReceived, "webhook", w.ID),
		WebhookID:       w.ID,
		DeliveryID:      w.DeliveryID,
		GitHubEventType: w.EventType,
		Action:          w.Action,
	}
}

// WebhookProcessed is emitted when processing emits at least one action
type WebhookProcessed struct {
	common.BaseDomainEvent
	WebhookID   string `json:"webhookId"`
	DeliveryID  string `json:"deliveryId"`
	ActionCount int    `json:"actionCount"`
}

func (e *WebhookProcessed) ToDataJSON() string {
	return common.MarshalDataJSON(struct {
		WebhookID   string `json:"webhookId"`
		DeliveryID  string `json:"deliveryId"`
		ActionCount int    `json:"actionCount"`
	}{
		WebhookID:   e.WebhookID,
		DeliveryID:  e.DeliveryID,
		ActionCount: e.ActionCount,
	})
}

func NewWebhookProcessed(ctx *common.ExecutionContext, w *github.Webhook) *WebhookProcessed {
	return &WebhookProcessed{
		BaseDomainEvent: newBase(ctx, EventTypeWebhookProcessed, "webhook", w.ID),
		WebhookID:       w.ID,
		DeliveryID:      w.DeliveryID,
		ActionCount:     len(w.Actions),
	}
}

// WebhookIgnored is emitted when processing emits no actions
type WebhookIgnored struct {
	common.BaseDomainEvent
	WebhookID       string `json:"webhookId"`
	DeliveryID      string `json:"deliveryId"`
	GitHubEventType string `json:"eventType"`
}

func (e *WebhookIgnored) ToDataJSON() string {
	return common.MarshalDataJSON(struct {
		WebhookID  string `json:"webhookId"`
		DeliveryID string `json:"deliveryId"`
		EventType  string `json:"eventType"`
	}{
		WebhookID:  e.WebhookID,
		DeliveryID: e.DeliveryID,
		EventType:  e.GitHubEventType,
	})
}

func NewWebhookIgnored(ctx *common.ExecutionContext, w *github.Webhook) *WebhookIgnored {
	return &WebhookIgnored{
		BaseDomainEvent: newBase(ctx, EventTypeWebhookIgnored, "webhook", w.ID),
		WebhookID:       w.ID,
		DeliveryID:      w.DeliveryID,
		GitHubEventType: w.EventType,
	}
}

// WebhookFailed is emitted when processing hits the terminal failure handler
type WebhookFailed struct {
	common.BaseDomainEvent
	WebhookID    string `json:"webhookId"`
	DeliveryID   string `json:"deliveryId"`
	ErrorMessage string `json:"errorMessage"`
}

func (e *WebhookFailed) ToDataJSON() string {
	return common.MarshalDataJSON(struct {
		WebhookID    string `json:"webhookId"`
		DeliveryID   string `json:"deliveryId"`
		ErrorMessage string `json:"errorMessage"`
	}{
		WebhookID:    e.WebhookID,
		DeliveryID:   e.DeliveryID,
		ErrorMessage: e.ErrorMessage,
	})
}

func NewWebhookFailed(ctx *common.ExecutionContext, w *github.Webhook) *WebhookFailed {
	return &WebhookFailed{
		BaseDomainEvent: newBase(ctx, EventTypeWebhookFailed, "webhook", w.ID),
		WebhookID:       w.ID,
		DeliveryID:      w.DeliveryID,
		ErrorMessage:    w.ErrorMessage,
	}
}

// WebhookRetried is emitted when an operator resets a failed webhook
type WebhookRetried struct {
	common.BaseDomainEvent
	WebhookID  string `json:"webhookId"`
	DeliveryID string `json:"deliveryId"`
}

func (e *WebhookRetried) ToDataJSON() string {
	return common.MarshalDataJSON(struct {
		WebhookID  string `json:"webhookId"`
		DeliveryID string `json:"deliveryId"`
	}{
		WebhookID:  e.WebhookID,
		DeliveryID: e.DeliveryID,
	})
}

func NewWebhookRetried(ctx *common.ExecutionContext, w *github.Webhook) *WebhookRetried {
	return &WebhookRetried{
		BaseDomainEvent: newBase(ctx, EventTypeWebhookRetried, "webhook", w.ID),
		WebhookID:       w.ID,
		DeliveryID:      w.DeliveryID,
	}
}
