package events

import (
	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/issue"
)

// IssueCreated is emitted when a new issue is created
type IssueCreated struct {
	common.BaseDomainEvent
	IssueID   string `json:"issueId"`
	ProjectID string `json:"projectId"`
	Key       string `json:"key"`
	Title     string `json:"title"`
	Status    string `json:"status"`
}

func (e *IssueCreated) ToDataJSON() string {
	return common.MarshalDataJSON(struct {
		IssueID   string `json:"issueId"`
		ProjectID string `json:"projectId"`
		Key       string `json:"key"`
		Title     string `json:"title"`
		Status    string `json:"status"`
	}{
		IssueID:   e.IssueID,
		ProjectID: e.ProjectID,
		Key:       e.Key,
		Title:     e.Title,
		Status:    e.Status,
	})
}

func NewIssueCreated(ctx *common.ExecutionContext, i *issue.Issue) *IssueCreated {
	return &IssueCreated{
		BaseDomainEvent: newBase(ctx, EventTypeIssueCreated, "issue", i.ID),
		IssueID:         i.ID,
		ProjectID:       i.ProjectID,
		Key:             i.Key,
		Title:           i.Title,
		Status:          i.Status,
	}
}

// IssueStatusChanged is emitted when an issue transitions between statuses
type IssueStatusChanged struct {
	common.BaseDomainEvent
	IssueID    string `json:"issueId"`
	Key        string `json:"key"`
	FromStatus string `json:"fromStatus"`
	ToStatus   string `json:"toStatus"`
}

func (e *IssueStatusChanged) ToDataJSON() string {
	return common.MarshalDataJSON(struct {
		IssueID    string `json:"issueId"`
		Key        string `json:"key"`
		FromStatus string `json:"fromStatus"`
		ToStatus   string `json:"toStatus"`
	}{
		IssueID:    e.IssueID,
		Key:        e.Key,
		FromStatus: e.FromStatus,
		ToStatus:   e.ToStatus,
	})
}

func NewIssueStatusChanged(ctx *common.ExecutionContext, i *issue.Issue, fromStatus string) *IssueStatusChanged {
	return &IssueStatusChanged{
		BaseDomainEvent: newBase(ctx, EventTypeIssueStatusChanged, "issue", i.ID),
		IssueID:         i.ID,
		Key:             i.Key,
		FromStatus:      fromStatus,
		ToStatus:        i.Status,
	}
}
