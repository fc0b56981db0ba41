// Package issue holds the issue aggregate. Issue status is a string from the
// owning project's status vocabulary, treated as opaque everywhere except
// equality comparison.
package issue

import "time"

// Issue represents a tracked work item inside a project.
type Issue struct {
	ID          string    `bson:"_id" json:"id"`
	ProjectID   string    `bson:"projectId" json:"projectId"`
	Key         string    `bson:"key" json:"key"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Status      string    `bson:"status" json:"status"`
	AssigneeID  string    `bson:"assigneeId,omitempty" json:"assigneeId,omitempty"`

	// Back-references to the external provider, set when an issue is
	// created from or linked to GitHub activity.
	GitHubIssueNumber int `bson:"githubIssueNumber,omitempty" json:"githubIssueNumber,omitempty"`
	GitHubPRNumber    int `bson:"githubPrNumber,omitempty" json:"githubPrNumber,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// AggregateID implements common.AggregateRoot.
func (i *Issue) AggregateID() string { return i.ID }

// CollectionName implements common.AggregateRoot.
func (i *Issue) CollectionName() string { return "issues" }
