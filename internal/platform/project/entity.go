// Package project holds the project aggregate, including the per-project
// member list. Project membership roles (admin/editor/assignee) are distinct
// from the global authorization role a user carries.
package project

import "time"

// Member project-role values.
const (
	MemberRoleAdmin    = "admin"
	MemberRoleEditor   = "editor"
	MemberRoleAssignee = "assignee"
)

// DefaultStatuses is the status vocabulary assigned to new projects.
var DefaultStatuses = []string{"backlog", "in_progress", "done"}

// ValidMemberRole reports whether s is a recognized project-role.
func ValidMemberRole(s string) bool {
	return s == MemberRoleAdmin || s == MemberRoleEditor || s == MemberRoleAssignee
}

// Member is one entry of a project's member list.
// At most one entry per user.
type Member struct {
	UserID  string    `bson:"userId" json:"userId"`
	Role    string    `bson:"role" json:"role"`
	AddedAt time.Time `bson:"addedAt" json:"addedAt"`
	AddedBy string    `bson:"addedBy" json:"addedBy"`
}

// Project represents a tracked project with its status vocabulary and members.
type Project struct {
	ID          string    `bson:"_id" json:"id"`
	Key         string    `bson:"key" json:"key"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	OwnerID     string    `bson:"ownerId" json:"ownerId"`
	Statuses    []string  `bson:"statuses" json:"statuses"`
	Members     []Member  `bson:"members" json:"members"`
	IssueSeq    int64     `bson:"issueSeq" json:"-"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// AggregateID implements common.AggregateRoot.
func (p *Project) AggregateID() string { return p.ID }

// CollectionName implements common.AggregateRoot.
func (p *Project) CollectionName() string { return "projects" }

// MemberRole returns the project-role of userID: the membership entry if
// present, admin if the user is the project owner, "" otherwise.
func (p *Project) MemberRole(userID string) string {
	for _, m := range p.Members {
		if m.UserID == userID {
			return m.Role
		}
	}
	if userID == p.OwnerID {
		return MemberRoleAdmin
	}
	return ""
}

// HasMember reports whether userID has an explicit membership entry.
// The owner fallback does not count.
func (p *Project) HasMember(userID string) bool {
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// HasStatus reports whether s is part of the project's status vocabulary.
func (p *Project) HasStatus(s string) bool {
	for _, status := range p.Statuses {
		if status == s {
			return true
		}
	}
	return false
}
