package events

import (
	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/project"
)

// ProjectCreated is emitted when a new project is created
type ProjectCreated struct {
	common.BaseDomainEvent
	ProjectID string `json:"projectId"`
	Key       string `json:"key"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
}

func (e *ProjectCreated) ToDataJSON() string {
	return common.MarshalDataJSON(struct {
		ProjectID string `json:"projectId"`
		Key       string `json:"key"`
		Name      string `json:"name"`
		OwnerID   string `json:"ownerId"`
	}{
		ProjectID: e.ProjectID,
		Key:       e.Key,
		Name:      e.Name,
		OwnerID:   e.OwnerID,
	})
}

func NewProjectCreated(ctx *common.ExecutionContext, p *project.Project) *ProjectCreated {
	return &ProjectCreated{
		BaseDomainEvent: newBase(ctx, EventTypeProjectCreated, "project", p.ID),
		ProjectID:       p.ID,
		Key:             p.Key,
		Name:            p.Name,
		OwnerID:         p.OwnerID,
	}
}

// ProjectMemberAdded is emitted when a member joins a project
type ProjectMemberAdded struct {
	common.BaseDomainEvent
	ProjectID  string `json:"projectId"`
	UserID     string `json:"userId"`
	MemberRole string `json:"memberRole"`
	AddedBy    string `json:"addedBy"`
}

func (e *ProjectMemberAdded) ToDataJSON() string {
	return common.MarshalDataJSON(struct {
		ProjectID  string `json:"projectId"`
		UserID     string `json:"userId"`
		MemberRole string `json:"memberRole"`
		AddedBy    string `json:"addedBy"`
	}{
		ProjectID:  e.ProjectID,
		UserID:     e.UserID,
		MemberRole: e.MemberRole,
		AddedBy:    e.AddedBy,
	})
}

func NewProjectMemberAdded(ctx *common.ExecutionContext, p *project.Project, m project.Member) *ProjectMemberAdded {
	return &ProjectMemberAdded{
		BaseDomainEvent: newBase(ctx, EventTypeProjectMemberAdded, "project", p.ID),
		ProjectID:       p.ID,
		UserID:          m.UserID,
		MemberRole:      m.Role,
		AddedBy:         m.AddedBy,
	}
}

// ProjectMemberUpdated is emitted when a member's project-role changes
type ProjectMemberUpdated struct {
	common.BaseDomainEvent
	ProjectID  string `json:"projectId"`
	UserID     string `json:"userId"`
	FromRole   string `json:"fromRole"`
	MemberRole string `json:"memberRole"`
}

func (e *ProjectMemberUpdated) ToDataJSON() string {
	return common.MarshalDataJSON(struct {
		ProjectID  string `json:"projectId"`
		UserID     string `json:"userId"`
		FromRole   string `json:"fromRole"`
		MemberRole string `json:"memberRole"`
	}{
		ProjectID:  e.ProjectID,
		UserID:     e.UserID,
		FromRole:   e.FromRole,
		MemberRole: e.MemberRole,
	})
}

func NewProjectMemberUpdated(ctx *common.ExecutionContext, p *project.Project, userID, fromRole, toRole string) *ProjectMemberUpdated {
	return &ProjectMemberUpdated{
		BaseDomainEvent: newBase(ctx, EventTypeProjectMemberUpdated, "project", p.ID),
		ProjectID:       p.ID,
		UserID:          userID,
		FromRole:        fromRole,
		MemberRole:      toRole,
	}
}

// ProjectMemberRemoved is emitted when a member leaves a project
type ProjectMemberRemoved struct {
	common.BaseDomainEvent
	ProjectID string `json:"projectId"`
	UserID    string `json:"userId"`
}

func (e *ProjectMemberRemoved) ToDataJSON() string {
	return common.MarshalDataJSON(struct {
		ProjectID string `json:"projectId"`
		UserID    string `json:"userId"`
	}{
		ProjectID: e.ProjectID,
		UserID:    e.UserID,
	})
}

func NewProjectMemberRemoved(ctx *common.ExecutionContext, p *project.Project, userID string) *ProjectMemberRemoved {
	return &ProjectMemberRemoved{
		BaseDomainEvent: newBase(ctx, EventTypeProjectMemberRemoved, "project", p.ID),
		ProjectID:       p.ID,
		UserID:          userID,
	}
}
