package events

import (
	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/role"
)

// RoleCreated is emitted when a new role is created
type RoleCreated struct {
	common.BaseDomainEvent
	RoleID      string   `json:"roleId"`
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	Permissions []string `json:"permissions"`
}

func (e *RoleCreated) ToDataJSON() string {
	return common.MarshalDataJSON(struct {
		RoleID      string   `json:"roleId"`
		Name        string   `json:"name"`
		DisplayName string   `json:"displayName"`
		Permissions []string `json:"permissions"`
	}{
		RoleID:      e.RoleID,
		Name:        e.Name,
		DisplayName: e.DisplayName,
		Permissions: e.Permissions,
	})
}

func NewRoleCreated(ctx *common.ExecutionContext, r *role.Role) *RoleCreated {
	return &RoleCreated{
		BaseDomainEvent: newBase(ctx, EventTypeRoleCreated, "role", r.ID),
		RoleID:          r.ID,
		Name:            r.Name,
		DisplayName:     r.DisplayName,
		Permissions:     r.Permissions,
	}
}

// RoleUpdated is emitted when a role is updated
type RoleUpdated struct {
	common.BaseDomainEvent
	RoleID      string   `json:"roleId"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
	IsActive    bool     `json:"isActive"`
}

func (e *RoleUpdated) ToDataJSON() string {
	return common.MarshalDataJSON(struct {
		RoleID      string   `json:"roleId"`
		Name        string   `json:"name"`
		Permissions []string `json:"permissions"`
		IsActive    bool     `json:"isActive"`
	}{
		RoleID:      e.RoleID,
		Name:        e.Name,
		Permissions: e.Permissions,
		IsActive:    e.IsActive,
	})
}

func NewRoleUpdated(ctx *common.ExecutionContext, r *role.Role) *RoleUpdated {
	return &RoleUpdated{
		BaseDomainEvent: newBase(ctx, EventTypeRoleUpdated, "role", r.ID),
		RoleID:          r.ID,
		Name:            r.Name,
		Permissions:     r.Permissions,
		IsActive:        r.IsActive,
	}
}

// RoleDeleted is emitted when a role is deleted
type RoleDeleted struct {
	common.BaseDomainEvent
	RoleID string `json:"roleId"`
	Name   string `json:"name"`
}

func (e *RoleDeleted) ToDataJSON() string {
	return common.MarshalDataJSON(struct {
		RoleID string `json:"roleId"`
		Name   string `json:"name"`
	}{
		RoleID: e.RoleID,
		Name:   e.Name,
	})
}

func NewRoleDeleted(ctx *common.ExecutionContext, r *role.Role) *RoleDeleted {
	return &RoleDeleted{
		BaseDomainEvent: newBase(ctx, EventTypeRoleDeleted, "role", r.ID),
		RoleID:          r.ID,
		Name:            r.Name,
	}
}
