package events

import (
	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/user"
)

// UserCreated is emitted when a new user is created
type UserCreated struct {
	common.BaseDomainEvent
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	RoleID string `json:"roleId"`
}

func (e *UserCreated) ToDataJSON() string {
	return common.MarshalDataJSON(struct {
		UserID string `json:"userId"`
		Email  string `json:"email"`
		Name   string `json:"name"`
		RoleID string `json:"roleId"`
	}{
		UserID: e.UserID,
		Email:  e.Email,
		Name:   e.Name,
		RoleID: e.RoleID,
	})
}

func NewUserCreated(ctx *common.ExecutionContext, u *user.User) *UserCreated {
	return &UserCreated{
		BaseDomainEvent: newBase(ctx, EventTypeUserCreated, "user", u.ID),
		UserID:          u.ID,
		Email:           u.Email,
		Name:            u.Name,
		RoleID:          u.RoleID,
	}
}

// UserRoleAssigned is emitted when a user's role changes
type UserRoleAssigned struct {
	common.BaseDomainEvent
	UserID     string `json:"userId"`
	FromRoleID string `json:"fromRoleId"`
	ToRoleID   string `json:"toRoleId"`
}

func (e *UserRoleAssigned) ToDataJSON() string {
	return common.MarshalDataJSON(struct {
		UserID     string `json:"userId"`
		FromRoleID string `json:"fromRoleId"`
		ToRoleID   string `json:"toRoleId"`
	}{
		UserID:     e.UserID,
		FromRoleID: e.FromRoleID,
		ToRoleID:   e.ToRoleID,
	})
}

func NewUserRoleAssigned(ctx *common.ExecutionContext, u *user.User, fromRoleID string) *UserRoleAssigned {
	return &UserRoleAssigned{
		BaseDomainEvent: newBase(ctx, EventTypeUserRoleAssigned, "user", u.ID),
		UserID:          u.ID,
		FromRoleID:      fromRoleID,
		ToRoleID:        u.RoleID,
	}
}

// UserDeactivated is emitted when a user is deactivated
type UserDeactivated struct {
	common.BaseDomainEvent
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

func (e *UserDeactivated) ToDataJSON() string {
	return common.MarshalDataJSON(struct {
		UserID string `json:"userId"`
		Email  string `json:"email"`
	}{
		UserID: e.UserID,
		Email:  e.Email,
	})
}

func NewUserDeactivated(ctx *common.ExecutionContext, u *user.User) *UserDeactivated {
	return &UserDeactivated{
		BaseDomainEvent: newBase(ctx, EventTypeUserDeactivated, "user", u.ID),
		UserID:          u.ID,
		Email:           u.Email,
	}
}
