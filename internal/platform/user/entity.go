// Package user holds the user aggregate. A user references exactly one role
// by id; permissions are always resolved through that reference, never
// snapshotted onto the user.
package user

import "time"

// User represents an account that can authenticate and hold a role.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	Name         string    `bson:"name" json:"name"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	RoleID       string    `bson:"roleId" json:"roleId"`
	IsActive     bool      `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// AggregateID implements common.AggregateRoot.
func (u *User) AggregateID() string { return u.ID }

// CollectionName implements common.AggregateRoot.
func (u *User) CollectionName() string { return "users" }
