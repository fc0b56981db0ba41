// Package role holds the role aggregate: named bundles of permission tokens
// assigned to users. System roles are seeded at startup and cannot be
// renamed, mutated, or deleted.
package role

import "time"

// System role names seeded by InitializeDefaults.
const (
	SystemRoleAdmin     = "admin"
	SystemRoleManager   = "manager"
	SystemRoleDeveloper = "developer"
	SystemRoleViewer    = "viewer"
)

// Role represents an authorization role.
type Role struct {
	ID             string    `bson:"_id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	DisplayName    string    `bson:"displayName" json:"displayName"`
	Description    string    `bson:"description,omitempty" json:"description,omitempty"`
	Permissions    []string  `bson:"permissions" json:"permissions"`
	IsSystem       bool      `bson:"isSystem" json:"isSystem"`
	IsActive       bool      `bson:"isActive" json:"isActive"`
	OrgID          string    `bson:"orgId,omitempty" json:"orgId,omitempty"`
	CreatedBy      string    `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	LastModifiedBy string    `bson:"lastModifiedBy,omitempty" json:"lastModifiedBy,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// AggregateID implements common.AggregateRoot.
func (r *Role) AggregateID() string { return r.ID }

// CollectionName implements common.AggregateRoot.
func (r *Role) CollectionName() string { return "auth_roles" }

// HasPermission reports whether the role grants the exact permission token.
// No hierarchy, no wildcard expansion.
func (r *Role) HasPermission(token string) bool {
	for _, p := range r.Permissions {
		if p == token {
			return true
		}
	}
	return false
}
