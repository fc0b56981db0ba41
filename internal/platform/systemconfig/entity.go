// Package systemconfig holds the process-wide configuration singleton.
// Exactly one document exists, keyed by a fixed id; it is lazily created
// on first read via an atomic upsert so concurrent first-reads cannot race
// to create duplicates.
package systemconfig

import "time"

// SingletonID is the fixed _id of the one config document.
const SingletonID = "system"

// SystemConfig is the singleton configuration document.
type SystemConfig struct {
	ID              string    `bson:"_id" json:"id"`
	InstanceName    string    `bson:"instanceName" json:"instanceName"`
	DefaultRoleName string    `bson:"defaultRoleName" json:"defaultRoleName"`
	WebhooksEnabled bool      `bson:"webhooksEnabled" json:"webhooksEnabled"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// AggregateID implements common.AggregateRoot.
func (c *SystemConfig) AggregateID() string { return c.ID }

// CollectionName implements common.AggregateRoot.
func (c *SystemConfig) CollectionName() string { return "system_config" }

// Defaults returns the document created on first read.
func Defaults() *SystemConfig {
	return &SystemConfig{
		ID:              SingletonID,
		InstanceName:    "trackdeck",
		DefaultRoleName: "viewer",
		WebhooksEnabled: true,
	}
}
