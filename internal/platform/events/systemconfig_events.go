package events

import (
	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/systemconfig"
)

// SystemConfigUpdated is emitted when the config singleton is updated
type SystemConfigUpdated struct {
	common.BaseDomainEvent
	InstanceName    string `json:"instanceName"`
	DefaultRoleName string `json:"defaultRoleName"`
	WebhooksEnabled bool   `json:"webhooksEnabled"`
}

func (e *SystemConfigUpdated) ToDataJSON() string {
	return common.MarshalDataJSON(struct {
		InstanceName    string `json:"instanceName"`
		DefaultRoleName string `json:"defaultRoleName"`
		WebhooksEnabled bool   `json:"webhooksEnabled"`
	}{
		InstanceName:    e.InstanceName,
		DefaultRoleName: e.DefaultRoleName,
		WebhooksEnabled: e.WebhooksEnabled,
	})
}

func NewSystemConfigUpdated(ctx *common.ExecutionContext, c *systemconfig.SystemConfig) *SystemConfigUpdated {
	return &SystemConfigUpdated{
		BaseDomainEvent: newBase(ctx, EventTypeSystemConfigUpdated, "systemconfig", c.ID),
		InstanceName:    c.InstanceName,
		DefaultRoleName: c.DefaultRoleName,
		WebhooksEnabled: c.WebhooksEnabled,
	}
}
