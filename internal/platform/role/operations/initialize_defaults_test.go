package operations

import (
	"testing"

	"go.trackdeck.dev/internal/platform/permission"
)

func TestSystemRolePermissionsAreKnown(t *testing.T) {
	for _, def := range systemRoleDefinitions {
		for _, token := range def.Permissions {
			if !permission.Known(token) {
				t.Errorf("role %q references unknown permission %q", def.Name, token)
			}
		}
	}
}

func TestSystemRoleNamesAreDistinct(t *testing.T) {
	seen := make(map[string]struct{})
	for _, def := range systemRoleDefinitions {
		if _, dup := seen[def.Name]; dup {
			t.Errorf("duplicate system role name %q", def.Name)
		}
		seen[def.Name] = struct{}{}
	}
}
