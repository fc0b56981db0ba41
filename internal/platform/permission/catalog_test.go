package permission

import "testing"

func TestKnown(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"issues.update", true},
		{"projects.read", true},
		{"roles.delete", true},
		{"system_config.read", true},
		{"webhooks.retry", true},
		{"*", true},
		{"issues.Update", false}, // case-sensitive
		{"issues", false},
		{"issues.*", false}, // no glob semantics
		{"unknown.action", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := Known(tt.token); got != tt.want {
			t.Errorf("Known(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	unknown := Validate([]string{"issues.read", "bogus.token", "projects.create", "nope"})
	if len(unknown) != 2 {
		t.Fatalf("expected 2 unknown tokens, got %v", unknown)
	}
	if unknown[0] != "bogus.token" || unknown[1] != "nope" {
		t.Errorf("unexpected unknown tokens: %v", unknown)
	}

	if unknown := Validate([]string{"issues.read"}); unknown != nil {
		t.Errorf("expected no unknown tokens, got %v", unknown)
	}
}

func TestAllContainsEveryConstant(t *testing.T) {
	all := All()
	set := make(map[string]struct{}, len(all))
	for _, token := range all {
		set[token] = struct{}{}
	}

	for _, token := range []string{
		ProjectsRead, IssuesUpdate, RolesCreate, UsersDelete,
		IntegrationsUpdate, WebhooksRead, SystemConfigUpdate, AuditLogsRead,
	} {
		if _, ok := set[token]; !ok {
			t.Errorf("All() missing %q", token)
		}
	}
}
