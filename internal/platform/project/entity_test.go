package project

import "testing"

func testProject() *Project {
	return &Project{
		ID:      "proj-1",
		Key:     "ABC",
		OwnerID: "owner-1",
		Members: []Member{
			{UserID: "user-admin", Role: MemberRoleAdmin},
			{UserID: "user-editor", Role: MemberRoleEditor},
			{UserID: "user-assignee", Role: MemberRoleAssignee},
		},
	}
}

func TestMemberRole(t *testing.T) {
	p := testProject()

	tests := []struct {
		name   string
		userID string
		want   string
	}{
		{"explicit admin", "user-admin", MemberRoleAdmin},
		{"explicit editor", "user-editor", MemberRoleEditor},
		{"explicit assignee", "user-assignee", MemberRoleAssignee},
		{"owner fallback", "owner-1", MemberRoleAdmin},
		{"non-member", "stranger", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.MemberRole(tt.userID); got != tt.want {
				t.Errorf("MemberRole(%q) = %q, want %q", tt.userID, got, tt.want)
			}
		})
	}
}

func TestMemberRoleOwnerWithExplicitEntry(t *testing.T) {
	// An explicit membership entry wins over the owner fallback.
	p := testProject()
	p.Members = append(p.Members, Member{UserID: "owner-1", Role: MemberRoleEditor})

	if got := p.MemberRole("owner-1"); got != MemberRoleEditor {
		t.Errorf("MemberRole(owner) = %q, want %q", got, MemberRoleEditor)
	}
}

func TestCanManageMembers(t *testing.T) {
	p := testProject()

	tests := []struct {
		name       string
		userID     string
		globalRole string
		want       bool
	}{
		{"project admin", "user-admin", "developer", true},
		{"owner fallback", "owner-1", "developer", true},
		{"editor denied", "user-editor", "developer", false},
		{"assignee denied", "user-assignee", "developer", false},
		{"non-member denied", "stranger", "developer", false},
		{"global admin bypass", "stranger", GlobalAdminRole, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanManageMembers(p, tt.userID, tt.globalRole, nil); got != tt.want {
				t.Errorf("CanManageMembers(%q, %q) = %v, want %v", tt.userID, tt.globalRole, got, tt.want)
			}
		})
	}
}

func TestValidMemberRole(t *testing.T) {
	for _, valid := range []string{MemberRoleAdmin, MemberRoleEditor, MemberRoleAssignee} {
		if !ValidMemberRole(valid) {
			t.Errorf("ValidMemberRole(%q) = false, want true", valid)
		}
	}
	for _, invalid := range []string{"", "owner", "Admin", "viewer"} {
		if ValidMemberRole(invalid) {
			t.Errorf("ValidMemberRole(%q) = true, want false", invalid)
		}
	}
}
