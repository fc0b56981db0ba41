package role

import (
	"context"
	"errors"
	"testing"
)

// stubRepository is an in-memory Repository for resolver tests.
type stubRepository struct {
	roles   map[string]*Role // by id
	byName  map[string]*Role
	failAll bool
}

func (s *stubRepository) FindAll(ctx context.Context) ([]*Role, error) { return nil, nil }

func (s *stubRepository) FindByID(ctx context.Context, id string) (*Role, error) {
	if s.failAll {
		return nil, errors.New("datastore unavailable")
	}
	return s.roles[id], nil
}

func (s *stubRepository) FindByName(ctx context.Context, name string) (*Role, error) {
	if s.failAll {
		return nil, errors.New("datastore unavailable")
	}
	return s.byName[name], nil
}

func (s *stubRepository) FindActiveByName(ctx context.Context, name string) (*Role, error) {
	if s.failAll {
		return nil, errors.New("datastore unavailable")
	}
	r := s.byName[name]
	if r == nil || !r.IsActive {
		return nil, nil
	}
	return r, nil
}

func (s *stubRepository) Insert(ctx context.Context, role *Role) error { return nil }
func (s *stubRepository) Update(ctx context.Context, role *Role) error { return nil }
func (s *stubRepository) Delete(ctx context.Context, id string) error  { return nil }
func (s *stubRepository) CountUsersWithRole(ctx context.Context, roleID string) (int64, error) {
	return 0, nil
}

func newStubRepository(roles ...*Role) *stubRepository {
	s := &stubRepository{
		roles:  make(map[string]*Role),
		byName: make(map[string]*Role),
	}
	for _, r := range roles {
		s.roles[r.ID] = r
		s.byName[r.Name] = r
	}
	return s
}

func TestHasPermission(t *testing.T) {
	developer := &Role{
		ID:          "role-1",
		Name:        "developer",
		Permissions: []string{"projects.read", "issues.read", "issues.update"},
		IsActive:    true,
	}
	inactive := &Role{
		ID:          "role-2",
		Name:        "retired",
		Permissions: []string{"projects.read"},
		IsActive:    false,
	}
	repo := newStubRepository(developer, inactive)
	resolver := NewResolver(repo, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		ref   RoleRef
		token string
		want  bool
	}{
		{"by name, granted", RefByName("developer"), "issues.update", true},
		{"by name, not granted", RefByName("developer"), "issues.delete", false},
		{"by id, granted", RefByID("role-1"), "projects.read", true},
		{"by object, granted", RefByRole(developer), "issues.read", true},
		{"unknown name", RefByName("nonexistent"), "projects.read", false},
		{"unknown id", RefByID("role-999"), "projects.read", false},
		{"inactive role by name", RefByName("retired"), "projects.read", false},
		{"inactive role by id", RefByID("role-2"), "projects.read", false},
		{"inactive role by object", RefByRole(inactive), "projects.read", false},
		{"zero ref", RoleRef{}, "projects.read", false},
		{"case sensitivity", RefByName("developer"), "Issues.Update", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolver.HasPermission(ctx, tt.ref, tt.token); got != tt.want {
				t.Errorf("HasPermission(%v, %q) = %v, want %v", tt.ref, tt.token, got, tt.want)
			}
		})
	}
}

func TestHasPermissionFailsClosedOnLookupError(t *testing.T) {
	repo := newStubRepository()
	repo.failAll = true
	resolver := NewResolver(repo, nil)
	ctx := context.Background()

	if resolver.HasPermission(ctx, RefByName("developer"), "projects.read") {
		t.Error("expected false when lookup fails")
	}
	if resolver.HasPermission(ctx, RefByID("role-1"), "projects.read") {
		t.Error("expected false when lookup fails")
	}
}

func TestResolvePermissionsEmptyOnUnresolvable(t *testing.T) {
	repo := newStubRepository()
	resolver := NewResolver(repo, nil)
	ctx := context.Background()

	perms := resolver.ResolvePermissions(ctx, RefByName("ghost"))
	if perms == nil {
		t.Fatal("expected non-nil empty set")
	}
	if len(perms) != 0 {
		t.Errorf("expected empty permission set, got %v", perms)
	}
}

func TestResolvePermissionsFromLoadedObject(t *testing.T) {
	r := &Role{
		ID:          "role-1",
		Name:        "manager",
		Permissions: []string{"projects.read", "projects.update"},
		IsActive:    true,
	}
	// no repo entries: the loaded object must be used without a fetch
	resolver := NewResolver(newStubRepository(), nil)

	perms := resolver.ResolvePermissions(context.Background(), RefByRole(r))
	if len(perms) != 2 {
		t.Fatalf("expected 2 permissions, got %d", len(perms))
	}
	if _, ok := perms["projects.update"]; !ok {
		t.Error("expected projects.update in resolved set")
	}
}

func TestWildcardIsLiteralOnly(t *testing.T) {
	r := &Role{
		ID:          "role-1",
		Name:        "star",
		Permissions: []string{"*"},
		IsActive:    true,
	}
	resolver := NewResolver(newStubRepository(r), nil)
	ctx := context.Background()

	if resolver.HasPermission(ctx, RefByName("star"), "issues.update") {
		t.Error("literal * must not expand to other tokens")
	}
	if !resolver.HasPermission(ctx, RefByName("star"), "*") {
		t.Error("literal * should match an exact * check")
	}
}
