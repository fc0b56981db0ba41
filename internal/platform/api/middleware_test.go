package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.trackdeck.dev/internal/platform/auth/jwt"
	"go.trackdeck.dev/internal/platform/auth/session"
	"go.trackdeck.dev/internal/platform/role"
	"go.trackdeck.dev/internal/platform/user"
)

type stubUserRepo struct {
	user.Repository
	byID map[string]*user.User
}

func (s *stubUserRepo) FindByID(ctx context.Context, id string) (*user.User, error) {
	return s.byID[id], nil
}

type stubRoleRepo struct {
	role.Repository
	byID map[string]*role.Role
}

func (s *stubRoleRepo) FindByID(ctx context.Context, id string) (*role.Role, error) {
	return s.byID[id], nil
}

type authFixture struct {
	middleware   *AuthMiddleware
	tokenService *jwt.TokenService
}

func newAuthFixture(t *testing.T, users []*user.User, roles []*role.Role) *authFixture {
	t.Helper()

	km := jwt.NewKeyManager()
	if err := km.Initialize("", "", ""); err != nil {
		t.Fatalf("key init: %v", err)
	}
	tokenService := jwt.NewTokenService(km, jwt.TokenServiceConfig{
		Issuer:             "trackdeck",
		SessionTokenExpiry: time.Hour,
	})

	userRepo := &stubUserRepo{byID: make(map[string]*user.User)}
	for _, u := range users {
		userRepo.byID[u.ID] = u
	}
	roleRepo := &stubRoleRepo{byID: make(map[string]*role.Role)}
	for _, r := range roles {
		roleRepo.byID[r.ID] = r
	}

	cfg := session.DefaultConfig()
	cfg.Secure = false

	return &authFixture{
		middleware: NewAuthMiddleware(
			tokenService,
			session.NewManager(cfg),
			userRepo,
			role.NewResolver(roleRepo, nil),
		),
		tokenService: tokenService,
	}
}

func (f *authFixture) request(t *testing.T, u *user.User) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/issues", nil)
	if u != nil {
		token, err := f.tokenService.IssueSessionToken(u.ID, u.Email, u.Name)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func okHandler(hit *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hit = true
		w.WriteHeader(http.StatusOK)
	})
}

var (
	developerRole = &role.Role{
		ID:          "role-dev",
		Name:        "developer",
		Permissions: []string{"issues.read", "issues.create", "issues.update"},
		IsActive:    true,
	}
	developer = &user.User{
		ID:       "user-dev",
		Email:    "dev@example.com",
		Name:     "Dev One",
		RoleID:   "role-dev",
		IsActive: true,
	}
)

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	f := newAuthFixture(t, nil, nil)

	var hit bool
	rec := httptest.NewRecorder()
	f.middleware.RequireAuth(okHandler(&hit)).ServeHTTP(rec, f.request(t, nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if hit {
		t.Error("handler reached without a token")
	}
}

func TestRequireAuthRejectsInactiveUser(t *testing.T) {
	inactive := &user.User{ID: "user-gone", Email: "gone@example.com", RoleID: "role-dev", IsActive: false}
	f := newAuthFixture(t, []*user.User{inactive}, []*role.Role{developerRole})

	var hit bool
	rec := httptest.NewRecorder()
	f.middleware.RequireAuth(okHandler(&hit)).ServeHTTP(rec, f.request(t, inactive))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if hit {
		t.Error("handler reached for a deactivated user")
	}
}

func TestRequireAuthLoadsPrincipalWithPermissions(t *testing.T) {
	f := newAuthFixture(t, []*user.User{developer}, []*role.Role{developerRole})

	var got *Principal
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetPrincipal(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	f.middleware.RequireAuth(inner).ServeHTTP(rec, f.request(t, developer))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got == nil {
		t.Fatal("no principal in context")
	}
	if got.RoleName != "developer" {
		t.Errorf("RoleName = %q, want developer", got.RoleName)
	}
	if !got.HasPermission("issues.update") {
		t.Error("expected issues.update in the permission snapshot")
	}
	if got.HasPermission("roles.delete") {
		t.Error("roles.delete should not be granted")
	}
}

func TestRequirePermissionAllowsGrantedToken(t *testing.T) {
	f := newAuthFixture(t, []*user.User{developer}, []*role.Role{developerRole})

	var hit bool
	handler := f.middleware.RequireAuth(
		f.middleware.RequirePermission("issues.update")(okHandler(&hit)))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, f.request(t, developer))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !hit {
		t.Error("handler not reached with granted permission")
	}
}

func TestRequirePermissionDeniesMissingToken(t *testing.T) {
	f := newAuthFixture(t, []*user.User{developer}, []*role.Role{developerRole})

	var hit bool
	handler := f.middleware.RequireAuth(
		f.middleware.RequirePermission("roles.delete")(okHandler(&hit)))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, f.request(t, developer))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if hit {
		t.Error("handler reached without the required permission")
	}

	// The 403 names the missing token and the caller's role, never the
	// caller's permission set.
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(resp.Message, "roles.delete") {
		t.Errorf("message %q does not name the required token", resp.Message)
	}
	if !strings.Contains(resp.Message, "developer") {
		t.Errorf("message %q does not name the caller's role", resp.Message)
	}
	if strings.Contains(resp.Message, "issues.read") {
		t.Errorf("message %q leaks the caller's permission set", resp.Message)
	}
}

func TestWildcardIsLiteralNotGlob(t *testing.T) {
	wildcardRole := &role.Role{
		ID:          "role-star",
		Name:        "star",
		Permissions: []string{"*"},
		IsActive:    true,
	}
	starUser := &user.User{ID: "user-star", Email: "star@example.com", RoleID: "role-star", IsActive: true}
	f := newAuthFixture(t, []*user.User{starUser}, []*role.Role{wildcardRole})

	var hit bool
	handler := f.middleware.RequireAuth(
		f.middleware.RequirePermission("issues.update")(okHandler(&hit)))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, f.request(t, starUser))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403: \"*\" must not expand", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	f := newAuthFixture(t, []*user.User{developer}, []*role.Role{developerRole})

	var hit bool
	allowed := f.middleware.RequireAuth(
		f.middleware.RequireRole("developer", "admin")(okHandler(&hit)))
	rec := httptest.NewRecorder()
	allowed.ServeHTTP(rec, f.request(t, developer))
	if rec.Code != http.StatusOK || !hit {
		t.Fatalf("status = %d, hit = %v, want 200 for a listed role", rec.Code, hit)
	}

	hit = false
	denied := f.middleware.RequireAuth(
		f.middleware.RequireRole("admin")(okHandler(&hit)))
	rec = httptest.NewRecorder()
	denied.ServeHTTP(rec, f.request(t, developer))
	if rec.Code != http.StatusForbidden || hit {
		t.Fatalf("status = %d, hit = %v, want 403 for an unlisted role", rec.Code, hit)
	}
}
