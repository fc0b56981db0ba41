package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.trackdeck.dev/internal/platform/auth/jwt"
	"go.trackdeck.dev/internal/platform/auth/local"
	"go.trackdeck.dev/internal/platform/auth/session"
	"go.trackdeck.dev/internal/platform/role"
	"go.trackdeck.dev/internal/platform/user"
)

type stubUserRepo struct {
	users map[string]*user.User // by email
	byID  map[string]*user.User
}

func (s *stubUserRepo) FindAll(ctx context.Context) ([]*user.User, error) { return nil, nil }
func (s *stubUserRepo) FindByID(ctx context.Context, id string) (*user.User, error) {
	return s.byID[id], nil
}
func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.users[email], nil
}
func (s *stubUserRepo) Insert(ctx context.Context, u *user.User) error { return nil }
func (s *stubUserRepo) Update(ctx context.Context, u *user.User) error { return nil }

type stubRoleRepo struct {
	role.Repository
	byID map[string]*role.Role
}

func (s *stubRoleRepo) FindByID(ctx context.Context, id string) (*role.Role, error) {
	return s.byID[id], nil
}

func newTestAuthService(t *testing.T, users ...*user.User) *AuthService {
	t.Helper()

	km := jwt.NewKeyManager()
	if err := km.Initialize("", "", ""); err != nil {
		t.Fatalf("key init: %v", err)
	}
	tokenService := jwt.NewTokenService(km, jwt.TokenServiceConfig{
		Issuer:             "trackdeck",
		SessionTokenExpiry: time.Hour,
	})

	userRepo := &stubUserRepo{
		users: make(map[string]*user.User),
		byID:  make(map[string]*user.User),
	}
	for _, u := range users {
		userRepo.users[u.Email] = u
		userRepo.byID[u.ID] = u
	}

	roleRepo := &stubRoleRepo{byID: map[string]*role.Role{
		"role-dev": {ID: "role-dev", Name: "developer", IsActive: true},
	}}

	cfg := session.DefaultConfig()
	cfg.Secure = false
	return NewAuthService(userRepo, roleRepo, tokenService, session.NewManager(cfg))
}

func activeUser(t *testing.T, email, password string) *user.User {
	t.Helper()
	hash, err := local.NewPasswordService().HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &user.User{
		ID:           "user-1",
		Email:        email,
		Name:         "Dev One",
		PasswordHash: hash,
		RoleID:       "role-dev",
		IsActive:     true,
	}
}

func postLogin(t *testing.T, svc *AuthService, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	svc.HandleLogin(rec, req)
	return rec
}

func TestHandleLoginSuccess(t *testing.T) {
	svc := newTestAuthService(t, activeUser(t, "dev@example.com", "hunter2secret"))

	rec := postLogin(t, svc, LoginRequest{Email: "dev@example.com", Password: "hunter2secret"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.UserID != "user-1" || resp.Role != "developer" {
		t.Errorf("unexpected response: %+v", resp)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "TRACKDECK_SESSION" || cookies[0].Value == "" {
		t.Errorf("expected session cookie, got %v", cookies)
	}
}

func TestHandleLoginFailures(t *testing.T) {
	svc := newTestAuthService(t, activeUser(t, "dev@example.com", "hunter2secret"))

	tests := []struct {
		name       string
		body       LoginRequest
		wantStatus int
	}{
		{"wrong password", LoginRequest{Email: "dev@example.com", Password: "wrong"}, http.StatusUnauthorized},
		{"unknown email", LoginRequest{Email: "ghost@example.com", Password: "hunter2secret"}, http.StatusUnauthorized},
		{"missing fields", LoginRequest{}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := postLogin(t, svc, tt.body); rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandleLoginInactiveUser(t *testing.T) {
	u := activeUser(t, "dev@example.com", "hunter2secret")
	u.IsActive = false
	svc := newTestAuthService(t, u)

	if rec := postLogin(t, svc, LoginRequest{Email: "dev@example.com", Password: "hunter2secret"}); rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestHandleMeRoundTrip(t *testing.T) {
	svc := newTestAuthService(t, activeUser(t, "dev@example.com", "hunter2secret"))

	login := postLogin(t, svc, LoginRequest{Email: "dev@example.com", Password: "hunter2secret"})
	cookies := login.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie from login")
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	svc.HandleMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Email != "dev@example.com" {
		t.Errorf("email = %q", resp.Email)
	}
}

func TestHandleMeWithoutSession(t *testing.T) {
	svc := newTestAuthService(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	svc.HandleMe(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
