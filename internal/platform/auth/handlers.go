// Package auth handles login, logout, and session introspection.
package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"go.trackdeck.dev/internal/platform/auth/jwt"
	"go.trackdeck.dev/internal/platform/auth/local"
	"go.trackdeck.dev/internal/platform/auth/session"
	"go.trackdeck.dev/internal/platform/role"
	"go.trackdeck.dev/internal/platform/user"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo        user.Repository
	roleRepo        role.Repository
	tokenService    *jwt.TokenService
	sessionManager  *session.Manager
	passwordService *local.PasswordService
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo user.Repository,
	roleRepo role.Repository,
	tokenService *jwt.TokenService,
	sessionManager *session.Manager,
) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		roleRepo:        roleRepo,
		tokenService:    tokenService,
		sessionManager:  sessionManager,
		passwordService: local.NewPasswordService(),
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// MessageResponse represents a simple message response
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// HandleLogin handles POST /auth/login
func (s *AuthService) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "Email and password are required")
		return
	}

	email := local.NormalizeEmail(req.Email)

	u, err := s.userRepo.FindByEmail(r.Context(), email)
	if err != nil {
		slog.Error("Failed to find user", "error", err)
		writeError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}
	if u == nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
		return
	}

	if !u.IsActive {
		writeError(w, http.StatusUnauthorized, "account_disabled", "Account is disabled")
		return
	}

	if err := s.passwordService.VerifyPassword(req.Password, u.PasswordHash); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
		return
	}

	token, err := s.tokenService.IssueSessionToken(u.ID, u.Email, u.Name)
	if err != nil {
		slog.Error("Failed to issue session token", "error", err)
		writeError(w, http.StatusInternalServerError, "server_error", "Failed to create session")
		return
	}

	s.sessionManager.SetSession(w, token)

	roleName := ""
	if resolved, err := s.roleRepo.FindByID(r.Context(), u.RoleID); err == nil && resolved != nil {
		roleName = resolved.Name
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   roleName,
	})
}

// HandleLogout handles POST /auth/logout
func (s *AuthService) HandleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessionManager.ClearSession(w)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// HandleMe handles GET /auth/me
func (s *AuthService) HandleMe(w http.ResponseWriter, r *http.Request) {
	token := s.sessionManager.GetSession(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Not authenticated")
		return
	}

	userID, err := s.tokenService.ValidateSessionToken(token)
	if err != nil {
		s.sessionManager.ClearSession(w)
		writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired session")
		return
	}

	u, err := s.userRepo.FindByID(r.Context(), userID)
	if err != nil {
		slog.Error("Failed to load user", "error", err)
		writeError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}
	if u == nil || !u.IsActive {
		s.sessionManager.ClearSession(w)
		writeError(w, http.StatusUnauthorized, "unauthorized", "Account no longer active")
		return
	}

	roleName := ""
	if resolved, err := s.roleRepo.FindByID(r.Context(), u.RoleID); err == nil && resolved != nil {
		roleName = resolved.Name
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   roleName,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err, description string) {
	writeJSON(w, status, ErrorResponse{
		Error:            err,
		ErrorDescription: description,
	})
}
