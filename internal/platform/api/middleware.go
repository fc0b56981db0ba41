package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"go.trackdeck.dev/internal/common/metrics"
	"go.trackdeck.dev/internal/platform/auth/jwt"
	"go.trackdeck.dev/internal/platform/auth/session"
	"go.trackdeck.dev/internal/platform/role"
	"go.trackdeck.dev/internal/platform/user"
)

// ContextKey is a type for context keys
type ContextKey string

// ContextKeyPrincipal is the key for the authenticated principal
const ContextKeyPrincipal ContextKey = "principal"

// Principal is the authenticated caller, resolved once per request. The
// permission set is a snapshot of the user's role at request time; checks
// against it are in-memory and never touch the datastore.
type Principal struct {
	ID          string
	Name        string
	Email       string
	RoleName    string
	Role        *role.Role
	Permissions map[string]struct{}
}

// HasPermission reports whether the principal's role grants the exact
// token. No wildcard expansion: "*" only matches itself.
func (p *Principal) HasPermission(token string) bool {
	_, ok := p.Permissions[token]
	return ok
}

// HasRole reports whether the principal holds the named global role.
func (p *Principal) HasRole(name string) bool {
	return p.RoleName == name
}

// AuthMiddleware provides authentication and authorization middleware
type AuthMiddleware struct {
	tokenService   *jwt.TokenService
	sessionManager *session.Manager
	userRepo       user.Repository
	resolver       *role.Resolver
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(
	tokenService *jwt.TokenService,
	sessionManager *session.Manager,
	userRepo user.Repository,
	resolver *role.Resolver,
) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService:   tokenService,
		sessionManager: sessionManager,
		userRepo:       userRepo,
		resolver:       resolver,
	}
}

// RequireAuth ensures the request carries a valid session and loads the
// principal with its resolved permission set into the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Authorization header first, session cookie as fallback
		token := extractBearerToken(r)
		if token == "" {
			token = m.sessionManager.GetSession(r)
		}
		if token == "" {
			WriteUnauthorized(w, "Authentication required")
			return
		}

		userID, err := m.tokenService.ValidateSessionToken(token)
		if err != nil {
			slog.Debug("Token validation failed", "error", err)
			metrics.AuthFailures.WithLabelValues("unauthorized").Inc()
			WriteUnauthorized(w, "Invalid or expired token")
			return
		}

		u, err := m.userRepo.FindByID(r.Context(), userID)
		if err != nil {
			slog.Error("Failed to load user for auth", "error", err, "userId", userID)
			WriteUnauthorized(w, "User not found")
			return
		}
		if u == nil || !u.IsActive {
			WriteUnauthorized(w, "User not found")
			return
		}

		// Resolve the role once; the resolver fails closed so an
		// unresolvable role yields an empty permission set.
		ref := role.RefByID(u.RoleID)
		resolved := m.resolver.Resolve(r.Context(), ref)
		roleName := ""
		if resolved != nil {
			roleName = resolved.Name
		}

		p := &Principal{
			ID:          u.ID,
			Name:        u.Name,
			Email:       u.Email,
			RoleName:    roleName,
			Role:        resolved,
			Permissions: m.resolver.ResolvePermissions(r.Context(), ref),
		}

		ctx := context.WithValue(r.Context(), ContextKeyPrincipal, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole ensures the principal holds one of the named global roles.
func (m *AuthMiddleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := GetPrincipal(r.Context())
			if p == nil {
				WriteUnauthorized(w, "Authentication required")
				return
			}

			for _, name := range roles {
				if p.HasRole(name) {
					next.ServeHTTP(w, r)
					return
				}
			}

			metrics.AuthFailures.WithLabelValues("forbidden").Inc()
			WriteForbidden(w, "Requires role: "+strings.Join(roles, " or "))
		})
	}
}

// RequirePermission ensures the principal's role grants the token. The 403
// body names the missing token and the caller's role, never the caller's
// full permission set.
func (m *AuthMiddleware) RequirePermission(token string) func(http.Handler) http.Handler {
	return m.RequireAnyPermission(token)
}

// RequireAnyPermission ensures the principal holds at least one of the
// tokens.
func (m *AuthMiddleware) RequireAnyPermission(tokens ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := GetPrincipal(r.Context())
			if p == nil {
				WriteUnauthorized(w, "Authentication required")
				return
			}

			for _, token := range tokens {
				if p.HasPermission(token) {
					next.ServeHTTP(w, r)
					return
				}
			}

			slog.Debug("Permission denied",
				"userId", p.ID,
				"role", p.RoleName,
				"required", tokens)
			metrics.AuthFailures.WithLabelValues("forbidden").Inc()
			WriteError(w, http.StatusForbidden, "forbidden",
				"Requires permission: "+strings.Join(tokens, " or ")+" (role: "+p.RoleName+")")
		})
	}
}

// GetPrincipal returns the authenticated principal from the context
func GetPrincipal(ctx context.Context) *Principal {
	p, _ := ctx.Value(ContextKeyPrincipal).(*Principal)
	return p
}

// getPrincipalID returns the authenticated principal's ID for execution
// contexts, or "" on unauthenticated routes.
func getPrincipalID(r *http.Request) string {
	if p := GetPrincipal(r.Context()); p != nil {
		return p.ID
	}
	return ""
}

// extractBearerToken extracts the token from the Authorization header
func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}

	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return parts[1]
}
