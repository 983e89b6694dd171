// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/spryng/elevyn/internal/core"
)

// Claims is the caller identity carried by a verified session token.
type Claims struct {
	UserID    string
	Role      string
	Email     string
	SessionID string
	ExpiresAt time.Time
}

type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*Claims, error)
}

// SessionRefresher renews an expired session from its refresh cookie and
// writes the replacement cookies to w.
type SessionRefresher interface {
	RefreshSession(w http.ResponseWriter, r *http.Request) (*Claims, error)
}

type SessionConfig struct {
	Verifier   TokenVerifier
	Refresher  SessionRefresher
	CookieName string
}

// Authenticator rejects requests without a valid session with a 401
// UNAUTHENTICATED envelope.
func Authenticator(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cfg.authenticate(w, r)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuth attaches the caller identity when a valid session is present
// and otherwise passes the request through untouched.
func OptionalAuth(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, err := cfg.authenticate(w, r); err == nil {
				r = r.WithContext(WithClaims(r.Context(), claims))
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (c SessionConfig) authenticate(
	w http.ResponseWriter,
	r *http.Request,
) (*Claims, error) {
	token := ExtractToken(r, c.CookieName)

	if token == "" {
		if c.Refresher != nil && c.CookieName != "" {
			return c.Refresher.RefreshSession(w, r)
		}
		return nil, core.UnauthorizedError("")
	}

	claims, err := c.Verifier.VerifyAccessToken(r.Context(), token)
	if err == nil {
		return claims, nil
	}

	if errors.Is(err, core.ErrTokenExpired) && c.Refresher != nil {
		return c.Refresher.RefreshSession(w, r)
	}

	return nil, err
}

func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole := GetUserRole(r.Context())

			if userRole == "" {
				core.JSONError(w, core.UnauthorizedError(""))
				return
			}

			if _, ok := roleSet[userRole]; !ok {
				core.JSONError(
					w,
					core.ForbiddenError("insufficient permissions"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ExtractToken prefers an Authorization bearer token and falls back to the
// session cookie named cookieName.
func ExtractToken(r *http.Request, cookieName string) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookieName == "" {
		return ""
	}
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenRevoked):
		core.JSONError(w, core.TokenRevokedError())
	case errors.Is(err, core.ErrTokenInvalid):
		core.JSONError(w, core.TokenInvalidError())
	default:
		core.JSONError(w, core.UnauthorizedError(""))
	}
}

func WithClaims(ctx context.Context, claims *Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, UserRoleKey, claims.Role)
	return context.WithValue(ctx, ClaimsKey, claims)
}

func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

func GetUserRole(ctx context.Context) string {
	if role, ok := ctx.Value(UserRoleKey).(string); ok {
		return role
	}
	return ""
}

func GetClaims(ctx context.Context) *Claims {
	if claims, ok := ctx.Value(ClaimsKey).(*Claims); ok {
		return claims
	}
	return nil
}

func IsAuthenticated(ctx context.Context) bool {
	return GetUserID(ctx) != ""
}
