// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/spryng/elevyn/internal/core"
	"github.com/spryng/elevyn/internal/middleware"
)

var (
	ErrMissingCode     = errors.New("missing authorization code")
	ErrMissingVerifier = errors.New("missing pkce verifier")
)

type AccessTokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*middleware.Claims, error)
}

// RevocationStore remembers signed-out sessions until their tokens expire.
type RevocationStore interface {
	RevokeSession(ctx context.Context, sessionID string, ttl time.Duration) error
	IsSessionRevoked(ctx context.Context, sessionID string) (bool, error)
}

type Service struct {
	verifier    AccessTokenVerifier
	provider    IdentityProvider
	revocations RevocationStore
	cookies     Cookies
	siteURL     string
	logger      *slog.Logger
}

type ServiceConfig struct {
	Verifier    AccessTokenVerifier
	Provider    IdentityProvider
	Revocations RevocationStore
	Cookies     Cookies
	SiteURL     string
	Logger      *slog.Logger
}

func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		verifier:    cfg.Verifier,
		provider:    cfg.Provider,
		revocations: cfg.Revocations,
		cookies:     cfg.Cookies,
		siteURL:     cfg.SiteURL,
		logger:      logger,
	}
}

func (s *Service) SessionConfig() middleware.SessionConfig {
	return middleware.SessionConfig{
		Verifier:   s,
		Refresher:  s,
		CookieName: s.cookies.AccessTokenName(),
	}
}

// VerifyAccessToken checks the token signature and claims, then rejects
// sessions that were signed out here. A revocation store outage is logged and
// the token is accepted.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.Claims, error) {
	claims, err := s.verifier.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if claims.SessionID == "" || s.revocations == nil {
		return claims, nil
	}

	revoked, err := s.revocations.IsSessionRevoked(ctx, claims.SessionID)
	if err != nil {
		s.logger.Warn("revocation check failed",
			"error", err,
			"session_id", claims.SessionID,
		)
		return claims, nil
	}
	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return claims, nil
}

// RefreshSession trades the refresh cookie for a new session and rewrites
// both session cookies.
func (s *Service) RefreshSession(
	w http.ResponseWriter,
	r *http.Request,
) (*middleware.Claims, error) {
	refreshToken := cookieValue(r, s.cookies.RefreshTokenName())
	if refreshToken == "" {
		return nil, core.UnauthorizedError("")
	}

	session, err := s.provider.RefreshSession(r.Context(), refreshToken)
	if err != nil {
		s.cookies.ClearSession(w)
		return nil, core.UnauthorizedError("session expired, sign in again")
	}

	claims, err := s.VerifyAccessToken(r.Context(), session.AccessToken)
	if err != nil {
		s.cookies.ClearSession(w)
		return nil, err
	}

	s.cookies.SetSession(w, session)
	return claims, nil
}

// StartSignIn sends a magic link whose callback returns to next. The PKCE
// verifier is kept in a short-lived cookie for the callback.
func (s *Service) StartSignIn(
	ctx context.Context,
	w http.ResponseWriter,
	email, next string,
) error {
	verifier := oauth2.GenerateVerifier()

	redirectTo := s.siteURL + "/auth/callback?next=" + url.QueryEscape(SafeNext(next))
	if err := s.provider.SendMagicLink(
		ctx,
		email,
		redirectTo,
		oauth2.S256ChallengeFromVerifier(verifier),
	); err != nil {
		return err
	}

	s.cookies.SetVerifier(w, verifier)
	return nil
}

// CompleteSignIn exchanges an authorization code for a session and stores
// it in cookies.
func (s *Service) CompleteSignIn(
	w http.ResponseWriter,
	r *http.Request,
	code string,
) error {
	if code == "" {
		return ErrMissingCode
	}

	verifier := cookieValue(r, s.cookies.VerifierName())
	if verifier == "" {
		return ErrMissingVerifier
	}

	session, err := s.provider.ExchangeCode(r.Context(), code, verifier)
	if err != nil {
		return err
	}
	if !session.IsComplete() {
		return fmt.Errorf("exchange code: %w: incomplete session", core.ErrProviderFailure)
	}

	s.cookies.ClearVerifier(w)
	s.cookies.SetSession(w, session)
	return nil
}

// SignOut ends the provider session, blocks its access token here until it
// expires, and clears the session cookies. Provider and store failures are
// logged; the cookies are cleared regardless.
func (s *Service) SignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := middleware.ExtractToken(r, s.cookies.AccessTokenName())

	if token != "" {
		if claims, err := s.verifier.VerifyAccessToken(ctx, token); err == nil {
			s.revoke(ctx, claims)
		}

		if err := s.provider.Logout(ctx, token); err != nil {
			s.logger.Warn("provider logout failed", "error", err)
		}
	}

	s.cookies.ClearSession(w)
	s.cookies.ClearVerifier(w)
}

func (s *Service) revoke(ctx context.Context, claims *middleware.Claims) {
	if s.revocations == nil || claims.SessionID == "" {
		return
	}

	ttl := time.Until(claims.ExpiresAt)
	if err := s.revocations.RevokeSession(ctx, claims.SessionID, ttl); err != nil {
		s.logger.Warn("session revocation failed",
			"error", err,
			"session_id", claims.SessionID,
		)
	}
}
