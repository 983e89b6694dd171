// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/spryng/elevyn/internal/config"
	"github.com/spryng/elevyn/internal/core"
	"github.com/spryng/elevyn/internal/middleware"
)

const (
	jwksMinRefresh = 10 * time.Minute
	jwksMaxRefresh = 24 * time.Hour
	clockSkew      = 30 * time.Second
)

// Verifier validates access tokens minted by the auth provider, either
// against the project's shared HS256 secret or against its published JWKS.
type Verifier struct {
	secret   []byte
	keys     jwk.Set
	issuer   string
	audience string
}

// NewVerifier builds a Verifier from cfg. In JWKS mode the key set is
// fetched once up front and then refreshed until ctx is done.
func NewVerifier(ctx context.Context, cfg config.SupabaseConfig) (*Verifier, error) {
	v := &Verifier{
		issuer:   cfg.AuthURL(),
		audience: cfg.JWTAudience,
	}

	if cfg.JWTSecret != "" {
		v.secret = []byte(cfg.JWTSecret)
		return v, nil
	}

	cache, err := jwk.NewCache(ctx, httprc.NewClient())
	if err != nil {
		return nil, fmt.Errorf("create jwks cache: %w", err)
	}
	if err := cache.Register(
		ctx,
		cfg.JWKSURL,
		jwk.WithMinInterval(jwksMinRefresh),
		jwk.WithMaxInterval(jwksMaxRefresh),
	); err != nil {
		return nil, fmt.Errorf("load jwks: %w", err)
	}

	v.keys, err = cache.CachedSet(cfg.JWKSURL)
	if err != nil {
		return nil, fmt.Errorf("load jwks: %w", err)
	}

	return v, nil
}

// Mode reports which key material tokens are checked against.
func (v *Verifier) Mode() string {
	if v.secret != nil {
		return "HS256"
	}
	return "JWKS"
}

func (v *Verifier) VerifyAccessToken(
	_ context.Context,
	tokenString string,
) (*middleware.Claims, error) {
	keyOpt := v.keyOption()

	token, err := jwt.Parse(
		[]byte(tokenString),
		keyOpt,
		jwt.WithValidate(true),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithAcceptableSkew(clockSkew),
	)
	if err != nil {
		if v.isTokenExpired(tokenString, keyOpt) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	var role string
	if err := token.Get("role", &role); err != nil {
		return nil, fmt.Errorf(
			"verify token: missing role claim: %w",
			core.ErrTokenInvalid,
		)
	}

	claims := &middleware.Claims{
		UserID: subject,
		Role:   role,
	}

	//nolint:errcheck // optional claims
	_ = token.Get("email", &claims.Email)
	//nolint:errcheck // optional claims
	_ = token.Get("session_id", &claims.SessionID)

	if exp, ok := token.Expiration(); ok {
		claims.ExpiresAt = exp
	}

	return claims, nil
}

// keyOption picks the key material. The JWKS set is backed by a cache that
// refreshes in the background, so lookups never block on the network.
func (v *Verifier) keyOption() jwt.ParseOption {
	if v.secret != nil {
		return jwt.WithKey(jwa.HS256(), v.secret)
	}
	return jwt.WithKeySet(v.keys)
}

// isTokenExpired re-parses a rejected token with claim validation off. The
// signature is still checked, so only a genuine token can report expiry.
func (v *Verifier) isTokenExpired(tokenString string, keyOpt jwt.ParseOption) bool {
	token, err := jwt.Parse(
		[]byte(tokenString),
		keyOpt,
		jwt.WithValidate(false),
	)
	if err != nil {
		return false
	}

	exp, ok := token.Expiration()
	return ok && time.Now().After(exp.Add(clockSkew))
}
