// AngelaMos | 2026
// cookies.go

package auth

import (
	"net/http"
	"time"

	"github.com/spryng/elevyn/internal/config"
)

const verifierCookieTTL = 10 * time.Minute

type Cookies struct {
	prefix string
	domain string
	secure bool
	maxAge time.Duration
}

func NewCookies(cfg config.AuthConfig) Cookies {
	return Cookies{
		prefix: cfg.CookiePrefix,
		domain: cfg.CookieDomain,
		secure: cfg.CookieSecure,
		maxAge: cfg.SessionMaxAge,
	}
}

func (c Cookies) AccessTokenName() string  { return c.prefix + "-access-token" }
func (c Cookies) RefreshTokenName() string { return c.prefix + "-refresh-token" }
func (c Cookies) VerifierName() string     { return c.prefix + "-code-verifier" }

func (c Cookies) SetSession(w http.ResponseWriter, s *Session) {
	c.set(w, c.AccessTokenName(), s.AccessToken, c.maxAge)
	c.set(w, c.RefreshTokenName(), s.RefreshToken, c.maxAge)
}

func (c Cookies) ClearSession(w http.ResponseWriter) {
	c.set(w, c.AccessTokenName(), "", -1)
	c.set(w, c.RefreshTokenName(), "", -1)
}

func (c Cookies) SetVerifier(w http.ResponseWriter, verifier string) {
	c.set(w, c.VerifierName(), verifier, verifierCookieTTL)
}

func (c Cookies) ClearVerifier(w http.ResponseWriter) {
	c.set(w, c.VerifierName(), "", -1)
}

func (c Cookies) set(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.domain,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge < 0 {
		cookie.MaxAge = -1
	} else {
		cookie.MaxAge = int(maxAge.Seconds())
	}
	http.SetCookie(w, cookie)
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
