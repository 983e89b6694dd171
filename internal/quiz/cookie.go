// AngelaMos | 2026
// cookie.go

package quiz

import (
	"net/http"
	"time"

	"github.com/spryng/elevyn/internal/config"
)

const ClaimCookieName = "quiz_claim"

// ClaimCookie marks a browser that took the quiz before signing up. The
// value is the raw claim token; only its hash is stored.
type ClaimCookie struct {
	domain string
	secure bool
	ttl    time.Duration
}

func NewClaimCookie(cfg config.AuthConfig) ClaimCookie {
	return ClaimCookie{
		domain: cfg.CookieDomain,
		secure: cfg.CookieSecure,
		ttl:    cfg.ClaimCookieTTL,
	}
}

func (c ClaimCookie) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, c.cookie(token, int(c.ttl.Seconds())))
}

func (c ClaimCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie("", -1))
}

// Token returns the pending claim token, or "" when there is none.
func (c ClaimCookie) Token(r *http.Request) string {
	cookie, err := r.Cookie(ClaimCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (c ClaimCookie) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     ClaimCookieName,
		Value:    value,
		Path:     "/",
		Domain:   c.domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
