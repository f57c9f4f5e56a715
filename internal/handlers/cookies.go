package handlers

import (
	"net/http"
	"time"
)

// setAuthCookie writes a session or admin cookie. HttpOnly and SameSite=Lax
// always; Secure tracks deployment config.
func (a *API) setAuthCookie(w http.ResponseWriter, name, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		Domain:   a.opts.CookieDomain,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.opts.CookieSecure,
	})
}

// clearAuthCookie destroys a cookie by overwriting it with an empty value and
// an immediate Max-Age=0 expiry.
func (a *API) clearAuthCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   a.opts.CookieDomain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.opts.CookieSecure,
	})
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
