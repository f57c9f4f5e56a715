package auth

import (
	"net/url"
	"strings"
)

// NextRouteParam carries the original path through the sign-in redirect so
// the user can be deep-linked back after authenticating.
const NextRouteParam = "next_route"

// DefaultProtectedPrefixes are the path areas that require a session.
// Everything outside these bypasses the gate entirely.
var DefaultProtectedPrefixes = []string{
	"/admin",
	"/agent",
	"/account",
	"/apply",
	"/dashboard",
	"/api/admin",
	"/api/agent",
	"/api/account",
}

// DefaultPublicPaths are always allowed through, even under a protected
// prefix, so the sign-in entry points themselves stay reachable.
var DefaultPublicPaths = []string{
	"/admin/sign-in",
	"/api/admin/login",
}

// Decision is the outcome of the route gate for a single request.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Gate is the per-request interceptor enforcing coarse access control by path
// prefix. It is pure with respect to its inputs: no database access, no
// cryptography. It relies only on the cheap existence check, delegating real
// verification to the handlers behind it.
type Gate struct {
	protected  []string
	public     []string
	signInPath string
}

// NewGate builds a gate with the fixed prefix sets and sign-in entry point.
func NewGate(signInPath string) *Gate {
	if signInPath == "" {
		signInPath = "/sign-in"
	}
	return &Gate{
		protected:  DefaultProtectedPrefixes,
		public:     DefaultPublicPaths,
		signInPath: signInPath,
	}
}

// Decide routes a request: public paths and unprotected areas pass
// unconditionally; protected paths pass when any non-empty cookie is present;
// otherwise the request is redirected to sign-in carrying the original path.
func (g *Gate) Decide(requestPath, cookieValue string) Decision {
	if matchesPrefix(g.public, requestPath) {
		return Decision{Allow: true}
	}
	if !matchesPrefix(g.protected, requestPath) {
		return Decision{Allow: true}
	}
	if HasSession(cookieValue) {
		return Decision{Allow: true}
	}
	target := g.signInPath + "?" + NextRouteParam + "=" + url.QueryEscape(requestPath)
	return Decision{RedirectTo: target}
}

// matchesPrefix reports whether path equals an entry or sits beneath it at a
// segment boundary, so "/admin" does not capture "/administrivia".
func matchesPrefix(prefixes []string, path string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
