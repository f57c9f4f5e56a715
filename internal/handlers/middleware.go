package handlers

import (
	"context"
	"errors"
	"net/http"

	"lendgate/internal/auth"
	"lendgate/internal/metrics"
	"lendgate/internal/models"
)

type contextKey string

const profileKey contextKey = "profile"

func withProfile(ctx context.Context, profile *models.Profile) context.Context {
	return context.WithValue(ctx, profileKey, profile)
}

// profileFrom returns the authenticated profile placed in the context by
// requireSession or requireAdmin.
func profileFrom(ctx context.Context) *models.Profile {
	profile, _ := ctx.Value(profileKey).(*models.Profile)
	return profile
}

// gateMiddleware runs the route gate on every request. It performs only the
// cheap existence check; handlers behind it do their own full validation.
func (a *API) gateMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := a.gate.Decide(r.URL.Path, cookieValue(r, auth.SessionCookie))
		if decision.Allow {
			next.ServeHTTP(w, r)
			return
		}
		metrics.GateRedirects.Inc()
		http.Redirect(w, r, decision.RedirectTo, http.StatusTemporaryRedirect)
	})
}

// requireSession performs the full session validation and injects the
// profile into the request context. Store failures surface as 500, never as
// a sign-in prompt.
func (a *API) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile, _, err := a.svc.Resolve(r.Context(), cookieValue(r, auth.SessionCookie))
		if err != nil {
			if errors.Is(err, auth.ErrUnauthenticated) {
				respondError(w, http.StatusUnauthorized, codeUnauthenticated, "sign in required")
				return
			}
			a.log.Error().Err(err).Msg("resolve session")
			respondError(w, http.StatusInternalServerError, codeServerError, "session validation failed")
			return
		}
		next.ServeHTTP(w, r.WithContext(withProfile(r.Context(), profile)))
	})
}

// requireAdmin validates the separately-signed admin cookie and the admin
// role re-read from the store.
func (a *API) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile, _, err := a.svc.ResolveAdmin(r.Context(), cookieValue(r, auth.AdminCookie))
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrUnauthenticated):
				respondError(w, http.StatusUnauthorized, codeUnauthenticated, "admin sign in required")
			case errors.Is(err, auth.ErrForbidden):
				respondError(w, http.StatusForbidden, codeForbidden, "admin role required")
			default:
				a.log.Error().Err(err).Msg("resolve admin session")
				respondError(w, http.StatusInternalServerError, codeServerError, "session validation failed")
			}
			return
		}
		next.ServeHTTP(w, r.WithContext(withProfile(r.Context(), profile)))
	})
}
