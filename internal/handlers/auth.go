package handlers

import (
	"errors"
	"net"
	"net/http"
	"time"

	"lendgate/internal/auth"
	"lendgate/internal/metrics"
	"lendgate/internal/models"
)

type otpRequestBody struct {
	Phone     string  `json:"phone"`
	ContextID *string `json:"context_id,omitempty"`
}

type otpVerifyBody struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type adminLoginBody struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// handleOTPRequest issues a code for the phone. The response is identical
// whether or not a profile exists, so the endpoint cannot be used to
// enumerate customers.
func (a *API) handleOTPRequest(w http.ResponseWriter, r *http.Request) {
	var body otpRequestBody
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	expiresAt, err := a.svc.RequestOTP(r.Context(), body.Phone, body.ContextID, clientIP(r))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidPhone) {
			respondError(w, http.StatusBadRequest, codeBadRequest, "a 10-digit phone number is required")
			return
		}
		a.log.Error().Err(err).Msg("request otp")
		respondError(w, http.StatusInternalServerError, codeServerError, "could not send code")
		return
	}

	metrics.OTPRequested.Inc()
	respondJSON(w, http.StatusAccepted, map[string]any{
		"success":    true,
		"expires_at": expiresAt,
	})
}

// handleOTPVerify redeems a code and establishes the session cookie. Wrong,
// expired, and missing codes share one generic failure.
func (a *API) handleOTPVerify(w http.ResponseWriter, r *http.Request) {
	var body otpVerifyBody
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	profile, token, err := a.svc.VerifyOTP(r.Context(), body.Phone, body.Code, clientIP(r))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidPhone):
			respondError(w, http.StatusBadRequest, codeBadRequest, "a 10-digit phone number is required")
		case errors.Is(err, auth.ErrInvalidCode):
			respondError(w, http.StatusBadRequest, codeBadRequest, "code must be four digits")
		case errors.Is(err, auth.ErrOTPInvalid):
			metrics.OTPVerified.WithLabelValues("invalid").Inc()
			respondError(w, http.StatusUnauthorized, codeInvalidOTP, "code is incorrect or has expired")
		default:
			a.log.Error().Err(err).Msg("verify otp")
			respondError(w, http.StatusInternalServerError, codeServerError, "verification failed")
		}
		return
	}

	metrics.OTPVerified.WithLabelValues("ok").Inc()
	metrics.SessionsIssued.Inc()
	a.setAuthCookie(w, auth.SessionCookie, token, a.svc.SessionTTL())
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"profile": profileView(profile),
	})
}

// handleSession is the full session validation endpoint.
func (a *API) handleSession(w http.ResponseWriter, r *http.Request) {
	profile, claims, err := a.svc.Resolve(r.Context(), cookieValue(r, auth.SessionCookie))
	if err != nil {
		if errors.Is(err, auth.ErrUnauthenticated) {
			respondError(w, http.StatusUnauthorized, codeUnauthenticated, "sign in required")
			return
		}
		a.log.Error().Err(err).Msg("resolve session")
		respondError(w, http.StatusInternalServerError, codeServerError, "session validation failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"session": map[string]any{
			"subjectId": claims.SubjectID,
			"role":      profile.Role,
			"createdAt": a.svc.SessionIssuedAt(claims).UTC().Format(time.RFC3339),
		},
		"profile": profileView(profile),
	})
}

// handleLogout destroys both cookies regardless of their current validity.
func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	a.clearAuthCookie(w, auth.SessionCookie)
	a.clearAuthCookie(w, auth.AdminCookie)
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleAdminLogin is the password elevation path for the back office.
func (a *API) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var body adminLoginBody
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	profile, token, err := a.svc.AdminLogin(r.Context(), body.Phone, body.Password, clientIP(r))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, codeInvalidLogin, "invalid credentials")
			return
		}
		a.log.Error().Err(err).Msg("admin login")
		respondError(w, http.StatusInternalServerError, codeServerError, "login failed")
		return
	}

	a.setAuthCookie(w, auth.AdminCookie, token, a.svc.AdminTTL())
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"profile": profileView(profile),
	})
}

// profileView is the wire shape for a profile, with the display-form phone
// added for presentation.
func profileView(p *models.Profile) map[string]any {
	return map[string]any{
		"id":            p.ID,
		"phone":         p.Phone,
		"display_phone": auth.ToDisplayForm(p.Phone),
		"display_name":  p.DisplayName,
		"role":          p.Role,
		"verified_at":   p.VerifiedAt,
		"created_at":    p.CreatedAt,
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
