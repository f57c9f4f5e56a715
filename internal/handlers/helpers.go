package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Machine-readable error codes returned alongside HTTP statuses.
const (
	codeBadRequest      = "bad_request"
	codeUnauthenticated = "unauthenticated"
	codeInvalidOTP      = "otp_invalid"
	codeInvalidLogin    = "invalid_credentials"
	codeForbidden       = "forbidden"
	codeNotFound        = "not_found"
	codeServerError     = "server_error"
	codeUnavailable     = "unavailable"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]any{
		"success": false,
		"code":    code,
		"error":   message,
	})
}

func decodeJSON(r *http.Request, dest any) error {
	if r.Body == nil {
		return errors.New("request body required")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}
