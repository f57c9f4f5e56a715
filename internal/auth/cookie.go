package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Cookie names carried by the browser. SessionCookie proves a phone sign-in;
// AdminCookie is the separately-signed elevation for back-office access.
const (
	SessionCookie = "auth_session"
	AdminCookie   = "admin_profile"
)

// DefaultSessionTTL is the cookie lifetime applied when none is configured.
const DefaultSessionTTL = 24 * time.Hour

const tokenFields = 3

// Claims is the verified content of a session token.
type Claims struct {
	SubjectID string
	ExpiresAt time.Time
}

// Codec signs and verifies session tokens of the form
// {subjectId}|{expiresAtEpochMs}|{hexHmacSha256}. The signature covers the
// first two fields keyed by a server-held secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec builds a Codec. A missing secret is a deployment misconfiguration
// and is reported as a hard error rather than folded into "unauthenticated".
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Sign issues a token for the subject expiring TTL from now.
func (c *Codec) Sign(subjectID string) (string, error) {
	if subjectID == "" {
		return "", errors.New("auth: subject id is required")
	}
	if strings.Contains(subjectID, "|") {
		return "", errors.New("auth: subject id must not contain the field separator")
	}
	expiresAt := c.now().Add(c.ttl).UnixMilli()
	payload := subjectID + "|" + strconv.FormatInt(expiresAt, 10)
	return payload + "|" + c.signature(payload), nil
}

// Verify recomputes the HMAC over the embedded payload, compares it in
// constant time, and checks the expiry. Malformed input, a signature
// mismatch, and an elapsed expiry are all the expected ok=false outcome,
// never an error.
func (c *Codec) Verify(token string) (Claims, bool) {
	parts := strings.Split(token, "|")
	if len(parts) != tokenFields {
		return Claims{}, false
	}
	subjectID, expField, signature := parts[0], parts[1], parts[2]
	if subjectID == "" {
		return Claims{}, false
	}
	expiresAtMs, err := strconv.ParseInt(expField, 10, 64)
	if err != nil {
		return Claims{}, false
	}
	want := c.signature(subjectID + "|" + expField)
	if !hmac.Equal([]byte(signature), []byte(want)) {
		return Claims{}, false
	}
	expiresAt := time.UnixMilli(expiresAtMs)
	if c.now().After(expiresAt) {
		return Claims{}, false
	}
	return Claims{SubjectID: subjectID, ExpiresAt: expiresAt}, true
}

// IssuedAt derives the creation time of verified claims from the configured
// TTL; the token itself carries only the subject and expiry.
func (c *Codec) IssuedAt(claims Claims) time.Time {
	return claims.ExpiresAt.Add(-c.ttl)
}

func (c *Codec) signature(payload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
