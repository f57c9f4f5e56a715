package auth

import (
	"strings"
	"testing"
	"time"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	codec, err := NewCodec("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}
	return codec
}

func TestNewCodecRequiresSecret(t *testing.T) {
	if _, err := NewCodec("", time.Hour); err == nil {
		t.Fatal("NewCodec(\"\") error = nil, want error")
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	subjects := []string{"profile-1", "b7f9c2e4", "550e8400-e29b-41d4-a716-446655440000"}
	for _, subject := range subjects {
		token, err := codec.Sign(subject)
		if err != nil {
			t.Fatalf("Sign(%q) error = %v", subject, err)
		}
		claims, ok := codec.Verify(token)
		if !ok {
			t.Fatalf("Verify(Sign(%q)) = invalid, want valid", subject)
		}
		if claims.SubjectID != subject {
			t.Fatalf("Verify() subject = %q, want %q", claims.SubjectID, subject)
		}
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Sign("profile-1")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	sigStart := strings.LastIndex(token, "|") + 1
	for i := sigStart; i < len(token); i++ {
		mutated := []byte(token)
		if mutated[i] == 'a' {
			mutated[i] = 'b'
		} else {
			mutated[i] = 'a'
		}
		if _, ok := codec.Verify(string(mutated)); ok {
			t.Fatalf("Verify() accepted token with signature byte %d mutated", i)
		}
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Sign("profile-1")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	// Correct signature, but the clock has moved past the embedded expiry.
	codec.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, ok := codec.Verify(token); ok {
		t.Fatal("Verify() accepted expired token")
	}
}

func TestVerifyMalformed(t *testing.T) {
	codec := newTestCodec(t)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"no separators", "justonestring"},
		{"two fields", "subject|1700000000000"},
		{"four fields", "subject|1700000000000|deadbeef|extra"},
		{"non-numeric expiry", "subject|notanumber|deadbeef"},
		{"empty subject", "|1700000000000|deadbeef"},
		{"signature from other secret", func() string {
			other, _ := NewCodec("other-secret", time.Hour)
			token, _ := other.Sign("subject")
			return token
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := codec.Verify(tt.token); ok {
				t.Fatalf("Verify(%q) = valid, want invalid", tt.token)
			}
		})
	}
}

func TestIssuedAt(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Sign("profile-1")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	claims, ok := codec.Verify(token)
	if !ok {
		t.Fatal("Verify() = invalid, want valid")
	}

	issued := codec.IssuedAt(claims)
	if got := claims.ExpiresAt.Sub(issued); got != time.Hour {
		t.Fatalf("IssuedAt() offset = %v, want %v", got, time.Hour)
	}
}
