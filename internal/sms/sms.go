// Package sms dispatches one-time codes to the external SMS gateway. Delivery
// itself is an external collaborator; this package only hands messages over
// the documented contract.
package sms

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sender hands an OTP to the delivery channel. Implementations must not log
// the code at error level or include it in returned errors.
type Sender interface {
	SendOTP(ctx context.Context, phone, code string, expiresAt time.Time) error
}

// Message is the wire payload published for the SMS gateway worker.
type Message struct {
	Phone     string    `json:"phone"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	SentAt    time.Time `json:"sent_at"`
}

// LogSender writes codes to the debug log instead of delivering them. Used in
// development when no message bus is configured.
type LogSender struct {
	Log zerolog.Logger
}

// SendOTP logs the code at debug level and succeeds unconditionally.
func (s LogSender) SendOTP(_ context.Context, phone, code string, expiresAt time.Time) error {
	s.Log.Debug().
		Str("phone", phone).
		Str("code", code).
		Time("expires_at", expiresAt).
		Msg("otp dispatch (log sender)")
	return nil
}
