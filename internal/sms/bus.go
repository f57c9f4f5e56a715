package sms

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
)

// BusSender publishes OTP messages to a JetStream subject consumed by the
// SMS gateway worker.
type BusSender struct {
	conn    *nats.Conn
	js      nats.JetStreamContext
	subject string
}

// NewBusSender connects to NATS and prepares a JetStream publisher on the
// given subject.
func NewBusSender(url, subject string, opts ...nats.Option) (*BusSender, error) {
	if subject == "" {
		return nil, errors.New("sms: subject is required")
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, err
	}

	return &BusSender{conn: nc, js: js, subject: subject}, nil
}

// Close drains the underlying NATS connection.
func (s *BusSender) Close() {
	if s == nil {
		return
	}
	if err := s.conn.Drain(); err != nil {
		s.conn.Close()
	}
}

// SendOTP encodes the message as JSON and publishes it.
func (s *BusSender) SendOTP(ctx context.Context, phone, code string, expiresAt time.Time) error {
	if s == nil {
		return errors.New("sms: nil sender")
	}

	data, err := json.Marshal(Message{
		Phone:     phone,
		Code:      code,
		ExpiresAt: expiresAt,
		SentAt:    time.Now(),
	})
	if err != nil {
		return err
	}

	_, err = s.js.Publish(s.subject, data, nats.Context(ctx))
	return err
}
