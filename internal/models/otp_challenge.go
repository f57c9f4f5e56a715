package models

import (
	"time"

	"github.com/google/uuid"
)

// OTPChallenge is one outstanding phone verification attempt. The code is
// never stored in the clear; only its bcrypt hash is persisted. A challenge
// is spent either by consumption (ConsumedAt set) or by expiry.
type OTPChallenge struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Phone      string    `gorm:"type:varchar(10);not null;index" json:"phone"`
	CodeHash   string    `gorm:"type:text;not null" json:"-"`
	ContextID  *string   `gorm:"type:text" json:"context_id,omitempty"`
	RequestIP  string    `gorm:"type:text;not null;default:''" json:"request_ip"`
	Attempts   int       `gorm:"not null;default:0" json:"attempts"`
	ExpiresAt  time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
}

// Active reports whether the challenge can still be redeemed at the given time.
func (c *OTPChallenge) Active(now time.Time) bool {
	return c.ConsumedAt == nil && now.Before(c.ExpiresAt)
}
