package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role describes the access level attached to a profile.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Profile is the authenticated subject of the origination site. Phone is
// always stored in the bare 10-digit local form; country-code formatting is
// applied only at presentation boundaries.
type Profile struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Phone        string         `gorm:"type:varchar(10);uniqueIndex;not null" json:"phone"`
	DisplayName  string         `gorm:"type:text;not null;default:''" json:"display_name"`
	Email        string         `gorm:"type:text;not null;default:''" json:"email,omitempty"`
	Role         Role           `gorm:"type:text;not null;default:'user'" json:"role"`
	PasswordHash string         `gorm:"type:text;not null;default:''" json:"-"`
	VerifiedAt   *time.Time     `json:"verified_at,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Applications []LoanApplication `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProfileID" json:"-"`
	AuditLogs    []AuditLog        `gorm:"foreignKey:ActorID" json:"-"`
}

// IsAdmin reports whether the profile carries the admin role.
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}
