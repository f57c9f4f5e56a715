package models

import (
	"time"

	"github.com/google/uuid"
)

// KYCDocument records an object uploaded to the document bucket for a loan
// application. The bytes themselves live in object storage; only the key and
// integrity metadata are kept here.
type KYCDocument struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;index" json:"application_id"`
	FileName      string    `gorm:"type:text;not null" json:"file_name"`
	ObjectKey     string    `gorm:"type:text;uniqueIndex;not null" json:"object_key"`
	ContentType   string    `gorm:"type:text;not null;default:''" json:"content_type"`
	SHA256        string    `gorm:"type:text;not null;default:''" json:"sha256"`
	Size          int64     `gorm:"not null;default:0" json:"size"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`

	Application LoanApplication `gorm:"constraint:OnDelete:CASCADE;foreignKey:ApplicationID;references:ID" json:"-"`
}
