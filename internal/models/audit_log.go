package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog captures notable authentication and back-office events.
type AuditLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ActorID    *uuid.UUID     `gorm:"type:uuid;index" json:"actor_id,omitempty"`
	Action     string         `gorm:"type:text;not null" json:"action"`
	TargetType string         `gorm:"type:text;not null" json:"target_type"`
	TargetID   *string        `gorm:"type:text" json:"target_id,omitempty"`
	IP         string         `gorm:"type:text;not null;default:''" json:"ip"`
	Metadata   datatypes.JSON `gorm:"type:jsonb;default:'{}'::jsonb" json:"metadata"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`

	Actor *Profile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;foreignKey:ActorID;references:ID" json:"-"`
}
