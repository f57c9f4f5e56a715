package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ApplicationStatus tracks a loan application through the origination funnel.
type ApplicationStatus string

const (
	StatusSubmitted ApplicationStatus = "submitted"
	StatusInReview  ApplicationStatus = "in_review"
	StatusApproved  ApplicationStatus = "approved"
	StatusRejected  ApplicationStatus = "rejected"
)

// LoanApplication is a customer's application against a catalog product.
// Details carries the free-form form payload the product flow collects.
type LoanApplication struct {
	ID         uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProfileID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"profile_id"`
	ProductID  uint              `gorm:"not null;index" json:"product_id"`
	Amount     int64             `gorm:"not null" json:"amount"`
	TermMonths int               `gorm:"not null" json:"term_months"`
	Status     ApplicationStatus `gorm:"type:text;not null;default:'submitted'" json:"status"`
	Details    datatypes.JSON    `gorm:"type:jsonb;default:'{}'::jsonb" json:"details"`
	CreatedAt  time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	Profile   Profile       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProfileID;references:ID" json:"-"`
	Product   LoanProduct   `gorm:"foreignKey:ProductID;references:ID" json:"product,omitempty"`
	Documents []KYCDocument `gorm:"constraint:OnDelete:CASCADE;foreignKey:ApplicationID" json:"documents,omitempty"`
}
