package models

import "time"

// ProductCategory distinguishes loan products from insurance products.
type ProductCategory string

const (
	CategoryLoan      ProductCategory = "loan"
	CategoryInsurance ProductCategory = "insurance"
)

// LoanProduct is a catalog entry offered on the origination site. Amounts are
// stored in paise to avoid floating point; RateBPS is the annual rate in
// basis points.
type LoanProduct struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Code          string          `gorm:"type:text;uniqueIndex;not null" json:"code"`
	Name          string          `gorm:"type:text;not null" json:"name"`
	Category      ProductCategory `gorm:"type:text;not null;default:'loan'" json:"category"`
	MinAmount     int64           `gorm:"not null" json:"min_amount"`
	MaxAmount     int64           `gorm:"not null" json:"max_amount"`
	RateBPS       int             `gorm:"not null" json:"rate_bps"`
	MaxTermMonths int             `gorm:"not null" json:"max_term_months"`
	Active        bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
