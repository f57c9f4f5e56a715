package db

import (
	"context"

	"gorm.io/gorm"

	"lendgate/internal/models"
)

// Migrate performs schema migrations for the persistent models.
func Migrate(ctx context.Context, database *gorm.DB) error {
	return database.WithContext(ctx).AutoMigrate(
		&models.Profile{},
		&models.OTPChallenge{},
		&models.LoanProduct{},
		&models.LoanApplication{},
		&models.KYCDocument{},
		&models.AuditLog{},
	)
}
