package db

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lendgate/internal/models"
)

//go:embed products.yaml
var productCatalog []byte

type seedProduct struct {
	Code          string `yaml:"code"`
	Name          string `yaml:"name"`
	Category      string `yaml:"category"`
	MinAmount     int64  `yaml:"min_amount"`
	MaxAmount     int64  `yaml:"max_amount"`
	RateBPS       int    `yaml:"rate_bps"`
	MaxTermMonths int    `yaml:"max_term_months"`
}

type seedCatalog struct {
	Products []seedProduct `yaml:"products"`
}

// Seed inserts the baseline product catalog. Existing rows are left alone so
// back-office edits survive redeploys.
func Seed(ctx context.Context, database *gorm.DB) error {
	var catalog seedCatalog
	if err := yaml.Unmarshal(productCatalog, &catalog); err != nil {
		return fmt.Errorf("parse product catalog: %w", err)
	}

	for _, p := range catalog.Products {
		product := models.LoanProduct{
			Code:          p.Code,
			Name:          p.Name,
			Category:      models.ProductCategory(p.Category),
			MinAmount:     p.MinAmount,
			MaxAmount:     p.MaxAmount,
			RateBPS:       p.RateBPS,
			MaxTermMonths: p.MaxTermMonths,
			Active:        true,
		}
		if err := database.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&product).Error; err != nil {
			return err
		}
	}
	return nil
}
