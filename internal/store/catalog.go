package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lendgate/internal/models"
)

// ListProducts returns catalog entries, optionally restricted to active ones.
func (s *Store) ListProducts(ctx context.Context, activeOnly bool) ([]models.LoanProduct, error) {
	q := s.orm.WithContext(ctx).Order("code")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var products []models.LoanProduct
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetProductByCode loads a single catalog entry.
func (s *Store) GetProductByCode(ctx context.Context, code string) (*models.LoanProduct, error) {
	var product models.LoanProduct
	err := s.orm.WithContext(ctx).First(&product, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a catalog entry.
func (s *Store) CreateProduct(ctx context.Context, product *models.LoanProduct) error {
	return s.orm.WithContext(ctx).Create(product).Error
}

// UpdateProduct saves changes to a catalog entry.
func (s *Store) UpdateProduct(ctx context.Context, product *models.LoanProduct) error {
	return s.orm.WithContext(ctx).Save(product).Error
}

// CreateApplication inserts a loan application.
func (s *Store) CreateApplication(ctx context.Context, app *models.LoanApplication) error {
	return s.orm.WithContext(ctx).Create(app).Error
}

// ListApplications returns a profile's applications, newest first, with the
// product and documents preloaded.
func (s *Store) ListApplications(ctx context.Context, profileID uuid.UUID) ([]models.LoanApplication, error) {
	var apps []models.LoanApplication
	err := s.orm.WithContext(ctx).
		Preload("Product").
		Preload("Documents").
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

// GetApplication loads one application scoped to its owning profile.
func (s *Store) GetApplication(ctx context.Context, id, profileID uuid.UUID) (*models.LoanApplication, error) {
	var app models.LoanApplication
	err := s.orm.WithContext(ctx).
		Preload("Product").
		Preload("Documents").
		First(&app, "id = ? AND profile_id = ?", id, profileID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ListAllApplications returns every application for the back office.
func (s *Store) ListAllApplications(ctx context.Context) ([]models.LoanApplication, error) {
	var apps []models.LoanApplication
	err := s.orm.WithContext(ctx).
		Preload("Product").
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

// UpdateApplicationStatus moves an application through the review funnel.
func (s *Store) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) error {
	result := s.orm.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

// CreateDocument records an uploaded KYC document.
func (s *Store) CreateDocument(ctx context.Context, doc *models.KYCDocument) error {
	return s.orm.WithContext(ctx).Create(doc).Error
}

// GetDocument loads a document scoped to its application.
func (s *Store) GetDocument(ctx context.Context, id, applicationID uuid.UUID) (*models.KYCDocument, error) {
	var doc models.KYCDocument
	err := s.orm.WithContext(ctx).
		First(&doc, "id = ? AND application_id = ?", id, applicationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
