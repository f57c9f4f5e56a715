// Package store is the GORM-backed persistence layer. It implements the
// narrow interfaces the auth service depends on and the catalog/application
// queries the handlers use.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lendgate/internal/auth"
	"lendgate/internal/models"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrDocumentNotFound    = errors.New("document not found")
)

// Store wraps a GORM handle.
type Store struct {
	orm *gorm.DB
}

// New builds a Store around the provided GORM handle.
func New(orm *gorm.DB) (*Store, error) {
	if orm == nil {
		return nil, errors.New("store: orm handle is required")
	}
	return &Store{orm: orm}, nil
}

var (
	_ auth.ProfileStore   = (*Store)(nil)
	_ auth.ChallengeStore = (*Store)(nil)
	_ auth.AuditStore     = (*Store)(nil)
)

// GetProfile loads a profile by id.
func (s *Store) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := s.orm.WithContext(ctx).First(&profile, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, auth.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfileByPhone loads a profile by its normalized 10-digit phone.
func (s *Store) GetProfileByPhone(ctx context.Context, phone string) (*models.Profile, error) {
	var profile models.Profile
	err := s.orm.WithContext(ctx).First(&profile, "phone = ?", phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, auth.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// CreateProfile inserts a new profile row.
func (s *Store) CreateProfile(ctx context.Context, profile *models.Profile) error {
	return s.orm.WithContext(ctx).Create(profile).Error
}

// MarkVerified stamps the phone verification time on a profile.
func (s *Store) MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.orm.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Update("verified_at", at).Error
}

// SetAdminCredentials promotes a profile to admin with the given password
// hash. Used by the promote CLI command.
func (s *Store) SetAdminCredentials(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result := s.orm.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"role":          models.RoleAdmin,
			"password_hash": passwordHash,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return auth.ErrProfileNotFound
	}
	return nil
}

// ReplaceChallenge deletes any unconsumed challenges for the phone and
// inserts the new one inside a single transaction, keeping at most one
// active challenge per phone.
func (s *Store) ReplaceChallenge(ctx context.Context, challenge *models.OTPChallenge) error {
	return s.orm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("phone = ? AND consumed_at IS NULL", challenge.Phone).
			Delete(&models.OTPChallenge{}).Error; err != nil {
			return err
		}
		return tx.Create(challenge).Error
	})
}

// LatestActiveChallenge returns the newest unconsumed, unexpired challenge
// for the phone.
func (s *Store) LatestActiveChallenge(ctx context.Context, phone string, now time.Time) (*models.OTPChallenge, error) {
	var challenge models.OTPChallenge
	err := s.orm.WithContext(ctx).
		Where("phone = ? AND consumed_at IS NULL AND expires_at > ?", phone, now).
		Order("created_at DESC").
		First(&challenge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, auth.ErrChallengeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

// RecordAttempt increments the wrong-code counter on a challenge.
func (s *Store) RecordAttempt(ctx context.Context, id uuid.UUID) error {
	return s.orm.WithContext(ctx).
		Model(&models.OTPChallenge{}).
		Where("id = ?", id).
		Update("attempts", gorm.Expr("attempts + 1")).Error
}

// ConsumeChallenge marks a challenge as spent. The consumed_at guard makes
// consumption single-winner under concurrent verifies.
func (s *Store) ConsumeChallenge(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := s.orm.WithContext(ctx).
		Model(&models.OTPChallenge{}).
		Where("id = ? AND consumed_at IS NULL", id).
		Update("consumed_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return auth.ErrChallengeNotFound
	}
	return nil
}

// DeleteExpiredChallenges removes challenges past their window. Run from the
// CLI; nothing in the request path depends on it.
func (s *Store) DeleteExpiredChallenges(ctx context.Context, now time.Time) (int64, error) {
	result := s.orm.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&models.OTPChallenge{})
	return result.RowsAffected, result.Error
}

// RecordAudit appends an audit entry.
func (s *Store) RecordAudit(ctx context.Context, entry *models.AuditLog) error {
	return s.orm.WithContext(ctx).Create(entry).Error
}
