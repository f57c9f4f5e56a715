package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"lendgate/internal/models"
)

// Store lookup misses. Anything else returned by a store is a server-side
// failure and must not be collapsed into "unauthenticated".
var (
	ErrProfileNotFound   = errors.New("profile not found")
	ErrChallengeNotFound = errors.New("challenge not found")
)

// ProfileStore is the slice of the relational store the auth flow touches.
// The profile itself is owned by the wider application; sign-in only reads it
// and stamps verification as a side effect.
type ProfileStore interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetProfileByPhone(ctx context.Context, phone string) (*models.Profile, error)
	CreateProfile(ctx context.Context, profile *models.Profile) error
	MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) error
}

// ChallengeStore persists outstanding OTP challenges. ReplaceChallenge must
// atomically remove any unconsumed challenges for the same phone before
// inserting, which is how "at most one active challenge per phone" is
// enforced.
type ChallengeStore interface {
	ReplaceChallenge(ctx context.Context, challenge *models.OTPChallenge) error
	LatestActiveChallenge(ctx context.Context, phone string, now time.Time) (*models.OTPChallenge, error)
	RecordAttempt(ctx context.Context, id uuid.UUID) error
	ConsumeChallenge(ctx context.Context, id uuid.UUID, at time.Time) error
}

// AuditStore records sign-in activity. Recording is best-effort: a failed
// audit write never fails the authentication it describes.
type AuditStore interface {
	RecordAudit(ctx context.Context, entry *models.AuditLog) error
}
