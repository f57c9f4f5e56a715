package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"lendgate/internal/models"
	"lendgate/internal/sms"
)

// Expected, user-facing outcomes of the auth flows. These are recovered into
// HTTP status codes at the handler layer and never logged as errors.
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrInvalidCode        = errors.New("invalid code format")
	ErrOTPInvalid         = errors.New("otp invalid")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// maxOTPAttempts caps wrong-code submissions against a single challenge
// before it is burned.
const maxOTPAttempts = 5

// Config holds the secrets and lifetimes the service signs with.
type Config struct {
	SessionSecret string
	AdminSecret   string
	SessionTTL    time.Duration
	AdminTTL      time.Duration
}

// Service implements the sign-in flows: OTP issuance and verification, full
// session validation, and the password-based admin elevation path.
type Service struct {
	sessions   *Codec
	admin      *Codec
	profiles   ProfileStore
	challenges ChallengeStore
	audit      AuditStore
	sender     sms.Sender
	log        zerolog.Logger
	now        func() time.Time
}

// NewService wires the service. Both signing secrets are required; a missing
// secret fails construction so a misconfigured deployment dies at startup.
func NewService(cfg Config, profiles ProfileStore, challenges ChallengeStore, audit AuditStore, sender sms.Sender, log zerolog.Logger) (*Service, error) {
	if profiles == nil || challenges == nil {
		return nil, errors.New("auth: profile and challenge stores are required")
	}
	if sender == nil {
		return nil, errors.New("auth: sms sender is required")
	}

	sessions, err := NewCodec(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("session codec: %w", err)
	}
	admin, err := NewCodec(cfg.AdminSecret, cfg.AdminTTL)
	if err != nil {
		return nil, fmt.Errorf("admin codec: %w", err)
	}

	return &Service{
		sessions:   sessions,
		admin:      admin,
		profiles:   profiles,
		challenges: challenges,
		audit:      audit,
		sender:     sender,
		log:        log,
		now:        time.Now,
	}, nil
}

// SessionTTL returns the lifetime applied to session cookies.
func (s *Service) SessionTTL() time.Duration { return s.sessions.TTL() }

// AdminTTL returns the lifetime applied to admin cookies.
func (s *Service) AdminTTL() time.Duration { return s.admin.TTL() }

// RequestOTP issues a one-time code for the phone, replacing any outstanding
// challenge, and hands the code to the SMS channel. It never reveals whether
// a profile exists for the phone: the flow is identical either way.
func (s *Service) RequestOTP(ctx context.Context, rawPhone string, contextID *string, ip string) (time.Time, error) {
	phone, ok := ToStorageForm(rawPhone)
	if !ok {
		return time.Time{}, ErrInvalidPhone
	}

	code, err := GenerateCode()
	if err != nil {
		return time.Time{}, fmt.Errorf("generate code: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return time.Time{}, fmt.Errorf("hash code: %w", err)
	}

	expiresAt := s.now().Add(CodeTTL)
	challenge := &models.OTPChallenge{
		ID:        uuid.New(),
		Phone:     phone,
		CodeHash:  string(hash),
		ContextID: contextID,
		RequestIP: ip,
		ExpiresAt: expiresAt,
	}
	if err := s.challenges.ReplaceChallenge(ctx, challenge); err != nil {
		return time.Time{}, fmt.Errorf("store challenge: %w", err)
	}

	if err := s.sender.SendOTP(ctx, phone, code, expiresAt); err != nil {
		return time.Time{}, fmt.Errorf("dispatch otp: %w", err)
	}

	s.recordAudit(ctx, nil, "otp.requested", "phone", &phone, ip)
	return expiresAt, nil
}

// VerifyOTP checks a submitted code against the outstanding challenge for the
// phone. Wrong code, expired code, and no challenge at all collapse into the
// same ErrOTPInvalid so the response leaks nothing about which case occurred.
// On success the challenge is consumed, the profile is created on first
// sign-in, and a signed session token is returned.
func (s *Service) VerifyOTP(ctx context.Context, rawPhone, code, ip string) (*models.Profile, string, error) {
	phone, ok := ToStorageForm(rawPhone)
	if !ok {
		return nil, "", ErrInvalidPhone
	}
	if !ValidCodeFormat(code) {
		return nil, "", ErrInvalidCode
	}

	now := s.now()
	challenge, err := s.challenges.LatestActiveChallenge(ctx, phone, now)
	if err != nil {
		if errors.Is(err, ErrChallengeNotFound) {
			return nil, "", ErrOTPInvalid
		}
		return nil, "", fmt.Errorf("load challenge: %w", err)
	}
	if challenge.Attempts >= maxOTPAttempts {
		return nil, "", ErrOTPInvalid
	}

	if bcrypt.CompareHashAndPassword([]byte(challenge.CodeHash), []byte(code)) != nil {
		if err := s.challenges.RecordAttempt(ctx, challenge.ID); err != nil {
			s.log.Error().Err(err).Msg("record otp attempt")
		}
		return nil, "", ErrOTPInvalid
	}

	if err := s.challenges.ConsumeChallenge(ctx, challenge.ID, now); err != nil {
		if errors.Is(err, ErrChallengeNotFound) {
			// Lost the race against a concurrent verify for the same code.
			return nil, "", ErrOTPInvalid
		}
		return nil, "", fmt.Errorf("consume challenge: %w", err)
	}

	profile, err := s.ensureProfile(ctx, phone, now)
	if err != nil {
		return nil, "", err
	}

	token, err := s.sessions.Sign(profile.ID.String())
	if err != nil {
		return nil, "", fmt.Errorf("sign session: %w", err)
	}

	s.recordAudit(ctx, &profile.ID, "session.created", "profile", nil, ip)
	return profile, token, nil
}

// Resolve performs the full session validation: codec verification followed
// by a profile load. The role is always re-read from the store so promotions
// and demotions take effect immediately. Store unavailability is a distinct
// server error, never folded into ErrUnauthenticated.
func (s *Service) Resolve(ctx context.Context, cookieValue string) (*models.Profile, Claims, error) {
	return s.resolveWith(ctx, s.sessions, cookieValue)
}

// ResolveAdmin validates the separately-signed admin cookie and additionally
// requires the admin role on the freshly loaded profile.
func (s *Service) ResolveAdmin(ctx context.Context, cookieValue string) (*models.Profile, Claims, error) {
	profile, claims, err := s.resolveWith(ctx, s.admin, cookieValue)
	if err != nil {
		return nil, Claims{}, err
	}
	if !profile.IsAdmin() {
		return nil, Claims{}, ErrForbidden
	}
	return profile, claims, nil
}

// SessionIssuedAt derives the creation time of verified session claims.
func (s *Service) SessionIssuedAt(claims Claims) time.Time {
	return s.sessions.IssuedAt(claims)
}

func (s *Service) resolveWith(ctx context.Context, codec *Codec, cookieValue string) (*models.Profile, Claims, error) {
	if cookieValue == "" {
		return nil, Claims{}, ErrUnauthenticated
	}
	claims, ok := codec.Verify(cookieValue)
	if !ok {
		return nil, Claims{}, ErrUnauthenticated
	}
	id, err := uuid.Parse(claims.SubjectID)
	if err != nil {
		return nil, Claims{}, ErrUnauthenticated
	}
	profile, err := s.profiles.GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			// Profile deleted after the session was issued.
			return nil, Claims{}, ErrUnauthenticated
		}
		return nil, Claims{}, fmt.Errorf("load profile: %w", err)
	}
	return profile, claims, nil
}

// AdminLogin is the password-based elevation path for the back office. Not
// found, wrong password, and insufficient role all return the same generic
// ErrInvalidCredentials.
func (s *Service) AdminLogin(ctx context.Context, rawPhone, password, ip string) (*models.Profile, string, error) {
	phone, ok := ToStorageForm(rawPhone)
	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	profile, err := s.profiles.GetProfileByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("load profile: %w", err)
	}
	if profile.PasswordHash == "" || !profile.IsAdmin() {
		return nil, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.admin.Sign(profile.ID.String())
	if err != nil {
		return nil, "", fmt.Errorf("sign admin session: %w", err)
	}

	s.recordAudit(ctx, &profile.ID, "admin.login", "profile", nil, ip)
	return profile, token, nil
}

// ensureProfile loads the profile for a verified phone, creating it on first
// sign-in, and stamps the verification time.
func (s *Service) ensureProfile(ctx context.Context, phone string, now time.Time) (*models.Profile, error) {
	profile, err := s.profiles.GetProfileByPhone(ctx, phone)
	if err != nil {
		if !errors.Is(err, ErrProfileNotFound) {
			return nil, fmt.Errorf("load profile: %w", err)
		}
		profile = &models.Profile{
			ID:    uuid.New(),
			Phone: phone,
			Role:  models.RoleUser,
		}
		if err := s.profiles.CreateProfile(ctx, profile); err != nil {
			return nil, fmt.Errorf("create profile: %w", err)
		}
	}

	if err := s.profiles.MarkVerified(ctx, profile.ID, now); err != nil {
		return nil, fmt.Errorf("mark verified: %w", err)
	}
	verifiedAt := now
	profile.VerifiedAt = &verifiedAt
	return profile, nil
}

func (s *Service) recordAudit(ctx context.Context, actorID *uuid.UUID, action, targetType string, targetID *string, ip string) {
	if s.audit == nil {
		return
	}
	entry := &models.AuditLog{
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		IP:         ip,
		Metadata:   datatypes.JSON([]byte(`{}`)),
	}
	if err := s.audit.RecordAudit(ctx, entry); err != nil {
		s.log.Error().Err(err).Str("action", action).Msg("record audit entry")
	}
}
