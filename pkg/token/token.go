// Package token issues and verifies the HS256 tokens used for email
// verification, sessions, password resets and the two-factor login step.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Purpose separates token families that share one signing key.
type Purpose string

const (
	PurposeVerification Purpose = "verification"
	PurposeSession      Purpose = "session"
	PurposeReset        Purpose = "reset"
	PurposeTwoFactor    Purpose = "two_factor"
)

var (
	ErrMissingSecret = errors.New("token: signing secret is not configured")
	ErrInvalidToken  = errors.New("token: invalid token")
	ErrTokenExpired  = errors.New("token: token expired")
	ErrWrongPurpose  = errors.New("token: unexpected token purpose")
)

// Claims always carry the user id. Session tokens also carry role and email
// so authorization does not need a database round-trip.
type Claims struct {
	UserID   string  `json:"id"`
	Email    string  `json:"email,omitempty"`
	Username string  `json:"username,omitempty"`
	Role     string  `json:"role,omitempty"`
	Purpose  Purpose `json:"purpose"`
	jwt.RegisteredClaims
}

type Config struct {
	Secret string
	Issuer string
	TTLs   map[Purpose]time.Duration
}

type Service struct {
	secret []byte
	issuer string
	ttls   map[Purpose]time.Duration
	now    func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source for issuing and validating.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	s := &Service{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttls:   cfg.TTLs,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the configured lifetime for a purpose.
func (s *Service) TTL(purpose Purpose) time.Duration {
	if d, ok := s.ttls[purpose]; ok && d > 0 {
		return d
	}
	return 5 * time.Minute
}

// Issue signs claims for the given purpose. Claims.Purpose and the
// registered time fields are overwritten.
func (s *Service) Issue(claims Claims, purpose Purpose) (string, error) {
	if claims.UserID == "" {
		return "", fmt.Errorf("token: user id is required")
	}
	now := s.now()
	claims.Purpose = purpose
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    s.issuer,
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL(purpose))),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry. Expired-but-authentic tokens fail with
// ErrTokenExpired; everything else fails with ErrInvalidToken.
func (s *Service) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyPurpose is Verify plus a purpose check, so a verification link
// can never be replayed as a session.
func (s *Service) VerifyPurpose(raw string, purpose Purpose) (*Claims, error) {
	claims, err := s.Verify(raw)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purpose {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrWrongPurpose)
	}
	return claims, nil
}
