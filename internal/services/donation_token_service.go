package services

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

const (
	CallbackTokenPurpose = "donation_callback_token"
	RetryTokenPurpose    = "donation_retry_token"

	tokenIssuer = "donations"
)

// DonationTokenService issues anti-tamper tokens bound to a purpose. A token
// issued for one purpose never verifies for another.
type DonationTokenService interface {
	Issue(purpose string) (string, error)
	Verify(purpose, token string) bool
}

type TokenConfig struct {
	Secret     []byte
	DefaultTTL time.Duration
	// Per-purpose overrides of DefaultTTL.
	TTLs map[string]time.Duration
}

type donationTokenService struct {
	secret      []byte
	defaultTTL  time.Duration
	ttls        map[string]time.Duration
	placeholder string
	now         func() time.Time
	signingKey  func(purpose string) ([]byte, error)
}

func NewDonationTokenService(cfg TokenConfig) (DonationTokenService, error) {
	if len(cfg.Secret) < 16 {
		return nil, errors.New("donation token secret must be at least 16 bytes")
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = time.Hour
	}

	// Signed with a throwaway key: verifying it walks the full HMAC path and
	// always fails, which is what an empty token must do.
	throwaway := make([]byte, 32)
	if _, err := rand.Read(throwaway); err != nil {
		return nil, fmt.Errorf("token placeholder key: %w", err)
	}
	placeholder, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:   tokenIssuer,
		Audience: jwt.ClaimStrings{"none"},
	}).SignedString(throwaway)
	if err != nil {
		return nil, fmt.Errorf("token placeholder: %w", err)
	}

	ttls := make(map[string]time.Duration, len(cfg.TTLs))
	for purpose, ttl := range cfg.TTLs {
		ttls[purpose] = ttl
	}

	s := &donationTokenService{
		secret:      cfg.Secret,
		defaultTTL:  cfg.DefaultTTL,
		ttls:        ttls,
		placeholder: placeholder,
		now:         time.Now,
	}
	s.signingKey = s.purposeKey
	return s, nil
}

func (s *donationTokenService) Issue(purpose string) (string, error) {
	if purpose == "" {
		return "", errors.New("token purpose is required")
	}

	key, err := s.signingKey(purpose)
	if err != nil {
		return "", err
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{purpose},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl(purpose))),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// Verify runs exactly one signature check per call, whether the token is
// valid, forged, malformed or missing.
func (s *donationTokenService) Verify(purpose, token string) bool {
	if token == "" {
		token = s.placeholder
	}

	valid, checked := s.verify(purpose, token)
	if !checked {
		// Rejected before the key was needed: spend the check on the placeholder.
		s.verify(purpose, s.placeholder)
		return false
	}
	return valid
}

func (s *donationTokenService) verify(purpose, token string) (valid, signatureChecked bool) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(*jwt.Token) (interface{}, error) {
			signatureChecked = true
			return s.signingKey(purpose)
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(purpose),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	return err == nil && parsed.Valid, signatureChecked
}

func (s *donationTokenService) ttl(purpose string) time.Duration {
	if ttl, ok := s.ttls[purpose]; ok && ttl > 0 {
		return ttl
	}
	return s.defaultTTL
}

func (s *donationTokenService) purposeKey(purpose string) ([]byte, error) {
	r := hkdf.New(sha256.New, s.secret, nil, []byte("donations.token."+purpose))
	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", purpose, err)
	}
	return key, nil
}
