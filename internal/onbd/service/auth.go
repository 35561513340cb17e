package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/onbd/internal/onbd/store"
	"github.com/aussiebroadwan/onbd/pkg/cryptox"
	"github.com/aussiebroadwan/onbd/pkg/jwtx"
	"github.com/aussiebroadwan/onbd/pkg/slogx"
)

// TokenTypeBearer is the only token type issued.
const TokenTypeBearer = "Bearer"

// AuthService verifies contributor credentials and issues session tokens.
type AuthService struct {
	Store  store.Store
	Signer jwtx.Signer
	Issuer string

	// TTL overrides jwtx.DefaultAccessTokenTTL when positive.
	TTL time.Duration
	Now func() time.Time

	dummyHash string
}

// NewAuthService builds an AuthService with its unknown-email hash ready,
// so the first failed login costs the same as every later one. Call it
// after cryptox.SetPasswordCost.
func NewAuthService(st store.Store, signer jwtx.Signer, issuer string, ttl time.Duration) *AuthService {
	return &AuthService{
		Store:     st,
		Signer:    signer,
		Issuer:    issuer,
		TTL:       ttl,
		dummyHash: newTimingHash(),
	}
}

type AccessToken struct {
	Token     string
	TokenType string
	ExpiresIn int // seconds
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// newTimingHash is compared against when the email is unknown so both
// failure paths cost one bcrypt comparison at the current cost.
func newTimingHash() string {
	h, err := cryptox.HashPassword(cryptox.MustGenerateHexToken(cryptox.TokenSize128))
	if err != nil {
		panic(err)
	}
	return h
}

// timingHash serves services built without NewAuthService.
func timingHash() string {
	dummyHashOnce.Do(func() { dummyHash = newTimingHash() })
	return dummyHash
}

func (s *AuthService) unknownEmailHash() string {
	if s.dummyHash != "" {
		return s.dummyHash
	}
	return timingHash()
}

func (s *AuthService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return jwtx.DefaultAccessTokenTTL
}

// Login exchanges an email and password for a session token. Approval status
// does not gate login.
func (s *AuthService) Login(ctx context.Context, email, password string) (AccessToken, error) {
	log := slogx.FromContext(ctx)

	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return AccessToken{}, ErrInvalidCredentials
	}

	c, err := s.Store.Contributors().GetContributorByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error("failed to fetch contributor", slog.Any("error", err))
			return AccessToken{}, err
		}
		_ = cryptox.VerifyPassword(password, s.unknownEmailHash())
		log.Info("login failed", slog.String("reason", "unknown_email"))
		return AccessToken{}, ErrInvalidCredentials
	}

	if err := cryptox.VerifyPassword(password, c.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Error("stored password hash is unreadable",
				slog.String("contributor_id", c.ID),
				slog.Any("error", err),
			)
		}
		log.Info("login failed",
			slog.String("reason", "password_mismatch"),
			slog.String("contributor_id", c.ID),
		)
		return AccessToken{}, ErrInvalidCredentials
	}

	token, _, err := s.SignToken(c.ID, string(c.Role))
	if err != nil {
		log.Error("failed to sign session token", slog.Any("error", err))
		return AccessToken{}, err
	}

	log.Info("login succeeded",
		slog.String("contributor_id", c.ID),
		slog.String("role", string(c.Role)),
	)

	return AccessToken{
		Token:     token,
		TokenType: TokenTypeBearer,
		ExpiresIn: int(s.ttl().Seconds()),
	}, nil
}

// SignToken issues a session token for subject carrying role.
func (s *AuthService) SignToken(subject, role string) (string, time.Time, error) {
	now := clock(s.Now).now()
	claims := jwtx.NewSessionClaims(subject, role, s.ttl(), s.Issuer, nil, now)

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, claims.ExpiresAt.Time, nil
}
