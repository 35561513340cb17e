package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/onbd/internal/onbd/domain"
	"github.com/aussiebroadwan/onbd/internal/onbd/store"
	"github.com/aussiebroadwan/onbd/pkg/cryptox"
	"github.com/aussiebroadwan/onbd/pkg/slogx"
	"github.com/google/uuid"
)

// BootstrapService creates the first administrator.
type BootstrapService struct {
	Store  store.Store
	Cipher *cryptox.FieldCipher
	Token  string // Pre-configured bootstrap token; empty disables the HTTP path
	Now    func() time.Time
}

// Enabled reports whether a bootstrap token has been configured.
func (s *BootstrapService) Enabled() bool {
	return s.Token != ""
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Contributors().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap checks the presented token and then seeds the administrator.
func (s *BootstrapService) Bootstrap(ctx context.Context, token string, req domain.BootstrapData) (domain.Contributor, error) {
	l := slogx.FromContext(ctx)

	if !s.Enabled() {
		return domain.Contributor{}, ErrBootstrapDisabled
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		l.Warn("unauthorized bootstrap attempt")
		return domain.Contributor{}, ErrBootstrapUnauthorized
	}

	return s.Seed(ctx, req)
}

// Seed creates an approved administrator if no contributor exists yet.
func (s *BootstrapService) Seed(ctx context.Context, req domain.BootstrapData) (domain.Contributor, error) {
	l := slogx.FromContext(ctx)

	req.Email = NormalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || !longEnough(req.Name, MinNameLength) || !longEnough(req.Password, MinPasswordLength) {
		return domain.Contributor{}, ErrInvalidRequest
	}

	if bootstrapped, err := s.IsBootstrapped(ctx); err != nil {
		l.Error("failed to check bootstrap state", slog.Any("error", err))
		return domain.Contributor{}, err
	} else if bootstrapped {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return domain.Contributor{}, ErrBootstrapAlready
	}

	passHash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooLong) {
			return domain.Contributor{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		l.Error("failed to hash admin password", slog.Any("error", err))
		return domain.Contributor{}, err
	}

	bankAccount, err := s.Cipher.Encrypt("")
	if err != nil {
		l.Error("failed to encrypt bank account", slog.Any("error", err))
		return domain.Contributor{}, err
	}

	now := clock(s.Now).now()
	admin := domain.Contributor{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: passHash,
		Role:         domain.RoleAdmin,
		Status:       domain.StatusApproved,
		BankAccount:  bankAccount,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Contributors().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrBootstrapAlready
		}
		if err := tx.Contributors().CreateContributor(ctx, admin); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrBootstrapAlready
			}
			return err
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrBootstrapAlready) {
			l.Error("failed to create admin contributor",
				slog.String("contributor_id", admin.ID),
				slog.Any("error", err),
			)
		}
		return domain.Contributor{}, err
	}

	l.Info("successfully bootstrapped system", slog.String("admin_id", admin.ID))
	return admin, nil
}
