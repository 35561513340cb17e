package service_test

import (
	"testing"

	"github.com/aussiebroadwan/onbd/internal/onbd/domain"
	"github.com/aussiebroadwan/onbd/internal/onbd/service"
	"github.com/aussiebroadwan/onbd/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestBootstrapService(t *testing.T) {
	svc := &service.BootstrapService{
		Store:  newTestStore(t),
		Cipher: newTestCipher(t),
		Token:  "let-me-in",
	}
	ctx := t.Context()
	admin := domain.BootstrapData{Email: "Admin@PSS.com", Name: "Platform Admin", Password: "admin-password"}

	_, err := svc.Bootstrap(ctx, "wrong", admin)
	require.ErrorIs(t, err, service.ErrBootstrapUnauthorized)

	_, err = svc.Bootstrap(ctx, "let-me-in", domain.BootstrapData{Email: "admin@pss.com", Name: "A", Password: "admin-password"})
	require.ErrorIs(t, err, service.ErrInvalidRequest)
	_, err = svc.Bootstrap(ctx, "let-me-in", domain.BootstrapData{Email: "admin@pss.com", Name: "管理", Password: "ééééé"})
	require.ErrorIs(t, err, service.ErrInvalidRequest)

	done, err := svc.IsBootstrapped(ctx)
	require.NoError(t, err)
	require.False(t, done)

	c, err := svc.Bootstrap(ctx, "let-me-in", admin)
	require.NoError(t, err)
	require.Equal(t, "admin@pss.com", c.Email)
	require.Equal(t, domain.RoleAdmin, c.Role)
	require.Equal(t, domain.StatusApproved, c.Status)
	require.NoError(t, cryptox.VerifyPassword("admin-password", c.PasswordHash))

	done, err = svc.IsBootstrapped(ctx)
	require.NoError(t, err)
	require.True(t, done)

	_, err = svc.Bootstrap(ctx, "let-me-in", admin)
	require.ErrorIs(t, err, service.ErrBootstrapAlready)

	_, err = svc.Seed(ctx, domain.BootstrapData{Email: "second@pss.com", Name: "Second Admin", Password: "admin-password"})
	require.ErrorIs(t, err, service.ErrBootstrapAlready)
}

func TestBootstrapService_Disabled(t *testing.T) {
	svc := &service.BootstrapService{Store: newTestStore(t), Cipher: newTestCipher(t)}
	require.False(t, svc.Enabled())

	_, err := svc.Bootstrap(t.Context(), "", domain.BootstrapData{Email: "a@b.c", Name: "Admin", Password: "secret1"})
	require.ErrorIs(t, err, service.ErrBootstrapDisabled)

	// The seed path does not need a token.
	c, err := svc.Seed(t.Context(), domain.BootstrapData{Email: "a@b.c", Name: "Admin", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, c.Role)
}
