package domain_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/onbd/internal/onbd/domain"
	"github.com/stretchr/testify/require"
)

func TestRole(t *testing.T) {
	require.True(t, domain.RoleAdmin.Valid())
	require.False(t, domain.RoleAdmin.Invitable())
	require.True(t, domain.RolePGC.Invitable())
	require.True(t, domain.RoleNPGC.Invitable())
	require.False(t, domain.Role("Admin").Valid())
	require.False(t, domain.Role("").Invitable())
}

func TestInvitation_Redeemable(t *testing.T) {
	exp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	inv := domain.Invitation{ExpiresAt: exp}

	require.True(t, inv.Redeemable(exp.Add(-time.Second)))
	require.True(t, inv.Redeemable(exp))
	require.False(t, inv.Redeemable(exp.Add(time.Second)))

	inv.Used = true
	require.False(t, inv.Redeemable(exp.Add(-time.Hour)))
}
