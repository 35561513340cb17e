package onbd_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/onbd/pkg/onbdsdk"
	"github.com/stretchr/testify/require"
)

func TestOnboarding_InviteRegisterLogin(t *testing.T) {
	client := setupContainer(t)
	ctx := context.Background()
	admin := bootstrapAdmin(t, client)

	invite, err := admin.Invite(ctx, onbdsdk.InviteRequest{
		Email:      "New.Person@Example.com",
		Role:       onbdsdk.RolePGC,
		Department: "Engineering",
	})
	require.NoError(t, err)
	require.NotEmpty(t, invite.Token)

	contributor, err := client.Register(ctx, onbdsdk.RegisterRequest{
		Token:    invite.Token,
		Name:     "New Person",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.Equal(t, "new.person@example.com", contributor.Email)
	require.Equal(t, onbdsdk.RolePGC, contributor.Role)
	require.Equal(t, "pending_approval", contributor.Status)

	status, err := client.Status(ctx, contributor.ID)
	require.NoError(t, err)
	require.Equal(t, "pending_approval", status.Status)

	// Approval does not gate login.
	tok, err := client.Login(ctx, onbdsdk.LoginRequest{Email: "new.person@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.Equal(t, "Bearer", tok.TokenType)
	require.Positive(t, tok.ExpiresIn)

	// The token is single use.
	_, err = client.Register(ctx, onbdsdk.RegisterRequest{
		Token:    invite.Token,
		Name:     "Someone Else",
		Password: "secret123",
	})
	requireAPIError(t, err, http.StatusBadRequest, onbdsdk.ErrorCodeInvalidToken)
}

func TestOnboarding_NonAdminCannotInvite(t *testing.T) {
	client := setupContainer(t)
	ctx := context.Background()
	admin := bootstrapAdmin(t, client)

	invite, err := admin.Invite(ctx, onbdsdk.InviteRequest{Email: "npgc@example.com", Role: onbdsdk.RoleNPGC})
	require.NoError(t, err)
	_, err = client.Register(ctx, onbdsdk.RegisterRequest{Token: invite.Token, Name: "Not Admin", Password: "secret123"})
	require.NoError(t, err)

	session, err := client.AuthenticateWithPassword(ctx, "npgc@example.com", "secret123")
	require.NoError(t, err)

	_, err = session.Invite(ctx, onbdsdk.InviteRequest{Email: "x@example.com", Role: onbdsdk.RoleNPGC})
	requireAPIError(t, err, http.StatusForbidden, onbdsdk.ErrorCodeForbidden)

	unauthenticated := client.NewSessionFromToken("not-a-token", 3600)
	_, err = unauthenticated.Invite(ctx, onbdsdk.InviteRequest{Email: "x@example.com", Role: onbdsdk.RoleNPGC})
	requireAPIError(t, err, http.StatusUnauthorized, onbdsdk.ErrorCodeUnauthorized)
}

func TestLogin_UniformFailures(t *testing.T) {
	client := setupContainer(t)
	ctx := context.Background()
	bootstrapAdmin(t, client)

	_, err := client.Login(ctx, onbdsdk.LoginRequest{Email: adminEmail, Password: "wrong-password"})
	requireAPIError(t, err, http.StatusUnauthorized, onbdsdk.ErrorCodeInvalidCredentials)
	wrongPassword := err.Error()

	_, err = client.Login(ctx, onbdsdk.LoginRequest{Email: "nobody@example.com", Password: "wrong-password"})
	requireAPIError(t, err, http.StatusUnauthorized, onbdsdk.ErrorCodeInvalidCredentials)
	require.Equal(t, wrongPassword, err.Error())
}

func TestBootstrap_OnlyOnce(t *testing.T) {
	client := setupContainer(t)
	ctx := context.Background()

	_, err := client.Bootstrap(ctx, "wrong-token", onbdsdk.BootstrapRequest{
		AdminEmail: adminEmail, AdminName: adminName, AdminPassword: adminPassword,
	})
	requireAPIError(t, err, http.StatusUnauthorized, onbdsdk.ErrorCodeUnauthorized)

	bootstrapAdmin(t, client)

	_, err = client.Bootstrap(ctx, bootstrapToken, onbdsdk.BootstrapRequest{
		AdminEmail: "second@example.com", AdminName: adminName, AdminPassword: adminPassword,
	})
	requireAPIError(t, err, http.StatusConflict, onbdsdk.ErrorCodeAlreadyBootstrapped)
}

func TestHealth(t *testing.T) {
	client := setupContainer(t)
	ctx := context.Background()

	live, err := client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)

	ready, err := client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.NotEmpty(t, ready.Checks)
}
