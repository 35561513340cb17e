package service_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/onbd/internal/onbd/domain"
	"github.com/aussiebroadwan/onbd/internal/onbd/service"
	"github.com/aussiebroadwan/onbd/pkg/cryptox"
	"github.com/aussiebroadwan/onbd/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (*service.AuthService, *service.InviteService, *jwtx.HS256Verifier) {
	t.Helper()

	st := newTestStore(t)
	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHS256(testSecret, jwtx.VerifyOptions{Issuer: "onbd"})
	require.NoError(t, err)

	auth := service.NewAuthService(st, signer, "onbd", 0)
	invites := &service.InviteService{Store: st, Cipher: newTestCipher(t)}
	return auth, invites, verifier
}

func register(t *testing.T, invites *service.InviteService, email, password string) domain.Contributor {
	t.Helper()

	ticket, err := invites.IssueInvitation(t.Context(), email, domain.RolePGC, domain.InvitationMetadata{}, "")
	require.NoError(t, err)
	c, err := invites.RedeemInvitation(t.Context(), service.RedeemRequest{
		Token:    ticket.Token,
		Name:     "Contributor",
		Password: password,
	})
	require.NoError(t, err)
	return c
}

func TestAuthService_LoginBeforeApproval(t *testing.T) {
	auth, invites, verifier := newAuthFixture(t)
	c := register(t, invites, "pending@example.com", "correct-horse")
	require.Equal(t, domain.StatusPendingApproval, c.Status)

	tok, err := auth.Login(t.Context(), "Pending@Example.com", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, service.TokenTypeBearer, tok.TokenType)
	require.Equal(t, int(time.Hour.Seconds()), tok.ExpiresIn)

	claims, err := verifier.Verify(tok.Token)
	require.NoError(t, err)
	require.Equal(t, c.ID, claims.Subject)
	require.Equal(t, string(domain.RolePGC), claims.Role)
	require.Equal(t, "onbd", claims.Issuer)
	require.NotEmpty(t, claims.ID)
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	auth, invites, _ := newAuthFixture(t)
	register(t, invites, "known@example.com", "correct-horse")

	_, unknownErr := auth.Login(t.Context(), "nobody@example.com", "correct-horse")
	_, wrongErr := auth.Login(t.Context(), "known@example.com", "battery-staple")

	require.ErrorIs(t, unknownErr, service.ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, service.ErrInvalidCredentials)
	require.Equal(t, unknownErr.Error(), wrongErr.Error())

	_, err := auth.Login(t.Context(), "", "")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestNewAuthService_UnknownEmailHashReady(t *testing.T) {
	auth, _, _ := newAuthFixture(t)

	h := auth.UnknownEmailHash()
	require.NotEmpty(t, h)
	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	require.Equal(t, cryptox.PasswordCost(), cost)

	_, err = auth.Login(t.Context(), "nobody@example.com", "correct-horse")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
	require.Equal(t, h, auth.UnknownEmailHash())
}

func TestAuthService_SignToken(t *testing.T) {
	auth, _, verifier := newAuthFixture(t)
	auth.TTL = 10 * time.Minute

	before := time.Now()
	tok, exp, err := auth.SignToken("subject-1", "admin")
	require.NoError(t, err)
	require.WithinDuration(t, before.Add(10*time.Minute), exp, 2*time.Second)

	claims, err := verifier.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "subject-1", claims.Subject)
	require.Equal(t, "admin", claims.Role)
}
