package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/onbd/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newPair(t *testing.T, opts jwtx.VerifyOptions) (*jwtx.HS256Signer, *jwtx.HS256Verifier) {
	t.Helper()
	s, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	v, err := jwtx.NewVerifierHS256(testSecret, opts)
	require.NoError(t, err)
	return s, v
}

func TestHS256_SignAndVerify(t *testing.T) {
	s, v := newPair(t, jwtx.VerifyOptions{Issuer: "onbd"})
	require.Equal(t, "HS256", s.Alg())

	claims := jwtx.NewSessionClaims("user-1", "admin", time.Hour, "onbd", nil, time.Now())
	token, err := s.Sign(claims)
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(token, "."))

	got, err := v.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "admin", got.Role)
	require.Equal(t, "onbd", got.Issuer)
	require.NotEmpty(t, got.ID)
}

func TestHS256_WeakSecret(t *testing.T) {
	_, err := jwtx.NewSignerHS256([]byte("short"))
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)

	_, err = jwtx.NewVerifierHS256(nil, jwtx.VerifyOptions{})
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)
}

func TestHS256_Rejections(t *testing.T) {
	s, v := newPair(t, jwtx.VerifyOptions{Issuer: "onbd"})
	now := time.Now()

	t.Run("tampered payload", func(t *testing.T) {
		token, err := s.Sign(jwtx.NewSessionClaims("user-1", "pgc", time.Hour, "onbd", nil, now))
		require.NoError(t, err)

		forged, err := s.Sign(jwtx.NewSessionClaims("user-1", "admin", time.Hour, "onbd", nil, now))
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		forgedParts := strings.Split(forged, ".")
		_, err = v.Verify(parts[0] + "." + forgedParts[1] + "." + parts[2])
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("different secret", func(t *testing.T) {
		other, err := jwtx.NewSignerHS256([]byte("ffffffffffffffffffffffffffffffff"))
		require.NoError(t, err)
		token, err := other.Sign(jwtx.NewSessionClaims("user-1", "pgc", time.Hour, "onbd", nil, now))
		require.NoError(t, err)

		_, err = v.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("other algorithm", func(t *testing.T) {
		claims := jwtx.NewSessionClaims("user-1", "pgc", time.Hour, "onbd", nil, now)
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString(testSecret)
		require.NoError(t, err)

		_, err = v.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrAlgMismatch)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := s.Sign(jwtx.NewSessionClaims("user-1", "pgc", time.Minute, "onbd", nil, now.Add(-time.Hour)))
		require.NoError(t, err)

		_, err = v.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("issuer mismatch", func(t *testing.T) {
		token, err := s.Sign(jwtx.NewSessionClaims("user-1", "pgc", time.Hour, "someone-else", nil, now))
		require.NoError(t, err)

		_, err = v.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("missing role", func(t *testing.T) {
		token, err := s.Sign(jwtx.NewSessionClaims("user-1", "", time.Hour, "onbd", nil, now))
		require.NoError(t, err)

		_, err = v.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})
}

func TestClaims_ValidateExpiryWithLeeway(t *testing.T) {
	c := jwtx.NewSessionClaims("user-1", "pgc", time.Minute, "onbd", nil, time.Now().Add(-90*time.Second))

	require.ErrorIs(t, c.ValidateExpiry(), jwtx.ErrExpired)
	require.NoError(t, c.ValidateExpiryWithLeeway(time.Minute))
}

func TestClaims_ValidateAudience(t *testing.T) {
	c := jwtx.NewSessionClaims("user-1", "pgc", time.Minute, "onbd", []string{"web"}, time.Now())

	require.NoError(t, c.ValidateAudience(nil))
	require.NoError(t, c.ValidateAudience([]string{"cli", "web"}))
	require.ErrorIs(t, c.ValidateAudience([]string{"cli"}), jwtx.ErrAudience)
}
