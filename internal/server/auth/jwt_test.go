package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/piiquante/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify_Success(t *testing.T) {
	t.Parallel()

	s := NewTokenSigner([]byte("super-secret"))

	tok, err := s.Sign("user-123", time.Hour)
	require.NoError(t, err)

	claims, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "piiquante", claims.Issuer)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	s := NewTokenSigner([]byte("secret"))
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issued }

	tok, err := s.Sign("u1", 24*time.Hour)
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(24*time.Hour + time.Second) }
	_, err = s.Verify(tok)
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenSigner([]byte("right-secret")).Sign("u2", time.Hour)
	require.NoError(t, err)

	_, err = NewTokenSigner([]byte("wrong-secret")).Verify(tok)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	s := NewTokenSigner([]byte("k"))
	for _, tok := range []string{"", "not.a.jwt", "abc"} {
		_, err := s.Verify(tok)
		assert.ErrorIs(t, err, common.ErrInvalidToken, tok)
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: "u3",
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(secret)
	require.NoError(t, err)
	_, err = NewTokenSigner(secret).Verify(hs512)
	require.ErrorIs(t, err, common.ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewTokenSigner(secret).Verify(none)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_RequiresUserAndExpiry(t *testing.T) {
	t.Parallel()

	secret := []byte("k")

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer},
		UserID:           "u4",
	}).SignedString(secret)
	require.NoError(t, err)
	_, err = NewTokenSigner(secret).Verify(noExp)
	require.ErrorIs(t, err, common.ErrInvalidToken)

	noUser, err := NewTokenSigner(secret).Sign("", time.Hour)
	require.NoError(t, err)
	_, err = NewTokenSigner(secret).Verify(noUser)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}
