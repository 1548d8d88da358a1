package utils

import (
	"testing"
	"time"

	"vidstream-go/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setJWTConfig(expireHours int) {
	config.Set(&config.Config{
		App: config.AppConfig{Name: "vidstream-test"},
		JWT: config.JWTConfig{Secret: "test-secret", ExpireHours: expireHours},
	})
}

func TestTokenCarriesUserAndRole(t *testing.T) {
	setJWTConfig(1)

	token, err := GenerateToken(42, "premium")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "premium", claims.Role)
	assert.Equal(t, "vidstream-test", claims.Issuer)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	setJWTConfig(-1)

	token, err := GenerateToken(1, "user")
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	setJWTConfig(1)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 7})
	signed, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = ParseToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsOtherIssuerAndAlgorithm(t *testing.T) {
	setJWTConfig(1)
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:           7,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else", ExpiresAt: exp},
	})
	signed, err := foreign.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = ParseToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		UserID:           7,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "vidstream-test", ExpiresAt: exp},
	})
	signed, err = hs512.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = ParseToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenSubjectIsUserID(t *testing.T) {
	setJWTConfig(1)

	token, err := GenerateToken(42, "user")
	require.NoError(t, err)
	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
}
