package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-with-enough-bytes"

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("agent-7", "admin", testSecret, time.Hour, "farm_payouts")
	require.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "agent-7", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "farm_payouts", claims.Issuer)
}

func TestParseAndValidateJWT_Rejects(t *testing.T) {
	expired, err := GenerateJWT("agent-7", "", testSecret, -time.Minute, "farm_payouts")
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(expired, testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	valid, err := GenerateJWT("agent-7", "", testSecret, time.Hour, "farm_payouts")
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(valid, "another-secret-entirely")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	anonymous, err := GenerateJWT("", "", testSecret, time.Hour, "farm_payouts")
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(anonymous, testSecret)
	assert.EqualError(t, err, "token subject is empty")

	_, err = ParseAndValidateJWT("not-a-jwt", testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenMalformed)
}

func TestParseAndValidateJWT_RejectsNonHMAC(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "agent-7"},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(token, testSecret)
	assert.Error(t, err)
}
