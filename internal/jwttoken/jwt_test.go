package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "medix/pkg/domain-errors"
)

func TestGenerateAndValidateRoundTrip(t *testing.T) {
	svc := NewJWTService("test-signing-key", "medix", "medix-api")

	token, err := svc.GenerateAccessToken("42", "COLABORADOR", time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "COLABORADOR", claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("test-signing-key", "medix", "medix-api")

	token, err := svc.GenerateAccessToken("42", "PACIENTE", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}

func TestValidateRejectsWrongKey(t *testing.T) {
	issuer := NewJWTService("key-one", "medix", "medix-api")
	verifier := NewJWTService("key-two", "medix", "medix-api")

	token, err := issuer.GenerateAccessToken("42", "PACIENTE", time.Hour)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}

func TestTTLUntilExpiry(t *testing.T) {
	svc := NewJWTService("test-signing-key", "medix", "medix-api")

	token, err := svc.GenerateAccessToken("42", "PACIENTE", time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	ttl := claims.TTLUntilExpiry(time.Now())
	assert.Greater(t, ttl, 50*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)
}
