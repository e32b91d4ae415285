package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	InitAuthService("test-secret-key-that-is-long-enough", "", time.Hour)

	token, err := GenerateToken("test-server")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "test-server", claims.ServerName)
	assert.Equal(t, "opsdeck-agent", claims.UserAgent)
	assert.Equal(t, "opsdeck-server", claims.Issuer)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	InitAuthService("test-secret-key-that-is-long-enough", "", time.Hour)

	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	InitAuthService("first-secret-key-that-is-long-enough", "", time.Hour)
	token, err := GenerateToken("srv")
	require.NoError(t, err)

	InitAuthService("other-secret-key-that-is-long-enough", "", time.Hour)
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	InitAuthService("test-secret-key-that-is-long-enough", "", -time.Hour)

	token, err := GenerateToken("srv")
	require.NoError(t, err)

	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestSecretKeyPersistedAndReloaded(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "secret.key")

	InitAuthService("", keyFile, time.Hour)
	token, err := GenerateToken("srv")
	require.NoError(t, err)

	persisted, err := os.ReadFile(keyFile)
	require.NoError(t, err)
	assert.NotEmpty(t, persisted)

	// A second init with the same key file validates earlier tokens
	InitAuthService("", keyFile, time.Hour)
	_, err = ValidateToken(token)
	assert.NoError(t, err)
}

func TestGetTokenExpiry(t *testing.T) {
	InitAuthService("test-secret-key-that-is-long-enough", "", 2*time.Hour)
	assert.Equal(t, 2*time.Hour, GetTokenExpiry())
}
