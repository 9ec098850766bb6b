package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.Generate(42, "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
}

func TestVerifyWrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	other := NewJWTManager("other-secret", time.Hour)

	token, err := manager.Generate(42, "alice@example.com")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestVerifyExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute)

	token, err := manager.Generate(42, "alice@example.com")
	require.NoError(t, err)

	_, err = manager.Verify(token)
	assert.Error(t, err)
}

func TestTokensCarryUniqueIDs(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	first, err := manager.Generate(42, "alice@example.com")
	require.NoError(t, err)
	second, err := manager.Generate(42, "alice@example.com")
	require.NoError(t, err)

	firstClaims, err := manager.Verify(first)
	require.NoError(t, err)
	secondClaims, err := manager.Verify(second)
	require.NoError(t, err)
	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := ExtractTokenFromHeader("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = ExtractTokenFromHeader("bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ExtractTokenFromHeader("abc.def.ghi")
	assert.Error(t, err)

	_, err = ExtractTokenFromHeader("")
	assert.Error(t, err)
}
