package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "test-secret")

	token, err := GenerateAccessToken("user-123", "hotel@example.com", "hotel")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "hotel@example.com", claims.Email)
	assert.Equal(t, "hotel", claims.Role)
	assert.Equal(t, "collab-api", claims.Issuer)
}

func TestParseAccessTokenRejectsTampering(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "test-secret")

	token, err := GenerateAccessToken("user-123", "creator@example.com", "creator")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		t.Setenv("ACCESS_TOKEN_SECRET", "another-secret")
		_, err := ParseAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := ParseAccessToken("not.a.jwt")
		assert.Error(t, err)
	})
}

func TestGenerateAccessTokenRequiresSecret(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "")

	_, err := GenerateAccessToken("user-123", "a@b.c", "hotel")
	assert.Error(t, err)
}

func TestGenerateRefreshToken(t *testing.T) {
	a, err := GenerateRefreshToken()
	require.NoError(t, err)
	b, err := GenerateRefreshToken()
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
