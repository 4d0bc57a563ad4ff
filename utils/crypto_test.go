package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptContent(t *testing.T) {
	t.Setenv("DATA_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	t.Run("round trip", func(t *testing.T) {
		ciphertext, err := EncryptContent("Hey, loved your Bali reel!")
		require.NoError(t, err)
		assert.NotEqual(t, "Hey, loved your Bali reel!", ciphertext)

		plaintext, err := DecryptContent(ciphertext)
		require.NoError(t, err)
		assert.Equal(t, "Hey, loved your Bali reel!", plaintext)
	})

	t.Run("same plaintext encrypts differently", func(t *testing.T) {
		a, err := EncryptContent("hello")
		require.NoError(t, err)
		b, err := EncryptContent("hello")
		require.NoError(t, err)
		assert.NotEqual(t, a, b, "nonce must differ per message")
	})

	t.Run("plaintext input fails to decrypt", func(t *testing.T) {
		_, err := DecryptContent("not encrypted at all")
		assert.Error(t, err)
	})
}

func TestEncryptContentRequiresKey(t *testing.T) {
	t.Setenv("DATA_ENCRYPTION_KEY", "too-short")

	_, err := EncryptContent("hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 characters")
}
