package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskString(t *testing.T) {
	orig := IsProduction
	t.Cleanup(func() { IsProduction = orig })

	t.Run("passthrough outside production", func(t *testing.T) {
		IsProduction = false
		input := "login for mia@example.com id 123e4567-e89b-12d3-a456-426614174000"
		assert.Equal(t, input, MaskString(input))
	})

	t.Run("masks emails, tokens and uuids in production", func(t *testing.T) {
		IsProduction = true
		masked := MaskString("login mia@example.com token eyJab.cdef.ghij id 123e4567-e89b-12d3-a456-426614174000")
		assert.NotContains(t, masked, "mia@example.com")
		assert.Contains(t, masked, "***@***.***")
		assert.Contains(t, masked, "***JWT***")
		assert.Contains(t, masked, "123e4567...")
		assert.NotContains(t, masked, "426614174000")
	})
}

func TestMaskID(t *testing.T) {
	orig := IsProduction
	t.Cleanup(func() { IsProduction = orig })

	IsProduction = true
	assert.Equal(t, "123e4567...", MaskID("123e4567-e89b-12d3-a456-426614174000"))
	assert.Equal(t, "***", MaskID("short"))

	IsProduction = false
	assert.Equal(t, "short", MaskID("short"))
}

func TestMaskEmail(t *testing.T) {
	orig := IsProduction
	t.Cleanup(func() { IsProduction = orig })

	IsProduction = true
	assert.Equal(t, "***@***.***", MaskEmail("mia@example.com"))

	IsProduction = false
	assert.Equal(t, "mia@example.com", MaskEmail("mia@example.com"))
}
