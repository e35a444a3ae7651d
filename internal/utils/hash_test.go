package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Secret123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.NotContains(t, hash, "Secret123")

	ok, err := VerifyPassword("Secret123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("Wrong999", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashIsSalted(t *testing.T) {
	first, err := HashPassword("Secret123")
	require.NoError(t, err)
	second, err := HashPassword("Secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyPasswordInvalidHash(t *testing.T) {
	_, err := VerifyPassword("Secret123", "not-a-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)
}
