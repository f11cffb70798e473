package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("password123", 4)
	require.NoError(t, err)
	h2, err := HashPassword("password123", 4)
	require.NoError(t, err)

	assert.NotEqual(t, "password123", h1, "hash must never equal the plaintext")
	assert.NotEqual(t, h1, h2, "bcrypt salts must differ across calls")
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("correct horse", 4)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(h, "correct horse"))
	assert.False(t, VerifyPassword(h, "wrong horse"))
	assert.False(t, VerifyPassword("not-a-bcrypt-digest", "anything"))
}
