package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("supersecret")
	require.NoError(t, err)
	assert.NotEqual(t, "supersecret", hash)

	assert.True(t, Verify("supersecret", hash))
	assert.False(t, Verify("wrongpass", hash))
	assert.False(t, Verify("supersecret", "not-a-hash"))
}

func TestHashToken(t *testing.T) {
	a := HashToken("some-refresh-token")
	b := HashToken("some-refresh-token")
	c := HashToken("another-token")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64) // hex-encoded SHA-256
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("12345678"))
	assert.False(t, IsValid("1234567"))
	assert.False(t, IsValid(""))
}
