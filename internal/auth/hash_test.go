package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashVerify_RoundTrip(t *testing.T) {
	digest, err := Hash("pw1")
	require.NoError(t, err)
	require.NotEmpty(t, digest)

	assert.True(t, Verify("pw1", digest))
	assert.False(t, Verify("pw2", digest))
	assert.False(t, Verify("", digest))
}

func TestHash_NeverStoresPlaintext(t *testing.T) {
	digest, err := Hash("supersecret")
	require.NoError(t, err)
	assert.NotContains(t, digest, "supersecret")
}

func TestVerify_GarbageDigest(t *testing.T) {
	assert.False(t, Verify("pw1", "not-a-bcrypt-digest"))
}
