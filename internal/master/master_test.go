package master

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/secretcore/internal/secretengine"
)

func TestLoad_RejectsRSA(t *testing.T) {
	registry := secretengine.NewRegistry()
	_, err := Load("rsa-2048", make([]byte, 32), registry)
	require.Error(t, err)
}

func TestLoad_RejectsUnknownAlgorithm(t *testing.T) {
	registry := secretengine.NewRegistry()
	_, err := Load("not-a-real-tag", make([]byte, 32), registry)
	require.Error(t, err)
}

func TestKey_WrapUnwrapRoundTrip(t *testing.T) {
	registry := secretengine.NewRegistry()
	key, err := Load("aes256-gcm96", make([]byte, 32), registry)
	require.NoError(t, err)

	wrapped, err := key.Wrap([]byte("inner ciphertext"))
	require.NoError(t, err)
	assert.NotEqual(t, []byte("inner ciphertext"), wrapped)

	unwrapped, err := key.Unwrap(wrapped)
	require.NoError(t, err)
	assert.Equal(t, []byte("inner ciphertext"), unwrapped)
}

func TestKey_Zero(t *testing.T) {
	registry := secretengine.NewRegistry()
	keyBytes := make([]byte, 32)
	for i := range keyBytes {
		keyBytes[i] = byte(i + 1)
	}

	key, err := Load("aes256-gcm96", keyBytes, registry)
	require.NoError(t, err)

	key.Zero()

	for _, b := range key.Bytes {
		assert.Equal(t, byte(0), b)
	}
}
