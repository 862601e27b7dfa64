package secretengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChaCha20Cipher_WireFormatHasNoAuthenticationTag(t *testing.T) {
	c := chaCha20Cipher{}
	key := make([]byte, 32)
	plaintext := []byte("plaintext of arbitrary length")

	ciphertext, err := c.Encrypt(key, plaintext)
	require.NoError(t, err)

	// No MAC: ciphertext length is exactly the 16-byte nonce field plus
	// the plaintext length, never plaintext+16 the way an AEAD tag would.
	assert.Len(t, ciphertext, chacha20NonceFieldSize+len(plaintext))
}

func TestChaCha20Cipher_TamperedCiphertextStillDecrypts(t *testing.T) {
	c := chaCha20Cipher{}
	key := make([]byte, 32)
	plaintext := []byte("plaintext")

	ciphertext, err := c.Encrypt(key, plaintext)
	require.NoError(t, err)

	tampered := append([]byte(nil), ciphertext...)
	tampered[len(tampered)-1] ^= 0xFF

	// Unauthenticated stream cipher: tampering silently corrupts the
	// recovered plaintext rather than failing to decrypt.
	decrypted, err := c.Decrypt(key, tampered)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, decrypted)
}

func TestChaCha20Cipher_ShortCiphertextFails(t *testing.T) {
	c := chaCha20Cipher{}
	_, err := c.Decrypt(make([]byte, 32), make([]byte, 4))
	require.Error(t, err)
}
