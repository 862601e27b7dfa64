package secretengine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRSAOAEPCipher_RejectsMalformedKey(t *testing.T) {
	c := rsaOAEPCipher{}
	_, err := c.Encrypt([]byte("not a pem block"), []byte("data"))
	require.Error(t, err)
}

func TestGenerateRSAPrivateKeyPEM_PublicKeyRederivedAtEncryptTime(t *testing.T) {
	key, err := GenerateRSAPrivateKeyPEM(2048)
	require.NoError(t, err)

	c := rsaOAEPCipher{}
	ciphertext, err := c.Encrypt(key, []byte("rsa secret"))
	require.NoError(t, err)

	plaintext, err := c.Decrypt(key, ciphertext)
	require.NoError(t, err)
	require.Equal(t, []byte("rsa secret"), plaintext)
}
