package secretengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAESGCM_RejectsWrongKeyLength(t *testing.T) {
	_, err := newAESGCM(make([]byte, 20))
	require.Error(t, err)
}

func TestAESGCMCipher_DecryptShorterThanNonceFails(t *testing.T) {
	c := aesGCMCipher{}
	_, err := c.Decrypt(make([]byte, 32), make([]byte, 4))
	require.Error(t, err)
}

func TestAESGCMCipher_AES128And256BothWork(t *testing.T) {
	c := aesGCMCipher{}

	for _, size := range []int{16, 32} {
		key := make([]byte, size)
		ciphertext, err := c.Encrypt(key, []byte("data"))
		require.NoError(t, err)

		decrypted, err := c.Decrypt(key, ciphertext)
		require.NoError(t, err)
		assert.Equal(t, []byte("data"), decrypted)
	}
}
