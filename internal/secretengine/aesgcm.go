package secretengine

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"

	apperrors "github.com/allisson/secretcore/internal/errors"
)

// aesGCMCipher implements the `nonce(12) ‖ ciphertext ‖ tag(16)` wire
// format shared by aes128-gcm96 and aes256-gcm96 — the key length alone
// (16 or 32 bytes) selects AES-128 vs AES-256 via aes.NewCipher's key
// schedule, so one type serves both catalogue tags.
type aesGCMCipher struct{}

func (aesGCMCipher) Encrypt(key, plaintext []byte) ([]byte, error) {
	aead, err := newAESGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCryptoError, "generating nonce")
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (aesGCMCipher) Decrypt(key, ciphertext []byte) ([]byte, error) {
	aead, err := newAESGCM(key)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < aead.NonceSize() {
		return nil, apperrors.Wrap(apperrors.ErrDecryptFailed, "ciphertext shorter than nonce")
	}

	nonce, sealed := ciphertext[:aead.NonceSize()], ciphertext[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDecryptFailed, "aes-gcm open")
	}
	return plaintext, nil
}

func newAESGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != 16 && len(key) != 32 {
		return nil, apperrors.Wrap(apperrors.ErrCryptoError, "aes-gcm key must be 16 or 32 bytes")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCryptoError, "constructing aes cipher")
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCryptoError, "constructing gcm")
	}
	return aead, nil
}
