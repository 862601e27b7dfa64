package secretengine

import (
	"crypto/rand"
	"encoding/binary"

	apperrors "github.com/allisson/secretcore/internal/errors"
	"golang.org/x/crypto/chacha20"
)

// chaCha20Cipher implements the chacha20-poly1305 catalogue tag as a raw
// ChaCha20 stream cipher *without* Poly1305 authentication — an explicit,
// documented choice (see the open question in the design notes) rather
// than a silent switch to an authenticated construction. The wire format
// is `nonce(16) ‖ ciphertext`, matching the original's use of a 16-byte
// value passed straight into the stream cipher: the first 4 bytes are a
// little-endian initial block counter and the remaining 12 bytes are the
// actual stream nonce, exactly as the source's underlying primitive reads
// a 16-byte ChaCha20 nonce argument.
type chaCha20Cipher struct{}

const chacha20NonceFieldSize = 16

func (chaCha20Cipher) Encrypt(key, plaintext []byte) ([]byte, error) {
	nonceField := make([]byte, chacha20NonceFieldSize)
	if _, err := rand.Read(nonceField); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCryptoError, "generating nonce")
	}

	stream, err := newChaCha20Stream(key, nonceField)
	if err != nil {
		return nil, err
	}

	ciphertext := make([]byte, len(plaintext))
	stream.XORKeyStream(ciphertext, plaintext)

	return append(nonceField, ciphertext...), nil
}

func (chaCha20Cipher) Decrypt(key, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < chacha20NonceFieldSize {
		return nil, apperrors.Wrap(apperrors.ErrDecryptFailed, "ciphertext shorter than nonce field")
	}

	nonceField, sealed := ciphertext[:chacha20NonceFieldSize], ciphertext[chacha20NonceFieldSize:]

	stream, err := newChaCha20Stream(key, nonceField)
	if err != nil {
		return nil, err
	}

	plaintext := make([]byte, len(sealed))
	stream.XORKeyStream(plaintext, sealed)
	return plaintext, nil
}

func newChaCha20Stream(key, nonceField []byte) (*chacha20.Cipher, error) {
	counter := binary.LittleEndian.Uint32(nonceField[:4])
	nonce := nonceField[4:]

	stream, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCryptoError, "constructing chacha20 stream")
	}
	stream.SetCounter(counter)
	return stream, nil
}
