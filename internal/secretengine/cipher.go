package secretengine

import apperrors "github.com/allisson/secretcore/internal/errors"

// Cipher is a stateless encrypt/decrypt primitive for one algorithm family.
// Implementations must produce the exact wire layout documented on each
// concrete type — callers never see nonces or tags as separate values.
type Cipher interface {
	Encrypt(key, plaintext []byte) (ciphertext []byte, err error)
	Decrypt(key, ciphertext []byte) (plaintext []byte, err error)
}

// Registry dispatches an algorithm tag to its Cipher, mirroring the
// closed-catalogue switch recommended in place of per-algorithm strategy
// objects (§9 Design Notes).
type Registry struct {
	ciphers map[Algorithm]Cipher
}

// NewRegistry builds the registry covering the full algorithm catalogue.
func NewRegistry() *Registry {
	return &Registry{
		ciphers: map[Algorithm]Cipher{
			AES128GCM96:      aesGCMCipher{},
			AES256GCM96:      aesGCMCipher{},
			ChaCha20Poly1305: chaCha20Cipher{},
			RSA2048:          rsaOAEPCipher{},
			RSA3072:          rsaOAEPCipher{},
			RSA4096:          rsaOAEPCipher{},
		},
	}
}

// Encrypt dispatches to the Cipher registered for algo.
func (r *Registry) Encrypt(algo Algorithm, key, plaintext []byte) ([]byte, error) {
	c, ok := r.ciphers[algo]
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrUnsupportedAlgorithm, string(algo))
	}
	ct, err := c.Encrypt(key, plaintext)
	if err != nil {
		return nil, err
	}
	return ct, nil
}

// Decrypt dispatches to the Cipher registered for algo.
func (r *Registry) Decrypt(algo Algorithm, key, ciphertext []byte) ([]byte, error) {
	c, ok := r.ciphers[algo]
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrUnsupportedAlgorithm, string(algo))
	}
	pt, err := c.Decrypt(key, ciphertext)
	if err != nil {
		return nil, err
	}
	return pt, nil
}
