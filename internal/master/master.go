// Package master owns the process-wide master key and the envelope
// operations built on top of the Secret Engine's per-algorithm ciphers
// (§3, §4.3). It is process-wide, read-only for the life of the process,
// and never persisted or emitted in diagnostics.
package master

import (
	apperrors "github.com/allisson/secretcore/internal/errors"
	"github.com/allisson/secretcore/internal/secretengine"
)

// Key holds the master algorithm and key material loaded once at startup
// from MASTER_KEY / MASTER_ALGORITHM (§6). RSA is not a permitted master
// algorithm (§6): the master layer only ever wraps a DEK or a single-layer
// ciphertext, both symmetric operations.
type Key struct {
	Algorithm secretengine.Algorithm
	Bytes     []byte

	registry *secretengine.Registry
}

// Load validates and constructs the process-wide master key. algorithm
// must be one of the symmetric catalogue tags; RSA tags are rejected
// eagerly so a misconfiguration surfaces at startup, not on first use.
func Load(algorithm string, key []byte, registry *secretengine.Registry) (*Key, error) {
	algo := secretengine.Algorithm(algorithm)

	if !secretengine.Known(algo) {
		return nil, apperrors.Wrap(apperrors.ErrUnsupportedAlgorithm, algorithm)
	}
	if secretengine.IsRSA(algo) {
		return nil, apperrors.Wrap(apperrors.ErrUnsupportedAlgorithm, "rsa is not permitted as the master algorithm")
	}

	return &Key{Algorithm: algo, Bytes: key, registry: registry}, nil
}

// Wrap encrypts plaintext under the master key — used both to double-wrap
// a secret ciphertext and to wrap a DEK before Storage.write_app_key.
func (k *Key) Wrap(plaintext []byte) ([]byte, error) {
	return k.registry.Encrypt(k.Algorithm, k.Bytes, plaintext)
}

// Unwrap decrypts ciphertext that was produced by Wrap.
func (k *Key) Unwrap(ciphertext []byte) ([]byte, error) {
	return k.registry.Decrypt(k.Algorithm, k.Bytes, ciphertext)
}

// Zero scrubs the master key bytes from memory. Callers invoke this only
// at process shutdown; Key is otherwise read-only for process lifetime.
func (k *Key) Zero() {
	for i := range k.Bytes {
		k.Bytes[i] = 0
	}
}
