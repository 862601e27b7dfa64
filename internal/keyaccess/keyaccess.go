// Package keyaccess implements deterministic selection of an encryption
// algorithm for a newly registered application and generation of that
// application's data-encryption key (§4.2). It is a pure function over a
// CSPRNG: no state, no I/O, no suspension points.
package keyaccess

import (
	"crypto/rand"

	apperrors "github.com/allisson/secretcore/internal/errors"
	"github.com/allisson/secretcore/internal/secretengine"
)

// symmetricKeyBytes maps a symmetric algorithm tag to its DEK length.
var symmetricKeyBytes = map[secretengine.Algorithm]int{
	secretengine.AES128GCM96:      16,
	secretengine.AES256GCM96:      32,
	secretengine.ChaCha20Poly1305: 32,
}

var rsaBits = map[secretengine.Algorithm]int{
	secretengine.RSA2048: 2048,
	secretengine.RSA3072: 3072,
	secretengine.RSA4096: 4096,
}

// GenerateAppKey produces a DEK of the shape required by algorithm. An
// empty algorithm defaults to secretengine.DefaultAlgorithm
// (aes256-gcm96). The returned (algorithm, key) pair is always accepted
// as input to Secret Engine's encrypt/decrypt for that same algorithm.
func GenerateAppKey(algorithm string) (string, []byte, error) {
	algo := secretengine.Algorithm(algorithm)
	if algo == "" {
		algo = secretengine.DefaultAlgorithm
	}

	if !secretengine.Known(algo) {
		return "", nil, apperrors.Wrap(apperrors.ErrUnsupportedAlgorithm, algorithm)
	}

	if bits, ok := rsaBits[algo]; ok {
		pemKey, err := secretengine.GenerateRSAPrivateKeyPEM(bits)
		if err != nil {
			return "", nil, err
		}
		return string(algo), pemKey, nil
	}

	size := symmetricKeyBytes[algo]
	key := make([]byte, size)
	if _, err := rand.Read(key); err != nil {
		return "", nil, apperrors.Wrap(apperrors.ErrCryptoError, "generating app key")
	}
	return string(algo), key, nil
}
