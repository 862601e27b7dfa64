// Package secretengine provides the algorithm-parameterised encrypt/decrypt
// primitives (§4.3). All are authenticated except the chacha20-poly1305
// tag (see chacha20.go); the master-key envelope built on them lives in
// internal/master.
package secretengine

// Algorithm is a canonical, lowercase, hyphen-joined algorithm tag from the
// closed catalogue in §3. Unknown tags must be rejected with
// errors.ErrUnsupportedAlgorithm before any I/O.
type Algorithm string

const (
	AES128GCM96     Algorithm = "aes128-gcm96"
	AES256GCM96     Algorithm = "aes256-gcm96"
	ChaCha20Poly1305 Algorithm = "chacha20-poly1305"
	RSA2048         Algorithm = "rsa-2048"
	RSA3072         Algorithm = "rsa-3072"
	RSA4096         Algorithm = "rsa-4096"
)

// DefaultAlgorithm is used by Key Access when no algorithm is requested.
const DefaultAlgorithm = AES256GCM96

// rsaKeyBits maps an RSA tag to its modulus size in bits.
var rsaKeyBits = map[Algorithm]int{
	RSA2048: 2048,
	RSA3072: 3072,
	RSA4096: 4096,
}

// IsRSA reports whether algo names one of the RSA-OAEP variants.
func IsRSA(algo Algorithm) bool {
	_, ok := rsaKeyBits[algo]
	return ok
}

// Known reports whether algo is a member of the closed catalogue.
func Known(algo Algorithm) bool {
	switch algo {
	case AES128GCM96, AES256GCM96, ChaCha20Poly1305, RSA2048, RSA3072, RSA4096:
		return true
	default:
		return false
	}
}
