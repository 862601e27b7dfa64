package secretengine

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"

	apperrors "github.com/allisson/secretcore/internal/errors"
)

// rsaOAEPCipher implements the rsa-2048/3072/4096 catalogue tags. The
// "key" is always the PEM-encoded RSA private key blob — the same bytes
// Key Access generated and that Storage persists as the wrapped DEK
// (§4.2). The public half is re-derived from the private key at encrypt
// time; this unusual but functional behaviour is preserved verbatim
// rather than "fixed" into a split public/private key pair (§9).
type rsaOAEPCipher struct{}

func (rsaOAEPCipher) Encrypt(key, plaintext []byte) ([]byte, error) {
	priv, err := parseRSAPrivateKeyPEM(key)
	if err != nil {
		return nil, err
	}

	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, &priv.PublicKey, plaintext, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCryptoError, "rsa-oaep encrypt")
	}
	return ciphertext, nil
}

func (rsaOAEPCipher) Decrypt(key, ciphertext []byte) ([]byte, error) {
	priv, err := parseRSAPrivateKeyPEM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, ciphertext, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDecryptFailed, "rsa-oaep decrypt")
	}
	return plaintext, nil
}

func parseRSAPrivateKeyPEM(key []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(key)
	if block == nil {
		return nil, apperrors.Wrap(apperrors.ErrCryptoError, "no PEM block found in rsa key")
	}

	priv, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCryptoError, "parsing rsa private key")
	}
	return priv, nil
}

// GenerateRSAPrivateKeyPEM creates a fresh RSA private key with public
// exponent 65537 (the stdlib default) at the given modulus size, encoded
// unencrypted as PKCS#1 PEM — the DEK shape Key Access returns for RSA
// algorithm tags (§4.2).
func GenerateRSAPrivateKeyPEM(bits int) ([]byte, error) {
	priv, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCryptoError, "generating rsa key")
	}

	block := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(priv),
	}
	return pem.EncodeToMemory(block), nil
}
