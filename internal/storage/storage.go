// Package storage defines the versioned key/value contract for secret
// ciphertexts and wrapped application keys (§4.1), and the two concrete
// backends that implement it live in its subpackages sql and mongostore.
package storage

import (
	"context"
	"time"
)

// AppKeyRecord is one row/document per application (§3). At most one AKR
// exists per ApplicationID; Algorithm is immutable once written —
// rotation replaces WrappedAppKey and bumps Version, never Algorithm.
type AppKeyRecord struct {
	ApplicationID string
	Algorithm     string
	WrappedAppKey []byte
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SecretVersion is one row/document in the append-only log for a
// (ApplicationID, SecretKey) pair (§3).
type SecretVersion struct {
	ApplicationID string
	SecretKey     string
	Ciphertext    []byte
	Version       int
	IsDeleted     bool
	IsDestroyed   bool // reserved for crypto-shredding; never transitioned (§9)
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

// Backend is the abstract versioned store for ciphertexts and wrapped
// application keys (§4.1). Every method fails with errors.ErrNotFound,
// errors.ErrAlreadyExists, or errors.ErrStorageUnavailable as documented
// per-method; driver faults are always translated to one of these three,
// never bubbled raw.
type Backend interface {
	// Read returns the ciphertext of the current (non-deleted, highest
	// version) SVR for (applicationID, secretKey), or ErrNotFound if none
	// exists.
	Read(ctx context.Context, applicationID, secretKey string) ([]byte, error)

	// Write inserts a new SVR at version 1. Fails with ErrAlreadyExists if
	// any SVR already exists for this logical identity, deleted or not.
	Write(ctx context.Context, applicationID, secretKey string, ciphertext []byte) error

	// Update flips the current SVR to deleted and inserts a new one at
	// version = prior_max + 1, atomically with respect to concurrent
	// readers. Fails with ErrNotFound if no prior record exists.
	Update(ctx context.Context, applicationID, secretKey string, ciphertext []byte) error

	// Delete tombstones the current SVR. Idempotent: deleting an
	// already-deleted (or never-existing-as-live) logical key succeeds
	// without error (§9 open question, resolved in favour of idempotency
	// so the Manager's delete_secret surface is idempotent per §8
	// property 6).
	Delete(ctx context.Context, applicationID, secretKey string) error

	// ReadAppKey returns the current AKR for applicationID, or
	// ErrNotFound if none exists.
	ReadAppKey(ctx context.Context, applicationID string) (algorithm string, wrappedAppKey []byte, err error)

	// WriteAppKey inserts a new AKR at version 1. Fails with
	// ErrAlreadyExists if one is already present.
	WriteAppKey(ctx context.Context, applicationID, algorithm string, wrappedAppKey []byte) error

	// UpdateAppKey replaces WrappedAppKey and bumps Version. Algorithm is
	// immutable and is not an argument.
	UpdateAppKey(ctx context.Context, applicationID string, wrappedAppKey []byte) error

	// DeleteAppKey hard-deletes the AKR for applicationID.
	DeleteAppKey(ctx context.Context, applicationID string) error
}
