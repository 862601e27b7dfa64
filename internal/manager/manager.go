// Package manager implements the Secret Manager (§4.4): the request
// pipeline that orchestrates Key Access, Secret Engine, and Storage
// Backend into bootstrap-or-reuse-DEK, encrypt/persist, and
// decrypt/retrieve flows with compensating rollback on partial failure.
package manager

import (
	"context"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/allisson/secretcore/internal/errors"
	"github.com/allisson/secretcore/internal/keyaccess"
	"github.com/allisson/secretcore/internal/master"
	"github.com/allisson/secretcore/internal/secretengine"
	"github.com/allisson/secretcore/internal/storage"
)

// Manager is stateless except for references to its three collaborators
// (§3 Ownership, §4.4).
type Manager struct {
	storage  storage.Backend
	registry *secretengine.Registry
	master   *master.Key
}

// New builds a Manager over the given Storage Backend and master key. The
// Secret Engine's algorithm registry is shared with the master key's own
// envelope operations, since both ultimately dispatch the same six-tag
// catalogue.
func New(backend storage.Backend, masterKey *master.Key, registry *secretengine.Registry) *Manager {
	return &Manager{storage: backend, registry: registry, master: masterKey}
}

// StoreSecrets encrypts and persists every entry in data under
// applicationID, bootstrapping a DEK at algorithm if this is the
// application's first request (§4.4 store path). If algorithm is empty,
// Key Access's default applies only on bootstrap; for an existing
// application, the requested algorithm is ignored (§4.4 step 2 note).
func (m *Manager) StoreSecrets(ctx context.Context, applicationID string, data map[string]string, algorithm string) error {
	algo, dek, err := m.loadOrBootstrapDEK(ctx, applicationID, algorithm)
	if err != nil {
		return err
	}

	written := make([]string, 0, len(data))
	for secretKey, plaintext := range data {
		if err := ctx.Err(); err != nil {
			m.rollback(context.WithoutCancel(ctx), applicationID, written)
			return apperrors.Wrap(apperrors.ErrCancelled, "store secrets cancelled")
		}

		ciphertext, err := m.registry.Encrypt(secretengine.Algorithm(algo), dek, []byte(plaintext))
		if err != nil {
			m.rollback(ctx, applicationID, written)
			return err
		}

		ciphertext, err = m.master.Wrap(ciphertext)
		if err != nil {
			m.rollback(ctx, applicationID, written)
			return err
		}

		if err := m.writeOrUpdate(ctx, applicationID, secretKey, ciphertext); err != nil {
			m.rollback(ctx, applicationID, written)
			return err
		}
		written = append(written, secretKey)
	}

	return nil
}

// RetrieveSecret decrypts and returns the current value of secretKey
// under applicationID (§4.4 retrieve path). A missing application key
// record (the Manager never auto-creates on read) and a missing secret
// both return ErrNotFound; RetrieveSecret itself returns a plain error,
// and ProcessRequest turns either case into the `{"error": ...}` sentinel
// at its compatibility boundary (§9 Design Notes).
func (m *Manager) RetrieveSecret(ctx context.Context, applicationID, secretKey string) (string, error) {
	algo, dek, err := m.loadDEK(ctx, applicationID)
	if err != nil {
		return "", err
	}

	wrapped, err := m.storage.Read(ctx, applicationID, secretKey)
	if err != nil {
		return "", err
	}

	inner, err := m.master.Unwrap(wrapped)
	if err != nil {
		return "", err
	}

	plaintext, err := m.registry.Decrypt(secretengine.Algorithm(algo), dek, inner)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// DeleteSecret tombstones secretKey directly; the DEK is not needed
// (§4.4). Idempotent per §8 property 6.
func (m *Manager) DeleteSecret(ctx context.Context, applicationID, secretKey string) error {
	return m.storage.Delete(ctx, applicationID, secretKey)
}

// ProcessRequest preserves the source's polymorphic outer contract
// (§9 Design Notes): a map[string]string request stores, a string
// request retrieves. It exists only as a compatibility shim for callers
// built against that shape; new code should prefer StoreSecrets and
// RetrieveSecret directly.
func (m *Manager) ProcessRequest(ctx context.Context, applicationID string, data any, algorithm string) (map[string]string, error) {
	switch v := data.(type) {
	case map[string]string:
		if err := m.StoreSecrets(ctx, applicationID, v, algorithm); err != nil {
			return nil, err
		}
		return map[string]string{"status": "success"}, nil

	case string:
		plaintext, err := m.RetrieveSecret(ctx, applicationID, v)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				return map[string]string{"error": "Secret not found"}, nil
			}
			return nil, err
		}
		return map[string]string{v: plaintext}, nil

	default:
		return nil, apperrors.New("data must be a map[string]string (store) or string (retrieve)")
	}
}

// loadOrBootstrapDEK implements §4.4 step 1-3 of the store path,
// including the first-write race handling required by §5: if a
// concurrent request wins the bootstrap race, this request re-reads
// rather than overwriting.
func (m *Manager) loadOrBootstrapDEK(ctx context.Context, applicationID, requestedAlgorithm string) (string, []byte, error) {
	algo, wrappedDEK, err := m.storage.ReadAppKey(ctx, applicationID)
	if err == nil {
		dek, err := m.master.Unwrap(wrappedDEK)
		if err != nil {
			return "", nil, err
		}
		return algo, dek, nil
	}
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		return "", nil, err
	}

	generatedAlgo, dekPlaintext, err := keyaccess.GenerateAppKey(requestedAlgorithm)
	if err != nil {
		return "", nil, err
	}

	wrapped, err := m.master.Wrap(dekPlaintext)
	if err != nil {
		return "", nil, err
	}

	if err := m.storage.WriteAppKey(ctx, applicationID, generatedAlgo, wrapped); err != nil {
		if apperrors.Is(err, apperrors.ErrAlreadyExists) {
			// Lost the bootstrap race: re-read the winner's record
			// rather than retrying the write (§5).
			return m.loadDEK(ctx, applicationID)
		}
		return "", nil, err
	}

	return generatedAlgo, dekPlaintext, nil
}

// loadDEK implements §4.4 retrieve-path steps 1-2: the AKR must already
// exist.
func (m *Manager) loadDEK(ctx context.Context, applicationID string) (string, []byte, error) {
	algo, wrappedDEK, err := m.storage.ReadAppKey(ctx, applicationID)
	if err != nil {
		return "", nil, err
	}

	dek, err := m.master.Unwrap(wrappedDEK)
	if err != nil {
		return "", nil, err
	}
	return algo, dek, nil
}

// writeOrUpdate implements §4.4 step 4b: attempt Write and fall back to
// Update on AlreadyExists, rather than probing with Read first.
func (m *Manager) writeOrUpdate(ctx context.Context, applicationID, secretKey string, ciphertext []byte) error {
	err := m.storage.Write(ctx, applicationID, secretKey, ciphertext)
	if err == nil {
		return nil
	}
	if !apperrors.Is(err, apperrors.ErrAlreadyExists) {
		return err
	}
	return m.storage.Update(ctx, applicationID, secretKey, ciphertext)
}

// rollback issues Storage.Delete for every key written so far in this
// batch, per §4.4 step 5 / §5 cancellation. Per-key failures never mask
// the original error: errgroup keeps at most the first of them and it is
// discarded here, so rollback failures are not reported to the caller of
// StoreSecrets.
func (m *Manager) rollback(ctx context.Context, applicationID string, secretKeys []string) {
	// A zero-value errgroup.Group (no WithContext) runs every delete to
	// completion regardless of sibling failures — rollback must attempt
	// every key even if one delete errors.
	var g errgroup.Group
	for _, key := range secretKeys {
		g.Go(func() error {
			return m.storage.Delete(ctx, applicationID, key)
		})
	}
	_ = g.Wait()
}
