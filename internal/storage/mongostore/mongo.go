// Package mongostore implements storage.Backend over MongoDB, the
// document-store variant named in §4.1. It is new code grounded on
// idiomatic go.mongodb.org/mongo-driver/v2 usage rather than a pack
// teacher file — the retrieval pack carries mongo-driver/v2 only as an
// indirect dependency of gocloud.dev/secrets, with no directly-exercised
// example to imitate line-for-line (see DESIGN.md).
package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	apperrors "github.com/allisson/secretcore/internal/errors"
	"github.com/allisson/secretcore/internal/storage"
)

const (
	appKeysCollection       = "application_keys"
	secretVersionsColl      = "secret_versions"
	duplicateKeyErrorCode   = 11000
)

type appKeyDoc struct {
	ApplicationID string    `bson:"application_id"`
	Algorithm     string    `bson:"algorithm"`
	WrappedAppKey []byte    `bson:"wrapped_app_key"`
	Version       int       `bson:"version"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

type secretVersionDoc struct {
	ApplicationID string     `bson:"application_id"`
	SecretKey     string     `bson:"secret_key"`
	Ciphertext    []byte     `bson:"ciphertext"`
	Version       int        `bson:"version"`
	IsDeleted     bool       `bson:"is_deleted"`
	IsDestroyed   bool       `bson:"is_destroyed"`
	CreatedAt     time.Time  `bson:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at"`
	DeletedAt     *time.Time `bson:"deleted_at,omitempty"`
}

// Backend is a storage.Backend implementation over two MongoDB
// collections. Because cross-document transactional semantics may be
// weaker than SQL's, Update inserts the new version before tombstoning
// the old one and Read always sorts by version descending and takes the first
// non-deleted document — the "prefer the newer one when both are
// visible" contract §4.1 and §9 require of the document backend.
type Backend struct {
	appKeys        *mongo.Collection
	secretVersions *mongo.Collection
}

// New constructs a storage.Backend backed by the given database, creating
// the indexes documented in §4.1 (unique on application_id for AKRs,
// compound on (application_id, secret_key, version) for SVRs) if absent.
func New(ctx context.Context, db *mongo.Database) (*Backend, error) {
	b := &Backend{
		appKeys:        db.Collection(appKeysCollection),
		secretVersions: db.Collection(secretVersionsColl),
	}

	if _, err := b.appKeys.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "application_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, "creating application_keys index")
	}

	if _, err := b.secretVersions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "application_id", Value: 1},
			{Key: "secret_key", Value: 1},
			{Key: "version", Value: -1},
		},
	}); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, "creating secret_versions index")
	}

	return b, nil
}

func (b *Backend) Read(ctx context.Context, applicationID, secretKey string) ([]byte, error) {
	filter := bson.M{"application_id": applicationID, "secret_key": secretKey, "is_deleted": false}
	opts := options.FindOne().SetSort(bson.D{{Key: "version", Value: -1}})

	var doc secretVersionDoc
	err := b.secretVersions.FindOne(ctx, filter, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, "reading secret version")
	}
	return doc.Ciphertext, nil
}

func (b *Backend) Write(ctx context.Context, applicationID, secretKey string, ciphertext []byte) error {
	count, err := b.secretVersions.CountDocuments(ctx, bson.M{"application_id": applicationID, "secret_key": secretKey}, options.Count().SetLimit(1))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, "probing secret version existence")
	}
	if count > 0 {
		return apperrors.ErrAlreadyExists
	}

	now := time.Now().UTC()
	doc := secretVersionDoc{
		ApplicationID: applicationID,
		SecretKey:     secretKey,
		Ciphertext:    ciphertext,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := b.secretVersions.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrAlreadyExists
		}
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, "writing secret version")
	}
	return nil
}

func (b *Backend) Update(ctx context.Context, applicationID, secretKey string, ciphertext []byte) error {
	filter := bson.M{"application_id": applicationID, "secret_key": secretKey, "is_deleted": false}
	opts := options.FindOne().SetSort(bson.D{{Key: "version", Value: -1}})

	var current secretVersionDoc
	err := b.secretVersions.FindOne(ctx, filter, opts).Decode(&current)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.ErrNotFound
		}
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, "reading current secret version")
	}

	now := time.Now().UTC()

	// Insert first: a concurrent reader may transiently see both the old
	// and the new document as live, which is an accepted outcome of the
	// weaker document-store transactionality (§4.1) since Read prefers the
	// higher version; it never sees neither.
	next := secretVersionDoc{
		ApplicationID: applicationID,
		SecretKey:     secretKey,
		Ciphertext:    ciphertext,
		Version:       current.Version + 1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := b.secretVersions.InsertOne(ctx, next); err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, "inserting new secret version")
	}

	_, err = b.secretVersions.UpdateOne(
		ctx,
		bson.M{"application_id": applicationID, "secret_key": secretKey, "version": current.Version},
		bson.M{"$set": bson.M{"is_deleted": true, "deleted_at": now, "updated_at": now}},
	)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, "tombstoning prior secret version")
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, applicationID, secretKey string) error {
	now := time.Now().UTC()
	// Idempotent: matches zero documents if already tombstoned, which is
	// not an error (§9).
	_, err := b.secretVersions.UpdateMany(
		ctx,
		bson.M{"application_id": applicationID, "secret_key": secretKey, "is_deleted": false},
		bson.M{"$set": bson.M{"is_deleted": true, "deleted_at": now, "updated_at": now}},
	)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, "deleting secret version")
	}
	return nil
}

func (b *Backend) ReadAppKey(ctx context.Context, applicationID string) (string, []byte, error) {
	var doc appKeyDoc
	err := b.appKeys.FindOne(ctx, bson.M{"application_id": applicationID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil, apperrors.ErrNotFound
		}
		return "", nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, "reading application key")
	}
	return doc.Algorithm, doc.WrappedAppKey, nil
}

func (b *Backend) WriteAppKey(ctx context.Context, applicationID, algorithm string, wrappedAppKey []byte) error {
	now := time.Now().UTC()
	doc := appKeyDoc{
		ApplicationID: applicationID,
		Algorithm:     algorithm,
		WrappedAppKey: wrappedAppKey,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := b.appKeys.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrAlreadyExists
		}
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, "writing application key")
	}
	return nil
}

func (b *Backend) UpdateAppKey(ctx context.Context, applicationID string, wrappedAppKey []byte) error {
	res, err := b.appKeys.UpdateOne(
		ctx,
		bson.M{"application_id": applicationID},
		bson.M{
			"$set": bson.M{"wrapped_app_key": wrappedAppKey, "updated_at": time.Now().UTC()},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, "updating application key")
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (b *Backend) DeleteAppKey(ctx context.Context, applicationID string) error {
	if _, err := b.appKeys.DeleteOne(ctx, bson.M{"application_id": applicationID}); err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, "deleting application key")
	}
	return nil
}

var _ storage.Backend = (*Backend)(nil)
