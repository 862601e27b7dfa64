package database

import (
	"context"
	"database/sql"

	apperrors "github.com/allisson/secretcore/internal/errors"
)

// txKey is the context key under which an in-flight transaction is
// stashed so GetTx can hand it back to the sql storage backend's
// tombstone-then-insert Update without threading a *sql.Tx through every
// call signature.
type txKey struct{}

// Querier is satisfied by both *sql.DB and *sql.Tx, letting storage/sql
// run its queries the same way whether or not GetTx found a transaction
// in ctx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxManager runs fn inside a single transaction, rolling back on error.
// storage/sql's Update uses this to make its tombstone-prior-version and
// insert-next-version pair atomic.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type sqlTxManager struct {
	db *sql.DB
}

// NewTxManager builds a TxManager over db.
func NewTxManager(db *sql.DB) TxManager {
	return &sqlTxManager{db: db}
}

// WithTx begins a transaction, stashes it in ctx via txKey, and commits
// or rolls back based on fn's result. fn's own error is returned as is;
// begin, commit and rollback failures are returned as ErrStorageUnavailable.
func (m *sqlTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, "beginning transaction")
	}

	ctx = context.WithValue(ctx, txKey{}, tx)

	if err := fn(ctx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return apperrors.Wrap(apperrors.ErrStorageUnavailable, "rolling back transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, "committing transaction")
	}
	return nil
}

// GetTx returns the transaction stashed in ctx by WithTx, or db itself
// if no transaction is in flight — the same Querier either way.
func GetTx(ctx context.Context, db *sql.DB) Querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}
