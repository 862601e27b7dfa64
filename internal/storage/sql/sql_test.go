package sql

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/secretcore/internal/errors"
	"github.com/allisson/secretcore/internal/storage"
)

func newMockBackend(t *testing.T) (*Backend, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db, Postgres), mock
}

func TestBackend_Read_Found(t *testing.T) {
	backend, mock := newMockBackend(t)

	mock.ExpectQuery("SELECT ciphertext FROM secret_versions").
		WithArgs("app1", "db-password").
		WillReturnRows(sqlmock.NewRows([]string{"ciphertext"}).AddRow([]byte("wrapped-bytes")))

	ciphertext, err := backend.Read(context.Background(), "app1", "db-password")
	require.NoError(t, err)
	assert.Equal(t, []byte("wrapped-bytes"), ciphertext)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBackend_Read_NotFound(t *testing.T) {
	backend, mock := newMockBackend(t)

	mock.ExpectQuery("SELECT ciphertext FROM secret_versions").
		WithArgs("app1", "missing-key").
		WillReturnError(sql.ErrNoRows)

	_, err := backend.Read(context.Background(), "app1", "missing-key")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBackend_Write_Succeeds(t *testing.T) {
	backend, mock := newMockBackend(t)

	mock.ExpectQuery("SELECT 1 FROM secret_versions").
		WithArgs("app1", "db-password").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO secret_versions").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := backend.Write(context.Background(), "app1", "db-password", []byte("ciphertext"))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBackend_Write_AlreadyExists(t *testing.T) {
	backend, mock := newMockBackend(t)

	mock.ExpectQuery("SELECT 1 FROM secret_versions").
		WithArgs("app1", "db-password").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	err := backend.Write(context.Background(), "app1", "db-password", []byte("ciphertext"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestBackend_Delete_IsIdempotent(t *testing.T) {
	backend, mock := newMockBackend(t)

	mock.ExpectExec("UPDATE secret_versions SET is_deleted").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := backend.Delete(context.Background(), "app1", "db-password")
	require.NoError(t, err)
}

func TestBackend_ReadAppKey_Found(t *testing.T) {
	backend, mock := newMockBackend(t)

	mock.ExpectQuery("SELECT algorithm, wrapped_app_key FROM application_keys").
		WithArgs("app1").
		WillReturnRows(sqlmock.NewRows([]string{"algorithm", "wrapped_app_key"}).AddRow("aes256-gcm96", []byte("wrapped")))

	algorithm, wrappedAppKey, err := backend.ReadAppKey(context.Background(), "app1")
	require.NoError(t, err)

	got := storage.AppKeyRecord{ApplicationID: "app1", Algorithm: algorithm, WrappedAppKey: wrappedAppKey}
	want := storage.AppKeyRecord{ApplicationID: "app1", Algorithm: "aes256-gcm96", WrappedAppKey: []byte("wrapped")}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("unexpected application key record (-got+want):\n%s", diff)
	}
}

func TestBackend_Read_FoundRecordShape(t *testing.T) {
	backend, mock := newMockBackend(t)

	mock.ExpectQuery("SELECT ciphertext FROM secret_versions").
		WithArgs("app1", "db-password").
		WillReturnRows(sqlmock.NewRows([]string{"ciphertext"}).AddRow([]byte("wrapped-bytes")))

	ciphertext, err := backend.Read(context.Background(), "app1", "db-password")
	require.NoError(t, err)

	got := storage.SecretVersion{ApplicationID: "app1", SecretKey: "db-password", Ciphertext: ciphertext}
	want := storage.SecretVersion{ApplicationID: "app1", SecretKey: "db-password", Ciphertext: []byte("wrapped-bytes")}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("unexpected secret version record (-got+want):\n%s", diff)
	}
}

func TestBackend_ReadAppKey_NotFound(t *testing.T) {
	backend, mock := newMockBackend(t)

	mock.ExpectQuery("SELECT algorithm, wrapped_app_key FROM application_keys").
		WithArgs("app1").
		WillReturnError(sql.ErrNoRows)

	_, _, err := backend.ReadAppKey(context.Background(), "app1")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBackend_WriteAppKey_AlreadyExists(t *testing.T) {
	backend, mock := newMockBackend(t)

	mock.ExpectExec("INSERT INTO application_keys").
		WillReturnError(&pq.Error{Code: "23505"})

	err := backend.WriteAppKey(context.Background(), "app1", "aes256-gcm96", []byte("wrapped"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestBackend_WriteAppKey_OtherFaultIsStorageUnavailable(t *testing.T) {
	backend, mock := newMockBackend(t)

	mock.ExpectExec("INSERT INTO application_keys").
		WillReturnError(&mysqlLikeDuplicateError{})

	err := backend.WriteAppKey(context.Background(), "app1", "aes256-gcm96", []byte("wrapped"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}

func TestBackend_UpdateAppKey_NotFound(t *testing.T) {
	backend, mock := newMockBackend(t)

	mock.ExpectExec("UPDATE application_keys SET wrapped_app_key").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := backend.UpdateAppKey(context.Background(), "app1", []byte("wrapped"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// mysqlLikeDuplicateError is a minimal stand-in so isUniqueViolation's
// errors.As branch for *mysql.MySQLError can't match it (this is a
// plain storage-unavailable fault, confirming the non-duplicate path
// still wraps ErrStorageUnavailable rather than misreporting AlreadyExists).
type mysqlLikeDuplicateError struct{}

func (*mysqlLikeDuplicateError) Error() string { return "connection reset" }
