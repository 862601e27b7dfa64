// Package errors provides standardized domain errors for business logic.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates missing or invalid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates insufficient permissions.
	ErrForbidden = errors.New("forbidden")

	// ErrLocked indicates the resource is temporarily locked.
	ErrLocked = errors.New("locked")

	// ErrAlreadyExists indicates a record with the same logical identity
	// already exists. Handled locally by the Secret Manager's first-write
	// race logic; otherwise propagated.
	ErrAlreadyExists = errors.New("already exists")

	// ErrStorageUnavailable indicates the storage driver could not be
	// reached or returned an unexpected fault. Retriable by the caller.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrUnsupportedAlgorithm indicates an algorithm tag outside the
	// closed catalogue. Fatal for the request; never retried.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrDecryptFailed indicates an integrity or parse failure during
	// decryption. Fatal for the request.
	ErrDecryptFailed = errors.New("decrypt failed")

	// ErrCryptoError indicates an unexpected low-level cryptographic
	// fault unrelated to the input (e.g. a CSPRNG read failure).
	ErrCryptoError = errors.New("crypto error")

	// ErrCancelled indicates the caller's context was cancelled mid
	// request. Surfaced after best-effort rollback of any partial batch.
	ErrCancelled = errors.New("cancelled")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message while preserving the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
