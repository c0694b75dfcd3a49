package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes the service surfaces to callers.
// Handlers map these to HTTP statuses; nothing below this layer knows about
// transport.
var (
	// ErrInvalidToken covers both unknown and revoked tokens. The two cases
	// are deliberately indistinguishable to the caller.
	ErrInvalidToken = errors.New("invalid token")

	// ErrNotFound covers both a missing record and a record owned by another
	// application, so tenants cannot probe each other's id space.
	ErrNotFound = errors.New("not found")

	// ErrCorruptBody means a stored body failed to decompress back into a
	// valid structure. The record is reported unreadable, never partially
	// returned.
	ErrCorruptBody = errors.New("corrupt body")

	// ErrStoreUnavailable marks transient storage failures. This is the only
	// class clients are expected to retry, with backoff.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationKind classifies why a submission was rejected.
type ValidationKind string

const (
	ValidationMissingField ValidationKind = "missing_field"
	ValidationWrongType    ValidationKind = "wrong_type"
	ValidationUnknownLevel ValidationKind = "unknown_level"
)

// ValidationError reports a malformed submission. The whole submission is
// rejected; nothing is persisted.
type ValidationError struct {
	Field string
	Kind  ValidationKind
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: field %q: %s", e.Field, e.Kind)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
