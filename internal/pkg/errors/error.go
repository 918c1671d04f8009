package xerrors

import (
	"errors"
	"fmt"
)

// Common reusable application errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrUnauthorized   = errors.New("unauthorized access")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidInput   = errors.New("invalid input")
	ErrConflict       = errors.New("conflict: resource already exists")
	ErrInternal       = errors.New("internal server error")
	ErrRateLimited    = errors.New("too many requests")
	ErrBadRequest     = errors.New("bad request")
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Access-control taxonomy. These are handled at the boundary where they
// occur and always render as a response state, never a crash.
var (
	// ErrAuthExpired means a token was presented but is expired or its
	// session is gone; the client must clear stored credentials.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrPermissionDenied is the evaluator saying no. Recoverable,
	// rendered as a static denial view.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrSubscriptionLocked means the usage envelope is exhausted or the
	// plan lapsed; recoverable only through an upgrade.
	ErrSubscriptionLocked = errors.New("subscription expired or limit exceeded")

	// ErrFetchFailed wraps collaborator call failures (payment provider,
	// etc.); callers keep operating on the last known snapshot.
	ErrFetchFailed = errors.New("upstream fetch failed")

	// ErrStaleSession rejects a session replacement whose version no
	// longer matches the stored record.
	ErrStaleSession = errors.New("stale session write rejected")
)

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Mark chains an error under a sentinel so errors.Is matches both the
// sentinel and the original cause.
func Mark(err, sentinel error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Unwrap extracts the underlying wrapped error.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// MessageOrDefault returns err.Error() or a fallback message if err is nil.
func MessageOrDefault(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}
