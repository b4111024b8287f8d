package casino

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthExpired means the session token was rejected or has expired. Callers must
	// re-authenticate; retrying with the same token cannot succeed.
	ErrAuthExpired = errors.New("session expired")

	// ErrUnavailable means the upstream answered 503.
	ErrUnavailable = errors.New("offers service unavailable")
)

// ProtocolError is returned for any non-2xx status other than 403 and 503.
type ProtocolError struct {
	// Body is the raw response body.
	Body string

	// StatusCode is the HTTP status returned.
	StatusCode int
}

// Error implements error.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// TransientError wraps network and decoding failures that may succeed on retry.
type TransientError struct {
	// Err is the underlying failure.
	Err error
}

// Error implements error.
func (e *TransientError) Error() string {
	return "transient failure: " + e.Err.Error()
}

// Unwrap returns the underlying failure.
func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is worth retrying: a 503 or a transient failure.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	var transient *TransientError
	return errors.As(err, &transient)
}
