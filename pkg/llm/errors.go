package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrMalformedOutput indicates the model responded, but not with valid
// structured data. The stage runner treats it like a transient error: one
// re-prompt attempt, then fallback.
var ErrMalformedOutput = errors.New("model output is not valid structured data")

// transientError marks failures worth exactly one retry: timeouts,
// connection errors, vendor 5xx and vendor rate limiting.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return fmt.Sprintf("transient provider error: %v", e.err) }
func (e *transientError) Unwrap() error { return e.err }

// Transient wraps err so that IsTransient reports true for it.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err is worth a single retry.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var te *transientError
	if errors.As(err, &te) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return false
}

// IsRetryable reports whether the stage runner should attempt its single
// retry for err. Malformed output is retried once as a re-prompt.
func IsRetryable(err error) bool {
	return IsTransient(err) || errors.Is(err, ErrMalformedOutput)
}
