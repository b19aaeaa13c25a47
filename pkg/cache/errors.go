package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports a key with no backend entry, where the caller asked
// for an error rather than the (data, hit, err) triple.
var ErrNotFound = errors.New("not found")

// RetryableError marks an error as transient. RetryWithBackoff only retries
// errors carrying this marker; everything else fails fast.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err carries the transient marker.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryAttempts bounds RetryWithBackoff. Writes to the cache are best
// effort, so a short budget is enough.
const retryAttempts = 3

// RetryWithBackoff runs fn, retrying transient failures with doubling delays
// starting at one second. The context cancels the wait between attempts.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	var lastErr error
	delay := time.Second

	for attempt := 0; attempt < retryAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		lastErr = err

		if attempt == retryAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return lastErr
}
