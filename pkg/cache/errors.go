package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable marks a backend (Redis, MongoDB) that did not answer.
var ErrUnavailable = errors.New("backend unavailable")

type retryable struct{ err error }

func (r retryable) Error() string { return r.err.Error() }
func (r retryable) Unwrap() error { return r.err }

// Retryable marks err as transient for [RetryWithBackoff]. A nil error stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return retryable{err: err}
}

// IsRetryable reports whether err, or an error it wraps, was marked by [Retryable].
func IsRetryable(err error) bool {
	var r retryable
	return errors.As(err, &r)
}

const retryAttempts = 3

// retryDelay is the wait before the second attempt; tests shorten it.
var retryDelay = 500 * time.Millisecond

// RetryWithBackoff calls connect until it succeeds, fails with an unmarked
// error, or has failed three times. The wait doubles between attempts and
// ends early when ctx is done.
func RetryWithBackoff(ctx context.Context, connect func() error) error {
	var err error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(retryDelay << (attempt - 1))
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		if err = connect(); err == nil || !IsRetryable(err) {
			return err
		}
	}
	return err
}
