package providers

import (
	"context"
	"math/rand"
	"time"
)

// retryConfig implements the §4.1 retry policy: up to 3 attempts on a
// Transient error, exponential backoff with jitter starting at ~2s,
// capped at ~10s. No retry is attempted if the context deadline does
// not leave enough time for another attempt.
type retryConfig struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
}

func defaultRetryConfig() retryConfig {
	return retryConfig{
		maxAttempts: 3,
		baseDelay:   2 * time.Second,
		maxDelay:    10 * time.Second,
	}
}

// withRetry runs fn up to maxAttempts times, retrying only when fn
// returns an *Error with Kind == Transient. Any other error (including
// Permanent) is returned immediately. Once attempts are exhausted, the
// last error is rewrapped as Unavailable.
func withRetry(ctx context.Context, provider string, cfg retryConfig, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < cfg.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(cfg, attempt)
			if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < delay {
				break
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}

		lastErr = err
		var provErr *Error
		if e, ok := err.(*Error); ok {
			provErr = e
		}
		if provErr == nil || provErr.Kind != Transient {
			return err
		}
	}

	return NewError(provider, Unavailable, "retries exhausted", lastErr)
}

func backoffDelay(cfg retryConfig, attempt int) time.Duration {
	delay := cfg.baseDelay << uint(attempt-1)
	if delay > cfg.maxDelay {
		delay = cfg.maxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(delay) / 2))
	return delay/2 + jitter
}
