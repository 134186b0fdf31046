package resilience

import (
	"context"
	"errors"
	"time"
)

// ErrTransient marks a failure that is worth another attempt (network errors,
// 408/429 and 5xx responses). Anything else stops Retry immediately.
var ErrTransient = errors.New("transient upstream failure")

// ErrRetriesExhausted is joined with the last failure once every attempt failed.
var ErrRetriesExhausted = errors.New("retries exhausted")

type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration

	// Sleep waits for d or until ctx is done. Tests swap it to record delays.
	Sleep func(ctx context.Context, d time.Duration) error

	// OnRetry is called after a failed attempt that will be retried.
	OnRetry func(attempt int, delay time.Duration, err error)
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
	}
}

func NormalizeRetryPolicy(policy RetryPolicy) RetryPolicy {
	defaults := DefaultRetryPolicy()
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = defaults.MaxAttempts
	}
	if policy.BaseDelay < 0 {
		policy.BaseDelay = defaults.BaseDelay
	}
	if policy.Sleep == nil {
		policy.Sleep = sleepContext
	}
	return policy
}

// Retry runs fn up to MaxAttempts times with linear backoff: the wait before
// attempt k+1 is BaseDelay*k. Only errors wrapping ErrTransient are retried.
// A cancelled ctx ends the loop with ctx.Err().
func Retry[T any](ctx context.Context, policy RetryPolicy, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	policy = NormalizeRetryPolicy(policy)

	var zero T
	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		value, err := fn(ctx, attempt)
		if err == nil {
			return value, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}
		if !errors.Is(err, ErrTransient) {
			return zero, err
		}

		lastErr = err
		if attempt == policy.MaxAttempts {
			break
		}

		delay := policy.BaseDelay * time.Duration(attempt)
		if policy.OnRetry != nil {
			policy.OnRetry(attempt, delay, err)
		}
		if err := policy.Sleep(ctx, delay); err != nil {
			return zero, err
		}
	}

	return zero, errors.Join(ErrRetriesExhausted, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
