package resilience

import (
	"context"
	"errors"
	"time"
)

// CircuitBreakerConfig tunes the consecutive-failure breaker in front of an
// upstream. A disabled breaker still tracks state but never rejects.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	defaults := DefaultCircuitBreakerConfig()
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaults.OpenTimeout
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return cfg
}

// Policy is the full fetch policy for one upstream: how often to retry and
// when to stop calling it altogether.
type Policy struct {
	Retry   RetryPolicy
	Breaker CircuitBreakerConfig
}

func DefaultPolicy() Policy {
	return Policy{Retry: DefaultRetryPolicy(), Breaker: DefaultCircuitBreakerConfig()}
}

func (p Policy) Normalize() Policy {
	return Policy{
		Retry:   NormalizeRetryPolicy(p.Retry),
		Breaker: NormalizeCircuitBreakerConfig(p.Breaker),
	}
}

// IsTransient reports whether err should be retried and counted against the
// breaker. Caller cancellation never counts, even when wrapped as transient.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, ErrTransient)
}
