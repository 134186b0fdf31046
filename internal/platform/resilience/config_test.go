package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Normalize(t *testing.T) {
	got := Policy{
		Retry:   RetryPolicy{MaxAttempts: 0, BaseDelay: -time.Second},
		Breaker: CircuitBreakerConfig{Enabled: true, FailureThreshold: 0, OpenTimeout: 0, HalfOpenMaxReq: 3},
	}.Normalize()

	assert.Equal(t, 3, got.Retry.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, got.Retry.BaseDelay)
	assert.NotNil(t, got.Retry.Sleep)
	assert.True(t, got.Breaker.Enabled)
	assert.Equal(t, 5, got.Breaker.FailureThreshold)
	assert.Equal(t, 15*time.Second, got.Breaker.OpenTimeout)
	assert.Equal(t, 3, got.Breaker.HalfOpenMaxReq)
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, DefaultRetryPolicy(), p.Retry)
	assert.Equal(t, DefaultCircuitBreakerConfig(), p.Breaker)
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain", err: errors.New("decode failed"), want: false},
		{name: "transient", err: fmt.Errorf("status 503: %w", ErrTransient), want: true},
		{name: "canceled transient", err: errors.Join(ErrTransient, context.Canceled), want: false},
		{name: "deadline", err: fmt.Errorf("%w: %w", ErrTransient, context.DeadlineExceeded), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}
