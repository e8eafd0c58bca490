package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryPolicy_Delay(t *testing.T) {
	tests := []struct {
		name     string
		policy   RetryPolicy
		failures int
		want     time.Duration
	}{
		{"default first", DefaultRetryPolicy, 1, 5 * time.Second},
		{"default stays constant", DefaultRetryPolicy, 10, 5 * time.Second},
		{"zero policy falls back to default interval", RetryPolicy{}, 3, DefaultRetryInterval},
		{"backoff first", RetryPolicy{Interval: time.Second, Multiplier: 2}, 1, time.Second},
		{"backoff grows", RetryPolicy{Interval: time.Second, Multiplier: 2}, 3, 4 * time.Second},
		{"backoff capped", RetryPolicy{Interval: time.Second, Multiplier: 2, MaxInterval: 5 * time.Second}, 4, 5 * time.Second},
		{"uncapped huge attempt does not overflow", RetryPolicy{Interval: time.Second, Multiplier: 10}, 100, time.Duration(1<<63 - 1)},
		{"multiplier below one is constant", RetryPolicy{Interval: 2 * time.Second, Multiplier: 0.5}, 5, 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Delay(tt.failures))
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "errored", StateErrored.String())
	assert.Equal(t, "unknown", State(42).String())

	assert.False(t, StateLoading.Settled())
	assert.True(t, StateErrored.Settled())
}
