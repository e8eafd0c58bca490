package profile

import (
	"math"
	"time"
)

// RetryPolicy decides how long an errored controller waits before fetching again.
// With Multiplier <= 1 the delay is constant; otherwise it grows geometrically per
// consecutive failure and is capped at MaxInterval.
type RetryPolicy struct {
	Interval    time.Duration
	Multiplier  float64
	MaxInterval time.Duration
}

// DefaultRetryInterval is the constant delay between retries.
const DefaultRetryInterval = 5 * time.Second

// DefaultRetryPolicy retries on a fixed interval, with no backoff and no cap on attempts.
var DefaultRetryPolicy = RetryPolicy{
	Interval:   DefaultRetryInterval,
	Multiplier: 1,
}

// Delay returns the wait before the retry that follows the given number of
// consecutive failures (1-based).
func (p RetryPolicy) Delay(failures int) time.Duration {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultRetryInterval
	}
	if p.Multiplier <= 1 || failures <= 1 {
		return interval
	}

	delay := float64(interval) * math.Pow(p.Multiplier, float64(failures-1))
	if p.MaxInterval > 0 && delay > float64(p.MaxInterval) {
		delay = float64(p.MaxInterval)
	}
	if delay >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(delay)
}
