package gateway

import (
	"sync"
	"time"
)

// RateLimiterConfig configures the sliding-window rate limiter.
type RateLimiterConfig struct {
	// Limit is the number of calls admitted per window, per endpoint key.
	// Default: 100
	Limit int

	// Window is the trailing window duration.
	// Default: 60 seconds
	Window time.Duration
}

// RateLimiter is a per-endpoint sliding-window admission controller.
// Each endpoint key is tracked independently: exhausting one endpoint's
// quota does not affect another's.
type RateLimiter struct {
	config RateLimiterConfig

	mu    sync.Mutex
	calls map[string][]time.Time
	now   func() time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	// Apply defaults
	if config.Limit <= 0 {
		config.Limit = 100
	}
	if config.Window <= 0 {
		config.Window = 60 * time.Second
	}

	return &RateLimiter{
		config: config,
		calls:  make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow checks whether a call to the endpoint is admitted. Admitted
// calls are recorded; rejected calls are not.
func (rl *RateLimiter) Allow(endpointKey string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	retained := rl.pruneLocked(endpointKey, now)

	if len(retained) >= rl.config.Limit {
		return false
	}

	rl.calls[endpointKey] = append(retained, now)
	return true
}

// TimeUntilReset returns the time remaining until the oldest retained
// call for the endpoint exits the window, or 0 if none are retained.
func (rl *RateLimiter) TimeUntilReset(endpointKey string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	retained := rl.pruneLocked(endpointKey, now)
	if len(retained) == 0 {
		return 0
	}

	return retained[0].Add(rl.config.Window).Sub(now)
}

// Clear resets all endpoint state. Intended for test isolation, not
// production use.
func (rl *RateLimiter) Clear() {
	rl.mu.Lock()
	rl.calls = make(map[string][]time.Time)
	rl.mu.Unlock()
}

// pruneLocked discards calls older than now-window and stores the result.
// Caller must hold rl.mu.
func (rl *RateLimiter) pruneLocked(endpointKey string, now time.Time) []time.Time {
	cutoff := now.Add(-rl.config.Window)
	recorded := rl.calls[endpointKey]

	kept := recorded[:0]
	for _, t := range recorded {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) == 0 {
		delete(rl.calls, endpointKey)
		return nil
	}
	rl.calls[endpointKey] = kept
	return kept
}
