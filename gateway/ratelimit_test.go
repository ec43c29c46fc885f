package gateway

import (
	"testing"
	"time"
)

func TestRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{})

	if rl.config.Limit != 100 {
		t.Errorf("expected default limit 100, got %d", rl.config.Limit)
	}
	if rl.config.Window != 60*time.Second {
		t.Errorf("expected default window 60s, got %v", rl.config.Window)
	}
}

func TestRateLimiter_AdmitsUpToLimit(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Limit: 2, Window: time.Minute})

	// Three successive admissions: true, true, false.
	results := []bool{rl.Allow("/x"), rl.Allow("/x"), rl.Allow("/x")}
	want := []bool{true, true, false}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("call %d: got %v, want %v", i+1, results[i], want[i])
		}
	}
}

func TestRateLimiter_EndpointsIndependent(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Limit: 1, Window: time.Minute})

	if !rl.Allow("/x") {
		t.Fatal("first call on /x should be admitted")
	}
	if rl.Allow("/x") {
		t.Error("/x quota should be exhausted")
	}
	// Exhausting /x must not affect /y.
	if !rl.Allow("/y") {
		t.Error("/y should be unaffected by /x's quota")
	}
}

func TestRateLimiter_RejectedCallsNotRecorded(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Limit: 1, Window: 50 * time.Millisecond})
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.Allow("/x")
	// Hammering a rejected endpoint must not extend the window.
	for i := 0; i < 10; i++ {
		rl.Allow("/x")
	}

	now = now.Add(60 * time.Millisecond)
	if !rl.Allow("/x") {
		t.Error("window should have expired despite rejected attempts")
	}
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Limit: 2, Window: time.Minute})
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.Allow("/x")
	now = now.Add(40 * time.Second)
	rl.Allow("/x")

	if rl.Allow("/x") {
		t.Fatal("both calls still inside the window")
	}

	// The first call exits the trailing window; one slot frees up.
	now = now.Add(30 * time.Second)
	if !rl.Allow("/x") {
		t.Error("expected admission after oldest call left the window")
	}
}

func TestRateLimiter_TimeUntilReset(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Limit: 1, Window: time.Minute})
	now := time.Now()
	rl.now = func() time.Time { return now }

	if got := rl.TimeUntilReset("/x"); got != 0 {
		t.Errorf("expected 0 with no recorded calls, got %v", got)
	}

	rl.Allow("/x")
	now = now.Add(10 * time.Second)
	if got := rl.TimeUntilReset("/x"); got != 50*time.Second {
		t.Errorf("expected 50s until reset, got %v", got)
	}

	now = now.Add(55 * time.Second)
	if got := rl.TimeUntilReset("/x"); got != 0 {
		t.Errorf("expected 0 after window expiry, got %v", got)
	}
}

func TestRateLimiter_Clear(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Limit: 1, Window: time.Minute})

	rl.Allow("/x")
	if rl.Allow("/x") {
		t.Fatal("quota should be exhausted")
	}

	rl.Clear()
	if !rl.Allow("/x") {
		t.Error("expected admission after Clear")
	}
}
