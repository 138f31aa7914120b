package security

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRateLimiter_AllowWithinLimit(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(5, time.Minute)
	for i := range 5 {
		if err := rl.Allow("client"); err != nil {
			t.Fatalf("Allow(%d) returned error: %v", i, err)
		}
	}
	if err := rl.Allow("client"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if err := rl.Allow("other"); err != nil {
		t.Fatalf("other key limited: %v", err)
	}
}

func TestRateLimiter_SlidingWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	_ = rl.Allow("client")
	now = now.Add(30 * time.Second)
	_ = rl.Allow("client")

	if err := rl.Allow("client"); !errors.Is(err, ErrRateLimited) {
		t.Fatal("expected rate limit")
	}

	// The first event leaves the window; the second is still inside it.
	now = now.Add(31 * time.Second)
	if err := rl.Allow("client"); err != nil {
		t.Fatalf("expected allow after window, got %v", err)
	}
	if err := rl.Allow("client"); !errors.Is(err, ErrRateLimited) {
		t.Fatal("expected rate limit with two events in window")
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(0, time.Minute)
	for range 1000 {
		if err := rl.Allow("client"); err != nil {
			t.Fatalf("disabled limiter returned %v", err)
		}
	}
}

func TestRateLimiter_PrunesIdleKeys(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return now }

	for i := range 100 {
		_ = rl.Allow(fmt.Sprintf("client-%d", i))
	}
	now = now.Add(2 * time.Minute)
	_ = rl.Allow("late")

	if n := len(rl.buckets); n != 1 {
		t.Errorf("buckets = %d, want 1 after prune", n)
	}
}

func TestRateLimiter_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(50, time.Minute)
	var allowed atomic.Int32
	var wg sync.WaitGroup
	for range 100 {
		wg.Go(func() {
			if rl.Allow("client") == nil {
				allowed.Add(1)
			}
		})
	}
	wg.Wait()

	if got := allowed.Load(); got != 50 {
		t.Errorf("allowed = %d, want 50", got)
	}
}
