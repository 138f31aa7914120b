package security

import (
	"errors"
	"sync"
	"time"
)

// ErrRateLimited is returned when a request exceeds the rate limit.
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimiter is a sliding-window limiter keyed by client. Each key may
// record at most limit events per window.
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string][]time.Time
	now     func() time.Time
}

// NewRateLimiter allows limit events per window for each key. A limit of
// zero or less disables limiting.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		buckets: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Allow records one event for key, or returns ErrRateLimited without
// recording it when the key is over its limit.
func (rl *RateLimiter) Allow(key string) error {
	if rl.limit <= 0 {
		return nil
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	events := evict(rl.buckets[key], now.Add(-rl.window))
	if len(events) >= rl.limit {
		rl.buckets[key] = events
		return ErrRateLimited
	}
	rl.buckets[key] = append(events, now)
	rl.prune(now)
	return nil
}

// prune drops keys with no event inside the window so that one-off
// clients do not accumulate.
func (rl *RateLimiter) prune(now time.Time) {
	if len(rl.buckets) < 64 {
		return
	}
	cutoff := now.Add(-rl.window)
	for k, events := range rl.buckets {
		if len(evict(events, cutoff)) == 0 {
			delete(rl.buckets, k)
		}
	}
}

// evict drops events before cutoff. Events are in chronological order.
func evict(events []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(events) && events[i].Before(cutoff) {
		i++
	}
	return events[i:]
}
