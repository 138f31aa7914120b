// Package clock abstracts the timers used for reconnect scheduling so tests
// can drive them deterministically.
package clock

import "time"

// Clock is the subset of the time package used by the supervisor and the
// facade. Production code uses Real(); tests use Fake().
type Clock interface {
	Now() time.Time

	// AfterFunc waits for d, then calls f. The returned Timer cancels a
	// pending call.
	AfterFunc(d time.Duration, f func()) *Timer
}

// Timer is a scheduled callback.
type Timer struct {
	stopFunc func() bool
}

// Stop prevents the Timer from firing. It reports whether the call stopped
// the timer; false means it already fired or was stopped.
func (t *Timer) Stop() bool { return t.stopFunc() }

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) *Timer {
	t := time.AfterFunc(d, f)
	return &Timer{stopFunc: t.Stop}
}
