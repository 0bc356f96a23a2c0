package playback

import (
	"time"

	"mview/internal/signal"
)

// Timer is a polled periodic timer. It fires at most once per Poll, so a
// stalled caller never sees a burst of ticks.
type Timer struct {
	interval time.Duration
	active   bool
	next     time.Time

	// Timeout is emitted with the poll time each time the timer fires.
	Timeout signal.Signal[time.Time]
}

// Start (re)starts the timer so that it first fires interval after now.
func (t *Timer) Start(interval time.Duration, now time.Time) {
	t.interval = interval
	t.active = true
	t.next = now.Add(interval)
}

// Stop deactivates the timer. It is safe to call on a stopped timer.
func (t *Timer) Stop() {
	t.active = false
}

// Active reports whether the timer is running.
func (t *Timer) Active() bool {
	return t.active
}

// Interval returns the interval of the last Start.
func (t *Timer) Interval() time.Duration {
	return t.interval
}

// Poll fires the timer if it is active and due, and reports whether it
// fired.
func (t *Timer) Poll(now time.Time) bool {
	if !t.active || now.Before(t.next) {
		return false
	}
	t.next = t.next.Add(t.interval)
	if t.next.Before(now) {
		t.next = now.Add(t.interval)
	}
	t.Timeout.Emit(now)
	return true
}
