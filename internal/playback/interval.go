package playback

import "time"

const (
	// MinInterval and MaxInterval bound the refresh interval of the
	// playback timer.
	MinInterval = 10 * time.Millisecond
	MaxInterval = 200 * time.Millisecond

	// DefaultDelay replaces a missing or non-positive first-frame delay.
	DefaultDelay = 100 * time.Millisecond
	// FallbackInterval is used when the speed makes the interval
	// undefined.
	FallbackInterval = 50 * time.Millisecond
)

// Interval derives the timer interval from the first frame delay and the
// playback speed in percent. The result always lies in
// [MinInterval, MaxInterval].
func Interval(firstDelay time.Duration, speedPercent int) time.Duration {
	if speedPercent <= 0 {
		return FallbackInterval
	}
	if firstDelay <= 0 {
		firstDelay = DefaultDelay
	}
	d := firstDelay * 100 / time.Duration(speedPercent)
	// Interval only refreshes the position display, so whole
	// milliseconds are enough.
	d = d.Truncate(time.Millisecond)
	return min(max(d, MinInterval), MaxInterval)
}
