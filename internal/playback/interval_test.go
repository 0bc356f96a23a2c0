package playback

import (
	"testing"
	"time"
)

func TestInterval(t *testing.T) {
	tests := []struct {
		name  string
		delay time.Duration
		speed int
		want  time.Duration
	}{
		{"zero delay", 0, 100, 100 * time.Millisecond},
		{"negative delay", -5 * time.Millisecond, 100, 100 * time.Millisecond},
		{"long delay", 5000 * time.Millisecond, 100, MaxInterval},
		{"typical", 40 * time.Millisecond, 100, 40 * time.Millisecond},
		{"half speed", 100 * time.Millisecond, 50, MaxInterval},
		{"half speed short", 40 * time.Millisecond, 50, 80 * time.Millisecond},
		{"quadruple speed", 40 * time.Millisecond, 400, MinInterval},
		{"quadruple speed long", 200 * time.Millisecond, 400, 50 * time.Millisecond},
		{"zero speed", 40 * time.Millisecond, 0, FallbackInterval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Interval(tt.delay, tt.speed); got != tt.want {
				t.Errorf("Interval(%v, %d) = %v, want %v", tt.delay, tt.speed, got, tt.want)
			}
		})
	}
}

func TestIntervalBounds(t *testing.T) {
	delays := []time.Duration{-time.Second, 0, time.Millisecond, 40 * time.Millisecond, 5 * time.Second, time.Hour}
	speeds := []int{-100, 0, 1, 50, 100, 400, 100000}
	for _, d := range delays {
		for _, s := range speeds {
			got := Interval(d, s)
			if got < MinInterval || got > MaxInterval {
				t.Errorf("Interval(%v, %d) = %v, outside [%v, %v]", d, s, got, MinInterval, MaxInterval)
			}
		}
	}
}

func TestTimerPoll(t *testing.T) {
	clock := newFakeClock()
	var tm Timer
	fired := 0
	tm.Timeout.Connect(func(time.Time) { fired++ })

	if tm.Poll(clock.Now()) {
		t.Error("inactive timer fired")
	}
	tm.Start(40*time.Millisecond, clock.Now())
	clock.Add(39 * time.Millisecond)
	if tm.Poll(clock.Now()) {
		t.Error("timer fired early")
	}
	clock.Add(time.Millisecond)
	if !tm.Poll(clock.Now()) {
		t.Error("timer did not fire when due")
	}

	// A long stall yields a single tick.
	clock.Add(time.Second)
	tm.Poll(clock.Now())
	tm.Poll(clock.Now())
	if fired != 2 {
		t.Errorf("fired %d times, want 2", fired)
	}

	tm.Stop()
	clock.Add(time.Second)
	if tm.Poll(clock.Now()) || tm.Active() {
		t.Error("stopped timer fired")
	}
}
