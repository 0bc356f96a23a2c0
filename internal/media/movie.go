package media

import (
	"image"
	"time"

	"mview/internal/signal"
)

// State is the playback state of a Movie.
type State int

const (
	Stopped State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

const (
	// defaultFrameDelay replaces missing or non-positive frame delays.
	defaultFrameDelay = 100 * time.Millisecond
	// maxCatchUp bounds how many frames Advance steps in one call after a
	// stall before it resynchronises with the clock.
	maxCatchUp = 4
)

// Movie plays the frames of a Source. It loops forever.
//
// A Movie is driven by calls to Advance and is not safe for concurrent use.
type Movie struct {
	src   *Source
	state State
	cur   int
	speed int
	due   time.Time

	// FrameChanged is emitted with the new frame index whenever the
	// current frame changes.
	FrameChanged signal.Signal[int]
	// StateChanged is emitted on every state transition.
	StateChanged signal.Signal[State]
}

// NewMovie returns a stopped movie positioned on the first frame of src.
func NewMovie(src *Source) *Movie {
	speed := src.Speed
	if speed <= 0 {
		speed = DefaultSpeed
	}
	return &Movie{src: src, speed: speed}
}

// Source returns the source being played.
func (m *Movie) Source() *Source {
	return m.src
}

// State returns the current playback state.
func (m *Movie) State() State {
	return m.state
}

// FrameCount returns the number of frames of the source.
func (m *Movie) FrameCount() int {
	return m.src.FrameCount()
}

// CurrentFrameNumber returns the index of the current frame.
func (m *Movie) CurrentFrameNumber() int {
	return m.cur
}

// CurrentImage returns the current frame, or nil once the source has been
// released.
func (m *Movie) CurrentImage() image.Image {
	return m.src.Frame(m.cur)
}

// Speed returns the playback speed in percent.
func (m *Movie) Speed() int {
	return m.speed
}

// Delay returns the time frame i stays on screen at the current speed.
func (m *Movie) Delay(i int) time.Duration {
	d := m.src.Delay(i)
	if d <= 0 {
		d = defaultFrameDelay
	}
	return d * DefaultSpeed / time.Duration(m.speed)
}

// Start begins playback. A stopped movie restarts from the first frame, a
// paused one resumes where it was.
func (m *Movie) Start(now time.Time) {
	switch m.state {
	case Running:
		return
	case Stopped:
		m.setFrame(0)
	}
	m.due = now.Add(m.Delay(m.cur))
	m.setState(Running)
}

// Stop stops playback and keeps the current frame.
func (m *Movie) Stop() {
	m.setState(Stopped)
}

// SetPaused pauses or resumes a started movie. It has no effect on a
// stopped movie.
func (m *Movie) SetPaused(paused bool, now time.Time) {
	switch {
	case paused && m.state == Running:
		m.setState(Paused)
	case !paused && m.state == Paused:
		m.due = now.Add(m.Delay(m.cur))
		m.setState(Running)
	}
}

// JumpToFrame makes frame i current. It reports false if i is out of range.
func (m *Movie) JumpToFrame(i int) bool {
	if i < 0 || i >= m.src.FrameCount() {
		return false
	}
	m.setFrame(i)
	return true
}

// Advance steps through every frame that became due by now. It does
// nothing unless the movie is running.
func (m *Movie) Advance(now time.Time) {
	n := m.src.FrameCount()
	if m.state != Running || n < 2 {
		return
	}
	for steps := 0; !now.Before(m.due); steps++ {
		if steps == maxCatchUp {
			m.due = now.Add(m.Delay(m.cur))
			return
		}
		m.setFrame((m.cur + 1) % n)
		m.due = m.due.Add(m.Delay(m.cur))
	}
}

func (m *Movie) setFrame(i int) {
	if i == m.cur {
		return
	}
	m.cur = i
	m.FrameChanged.Emit(i)
}

func (m *Movie) setState(s State) {
	if s == m.state {
		return
	}
	m.state = s
	m.StateChanged.Emit(s)
}
