package playback

import (
	"image"
	"testing"
	"time"

	"mview/internal/media"
	"mview/internal/signal"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Add(d time.Duration) { c.now = c.now.Add(d) }

type fakeSink struct {
	w, h   int
	movie  *media.Movie
	image  image.Image
	clears int
}

func (s *fakeSink) SetMovie(m *media.Movie)  { s.movie = m }
func (s *fakeSink) Movie() *media.Movie      { return s.movie }
func (s *fakeSink) SetImage(img image.Image) { s.image = img }
func (s *fakeSink) Size() (int, int)         { return s.w, s.h }

func (s *fakeSink) Clear() {
	s.image = nil
	s.clears++
}

type fakeIndicator struct {
	lo, hi   int
	value    int
	setCalls int
	ranged   bool

	pressed  signal.Signal[struct{}]
	released signal.Signal[struct{}]
	changed  signal.Signal[int]
}

func (i *fakeIndicator) SetRange(lo, hi int) {
	i.lo, i.hi = lo, hi
	i.ranged = true
}

func (i *fakeIndicator) SetValue(v int) {
	i.value = v
	i.setCalls++
}

func (i *fakeIndicator) Value() int                         { return i.value }
func (i *fakeIndicator) Pressed() *signal.Signal[struct{}]  { return &i.pressed }
func (i *fakeIndicator) Released() *signal.Signal[struct{}] { return &i.released }
func (i *fakeIndicator) ValueChanged() *signal.Signal[int]  { return &i.changed }

// drag simulates the user moving the control to v.
func (i *fakeIndicator) drag(v int) {
	i.value = v
	i.changed.Emit(v)
}

type fakeLabel struct {
	text string
}

func (l *fakeLabel) SetText(s string) { l.text = s }

type fakeHost struct {
	messages []string
	loading  int
	infos    int
	playing  []bool
}

func (h *fakeHost) ShowLoading()                { h.loading++ }
func (h *fakeHost) HideLoading()                { h.loading-- }
func (h *fakeHost) ShowMessage(msg string)      { h.messages = append(h.messages, msg) }
func (h *fakeHost) UpdateInfo()                 { h.infos++ }
func (h *fakeHost) PlaybackStateChanged(p bool) { h.playing = append(h.playing, p) }

type fixture struct {
	h         *Handler
	clock     *fakeClock
	sink      *fakeSink
	indicator *fakeIndicator
	label     *fakeLabel
	host      *fakeHost
}

func newFixture(t *testing.T, decode func(string, []byte) (*media.Source, error)) *fixture {
	t.Helper()
	f := &fixture{
		clock:     newFakeClock(),
		sink:      &fakeSink{w: 100, h: 100},
		indicator: &fakeIndicator{},
		label:     &fakeLabel{},
		host:      &fakeHost{},
	}
	h, err := NewHandler(Options{
		Sink:      f.sink,
		Host:      f.host,
		Indicator: f.indicator,
		Label:     f.label,
		Decode:    decode,
		Clock:     f.clock.Now,
	})
	if err != nil {
		t.Fatalf("NewHandler failed: %v", err)
	}
	f.h = h
	return f
}

// stillDecoder decodes every file as a single w×h frame of the given format.
func stillDecoder(format media.Format, w, h int) func(string, []byte) (*media.Source, error) {
	return func(name string, _ []byte) (*media.Source, error) {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		return media.NewSource(name, format, []image.Image{img}, nil)
	}
}
