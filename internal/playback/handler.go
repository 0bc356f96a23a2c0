package playback

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mview/internal/media"
	"mview/internal/render"
	"mview/internal/signal"
)

// Options configures a Handler.
type Options struct {
	// Sink is required.
	Sink Sink
	// Host, Indicator and Label are optional.
	Host      Host
	Indicator Indicator
	Label     Label

	// Decode defaults to media.Decode.
	Decode func(name string, data []byte) (*media.Source, error)
	// Clock defaults to time.Now.
	Clock func() time.Time
	// Debugf receives verbose lifecycle logging. Nil disables it.
	Debugf func(format string, args ...any)
	// CacheSize is the number of rendered frames kept.
	CacheSize int
}

// Handler owns the active media source, its movie and its playback timer.
// At most one timer exists at any time, and it is always torn down before
// another source is decoded.
//
// A Handler is not safe for concurrent use. All methods must be called
// from the goroutine that drives the UI.
type Handler struct {
	host      Host
	sink      Sink
	indicator Indicator
	label     Label
	decode    func(string, []byte) (*media.Source, error)
	clock     func() time.Time
	debugf    func(string, ...any)
	pipeline  *render.Pipeline

	src   *media.Source
	movie *media.Movie
	gen   uint64

	timer     *Timer
	timerConn *signal.Connection

	// conns holds movie and indicator subscriptions of the active source.
	conns    []*signal.Connection
	dragging bool
	rotation int
}

// NewHandler returns a handler with nothing loaded.
func NewHandler(opts Options) (*Handler, error) {
	if opts.Sink == nil {
		return nil, fmt.Errorf("playback: nil sink")
	}
	pipeline, err := render.NewPipeline(opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("playback: render cache: %w", err)
	}
	h := &Handler{
		host:      opts.Host,
		sink:      opts.Sink,
		indicator: opts.Indicator,
		label:     opts.Label,
		decode:    opts.Decode,
		clock:     opts.Clock,
		debugf:    opts.Debugf,
		pipeline:  pipeline,
	}
	if h.host == nil {
		h.host = NopHost{}
	}
	if h.decode == nil {
		h.decode = media.Decode
	}
	if h.clock == nil {
		h.clock = time.Now
	}
	if h.debugf == nil {
		h.debugf = func(string, ...any) {}
	}
	return h, nil
}

// Load loads the file at path, replacing the current source.
func (h *Handler) Load(path string) (media.Type, error) {
	size, err := media.FileSize(path)
	if err != nil {
		log.Printf("Warning: failed to get file size of %s: %v", path, err)
	}
	return h.load(filepath.Base(path), size, func() ([]byte, error) {
		return os.ReadFile(path)
	})
}

// LoadData loads an in-memory file, replacing the current source.
func (h *Handler) LoadData(name string, data []byte) (media.Type, error) {
	return h.load(name, int64(len(data)), func() ([]byte, error) {
		return data, nil
	})
}

// LoadFunc loads the bytes returned by read, replacing the current source.
// read is called after the current source has been torn down. The reported
// size is the length of the data read.
func (h *Handler) LoadFunc(name string, read func() ([]byte, error)) (media.Type, error) {
	return h.load(name, -1, read)
}

func (h *Handler) load(name string, size int64, read func() ([]byte, error)) (media.Type, error) {
	h.host.ShowLoading()
	defer h.host.HideLoading()
	h.host.ShowMessage(fmt.Sprintf("Loading %s: %s", formatLabel(name), name))

	h.Cleanup()

	data, err := read()
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", media.ErrDecode, name, err)
	} else {
		if size < 0 {
			size = int64(len(data))
		}
		h.src, err = h.decode(name, data)
	}
	if err != nil {
		log.Printf("Error: failed to load %s: %v", name, err)
		h.src = nil
		h.sink.Clear()
		if h.indicator != nil {
			h.indicator.SetValue(0)
		}
		h.host.ShowMessage("Failed to load image: " + name)
		return media.Type{}, err
	}
	h.gen++
	h.src.Size = size

	typ := h.src.Type()
	if typ.IsAnimated() {
		h.startAnimation()
	} else {
		h.showStill()
	}

	h.host.ShowMessage(fmt.Sprintf("%s loaded: %s, size: %.2fMB",
		h.src.Format, name, h.src.SizeMB()))
	h.host.UpdateInfo()
	h.debugf("loaded %s as %s (%d frames, rotation %d)", name, typ, h.src.FrameCount(), h.rotation)
	return typ, nil
}

// formatLabel guesses the container from the file name for the loading
// message, before anything is decoded.
func formatLabel(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gif":
		return "GIF"
	case ".webp":
		return "WEBP"
	default:
		return "image"
	}
}

func (h *Handler) showStill() {
	h.sink.SetMovie(nil)
	if err := h.renderFrame(0); err != nil {
		log.Printf("Error: failed to render %s: %v", h.src.Name, err)
	}
	if h.indicator != nil {
		h.indicator.SetValue(0)
	}
}

func (h *Handler) startAnimation() {
	now := h.clock()
	m := media.NewMovie(h.src)
	m.JumpToFrame(0)
	h.movie = m
	h.conns = append(h.conns,
		m.FrameChanged.Connect(h.onFrameChanged),
		m.StateChanged.Connect(func(s media.State) {
			h.host.PlaybackStateChanged(s == media.Running)
		}),
	)

	h.sink.SetMovie(m)
	if h.rotation != 0 {
		if err := h.renderFrame(0); err != nil {
			log.Printf("Error: failed to render %s: %v", h.src.Name, err)
		}
	}
	m.Start(now)

	n := h.src.FrameCount()
	if h.indicator != nil {
		h.indicator.SetRange(0, n-1)
		h.indicator.SetValue(0)
		h.conns = append(h.conns,
			h.indicator.Pressed().Connect(func(struct{}) { h.dragging = true }),
			h.indicator.Released().Connect(func(struct{}) { h.onReleased() }),
			h.indicator.ValueChanged().Connect(func(v int) { h.SeekToFrame(v) }),
		)
	}
	if h.label != nil {
		h.label.SetText(fmt.Sprintf("1 / %d", n))
	}

	h.startTimer(Interval(h.src.Delay(0), m.Speed()), now)
}

func (h *Handler) startTimer(interval time.Duration, now time.Time) {
	h.stopTimer()
	h.timer = &Timer{}
	h.timerConn = h.timer.Timeout.Connect(func(time.Time) { h.onTick() })
	h.timer.Start(interval, now)
	h.debugf("playback timer started: %v", interval)
}

func (h *Handler) stopTimer() {
	if h.timer == nil {
		return
	}
	h.timer.Stop()
	h.timerConn.Disconnect()
	h.timer = nil
	h.timerConn = nil
}

func (h *Handler) onTick() {
	m := h.movie
	if m == nil || m.State() != media.Running {
		return
	}
	cur := m.CurrentFrameNumber()
	if h.indicator != nil && !h.dragging {
		h.indicator.SetValue(cur)
	}
	if h.label != nil {
		h.label.SetText(fmt.Sprintf("%d / %d", cur+1, m.FrameCount()))
	}
	if h.rotation != 0 {
		if err := h.renderFrame(cur); err != nil {
			log.Printf("Error: failed to render frame %d: %v", cur, err)
		}
	}
}

func (h *Handler) onFrameChanged(frame int) {
	if h.rotation == 0 {
		return
	}
	if err := h.renderFrame(frame); err != nil {
		log.Printf("Error: failed to render frame %d: %v", frame, err)
	}
}

func (h *Handler) onReleased() {
	h.dragging = false
	if h.movie == nil || h.indicator == nil {
		return
	}
	h.SeekToFrame(h.indicator.Value())
}

// renderFrame pushes frame i of the active source through the rotation
// pipeline into the sink.
func (h *Handler) renderFrame(i int) error {
	if h.src == nil {
		return render.ErrNoSource
	}
	w, ht := h.sink.Size()
	key := render.Key{Source: h.gen, Frame: i, Angle: h.rotation, Width: w, Height: ht}
	img, err := h.pipeline.Render(key, h.src.Frame(i))
	if err != nil {
		return err
	}
	h.sink.SetImage(img)
	return nil
}

// Cleanup tears down the active source. It first stops the timer and
// revokes its callback, then stops the movie and detaches it from the
// sink and the indicator, and finally releases the decoded frames. It is
// safe to call at any time, any number of times.
func (h *Handler) Cleanup() {
	h.stopTimer()

	if h.movie != nil {
		h.movie.Stop()
		if h.sink.Movie() == h.movie {
			h.sink.SetMovie(nil)
		}
		h.movie = nil
	}
	for _, c := range h.conns {
		c.Disconnect()
	}
	h.conns = nil
	h.dragging = false

	if h.src != nil {
		h.sink.Clear()
		h.src.Release()
		h.src = nil
		h.pipeline.Purge()
		h.debugf("released media resources")
	}
}

// Advance drives the movie and the playback timer up to the current time.
func (h *Handler) Advance() {
	now := h.clock()
	if h.movie != nil {
		h.movie.Advance(now)
	}
	if h.timer != nil {
		h.timer.Poll(now)
	}
}

// TogglePlayback pauses a playing animation or resumes a paused one. It
// reports whether the animation is playing afterwards.
func (h *Handler) TogglePlayback() bool {
	if h.movie == nil {
		return false
	}
	playing := h.movie.State() == media.Running
	h.movie.SetPaused(playing, h.clock())
	return !playing
}

// IsPlaying reports whether an animation is running.
func (h *Handler) IsPlaying() bool {
	return h.movie != nil && h.movie.State() == media.Running
}

// SeekToFrame makes frame n current. It reports false if no animation is
// loaded or n is out of range.
func (h *Handler) SeekToFrame(n int) bool {
	if h.movie == nil {
		return false
	}
	return h.movie.JumpToFrame(n)
}

// Rotate turns the display a quarter turn.
func (h *Handler) Rotate(clockwise bool) error {
	delta := -90
	if clockwise {
		delta = 90
	}
	return h.SetRotation(h.rotation + delta)
}

// SetRotation sets the rotation applied to every displayed frame. The angle
// persists across loads. With nothing loaded it fails with
// render.ErrNoSource and leaves the rotation unchanged.
func (h *Handler) SetRotation(angle int) error {
	if h.src == nil {
		return render.ErrNoSource
	}
	h.rotation = render.NormalizeAngle(angle)
	return h.redraw()
}

// Rotation returns the current rotation angle.
func (h *Handler) Rotation() int {
	return h.rotation
}

// Relayout redraws the current source after the sink changed size.
func (h *Handler) Relayout() error {
	if h.src == nil {
		return nil
	}
	return h.redraw()
}

func (h *Handler) redraw() error {
	if h.movie != nil {
		if h.rotation == 0 {
			// Let the sink show the movie frames directly again.
			h.sink.SetImage(nil)
			return nil
		}
		return h.renderFrame(h.movie.CurrentFrameNumber())
	}
	return h.renderFrame(0)
}

// Source returns the active source, or nil.
func (h *Handler) Source() *media.Source {
	return h.src
}

// Movie returns the active movie, or nil for stills.
func (h *Handler) Movie() *media.Movie {
	return h.movie
}

// Snapshot describes the lifecycle state for diagnostics.
type Snapshot struct {
	Name        string
	Type        string
	State       media.State
	Frame       int
	FrameCount  int
	Rotation    int
	TimerActive bool
	Interval    time.Duration
	Dragging    bool
	// Subscriptions counts the live timer, movie and indicator connections.
	Subscriptions int
	CachedFrames  int
}

func (s Snapshot) String() string {
	return fmt.Sprintf("name=%q type=%s state=%s frame=%d/%d rotation=%d timer=%t interval=%v dragging=%t subscriptions=%d cached=%d",
		s.Name, s.Type, s.State, s.Frame, s.FrameCount, s.Rotation,
		s.TimerActive, s.Interval, s.Dragging, s.Subscriptions, s.CachedFrames)
}

// Snapshot returns the current lifecycle state.
func (h *Handler) Snapshot() Snapshot {
	s := Snapshot{
		Rotation:     h.rotation,
		Dragging:     h.dragging,
		CachedFrames: h.pipeline.Len(),
	}
	if h.src != nil {
		s.Name = h.src.Name
		s.Type = h.src.Type().String()
		s.FrameCount = h.src.FrameCount()
	}
	if h.movie != nil {
		s.State = h.movie.State()
		s.Frame = h.movie.CurrentFrameNumber()
	}
	if h.timer != nil {
		s.TimerActive = h.timer.Active()
		s.Interval = h.timer.Interval()
		s.Subscriptions = h.timer.Timeout.Len()
	}
	for _, c := range h.conns {
		if c.Connected() {
			s.Subscriptions++
		}
	}
	return s
}
