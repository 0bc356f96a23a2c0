package main

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"mview/internal/signal"
)

const (
	seekBarHeight  = 36
	seekBarPadding = 12
	seekTrackH     = 6
	seekKnobW      = 10
	seekLabelW     = 90
)

var (
	colorTrack = color.RGBA{90, 90, 90, 220}
	colorFill  = color.RGBA{100, 180, 255, 230}
	colorKnob  = color.RGBA{230, 230, 230, 255}
)

// pointerState is the mouse state of one tick.
type pointerState struct {
	X, Y         int
	JustPressed  bool
	Pressed      bool
	JustReleased bool
}

func currentPointer() pointerState {
	x, y := ebiten.CursorPosition()
	return pointerState{
		X:            x,
		Y:            y,
		JustPressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		Pressed:      ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		JustReleased: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
	}
}

// SeekBar is the frame position control shown under an animation, with
// a "current / total" label on its right.
type SeekBar struct {
	lo, hi   int
	value    int
	text     string
	visible  bool
	dragging bool
	bounds   image.Rectangle // whole bar, label included
	track    image.Rectangle

	pressed  signal.Signal[struct{}]
	released signal.Signal[struct{}]
	changed  signal.Signal[int]
}

// NewSeekBar returns a hidden seek bar.
func NewSeekBar() *SeekBar {
	return &SeekBar{}
}

func (s *SeekBar) SetRange(lo, hi int) {
	if hi < lo {
		hi = lo
	}
	s.lo, s.hi = lo, hi
	s.value = s.clamp(s.value)
}

// SetValue moves the knob without emitting ValueChanged.
func (s *SeekBar) SetValue(v int) {
	s.value = s.clamp(v)
}

func (s *SeekBar) Value() int                         { return s.value }
func (s *SeekBar) Pressed() *signal.Signal[struct{}]  { return &s.pressed }
func (s *SeekBar) Released() *signal.Signal[struct{}] { return &s.released }
func (s *SeekBar) ValueChanged() *signal.Signal[int]  { return &s.changed }
func (s *SeekBar) SetText(t string)                   { s.text = t }
func (s *SeekBar) Text() string                       { return s.text }

// SetVisible shows or hides the bar. Hiding it ends a drag in progress.
func (s *SeekBar) SetVisible(v bool) {
	if !v && s.dragging {
		s.dragging = false
		s.released.Emit(struct{}{})
	}
	s.visible = v
}

func (s *SeekBar) Visible() bool { return s.visible }

func (s *SeekBar) clamp(v int) int {
	return min(max(v, s.lo), s.hi)
}

// Layout places the bar along the bottom of a w×h screen.
func (s *SeekBar) Layout(w, h int) {
	s.bounds = image.Rect(0, h-seekBarHeight, w, h)
	midY := h - seekBarHeight/2
	right := max(w-seekBarPadding-seekLabelW, seekBarPadding+1)
	s.track = image.Rect(seekBarPadding, midY-seekTrackH/2, right, midY+seekTrackH/2)
}

// Contains reports whether the point lies on the visible bar.
func (s *SeekBar) Contains(x, y int) bool {
	return s.visible && image.Pt(x, y).In(s.bounds)
}

// valueAt maps a horizontal position to a frame index.
func (s *SeekBar) valueAt(x int) int {
	w := s.track.Dx()
	if w <= 0 || s.hi == s.lo {
		return s.lo
	}
	f := float64(x-s.track.Min.X) / float64(w)
	f = math.Max(0, math.Min(1, f))
	return s.lo + int(math.Round(f*float64(s.hi-s.lo)))
}

func (s *SeekBar) moveTo(x int) {
	v := s.valueAt(x)
	if v == s.value {
		return
	}
	s.value = v
	s.changed.Emit(v)
}

// Update feeds one tick of pointer input to the bar. It reports whether
// the bar used the pointer.
func (s *SeekBar) Update(p pointerState) bool {
	if !s.visible {
		return false
	}
	switch {
	case s.dragging && (p.JustReleased || !p.Pressed):
		s.moveTo(p.X)
		s.dragging = false
		s.released.Emit(struct{}{})
		return true
	case s.dragging:
		s.moveTo(p.X)
		return true
	case p.JustPressed && s.Contains(p.X, p.Y):
		s.dragging = true
		s.pressed.Emit(struct{}{})
		s.moveTo(p.X)
		return true
	}
	return s.Contains(p.X, p.Y)
}

// Draw renders the bar and its label.
func (s *SeekBar) Draw(screen *ebiten.Image, face *text.GoTextFace) {
	if !s.visible {
		return
	}
	b := s.bounds
	DrawFilledRect(screen, float64(b.Min.X), float64(b.Min.Y), float64(b.Dx()), float64(b.Dy()), bgColorLight)

	t := s.track
	DrawFilledRect(screen, float64(t.Min.X), float64(t.Min.Y), float64(t.Dx()), float64(t.Dy()), colorTrack)

	frac := 0.0
	if s.hi > s.lo {
		frac = float64(s.value-s.lo) / float64(s.hi-s.lo)
	}
	knobX := float64(t.Min.X) + frac*float64(t.Dx())
	DrawFilledRect(screen, float64(t.Min.X), float64(t.Min.Y), knobX-float64(t.Min.X), float64(t.Dy()), colorFill)
	DrawFilledRect(screen, knobX-seekKnobW/2, float64(b.Min.Y+8), seekKnobW, float64(b.Dy()-16), colorKnob)

	if s.text != "" && face != nil {
		_, th := text.Measure(s.text, face, 0)
		DrawText(screen, s.text, face, float64(t.Max.X+seekBarPadding), float64(b.Min.Y)+(float64(b.Dy())-th)/2, colorWhite)
	}
}
