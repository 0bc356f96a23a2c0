// Package playback drives the display of one media source at a time:
// loading, the playback timer, rotation and teardown.
package playback

import (
	"image"

	"mview/internal/media"
	"mview/internal/signal"
)

// Host receives progress and status notifications from a Handler.
type Host interface {
	ShowLoading()
	HideLoading()
	ShowMessage(msg string)
	// UpdateInfo is called after a load so the host can refresh
	// file information.
	UpdateInfo()
	// PlaybackStateChanged reports whether an animation is now playing.
	PlaybackStateChanged(playing bool)
}

// NopHost ignores every notification.
type NopHost struct{}

func (NopHost) ShowLoading()              {}
func (NopHost) HideLoading()              {}
func (NopHost) ShowMessage(string)        {}
func (NopHost) UpdateInfo()               {}
func (NopHost) PlaybackStateChanged(bool) {}

// Sink is the surface that displays the current media.
//
// While a movie is attached the sink shows its current frame scaled to
// fit. An image set with SetImage takes precedence over the movie.
type Sink interface {
	SetMovie(m *media.Movie)
	Movie() *media.Movie
	SetImage(img image.Image)
	Clear()
	Size() (w, h int)
}

// Indicator is a position control over the frames of an animation.
//
// SetValue must not emit ValueChanged; only user input does.
type Indicator interface {
	SetRange(lo, hi int)
	SetValue(v int)
	Value() int
	Pressed() *signal.Signal[struct{}]
	Released() *signal.Signal[struct{}]
	ValueChanged() *signal.Signal[int]
}

// Label shows the textual playback position.
type Label interface {
	SetText(s string)
}
