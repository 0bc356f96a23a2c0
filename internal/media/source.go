// Package media decodes still and animated images into frame sources and
// plays them back.
//
// A Source holds fully composited frames, so any frame can be shown on its
// own without replaying the ones before it. A Movie steps through the
// frames of a Source using the per-frame delays.
package media

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"time"

	_ "golang.org/x/image/bmp"
)

var (
	// ErrDecode is wrapped by every error caused by unreadable, corrupt or
	// unsupported media data.
	ErrDecode = errors.New("media: decode failed")

	ErrNoFrames    = errors.New("media: no frames")
	ErrInvalidSize = errors.New("media: invalid image size")
)

// DefaultSpeed is the playback speed of a freshly decoded source, in percent.
const DefaultSpeed = 100

const (
	// maxPixels bounds the canvas of a single decoded frame.
	maxPixels = 1 << 26
	// maxTotalPixels bounds the composited frames of a source together.
	maxTotalPixels = 1 << 28
)

// checkSize reports ErrInvalidSize for empty canvases and canvases whose
// frames would exceed the decode limits.
func checkSize(w, h, frames int) error {
	if w <= 0 || h <= 0 || frames <= 0 {
		return ErrInvalidSize
	}
	px := int64(w) * int64(h)
	if px > maxPixels || px*int64(frames) > maxTotalPixels {
		return fmt.Errorf("%w: %dx%d with %d frames", ErrInvalidSize, w, h, frames)
	}
	return nil
}

// Format identifies the container a source was decoded from.
type Format int

const (
	FormatStill Format = iota
	FormatGIF
	FormatWebP
)

func (f Format) String() string {
	switch f {
	case FormatGIF:
		return "GIF"
	case FormatWebP:
		return "WEBP"
	default:
		return "Image"
	}
}

// Kind classifies a source as a static image or an animation.
type Kind int

const (
	Static Kind = iota
	Animation
)

func (k Kind) String() string {
	if k == Animation {
		return "animation"
	}
	return "image"
}

// Type is the media type reported to callers after a load.
type Type struct {
	Format Format
	Kind   Kind
}

// String returns names such as "gif_animation" or "webp_image".
func (t Type) String() string {
	switch t.Format {
	case FormatGIF:
		return "gif_" + t.Kind.String()
	case FormatWebP:
		return "webp_" + t.Kind.String()
	default:
		return "image"
	}
}

// IsAnimated reports whether t is an animation type.
func (t Type) IsAnimated() bool {
	return t.Kind == Animation
}

// Source is a decoded media file.
type Source struct {
	Name   string
	Format Format
	// Size is the encoded size in bytes, zero when unknown.
	Size int64
	// Width and Height are the canvas dimensions.
	Width  int
	Height int
	// LoopCount is the number of times the animation repeats,
	// zero meaning forever.
	LoopCount int
	// Speed is the declared playback speed in percent.
	Speed int
	// Background is the declared canvas colour of an animated WebP. Frames
	// are composited onto a transparent canvas regardless.
	Background color.Color

	frames []image.Image
	delays []time.Duration
}

// NewSource builds a source from already composited frames. delays may be
// shorter than frames; missing delays read as zero.
func NewSource(name string, format Format, frames []image.Image, delays []time.Duration) (*Source, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	b := frames[0].Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrInvalidSize
	}
	return &Source{
		Name:   name,
		Format: format,
		Width:  b.Dx(),
		Height: b.Dy(),
		Speed:  DefaultSpeed,
		frames: frames,
		delays: delays,
	}, nil
}

// FrameCount returns the number of frames; it is at least one for a
// successfully decoded source.
func (s *Source) FrameCount() int {
	return len(s.frames)
}

// Kind returns Animation for sources with more than one frame.
func (s *Source) Kind() Kind {
	if len(s.frames) > 1 {
		return Animation
	}
	return Static
}

// Type returns the media type of s.
func (s *Source) Type() Type {
	return Type{Format: s.Format, Kind: s.Kind()}
}

// Frame returns the composited frame i, or nil if i is out of range.
func (s *Source) Frame(i int) image.Image {
	if i < 0 || i >= len(s.frames) {
		return nil
	}
	return s.frames[i]
}

// Delay returns the declared delay of frame i. A missing or invalid delay
// is reported as zero.
func (s *Source) Delay(i int) time.Duration {
	if i < 0 || i >= len(s.delays) {
		return 0
	}
	return s.delays[i]
}

// Release drops the decoded frames. The source reports zero frames
// afterwards.
func (s *Source) Release() {
	s.frames = nil
	s.delays = nil
}

// SizeMB returns the encoded size in megabytes.
func (s *Source) SizeMB() float64 {
	return float64(s.Size) / (1024 * 1024)
}

// FileSize returns the size of the named file. Failures are reported but
// callers are expected to degrade to an unknown size.
func FileSize(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// Decode decodes data into a Source. The container is detected from its
// magic bytes; anything that is neither GIF nor WebP is decoded as a still
// image by the registered image decoders.
func Decode(name string, data []byte) (*Source, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s: empty file", ErrDecode, name)
	}
	r := bufio.NewReader(bytes.NewReader(data))

	var (
		src *Source
		err error
	)
	switch {
	case IsGIF(r):
		src, err = decodeGIF(data)
	case IsWebP(r):
		src, err = decodeWebP(data)
	default:
		src, err = decodeStill(data)
	}
	if err != nil {
		if errors.Is(err, ErrDecode) {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, name, err)
	}
	src.Name = name
	src.Size = int64(len(data))
	if src.Speed == 0 {
		src.Speed = DefaultSpeed
	}
	return src, nil
}

func decodeStill(data []byte) (*Source, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := checkSize(cfg.Width, cfg.Height, 1); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrInvalidSize
	}
	return &Source{
		Format: FormatStill,
		Width:  b.Dx(),
		Height: b.Dy(),
		frames: []image.Image{img},
		delays: []time.Duration{0},
	}, nil
}

// ReadPeeker is an io.Reader that can also peek n bytes ahead.
type ReadPeeker interface {
	io.Reader
	Peek(n int) ([]byte, error)
}

// IsGIF returns whether the data held by r is a GIF image.
func IsGIF(r ReadPeeker) bool {
	return hasMagic("GIF8?a", r)
}

// IsWebP returns whether the data held by r is a WebP image.
func IsWebP(r ReadPeeker) bool {
	return hasMagic("RIFF????WEBP", r)
}

// hasMagic returns whether r starts with the provided magic bytes.
// A '?' in magic matches any byte.
func hasMagic(magic string, r ReadPeeker) bool {
	b, err := r.Peek(len(magic))
	if err != nil || len(b) != len(magic) {
		return false
	}
	for i, c := range b {
		if magic[i] != c && magic[i] != '?' {
			return false
		}
	}
	return true
}
