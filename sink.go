package main

import (
	"image"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"mview/internal/media"
	"mview/internal/render"
)

// frameKey identifies the GPU copy of a movie frame.
type frameKey struct {
	movie *media.Movie
	frame int
}

// screenSink displays the handler's output on the ebiten screen. Movie
// frames are uploaded lazily and kept in an LRU of GPU images; an image
// set with SetImage replaces the movie frames until it is cleared.
type screenSink struct {
	w, h  int
	movie *media.Movie

	still    image.Image
	stillGPU *ebiten.Image

	frames *lru.Cache[frameKey, *ebiten.Image]

	// upload copies an image to the GPU. Replaced in tests.
	upload func(image.Image) *ebiten.Image
}

func newScreenSink(w, h, cacheSize int) *screenSink {
	evict := func(_ frameKey, img *ebiten.Image) {
		if img != nil {
			img.Deallocate()
		}
	}
	frames, err := lru.NewWithEvict[frameKey, *ebiten.Image](cacheSize, evict)
	if err != nil {
		log.Printf("Error: Failed to create LRU cache: %v", err)
		frames, _ = lru.NewWithEvict[frameKey, *ebiten.Image](16, evict)
	}
	return &screenSink{w: w, h: h, frames: frames, upload: ebiten.NewImageFromImage}
}

func (s *screenSink) SetMovie(m *media.Movie) {
	if m == s.movie {
		return
	}
	s.movie = m
	s.frames.Purge()
}

func (s *screenSink) Movie() *media.Movie { return s.movie }

// SetImage shows img instead of the movie frames. Setting the image that
// is already shown keeps its upload.
func (s *screenSink) SetImage(img image.Image) {
	if img != nil && img == s.still {
		return
	}
	if s.stillGPU != nil {
		s.stillGPU.Deallocate()
		s.stillGPU = nil
	}
	s.still = img
}

func (s *screenSink) Clear() {
	s.SetImage(nil)
	s.frames.Purge()
}

func (s *screenSink) Size() (int, int) { return s.w, s.h }

// Resize records the screen size. It reports whether the size changed.
func (s *screenSink) Resize(w, h int) bool {
	if w == s.w && h == s.h {
		return false
	}
	s.w, s.h = w, h
	return true
}

// Empty reports whether there is nothing to show.
func (s *screenSink) Empty() bool {
	return s.still == nil && s.movie == nil
}

func (s *screenSink) currentFrame() *ebiten.Image {
	if s.still != nil {
		if s.stillGPU == nil {
			s.stillGPU = s.upload(s.still)
		}
		return s.stillGPU
	}
	if s.movie == nil {
		return nil
	}
	key := frameKey{s.movie, s.movie.CurrentFrameNumber()}
	if img, ok := s.frames.Get(key); ok {
		return img
	}
	src := s.movie.CurrentImage()
	if src == nil {
		return nil
	}
	img := s.upload(src)
	s.frames.Add(key, img)
	return img
}

// Draw draws the current frame centred on screen, scaled to fit.
func (s *screenSink) Draw(screen *ebiten.Image) {
	img := s.currentFrame()
	if img == nil {
		return
	}
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
	fw, fh := render.Fit(iw, ih, sw, sh)

	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Scale(float64(fw)/float64(iw), float64(fh)/float64(ih))
	op.GeoM.Translate(float64(sw-fw)/2, float64(sh-fh)/2)
	screen.DrawImage(img, op)
}
