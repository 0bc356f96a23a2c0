package render

import (
	"errors"
	"image"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrNoSource is returned when there is no frame to render.
var ErrNoSource = errors.New("render: no source image")

// DefaultCacheSize is the number of rendered frames kept by default.
const DefaultCacheSize = 64

// Key identifies a rendered frame.
type Key struct {
	// Source distinguishes loads; frames of different loads never share
	// cache entries.
	Source uint64
	Frame  int
	Angle  int
	Width  int
	Height int
}

// Pipeline rotates frames and fits them into a box, keeping recent results.
type Pipeline struct {
	cache *lru.Cache[Key, image.Image]
}

// NewPipeline returns a pipeline caching up to size renders. A
// non-positive size selects DefaultCacheSize.
func NewPipeline(size int) (*Pipeline, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[Key, image.Image](size)
	if err != nil {
		return nil, err
	}
	return &Pipeline{cache: cache}, nil
}

// Render rotates img by key.Angle and scales it to fit key.Width×key.Height.
// A zero-sized box skips scaling. The result is cached under key.
func (p *Pipeline) Render(key Key, img image.Image) (image.Image, error) {
	if img == nil {
		return nil, ErrNoSource
	}
	key.Angle = NormalizeAngle(key.Angle)
	if out, ok := p.cache.Get(key); ok {
		return out, nil
	}

	out := Rotate(img, key.Angle)
	b := out.Bounds()
	if w, h := Fit(b.Dx(), b.Dy(), key.Width, key.Height); w > 0 && h > 0 {
		out = Scale(out, w, h)
	}
	p.cache.Add(key, out)
	return out, nil
}

// Purge drops every cached render.
func (p *Pipeline) Purge() {
	p.cache.Purge()
}

// Len returns the number of cached renders.
func (p *Pipeline) Len() int {
	return p.cache.Len()
}
