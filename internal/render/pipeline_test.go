package render

import (
	"errors"
	"image"
	"testing"
)

func TestPipelineNoSource(t *testing.T) {
	p, err := NewPipeline(4)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Render(Key{Angle: 90}, nil); !errors.Is(err, ErrNoSource) {
		t.Errorf("Render(nil) error = %v, want ErrNoSource", err)
	}
	if p.Len() != 0 {
		t.Errorf("failed render was cached")
	}
}

func TestPipelineRender(t *testing.T) {
	p, err := NewPipeline(0)
	if err != nil {
		t.Fatal(err)
	}
	key := Key{Source: 1, Frame: 0, Angle: 90, Width: 40, Height: 40}
	out, err := p.Render(key, cornerImage())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	// 3×2 rotated to 2×3, then fitted into 40×40.
	if b := out.Bounds(); b.Dx() != 27 || b.Dy() != 40 {
		t.Errorf("rendered size = %dx%d, want 27x40", b.Dx(), b.Dy())
	}

	again, err := p.Render(key, cornerImage())
	if err != nil {
		t.Fatal(err)
	}
	if again != out {
		t.Error("second Render did not hit the cache")
	}

	p.Purge()
	if p.Len() != 0 {
		t.Errorf("Len() = %d after Purge", p.Len())
	}
}

// Rotating a still and rotating one frame of an animation go through the
// same path and must agree pixel for pixel.
func TestPipelineStillMatchesFrame(t *testing.T) {
	p, err := NewPipeline(8)
	if err != nil {
		t.Fatal(err)
	}
	still, err := p.Render(Key{Source: 1, Angle: 270, Width: 20, Height: 20}, cornerImage())
	if err != nil {
		t.Fatal(err)
	}
	frame, err := p.Render(Key{Source: 2, Frame: 5, Angle: 270, Width: 20, Height: 20}, cornerImage())
	if err != nil {
		t.Fatal(err)
	}
	b := still.Bounds()
	if b != frame.Bounds() {
		t.Fatalf("bounds differ: %v vs %v", b, frame.Bounds())
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if still.At(x, y) != frame.At(x, y) {
				t.Fatalf("pixel (%d,%d) differs", x, y)
			}
		}
	}
}

func TestPipelineAngleZeroUnscaled(t *testing.T) {
	p, err := NewPipeline(2)
	if err != nil {
		t.Fatal(err)
	}
	img := cornerImage()
	out, err := p.Render(Key{Angle: 0}, img)
	if err != nil {
		t.Fatal(err)
	}
	if out != image.Image(img) {
		t.Error("angle 0 with no box should return the input")
	}
}
