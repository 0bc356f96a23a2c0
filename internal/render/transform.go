// Package render rotates and scales frames for display.
package render

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// NormalizeAngle maps any multiple of 90 degrees into {0, 90, 180, 270}.
// Other angles are rounded to the nearest quarter turn.
func NormalizeAngle(angle int) int {
	q := int(math.Round(float64(angle) / 90))
	q %= 4
	if q < 0 {
		q += 4
	}
	return q * 90
}

// Rotate returns img rotated clockwise by angle degrees. Angle 0 returns
// img itself.
func Rotate(img image.Image, angle int) image.Image {
	angle = NormalizeAngle(angle)
	if angle == 0 {
		return img
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dw, dh := w, h
	if angle == 90 || angle == 270 {
		dw, dh = h, w
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))

	sin, cos := quarterSinCos(angle)
	cx := float64(b.Min.X) + float64(w)/2
	cy := float64(b.Min.Y) + float64(h)/2
	s2d := f64.Aff3{
		cos, -sin, float64(dw)/2 - cos*cx + sin*cy,
		sin, cos, float64(dh)/2 - sin*cx - cos*cy,
	}
	draw.CatmullRom.Transform(dst, s2d, img, b, draw.Src, nil)
	return dst
}

// quarterSinCos returns exact values for multiples of 90 degrees.
func quarterSinCos(angle int) (sin, cos float64) {
	switch angle {
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	default:
		return 0, 1
	}
}

// Fit returns the largest size with the aspect ratio of w×h that fits in
// boxW×boxH. It returns 0, 0 if any dimension is not positive.
func Fit(w, h, boxW, boxH int) (int, int) {
	if w <= 0 || h <= 0 || boxW <= 0 || boxH <= 0 {
		return 0, 0
	}
	scale := math.Min(float64(boxW)/float64(w), float64(boxH)/float64(h))
	fw := max(1, int(math.Round(float64(w)*scale)))
	fh := max(1, int(math.Round(float64(h)*scale)))
	return min(fw, boxW), min(fh, boxH)
}

// Scale resamples img to w×h with Catmull-Rom filtering. It returns img
// itself if it already has that size.
func Scale(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
