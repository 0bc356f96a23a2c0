// Package testutil builds small in-memory media files for tests.
package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
)

// MakeTestGIF returns an n-frame w×h GIF whose frames all declare
// delayCS hundredths of a second. Frame i has pixel (i mod w, 0) set to
// white on a black background.
func MakeTestGIF(n, delayCS, w, h int) []byte {
	pal := color.Palette{color.Black, color.White}
	g := &gif.GIF{
		Config: image.Config{
			Width:      w,
			Height:     h,
			ColorModel: pal,
		},
	}
	for i := 0; i < n; i++ {
		frame := image.NewPaletted(image.Rect(0, 0, w, h), pal)
		frame.SetColorIndex(i%w, 0, 1)
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, delayCS)
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}
	var buf bytes.Buffer
	_ = gif.EncodeAll(&buf, g)
	return buf.Bytes()
}

// MakeTestPNG returns a w×h PNG filled with c.
func MakeTestPNG(w, h int, c color.Color) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
