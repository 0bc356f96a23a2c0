package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"time"
)

func decodeGIF(data []byte) (*Source, error) {
	// Frames lie within the logical screen; check it before DecodeAll
	// allocates them.
	cfg, err := gif.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := checkSize(cfg.Width, cfg.Height, 1); err != nil {
		return nil, err
	}
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(g.Image) == 0 {
		return nil, ErrNoFrames
	}
	width, height := g.Config.Width, g.Config.Height
	if err := checkSize(width, height, len(g.Image)); err != nil {
		return nil, err
	}

	src := &Source{
		Format:    FormatGIF,
		Width:     width,
		Height:    height,
		LoopCount: gifLoopCount(g.LoopCount),
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	prev := image.NewRGBA(canvas.Bounds())
	bg := gifBackground(g)

	for i, frame := range g.Image {
		disposal := byte(gif.DisposalNone)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			copy(prev.Pix, canvas.Pix)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)

		out := image.NewRGBA(canvas.Bounds())
		copy(out.Pix, canvas.Pix)
		src.frames = append(src.frames, out)
		src.delays = append(src.delays, gifDelay(g, i))

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			copy(canvas.Pix, prev.Pix)
		}
	}
	if len(src.frames) != len(g.Image) {
		return nil, fmt.Errorf("composited %d of %d frames", len(src.frames), len(g.Image))
	}
	return src, nil
}

// gifDelay returns the delay of frame i; GIF delays are in hundredths of
// a second.
func gifDelay(g *gif.GIF, i int) time.Duration {
	if i >= len(g.Delay) {
		return 0
	}
	return time.Duration(g.Delay[i]) * 10 * time.Millisecond
}

// gifLoopCount converts the image/gif loop convention (0 forever, -1 once,
// n repeat n more times) into a play count where zero means forever.
func gifLoopCount(n int) int {
	switch {
	case n == 0:
		return 0
	case n < 0:
		return 1
	default:
		return n + 1
	}
}

func gifBackground(g *gif.GIF) color.Color {
	pal, ok := g.Config.ColorModel.(color.Palette)
	if !ok || len(pal) == 0 {
		return color.Transparent
	}
	idx := int(g.BackgroundIndex)
	if idx >= len(pal) {
		return color.Transparent
	}
	return pal[idx]
}
