package main

import (
	"bytes"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

// Common colors used in rendering
var (
	colorWhite     = color.RGBA{255, 255, 255, 255}
	colorGray      = color.RGBA{180, 180, 180, 255}
	colorYellow    = color.RGBA{255, 255, 100, 255}
	colorCyan      = color.RGBA{100, 255, 255, 255}
	colorLightBlue = color.RGBA{200, 200, 255, 255}
	colorGreen     = color.RGBA{100, 255, 100, 255}
	colorOrange    = color.RGBA{255, 200, 100, 255}
	colorLightRed  = color.RGBA{255, 150, 150, 255}

	// Background colors for semi-transparent overlays
	bgColorLight  = color.RGBA{0, 0, 0, 128}
	bgColorMedium = color.RGBA{0, 0, 0, 160}
	bgColorDark   = color.RGBA{0, 0, 0, 200}
)

// newFontSource parses the bundled Go Regular font.
func newFontSource() (*text.GoTextFaceSource, error) {
	return text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
}

// DrawText draws text with specified position and color
func DrawText(screen *ebiten.Image, textString string, font *text.GoTextFace, x, y float64, textColor color.RGBA) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(textColor)
	text.Draw(screen, textString, font, op)
}

// DrawFilledRect draws filled rectangles with float64 coordinates
func DrawFilledRect(screen *ebiten.Image, x, y, w, h float64, bgColor color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), bgColor, false)
}

func (ebitenWindow) SetTitle(title string) { ebiten.SetWindowTitle(title) }
func (ebitenWindow) SetFullscreen(fs bool) { ebiten.SetFullscreen(fs) }
func (ebitenWindow) Size() (int, int)      { return ebiten.WindowSize() }
func (ebitenWindow) SetSize(w, h int)      { ebiten.SetWindowSize(w, h) }
