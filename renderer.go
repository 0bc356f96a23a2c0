package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

const (
	helpPadding     = 40.0
	minHelpFontSize = 12.0
	maxWarningLines = 2
)

// Renderer handles all drawing operations
type Renderer struct {
	renderState    RenderState
	sink           *screenSink
	seekBar        *SeekBar
	helpFontSource *text.GoTextFaceSource
}

// NewRenderer creates a new Renderer
func NewRenderer(renderState RenderState, sink *screenSink, seekBar *SeekBar) (*Renderer, error) {
	s, err := newFontSource()
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	return &Renderer{
		renderState:    renderState,
		sink:           sink,
		seekBar:        seekBar,
		helpFontSource: s,
	}, nil
}

func (r *Renderer) face(size float64) *text.GoTextFace {
	return &text.GoTextFace{Source: r.helpFontSource, Size: size}
}

// Draw renders the entire screen
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Clear()

	r.sink.Draw(screen)
	if msg := r.placeholderText(); msg != "" {
		r.drawCentered(screen, msg, colorGray)
	}

	r.seekBar.Draw(screen, r.face(r.renderState.GetFontSize()*0.75))
	r.drawInfoDisplay(screen)

	if r.renderState.IsShowingHelp() {
		r.drawHelpOverlay(screen)
	}

	if r.renderState.GetOverlayMessage() != "" && time.Since(r.renderState.GetOverlayMessageTime()) < overlayMessageDuration {
		r.drawOverlayMessage(screen)
	}
}

// placeholderText is shown in place of the media when nothing could be
// displayed.
func (r *Renderer) placeholderText() string {
	if r.sink.Empty() {
		return "No media"
	}
	return ""
}

func (r *Renderer) drawHelpOverlay(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())

	availableWidth := w - helpPadding*2
	availableHeight := h - helpPadding*2

	optimalFontSize, canFit := r.calculateOptimalFontSize(availableWidth, availableHeight)

	// If cannot fit even with minimum font size, show Fermat's joke
	if !canFit {
		r.drawMarginTooSmallMessage(screen)
		return
	}

	entries := buildHelpEntries(r.renderState.GetKeybindings(), r.renderState.GetMousebindings())
	configStatus := r.renderState.GetConfigStatus()

	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)
	DrawFilledRect(screen, helpPadding, helpPadding, w-helpPadding*2, h-helpPadding*2, bgColorMedium)

	helpFont := r.face(optimalFontSize)

	titleY := helpPadding + 30
	DrawText(screen, "HELP:", helpFont, helpPadding+20, titleY, colorWhite)

	currentY := titleY + optimalFontSize*2
	lineHeight := optimalFontSize * 1.5

	DrawText(screen, "Controls (Keyboard | Mouse):", helpFont, helpPadding+20, currentY, colorWhite)
	currentY += lineHeight * 1.5

	maxActionWidth, maxInputWidth, _ := measureHelpColumns(entries, helpFont)

	actionColumnX := helpPadding + 40
	arrowColumnX := actionColumnX + maxActionWidth + 20
	inputColumnX := arrowColumnX + 30
	descColumnX := inputColumnX + maxInputWidth + 20

	for _, e := range entries {
		DrawText(screen, e.Action, helpFont, actionColumnX, currentY, colorLightBlue)
		DrawText(screen, "→", helpFont, arrowColumnX, currentY, colorWhite)

		// Keyboard bindings in yellow, mouse bindings in cyan
		x := inputColumnX
		if e.Keys != "" {
			DrawText(screen, e.Keys, helpFont, x, currentY, colorYellow)
			kw, _ := text.Measure(e.Keys, helpFont, 0)
			x += kw
		}
		if e.Keys != "" && e.Mouse != "" {
			DrawText(screen, " | ", helpFont, x, currentY, colorWhite)
			sw, _ := text.Measure(" | ", helpFont, 0)
			x += sw
		}
		if e.Mouse != "" {
			DrawText(screen, e.Mouse, helpFont, x, currentY, colorCyan)
		}

		DrawText(screen, e.Description, helpFont, descColumnX, currentY, colorGray)
		currentY += lineHeight
	}

	currentY += lineHeight
	DrawText(screen, "System:", helpFont, helpPadding+20, currentY, colorWhite)
	currentY += lineHeight

	statusColor := colorGreen
	if configStatus.Status == "Warning" || configStatus.Status == "Error" {
		statusColor = colorOrange
	}
	DrawText(screen, fmt.Sprintf("Config Status: %s", configStatus.Status), helpFont, helpPadding+40, currentY, statusColor)
	currentY += lineHeight

	for _, warning := range shortWarnings(configStatus.Warnings) {
		DrawText(screen, "• "+warning, helpFont, helpPadding+40, currentY, colorLightRed)
		currentY += lineHeight
	}
}

// measureHelpColumns returns the widest action name, input text and
// description of entries.
func measureHelpColumns(entries []helpEntry, face *text.GoTextFace) (action, input, desc float64) {
	for _, e := range entries {
		aw, _ := text.Measure(e.Action, face, 0)
		iw, _ := text.Measure(e.Input(), face, 0)
		dw, _ := text.Measure(e.Description, face, 0)
		action = max(action, aw)
		input = max(input, iw)
		desc = max(desc, dw)
	}
	return action, input, desc
}

// shortWarnings returns the first warnings, truncated for display.
func shortWarnings(warnings []string) []string {
	var out []string
	for i, w := range warnings {
		if i >= maxWarningLines {
			break
		}
		if len(w) > 50 {
			w = w[:47] + "..."
		}
		out = append(out, w)
	}
	return out
}

// calculateRequiredDimensions calculates the required width and height for help content at a given font size
func (r *Renderer) calculateRequiredDimensions(fontSize float64) (float64, float64) {
	entries := buildHelpEntries(r.renderState.GetKeybindings(), r.renderState.GetMousebindings())
	configStatus := r.renderState.GetConfigStatus()
	tempFont := r.face(fontSize)
	warnings := shortWarnings(configStatus.Warnings)

	lineHeight := fontSize * 1.5

	height := helpPadding * 2
	height += fontSize * 2
	height += lineHeight * 1.5
	height += float64(len(entries)) * lineHeight
	height += lineHeight * 3 // spacing, "System:" and the status line
	height += float64(len(warnings)) * lineHeight

	maxWidth := 0.0
	fit := func(s string, indent float64) {
		sw, _ := text.Measure(s, tempFont, 0)
		maxWidth = max(maxWidth, sw+helpPadding*2+indent)
	}
	fit("HELP:", 40)
	fit("Controls (Keyboard | Mouse):", 40)
	fit("System:", 40)
	fit(fmt.Sprintf("Config Status: %s", configStatus.Status), 80)
	for _, w := range warnings {
		fit("• "+w, 80)
	}

	actionW, inputW, descW := measureHelpColumns(entries, tempFont)
	maxWidth = max(maxWidth, 40+actionW+20+30+20+inputW+20+descW+helpPadding)

	return maxWidth, height
}

// calculateOptimalFontSize finds the largest font size that fits within the given dimensions
func (r *Renderer) calculateOptimalFontSize(availableWidth, availableHeight float64) (float64, bool) {
	maxFontSize := r.renderState.GetFontSize()

	minWidth, minHeight := r.calculateRequiredDimensions(minHelpFontSize)
	if minWidth > availableWidth || minHeight > availableHeight {
		return minHelpFontSize, false
	}

	maxWidth, maxHeight := r.calculateRequiredDimensions(maxFontSize)
	if maxWidth <= availableWidth && maxHeight <= availableHeight {
		return maxFontSize, true
	}

	// Binary search for optimal font size
	low := minHelpFontSize
	high := maxFontSize
	bestSize := minHelpFontSize
	epsilon := 0.5

	for high-low > epsilon {
		mid := (low + high) / 2.0
		reqWidth, reqHeight := r.calculateRequiredDimensions(mid)
		if reqWidth <= availableWidth && reqHeight <= availableHeight {
			bestSize = mid
			low = mid
		} else {
			high = mid
		}
	}

	return bestSize, true
}

// drawMarginTooSmallMessage displays Fermat's margin joke when help cannot fit
func (r *Renderer) drawMarginTooSmallMessage(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()

	DrawFilledRect(screen, 0, 0, float64(w), float64(h), bgColorLight)

	jokeFont := r.face(16)

	message := "Hanc marginis exiguitas non caperet."
	subtitle := "(This margin is too small to contain it.)"

	messageWidth, messageHeight := text.Measure(message, jokeFont, 0)
	subtitleWidth, _ := text.Measure(subtitle, jokeFont, 0)

	messageX := float64(w)/2 - messageWidth/2
	messageY := float64(h)/2 - messageHeight/2

	subtitleX := float64(w)/2 - subtitleWidth/2
	subtitleY := messageY + messageHeight + 10

	DrawText(screen, message, jokeFont, messageX, messageY, colorWhite)
	DrawText(screen, subtitle, jokeFont, subtitleX, subtitleY, colorGray)
}

func (r *Renderer) drawInfoDisplay(screen *ebiten.Image) {
	infoText := r.renderState.GetInfoText()
	if infoText == "" {
		return
	}
	infoFont := r.face(r.renderState.GetFontSize() * 0.75)

	textWidth, textHeight := text.Measure(infoText, infoFont, 0)

	// Bottom right corner, above the seek bar when it is shown
	padding := 10.0
	bottom := float64(screen.Bounds().Dy())
	if r.seekBar.Visible() {
		bottom -= seekBarHeight
	}
	textX := float64(screen.Bounds().Dx()) - textWidth - padding
	textY := bottom - textHeight - padding

	bgPadding := 5.0
	DrawFilledRect(screen, textX-bgPadding, textY-bgPadding, textWidth+bgPadding*2, textHeight+bgPadding*2, bgColorLight)
	DrawText(screen, infoText, infoFont, textX, textY, colorWhite)
}

// drawCentered draws a plain line of text in the middle of the screen.
func (r *Renderer) drawCentered(screen *ebiten.Image, s string, c color.RGBA) {
	face := r.face(r.renderState.GetFontSize())
	tw, th := text.Measure(s, face, 0)
	x := (float64(screen.Bounds().Dx()) - tw) / 2
	y := (float64(screen.Bounds().Dy()) - th) / 2
	DrawText(screen, s, face, x, y, c)
}

func (r *Renderer) drawOverlayMessage(screen *ebiten.Image) {
	messageFont := r.face(r.renderState.GetFontSize())
	msg := r.renderState.GetOverlayMessage()

	textWidth, textHeight := text.Measure(msg, messageFont, 0)

	padding := 20.0
	boxWidth := textWidth + padding*2
	boxHeight := textHeight + padding*2
	boxX := (float64(screen.Bounds().Dx()) - boxWidth) / 2
	boxY := (float64(screen.Bounds().Dy()) - boxHeight) / 2

	DrawFilledRect(screen, boxX, boxY, boxWidth, boxHeight, bgColorDark)
	DrawText(screen, msg, messageFont, boxX+padding, boxY+padding, colorWhite)
}
