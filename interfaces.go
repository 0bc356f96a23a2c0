package main

import (
	"time"

	"mview/internal/keymap"
)

const (
	// Overlay message display duration
	overlayMessageDuration = 2 * time.Second
)

// RenderState provides read-only access to game state for the renderer
type RenderState interface {
	IsFullscreen() bool

	// UI state
	IsShowingHelp() bool
	GetOverlayMessage() string
	GetOverlayMessageTime() time.Time

	// Display data
	GetInfoText() string
	GetFontSize() float64
	GetConfigStatus() ConfigLoadResult
	GetKeybindings() *keymap.Bindings
	GetMousebindings() map[string][]string
}

// windowSystem is the part of the ebiten window API the game drives.
type windowSystem interface {
	SetTitle(title string)
	SetFullscreen(fullscreen bool)
	Size() (int, int)
	SetSize(w, h int)
}

type ebitenWindow struct{}
