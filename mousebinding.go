package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"mview/internal/keymap"
)

// MouseSettings contains mouse-specific configuration
type MouseSettings struct {
	WheelSensitivity float64 `json:"wheel_sensitivity"`
	DoubleClickTime  int     `json:"double_click_time"` // milliseconds
	EnableMouse      bool    `json:"enable_mouse"`
	WheelInverted    bool    `json:"wheel_inverted"`
}

// GetDefaultMouseSettings returns the default mouse settings
func GetDefaultMouseSettings() MouseSettings {
	return MouseSettings{
		WheelSensitivity: 1.0,
		DoubleClickTime:  300,
		EnableMouse:      true,
	}
}

// GetDefaultMousebindings returns the default mouse bindings per action.
func GetDefaultMousebindings() map[string][]string {
	return map[string][]string{
		keymap.ActionPrevImage:        {"WheelUp", "Back"},
		keymap.ActionNextImage:        {"WheelDown", "Forward"},
		keymap.ActionPlayPause:        {"MiddleClick"},
		keymap.ActionRotateCW:         {"Ctrl+WheelDown"},
		keymap.ActionRotateCCW:        {"Ctrl+WheelUp"},
		keymap.ActionToggleFullscreen: {"DoubleLeftClick"},
		keymap.ActionHelp:             {"Alt+RightClick"},
	}
}

// DoubleClickTracker tracks double-click state
type DoubleClickTracker struct {
	lastClickTime   time.Time
	lastClickButton ebiten.MouseButton
	clickCount      int
}

// MouseCombination represents a mouse action with optional modifiers
type MouseCombination struct {
	Button        ebiten.MouseButton
	IsWheel       bool
	WheelDeltaY   float64
	IsDoubleClick bool
	Mods          keymap.Mods
}

// MousebindingManager maps mouse input to viewer actions.
type MousebindingManager struct {
	mousebindings      map[string][]string
	settings           MouseSettings
	doubleClickTracker DoubleClickTracker
	now                func() time.Time
}

// NewMousebindingManager creates a new MousebindingManager
func NewMousebindingManager(mousebindings map[string][]string, settings MouseSettings) *MousebindingManager {
	return &MousebindingManager{
		mousebindings: mousebindings,
		settings:      settings,
		now:           time.Now,
	}
}

var mouseButtons = map[string]ebiten.MouseButton{
	"LeftClick":   ebiten.MouseButtonLeft,
	"RightClick":  ebiten.MouseButtonRight,
	"MiddleClick": ebiten.MouseButtonMiddle,
	"Back":        ebiten.MouseButton3,
	"Forward":     ebiten.MouseButton4,
}

// parseMouseString parses a mouse string like "Ctrl+WheelUp" or
// "DoubleLeftClick" into a MouseCombination.
func parseMouseString(mouseStr string) (MouseCombination, error) {
	parts := strings.Split(mouseStr, "+")
	var c MouseCombination
	for _, mod := range parts[:len(parts)-1] {
		switch strings.ToLower(mod) {
		case "shift":
			c.Mods |= keymap.ModShift
		case "ctrl":
			c.Mods |= keymap.ModCtrl
		case "alt":
			c.Mods |= keymap.ModAlt
		default:
			return MouseCombination{}, fmt.Errorf("unknown modifier: %s", mod)
		}
	}

	name := parts[len(parts)-1]
	switch {
	case name == "WheelUp":
		c.IsWheel, c.WheelDeltaY = true, 1
	case name == "WheelDown":
		c.IsWheel, c.WheelDeltaY = true, -1
	case strings.HasPrefix(name, "Double"):
		button, ok := mouseButtons[strings.TrimPrefix(name, "Double")]
		if !ok {
			return MouseCombination{}, fmt.Errorf("unknown mouse action: %s", name)
		}
		c.IsDoubleClick = true
		c.Button = button
	default:
		button, ok := mouseButtons[name]
		if !ok {
			return MouseCombination{}, fmt.Errorf("unknown mouse action: %s", name)
		}
		c.Button = button
	}
	return c, nil
}

// validateMousebindings rejects unparsable mouse strings and strings bound
// to two actions.
func validateMousebindings(mousebindings map[string][]string) error {
	actions := make([]string, 0, len(mousebindings))
	for action := range mousebindings {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	owner := make(map[MouseCombination]string)
	for _, action := range actions {
		for _, s := range mousebindings[action] {
			c, err := parseMouseString(s)
			if err != nil {
				return fmt.Errorf("invalid mouse action '%s' for action '%s': %w", s, action, err)
			}
			if prev, exists := owner[c]; exists {
				return fmt.Errorf("mouse conflict: '%s' is bound to both '%s' and '%s'", s, prev, action)
			}
			owner[c] = action
		}
	}
	return nil
}

func currentMods() keymap.Mods {
	var m keymap.Mods
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		m |= keymap.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		m |= keymap.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		m |= keymap.ModShift
	}
	return m
}

// isMouseActionTriggered checks if a mouse combination fired this tick.
func (mm *MousebindingManager) isMouseActionTriggered(c MouseCombination, mods keymap.Mods) bool {
	if c.Mods != mods {
		return false
	}
	if c.IsWheel {
		_, wheelY := ebiten.Wheel()
		if mm.settings.WheelInverted {
			wheelY = -wheelY
		}
		wheelY *= mm.settings.WheelSensitivity
		return (c.WheelDeltaY > 0 && wheelY > 0) || (c.WheelDeltaY < 0 && wheelY < 0)
	}
	if c.IsDoubleClick {
		return inpututil.IsMouseButtonJustPressed(c.Button) && mm.isDoubleClick(c.Button)
	}
	return inpututil.IsMouseButtonJustPressed(c.Button)
}

// registerClick records a click and reports whether it completes a
// double click.
func (mm *MousebindingManager) registerClick(button ebiten.MouseButton, now time.Time) bool {
	t := &mm.doubleClickTracker
	window := time.Duration(mm.settings.DoubleClickTime) * time.Millisecond
	if t.clickCount > 0 && t.lastClickButton == button && now.Sub(t.lastClickTime) <= window {
		t.clickCount = 0
		t.lastClickTime = now
		return true
	}
	t.clickCount = 1
	t.lastClickButton = button
	t.lastClickTime = now
	return false
}

func (mm *MousebindingManager) isDoubleClick(button ebiten.MouseButton) bool {
	return mm.registerClick(button, mm.now())
}

// TriggeredActions returns the actions whose mouse bindings fired this
// tick, in action name order.
func (mm *MousebindingManager) TriggeredActions() []string {
	if !mm.settings.EnableMouse {
		return nil
	}
	mods := currentMods()

	actions := make([]string, 0, len(mm.mousebindings))
	for action := range mm.mousebindings {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	var fired []string
	for _, action := range actions {
		for _, s := range mm.mousebindings[action] {
			c, err := parseMouseString(s)
			if err == nil && mm.isMouseActionTriggered(c, mods) {
				fired = append(fired, action)
				break
			}
		}
	}
	return fired
}

// GetMousebindings returns the current mouse bindings map (for display purposes)
func (mm *MousebindingManager) GetMousebindings() map[string][]string {
	return mm.mousebindings
}

// Update replaces the bindings and settings after a config reload.
func (mm *MousebindingManager) Update(mousebindings map[string][]string, settings MouseSettings) {
	mm.mousebindings = mousebindings
	mm.settings = settings
}
