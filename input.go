package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"mview/internal/keymap"
)

// getKeyMapping returns a mapping from binding key names to Ebiten keys
func getKeyMapping() map[string]ebiten.Key {
	return map[string]ebiten.Key{
		// Special keys
		"Space":      ebiten.KeySpace,
		"Backspace":  ebiten.KeyBackspace,
		"Enter":      ebiten.KeyEnter,
		"Escape":     ebiten.KeyEscape,
		"Tab":        ebiten.KeyTab,
		"Home":       ebiten.KeyHome,
		"End":        ebiten.KeyEnd,
		"PageUp":     ebiten.KeyPageUp,
		"PageDown":   ebiten.KeyPageDown,
		"Insert":     ebiten.KeyInsert,
		"Delete":     ebiten.KeyDelete,
		"ArrowUp":    ebiten.KeyArrowUp,
		"ArrowDown":  ebiten.KeyArrowDown,
		"ArrowLeft":  ebiten.KeyArrowLeft,
		"ArrowRight": ebiten.KeyArrowRight,

		// Punctuation
		"Comma":     ebiten.KeyComma,
		"Period":    ebiten.KeyPeriod,
		"Slash":     ebiten.KeySlash,
		"Semicolon": ebiten.KeySemicolon,
		"Quote":     ebiten.KeyQuote,
		"Minus":     ebiten.KeyMinus,
		"Equal":     ebiten.KeyEqual,

		// Letters
		"KeyA": ebiten.KeyA, "KeyB": ebiten.KeyB, "KeyC": ebiten.KeyC, "KeyD": ebiten.KeyD,
		"KeyE": ebiten.KeyE, "KeyF": ebiten.KeyF, "KeyG": ebiten.KeyG, "KeyH": ebiten.KeyH,
		"KeyI": ebiten.KeyI, "KeyJ": ebiten.KeyJ, "KeyK": ebiten.KeyK, "KeyL": ebiten.KeyL,
		"KeyM": ebiten.KeyM, "KeyN": ebiten.KeyN, "KeyO": ebiten.KeyO, "KeyP": ebiten.KeyP,
		"KeyQ": ebiten.KeyQ, "KeyR": ebiten.KeyR, "KeyS": ebiten.KeyS, "KeyT": ebiten.KeyT,
		"KeyU": ebiten.KeyU, "KeyV": ebiten.KeyV, "KeyW": ebiten.KeyW, "KeyX": ebiten.KeyX,
		"KeyY": ebiten.KeyY, "KeyZ": ebiten.KeyZ,

		// Digits
		"Key0": ebiten.Key0, "Key1": ebiten.Key1, "Key2": ebiten.Key2, "Key3": ebiten.Key3,
		"Key4": ebiten.Key4, "Key5": ebiten.Key5, "Key6": ebiten.Key6, "Key7": ebiten.Key7,
		"Key8": ebiten.Key8, "Key9": ebiten.Key9,

		// Function keys
		"F1": ebiten.KeyF1, "F2": ebiten.KeyF2, "F3": ebiten.KeyF3, "F4": ebiten.KeyF4,
		"F5": ebiten.KeyF5, "F6": ebiten.KeyF6, "F7": ebiten.KeyF7, "F8": ebiten.KeyF8,
		"F9": ebiten.KeyF9, "F10": ebiten.KeyF10, "F11": ebiten.KeyF11, "F12": ebiten.KeyF12,

		// Numpad
		"Numpad0": ebiten.KeyNumpad0, "Numpad1": ebiten.KeyNumpad1, "Numpad2": ebiten.KeyNumpad2,
		"Numpad3": ebiten.KeyNumpad3, "Numpad4": ebiten.KeyNumpad4, "Numpad5": ebiten.KeyNumpad5,
		"Numpad6": ebiten.KeyNumpad6, "Numpad7": ebiten.KeyNumpad7, "Numpad8": ebiten.KeyNumpad8,
		"Numpad9": ebiten.KeyNumpad9, "NumpadEnter": ebiten.KeyNumpadEnter,
	}
}

// keyNamesByKey is the reverse of getKeyMapping.
var keyNamesByKey = func() map[ebiten.Key]string {
	names := make(map[ebiten.Key]string)
	for name, key := range getKeyMapping() {
		names[key] = name
	}
	return names
}()

// eventForKey converts a pressed key and the held modifiers into a key
// event. Keys without a binding name, modifiers included, yield false.
func eventForKey(key ebiten.Key, mods keymap.Mods) (keymap.Event, bool) {
	name, ok := keyNamesByKey[key]
	if !ok {
		return keymap.Event{}, false
	}
	return keymap.Event{Key: name, Mods: mods}, true
}

// InputHandler turns the keys pressed this tick into key events for the
// dispatcher and runs the mouse bindings.
type InputHandler struct {
	dispatcher *keymap.Dispatcher
	mouse      *MousebindingManager
	actions    keymap.Actions
	keys       []ebiten.Key
}

// NewInputHandler creates a new InputHandler
func NewInputHandler(dispatcher *keymap.Dispatcher, mouse *MousebindingManager, actions keymap.Actions) *InputHandler {
	return &InputHandler{
		dispatcher: dispatcher,
		mouse:      mouse,
		actions:    actions,
	}
}

// SetDispatcher replaces the key chain, after the bindings changed.
func (h *InputHandler) SetDispatcher(d *keymap.Dispatcher) {
	h.dispatcher = d
}

// HandleInput processes the input of the current tick. Mouse bindings are
// skipped when the pointer belongs to a widget. It reports whether any
// input was handled.
func (h *InputHandler) HandleInput(pointerCaptured bool) bool {
	handled := false

	h.keys = inpututil.AppendJustPressedKeys(h.keys[:0])
	mods := currentMods()
	for _, k := range h.keys {
		ev, ok := eventForKey(k, mods)
		if !ok {
			continue
		}
		res, stage := h.dispatcher.Dispatch(ev)
		debugLog("key %s: %s by %q", ev, res, stage)
		if res == keymap.Handled {
			handled = true
		}
	}

	if pointerCaptured {
		return handled
	}
	for _, action := range h.mouse.TriggeredActions() {
		debugLog("mouse action: %s", action)
		if executeAction(action, h.actions) {
			handled = true
		}
	}
	return handled
}
