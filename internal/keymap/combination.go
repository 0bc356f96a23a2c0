// Package keymap binds key combinations to viewer actions and dispatches
// key presses through an ordered chain of handlers.
package keymap

import (
	"fmt"
	"sort"
	"strings"
)

// Mods is a set of modifier keys.
type Mods uint8

const (
	ModCtrl Mods = 1 << iota
	ModAlt
	ModShift
)

// Combination is a key name with the modifiers that must be held. It is
// also the event type delivered to dispatch stages.
type Combination struct {
	Key  string
	Mods Mods
}

// Event is a single key press.
type Event = Combination

// keyNames is the set of key names accepted in bindings.
var keyNames = func() map[string]bool {
	names := map[string]bool{
		// Special keys
		"Space": true, "Backspace": true, "Enter": true, "Escape": true,
		"Tab": true, "Home": true, "End": true, "PageUp": true, "PageDown": true,
		"Insert": true, "Delete": true,
		"ArrowUp": true, "ArrowDown": true, "ArrowLeft": true, "ArrowRight": true,

		// Punctuation
		"Comma": true, "Period": true, "Slash": true, "Semicolon": true,
		"Quote": true, "Minus": true, "Equal": true,

		"NumpadEnter": true,
	}
	for c := 'A'; c <= 'Z'; c++ {
		names["Key"+string(c)] = true
	}
	for c := '0'; c <= '9'; c++ {
		names["Key"+string(c)] = true
		names["Numpad"+string(c)] = true
	}
	for i := 1; i <= 12; i++ {
		names[fmt.Sprintf("F%d", i)] = true
	}
	return names
}()

// KeyNames returns every valid key name, sorted.
func KeyNames() []string {
	names := make([]string, 0, len(keyNames))
	for name := range keyNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse parses a combination such as "Ctrl+Shift+KeyS". Modifier names are
// case-insensitive; key names are not.
func Parse(s string) (Combination, error) {
	if s == "" {
		return Combination{}, fmt.Errorf("empty key string")
	}
	parts := strings.Split(s, "+")

	// Last part is the actual key
	key := parts[len(parts)-1]
	if !keyNames[key] {
		return Combination{}, fmt.Errorf("unknown key: %s", key)
	}
	c := Combination{Key: key}

	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(p) {
		case "ctrl":
			c.Mods |= ModCtrl
		case "alt":
			c.Mods |= ModAlt
		case "shift":
			c.Mods |= ModShift
		default:
			return Combination{}, fmt.Errorf("unknown modifier: %s", p)
		}
	}
	return c, nil
}

// String formats c with modifiers in Ctrl, Alt, Shift order.
func (c Combination) String() string {
	var b strings.Builder
	if c.Mods&ModCtrl != 0 {
		b.WriteString("Ctrl+")
	}
	if c.Mods&ModAlt != 0 {
		b.WriteString("Alt+")
	}
	if c.Mods&ModShift != 0 {
		b.WriteString("Shift+")
	}
	b.WriteString(c.Key)
	return b.String()
}

// Is reports whether the event is key with exactly the given modifiers.
func (c Combination) Is(key string, mods Mods) bool {
	return c.Key == key && c.Mods == mods
}
