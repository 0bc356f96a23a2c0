package keymap

import (
	"fmt"
	"sort"
)

// Action names.
const (
	ActionPrevImage        = "prev_image"
	ActionNextImage        = "next_image"
	ActionRotateCW         = "rotate_clockwise"
	ActionRotateCCW        = "rotate_counterclockwise"
	ActionPlayPause        = "play_pause"
	ActionVolumeUp         = "volume_up"
	ActionVolumeDown       = "volume_down"
	ActionToggleMute       = "toggle_mute"
	ActionToggleFullscreen = "toggle_fullscreen"
	ActionDeleteFile       = "delete_file"
	ActionExit             = "exit"
	ActionHelp             = "help"
)

// Definition describes an action and its default keys.
type Definition struct {
	Name        string
	Keys        []string
	Description string
}

// Definitions lists every bindable action in help order.
var Definitions = []Definition{
	{ActionPrevImage, []string{"ArrowLeft"}, "Previous file"},
	{ActionNextImage, []string{"ArrowRight"}, "Next file"},
	{ActionRotateCW, []string{"KeyR"}, "Rotate clockwise 90 degrees"},
	{ActionRotateCCW, []string{"KeyL"}, "Rotate counter-clockwise 90 degrees"},
	{ActionPlayPause, []string{"Space"}, "Play/pause animation"},
	{ActionVolumeUp, []string{"ArrowUp"}, "Volume up"},
	{ActionVolumeDown, []string{"ArrowDown"}, "Volume down"},
	{ActionToggleMute, []string{"KeyM"}, "Toggle mute"},
	{ActionToggleFullscreen, []string{"F11"}, "Toggle fullscreen"},
	{ActionDeleteFile, []string{"Delete"}, "Delete current file"},
	{ActionExit, []string{"Escape", "KeyQ"}, "Quit application"},
	{ActionHelp, []string{"Shift+Slash"}, "Show/hide help"},
}

// DefaultBindings returns a fresh copy of the default key bindings.
func DefaultBindings() map[string][]string {
	bindings := make(map[string][]string, len(Definitions))
	for _, def := range Definitions {
		bindings[def.Name] = append([]string(nil), def.Keys...)
	}
	return bindings
}

// Validate checks that every combination parses and that no combination is
// bound to two actions.
func Validate(bindings map[string][]string) error {
	// Iterate in a fixed order so the reported conflict is stable.
	actions := make([]string, 0, len(bindings))
	for action := range bindings {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	owner := make(map[Combination]string)
	for _, action := range actions {
		for _, s := range bindings[action] {
			c, err := Parse(s)
			if err != nil {
				return fmt.Errorf("invalid key '%s' for action '%s': %v", s, action, err)
			}
			if prev, ok := owner[c]; ok && prev != action {
				return fmt.Errorf("key conflict: '%s' is bound to both '%s' and '%s'", c, prev, action)
			}
			owner[c] = action
		}
	}
	return nil
}

// Bindings maps actions to parsed combinations.
type Bindings struct {
	byAction map[string][]Combination
}

// NewBindings validates and parses bindings. Actions missing from bindings
// get their default keys.
func NewBindings(bindings map[string][]string) (*Bindings, error) {
	merged := DefaultBindings()
	for action, keys := range bindings {
		merged[action] = keys
	}
	if err := Validate(merged); err != nil {
		return nil, err
	}
	b := &Bindings{byAction: make(map[string][]Combination, len(merged))}
	for action, keys := range merged {
		for _, s := range keys {
			c, _ := Parse(s)
			b.byAction[action] = append(b.byAction[action], c)
		}
	}
	return b, nil
}

// Matches reports whether ev triggers action.
func (b *Bindings) Matches(action string, ev Event) bool {
	for _, c := range b.byAction[action] {
		if c == ev {
			return true
		}
	}
	return false
}

// Keys returns the formatted combinations bound to action.
func (b *Bindings) Keys(action string) []string {
	var keys []string
	for _, c := range b.byAction[action] {
		keys = append(keys, c.String())
	}
	return keys
}
