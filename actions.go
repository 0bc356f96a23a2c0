package main

import (
	"strings"

	"mview/internal/keymap"
)

// helpEntry is one line of the help overlay.
type helpEntry struct {
	Action      string
	Keys        string
	Mouse       string
	Description string
}

// fixedHelpEntries are handled by the key chain ahead of the bindings and
// cannot be rebound.
var fixedHelpEntries = []helpEntry{
	{Action: "debug", Keys: "Ctrl+KeyD", Description: "Toggle debug logging"},
	{Action: "diagnostics", Keys: "Ctrl+KeyG", Description: "Log playback diagnostics"},
	{Action: "fullscreen", Keys: "Ctrl+Enter", Description: "Toggle fullscreen"},
}

// buildHelpEntries lists every bindable action that has at least one
// keyboard or mouse binding, in definition order, followed by the fixed
// keys.
func buildHelpEntries(keybindings *keymap.Bindings, mousebindings map[string][]string) []helpEntry {
	var entries []helpEntry
	for _, def := range keymap.Definitions {
		keys := keybindings.Keys(def.Name)
		mouse := mousebindings[def.Name]
		if len(keys) == 0 && len(mouse) == 0 {
			continue
		}
		entries = append(entries, helpEntry{
			Action:      def.Name,
			Keys:        strings.Join(keys, ", "),
			Mouse:       strings.Join(mouse, ", "),
			Description: def.Description,
		})
	}
	return append(entries, fixedHelpEntries...)
}

// Input returns the combined "keys | mouse" text of the entry.
func (e helpEntry) Input() string {
	switch {
	case e.Keys == "":
		return e.Mouse
	case e.Mouse == "":
		return e.Keys
	default:
		return e.Keys + " | " + e.Mouse
	}
}
