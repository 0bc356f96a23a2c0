package main

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"mview/internal/keymap"
)

func TestKeyMappingCoversKeyNames(t *testing.T) {
	mapping := getKeyMapping()
	for _, name := range keymap.KeyNames() {
		if _, ok := mapping[name]; !ok {
			t.Errorf("key %q has no ebiten key", name)
		}
	}
	for name := range mapping {
		if _, err := keymap.Parse(name); err != nil {
			t.Errorf("mapped key %q is not bindable: %v", name, err)
		}
	}
	if len(keyNamesByKey) != len(mapping) {
		t.Errorf("%d ebiten keys for %d names; two names share a key", len(keyNamesByKey), len(mapping))
	}
}

func TestEventForKey(t *testing.T) {
	tests := []struct {
		name string
		key  ebiten.Key
		mods keymap.Mods
		want keymap.Event
		ok   bool
	}{
		{"letter", ebiten.KeyA, 0, keymap.Event{Key: "KeyA"}, true},
		{"digit with ctrl", ebiten.Key1, keymap.ModCtrl, keymap.Event{Key: "Key1", Mods: keymap.ModCtrl}, true},
		{"help", ebiten.KeySlash, keymap.ModShift, keymap.Event{Key: "Slash", Mods: keymap.ModShift}, true},
		{"arrow", ebiten.KeyArrowLeft, 0, keymap.Event{Key: "ArrowLeft"}, true},
		{"function key", ebiten.KeyF11, 0, keymap.Event{Key: "F11"}, true},
		{"modifier alone", ebiten.KeyShift, keymap.ModShift, keymap.Event{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := eventForKey(tt.key, tt.mods)
			if ok != tt.ok || got != tt.want {
				t.Errorf("eventForKey(%v) = %v, %t; want %v, %t", tt.key, got, ok, tt.want, tt.ok)
			}
		})
	}
}
