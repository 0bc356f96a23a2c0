package main

import (
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"mview/internal/keymap"
)

func TestParseMouseString(t *testing.T) {
	tests := []struct {
		input   string
		want    MouseCombination
		wantErr bool
	}{
		{"LeftClick", MouseCombination{Button: ebiten.MouseButtonLeft}, false},
		{"MiddleClick", MouseCombination{Button: ebiten.MouseButtonMiddle}, false},
		{"Back", MouseCombination{Button: ebiten.MouseButton3}, false},
		{"WheelUp", MouseCombination{IsWheel: true, WheelDeltaY: 1}, false},
		{"Ctrl+WheelDown", MouseCombination{IsWheel: true, WheelDeltaY: -1, Mods: keymap.ModCtrl}, false},
		{"DoubleLeftClick", MouseCombination{Button: ebiten.MouseButtonLeft, IsDoubleClick: true}, false},
		{"alt+shift+RightClick", MouseCombination{Button: ebiten.MouseButtonRight, Mods: keymap.ModAlt | keymap.ModShift}, false},
		{"Meta+LeftClick", MouseCombination{}, true},
		{"DoubleWheelUp", MouseCombination{}, true},
		{"TripleClick", MouseCombination{}, true},
		{"", MouseCombination{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseMouseString(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseMouseString(%q) error = %v, wantErr %t", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseMouseString(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateMousebindings(t *testing.T) {
	if err := validateMousebindings(GetDefaultMousebindings()); err != nil {
		t.Errorf("default mouse bindings invalid: %v", err)
	}

	// A modifier makes a different combination.
	ok := map[string][]string{
		keymap.ActionNextImage: {"WheelDown"},
		keymap.ActionRotateCW:  {"Ctrl+WheelDown"},
	}
	if err := validateMousebindings(ok); err != nil {
		t.Errorf("distinct bindings rejected: %v", err)
	}

	conflict := map[string][]string{
		keymap.ActionNextImage: {"WheelDown"},
		keymap.ActionExit:      {"WheelDown"},
	}
	if err := validateMousebindings(conflict); err == nil {
		t.Error("conflicting bindings accepted")
	}
}

func TestRegisterClick(t *testing.T) {
	settings := GetDefaultMouseSettings()
	mm := NewMousebindingManager(GetDefaultMousebindings(), settings)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	window := time.Duration(settings.DoubleClickTime) * time.Millisecond

	steps := []struct {
		name   string
		button ebiten.MouseButton
		at     time.Time
		want   bool
	}{
		{"first click", ebiten.MouseButtonLeft, t0, false},
		{"second click in time", ebiten.MouseButtonLeft, t0.Add(window / 2), true},
		{"third click starts over", ebiten.MouseButtonLeft, t0.Add(window * 3 / 4), false},
		{"other button", ebiten.MouseButtonRight, t0.Add(window), false},
		{"too late", ebiten.MouseButtonRight, t0.Add(window*2 + time.Millisecond), false},
		{"pair again", ebiten.MouseButtonRight, t0.Add(window*2 + 2*time.Millisecond), true},
	}
	for _, s := range steps {
		if got := mm.registerClick(s.button, s.at); got != s.want {
			t.Errorf("%s: registerClick = %t, want %t", s.name, got, s.want)
		}
	}
}

func TestMouseDisabled(t *testing.T) {
	settings := GetDefaultMouseSettings()
	settings.EnableMouse = false
	mm := NewMousebindingManager(GetDefaultMousebindings(), settings)
	if got := mm.TriggeredActions(); got != nil {
		t.Errorf("TriggeredActions = %v with the mouse disabled", got)
	}

	mm.Update(map[string][]string{keymap.ActionExit: {"LeftClick"}}, settings)
	if got := mm.GetMousebindings()[keymap.ActionExit]; len(got) != 1 || got[0] != "LeftClick" {
		t.Errorf("bindings after Update = %v", mm.GetMousebindings())
	}
}
