package keymap

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Combination
		wantErr bool
	}{
		{in: "KeyR", want: Combination{Key: "KeyR"}},
		{in: "Shift+KeyB", want: Combination{Key: "KeyB", Mods: ModShift}},
		{in: "ctrl+alt+Delete", want: Combination{Key: "Delete", Mods: ModCtrl | ModAlt}},
		{in: "F11", want: Combination{Key: "F11"}},
		{in: "Numpad7", want: Combination{Key: "Numpad7"}},
		{in: "", wantErr: true},
		{in: "KeyAA", wantErr: true},
		{in: "keyr", wantErr: true},
		{in: "Meta+KeyA", wantErr: true},
		{in: "Ctrl+", wantErr: true},
		{in: "F13", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Parse(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.in, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestCombinationString(t *testing.T) {
	tests := map[string]string{
		"KeyR":              "KeyR",
		"shift+ctrl+KeyS":   "Ctrl+Shift+KeyS",
		"Alt+Shift+Ctrl+F1": "Ctrl+Alt+Shift+F1",
		"SHIFT+Slash":       "Shift+Slash",
	}
	for in, want := range tests {
		c, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", in, err)
		}
		if got := c.String(); got != want {
			t.Errorf("Parse(%q).String() = %q, want %q", in, got, want)
		}
	}
}

func TestKeyNames(t *testing.T) {
	names := KeyNames()
	seen := make(map[string]bool)
	for _, n := range names {
		seen[n] = true
	}
	for _, want := range []string{"KeyA", "Key9", "F12", "Delete", "ArrowLeft", "Space"} {
		if !seen[want] {
			t.Errorf("KeyNames() lacks %q", want)
		}
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("KeyNames() not sorted at %d: %q, %q", i, names[i-1], names[i])
		}
	}
}
