package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"mview/internal/keymap"
)

// recordingActions records the viewer actions it receives.
type recordingActions struct {
	calls    []string
	animated bool
	volume   int
}

func (a *recordingActions) record(s string)    { a.calls = append(a.calls, s) }
func (a *recordingActions) IsFullscreen() bool { return false }
func (a *recordingActions) ToggleFullscreen()  { a.record("fullscreen") }
func (a *recordingActions) ToggleDebug()       { a.record("debug") }
func (a *recordingActions) DumpDiagnostics()   { a.record("diagnostics") }
func (a *recordingActions) IsAnimated() bool   { return a.animated }
func (a *recordingActions) CleanupMedia()      { a.record("cleanup") }
func (a *recordingActions) ShowPrevious()      { a.record("previous") }
func (a *recordingActions) ShowNext()          { a.record("next") }
func (a *recordingActions) TogglePlayback()    { a.record("playback") }
func (a *recordingActions) Volume() int        { return a.volume }
func (a *recordingActions) ToggleMute()        { a.record("mute") }
func (a *recordingActions) DeleteCurrent()     { a.record("delete") }
func (a *recordingActions) Exit()              { a.record("exit") }
func (a *recordingActions) ToggleHelp()        { a.record("help") }

func (a *recordingActions) SetVolume(v int) {
	a.volume = v
	a.record("volume")
}

func (a *recordingActions) Rotate(clockwise bool) {
	if clockwise {
		a.record("rotate cw")
	} else {
		a.record("rotate ccw")
	}
}

func TestExecuteAction(t *testing.T) {
	tests := []struct {
		action   string
		animated bool
		want     []string
	}{
		{keymap.ActionNextImage, false, []string{"next"}},
		{keymap.ActionNextImage, true, []string{"cleanup", "next"}},
		{keymap.ActionPrevImage, true, []string{"cleanup", "previous"}},
		{keymap.ActionRotateCCW, false, []string{"rotate ccw"}},
		{keymap.ActionPlayPause, true, []string{"playback"}},
		{keymap.ActionToggleFullscreen, false, []string{"fullscreen"}},
		{keymap.ActionHelp, false, []string{"help"}},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			a := &recordingActions{animated: tt.animated}
			if !executeAction(tt.action, a) {
				t.Fatalf("executeAction(%q) = false", tt.action)
			}
			if diff := cmp.Diff(tt.want, a.calls); diff != "" {
				t.Errorf("calls mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if executeAction("no_such_action", &recordingActions{}) {
		t.Error("unknown action reported as executed")
	}
}

func TestExecuteActionVolumeLimits(t *testing.T) {
	a := &recordingActions{volume: 98}
	executeAction(keymap.ActionVolumeUp, a)
	if a.volume != keymap.MaxVolume {
		t.Errorf("volume = %d, want %d", a.volume, keymap.MaxVolume)
	}
	a.volume = 3
	executeAction(keymap.ActionVolumeDown, a)
	if a.volume != 0 {
		t.Errorf("volume = %d, want 0", a.volume)
	}
}

func TestBuildHelpEntries(t *testing.T) {
	unbound := make(map[string][]string)
	for _, def := range keymap.Definitions {
		unbound[def.Name] = nil
	}
	unbound[keymap.ActionNextImage] = []string{"ArrowRight", "shift+KeyN"}
	unbound[keymap.ActionPrevImage] = []string{"ArrowLeft"}
	keys, err := keymap.NewBindings(unbound)
	if err != nil {
		t.Fatalf("NewBindings failed: %v", err)
	}
	mouse := map[string][]string{
		keymap.ActionNextImage: {"WheelDown"},
		keymap.ActionPlayPause: {"MiddleClick"},
	}

	entries := buildHelpEntries(keys, mouse)

	var got []string
	for _, e := range entries {
		got = append(got, e.Action+": "+e.Input())
	}
	want := []string{
		"prev_image: ArrowLeft",
		"next_image: ArrowRight, Shift+KeyN | WheelDown",
		"play_pause: MiddleClick",
		"debug: Ctrl+KeyD",
		"diagnostics: Ctrl+KeyG",
		"fullscreen: Ctrl+Enter",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("help entries mismatch (-want +got):\n%s", diff)
	}
	if entries[0].Description != "Previous file" {
		t.Errorf("description = %q", entries[0].Description)
	}
}
