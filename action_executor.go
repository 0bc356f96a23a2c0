package main

import (
	"mview/internal/keymap"
)

// executeAction runs a named action triggered by the mouse. Keyboard input
// goes through the keymap dispatcher instead; both end up on the same
// keymap.Actions methods. It reports whether the action is known.
func executeAction(action string, a keymap.Actions) bool {
	switch action {
	case keymap.ActionPrevImage, keymap.ActionNextImage:
		// Same teardown the keyboard chain performs before navigating.
		if a.IsAnimated() {
			a.CleanupMedia()
		}
		if action == keymap.ActionPrevImage {
			a.ShowPrevious()
		} else {
			a.ShowNext()
		}
	case keymap.ActionRotateCW:
		a.Rotate(true)
	case keymap.ActionRotateCCW:
		a.Rotate(false)
	case keymap.ActionPlayPause:
		a.TogglePlayback()
	case keymap.ActionVolumeUp:
		a.SetVolume(min(a.Volume()+keymap.VolumeStep, keymap.MaxVolume))
	case keymap.ActionVolumeDown:
		a.SetVolume(max(a.Volume()-keymap.VolumeStep, 0))
	case keymap.ActionToggleMute:
		a.ToggleMute()
	case keymap.ActionToggleFullscreen:
		a.ToggleFullscreen()
	case keymap.ActionDeleteFile:
		a.DeleteCurrent()
	case keymap.ActionExit:
		a.Exit()
	case keymap.ActionHelp:
		a.ToggleHelp()
	default:
		return false
	}
	return true
}
