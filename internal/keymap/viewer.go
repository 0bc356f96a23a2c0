package keymap

// Volume limits.
const (
	VolumeStep = 5
	MaxVolume  = 100
)

// Actions is what the viewer stages operate on.
type Actions interface {
	IsFullscreen() bool
	ToggleFullscreen()
	ToggleDebug()
	DumpDiagnostics()

	// IsAnimated reports whether an animation is currently shown.
	IsAnimated() bool
	// CleanupMedia tears down the current animation.
	CleanupMedia()

	ShowPrevious()
	ShowNext()
	Rotate(clockwise bool)

	TogglePlayback()
	Volume() int
	SetVolume(v int)
	ToggleMute()

	DeleteCurrent()
	Exit()
	ToggleHelp()
}

// Stage names of the viewer chain.
const (
	StageSpecial      = "special"
	StageTransition   = "transition"
	StageNavigation   = "navigation"
	StageManipulation = "manipulation"
	StageMedia        = "media"
	StageWindow       = "window"
	StageFile         = "file"
	StageApplication  = "application"
)

// NewViewerDispatcher builds the viewer's key chain over b and a.
func NewViewerDispatcher(b *Bindings, a Actions) *Dispatcher {
	return NewDispatcher(
		Stage{StageSpecial, func(ev Event) Result { return special(a, ev) }},
		Stage{StageTransition, func(ev Event) Result { return transition(b, a, ev) }},
		Stage{StageNavigation, func(ev Event) Result { return navigation(b, a, ev) }},
		Stage{StageManipulation, func(ev Event) Result { return manipulation(b, a, ev) }},
		Stage{StageMedia, func(ev Event) Result { return mediaControls(b, a, ev) }},
		Stage{StageWindow, func(ev Event) Result { return window(b, a, ev) }},
		Stage{StageFile, func(ev Event) Result { return file(b, a, ev) }},
		Stage{StageApplication, func(ev Event) Result { return application(b, a, ev) }},
	)
}

func special(a Actions, ev Event) Result {
	switch {
	case ev.Is("Escape", 0) && a.IsFullscreen():
		a.ToggleFullscreen()
	case ev.Is("KeyD", ModCtrl):
		a.ToggleDebug()
	case ev.Is("KeyG", ModCtrl):
		a.DumpDiagnostics()
	default:
		return NotHandled
	}
	return Handled
}

// transition tears down a running animation before navigation so two
// sources never compete for the display. It never consumes the event.
func transition(b *Bindings, a Actions, ev Event) Result {
	if (b.Matches(ActionPrevImage, ev) || b.Matches(ActionNextImage, ev)) && a.IsAnimated() {
		a.CleanupMedia()
	}
	return NotHandled
}

func navigation(b *Bindings, a Actions, ev Event) Result {
	switch {
	case b.Matches(ActionPrevImage, ev):
		a.ShowPrevious()
	case b.Matches(ActionNextImage, ev):
		a.ShowNext()
	default:
		return NotHandled
	}
	return Handled
}

func manipulation(b *Bindings, a Actions, ev Event) Result {
	switch {
	case b.Matches(ActionRotateCW, ev):
		a.Rotate(true)
	case b.Matches(ActionRotateCCW, ev):
		a.Rotate(false)
	default:
		return NotHandled
	}
	return Handled
}

func mediaControls(b *Bindings, a Actions, ev Event) Result {
	switch {
	case b.Matches(ActionPlayPause, ev):
		a.TogglePlayback()
	case b.Matches(ActionVolumeUp, ev):
		a.SetVolume(min(a.Volume()+VolumeStep, MaxVolume))
	case b.Matches(ActionVolumeDown, ev):
		a.SetVolume(max(a.Volume()-VolumeStep, 0))
	case b.Matches(ActionToggleMute, ev):
		a.ToggleMute()
	default:
		return NotHandled
	}
	return Handled
}

func window(b *Bindings, a Actions, ev Event) Result {
	switch {
	case b.Matches(ActionToggleFullscreen, ev):
		a.ToggleFullscreen()
	case ev.Is("Escape", 0) && a.IsFullscreen():
		a.ToggleFullscreen()
	case ev.Is("Enter", ModCtrl), ev.Is("NumpadEnter", ModCtrl):
		a.ToggleFullscreen()
	default:
		return NotHandled
	}
	return Handled
}

func file(b *Bindings, a Actions, ev Event) Result {
	if !b.Matches(ActionDeleteFile, ev) {
		return NotHandled
	}
	a.DeleteCurrent()
	return Handled
}

func application(b *Bindings, a Actions, ev Event) Result {
	switch {
	case b.Matches(ActionExit, ev):
		a.Exit()
	case b.Matches(ActionHelp, ev):
		a.ToggleHelp()
	default:
		return NotHandled
	}
	return Handled
}
