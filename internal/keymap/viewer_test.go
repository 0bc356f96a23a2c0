package keymap

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeActions struct {
	fullscreen bool
	animated   bool
	volume     int
	calls      []string
}

func (f *fakeActions) record(s string) { f.calls = append(f.calls, s) }

func (f *fakeActions) IsFullscreen() bool { return f.fullscreen }
func (f *fakeActions) ToggleFullscreen() {
	f.fullscreen = !f.fullscreen
	f.record("fullscreen")
}
func (f *fakeActions) ToggleDebug()     { f.record("debug") }
func (f *fakeActions) DumpDiagnostics() { f.record("diagnostics") }
func (f *fakeActions) IsAnimated() bool { return f.animated }
func (f *fakeActions) CleanupMedia()    { f.record("cleanup") }
func (f *fakeActions) ShowPrevious()    { f.record("previous") }
func (f *fakeActions) ShowNext()        { f.record("next") }
func (f *fakeActions) Rotate(cw bool) {
	if cw {
		f.record("rotate_cw")
	} else {
		f.record("rotate_ccw")
	}
}
func (f *fakeActions) TogglePlayback() { f.record("play_pause") }
func (f *fakeActions) Volume() int     { return f.volume }
func (f *fakeActions) SetVolume(v int) {
	f.volume = v
	f.record("volume")
}
func (f *fakeActions) ToggleMute()    { f.record("mute") }
func (f *fakeActions) DeleteCurrent() { f.record("delete") }
func (f *fakeActions) Exit()          { f.record("exit") }
func (f *fakeActions) ToggleHelp()    { f.record("help") }

func newTestDispatcher(t *testing.T, a Actions) *Dispatcher {
	t.Helper()
	b, err := NewBindings(nil)
	if err != nil {
		t.Fatal(err)
	}
	return NewViewerDispatcher(b, a)
}

func TestViewerDispatch(t *testing.T) {
	tests := []struct {
		name       string
		fullscreen bool
		animated   bool
		ev         Event
		wantResult Result
		wantStage  string
		wantCalls  []string
	}{
		{"escape leaves fullscreen", true, false, Event{Key: "Escape"}, Handled, StageSpecial, []string{"fullscreen"}},
		{"escape windowed exits", false, false, Event{Key: "Escape"}, Handled, StageApplication, []string{"exit"}},
		{"ctrl+d", false, false, Event{Key: "KeyD", Mods: ModCtrl}, Handled, StageSpecial, []string{"debug"}},
		{"ctrl+g", false, false, Event{Key: "KeyG", Mods: ModCtrl}, Handled, StageSpecial, []string{"diagnostics"}},
		{"next still", false, false, Event{Key: "ArrowRight"}, Handled, StageNavigation, []string{"next"}},
		{"next animation", false, true, Event{Key: "ArrowRight"}, Handled, StageNavigation, []string{"cleanup", "next"}},
		{"previous animation", false, true, Event{Key: "ArrowLeft"}, Handled, StageNavigation, []string{"cleanup", "previous"}},
		{"rotate cw", false, true, Event{Key: "KeyR"}, Handled, StageManipulation, []string{"rotate_cw"}},
		{"rotate ccw", false, false, Event{Key: "KeyL"}, Handled, StageManipulation, []string{"rotate_ccw"}},
		{"play pause", false, true, Event{Key: "Space"}, Handled, StageMedia, []string{"play_pause"}},
		{"mute", false, false, Event{Key: "KeyM"}, Handled, StageMedia, []string{"mute"}},
		{"f11", false, false, Event{Key: "F11"}, Handled, StageWindow, []string{"fullscreen"}},
		{"ctrl+enter", false, false, Event{Key: "Enter", Mods: ModCtrl}, Handled, StageWindow, []string{"fullscreen"}},
		{"delete", false, false, Event{Key: "Delete"}, Handled, StageFile, []string{"delete"}},
		{"help", false, false, Event{Key: "Slash", Mods: ModShift}, Handled, StageApplication, []string{"help"}},
		{"unbound", false, true, Event{Key: "KeyZ"}, NotHandled, "", nil},
		{"plain d", false, false, Event{Key: "KeyD"}, NotHandled, "", nil},
		{"enter without ctrl", false, false, Event{Key: "Enter"}, NotHandled, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &fakeActions{fullscreen: tt.fullscreen, animated: tt.animated}
			result, stage := newTestDispatcher(t, a).Dispatch(tt.ev)
			if result != tt.wantResult || stage != tt.wantStage {
				t.Errorf("Dispatch = %v/%q, want %v/%q", result, stage, tt.wantResult, tt.wantStage)
			}
			if diff := cmp.Diff(tt.wantCalls, a.calls); diff != "" {
				t.Errorf("calls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestViewerVolume(t *testing.T) {
	tests := []struct {
		name  string
		start int
		key   string
		want  int
	}{
		{"up", 50, "ArrowUp", 55},
		{"up clamps", 98, "ArrowUp", 100},
		{"up at max", 100, "ArrowUp", 100},
		{"down", 50, "ArrowDown", 45},
		{"down clamps", 3, "ArrowDown", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &fakeActions{volume: tt.start}
			newTestDispatcher(t, a).Dispatch(Event{Key: tt.key})
			if a.volume != tt.want {
				t.Errorf("volume = %d, want %d", a.volume, tt.want)
			}
		})
	}
}

func TestDispatcherOrder(t *testing.T) {
	var seen []string
	stage := func(name string, r Result) Stage {
		return Stage{name, func(Event) Result {
			seen = append(seen, name)
			return r
		}}
	}
	d := NewDispatcher(stage("a", NotHandled), stage("b", Handled), stage("c", Handled))

	result, name := d.Dispatch(Event{Key: "KeyA"})
	if result != Handled || name != "b" {
		t.Errorf("Dispatch = %v/%q, want handled/b", result, name)
	}
	if diff := cmp.Diff([]string{"a", "b"}, seen); diff != "" {
		t.Errorf("stages run mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, d.Stages()); diff != "" {
		t.Errorf("Stages mismatch (-want +got):\n%s", diff)
	}
}

func TestViewerStageOrder(t *testing.T) {
	want := []string{StageSpecial, StageTransition, StageNavigation, StageManipulation,
		StageMedia, StageWindow, StageFile, StageApplication}
	if diff := cmp.Diff(want, newTestDispatcher(t, &fakeActions{}).Stages()); diff != "" {
		t.Errorf("stage order mismatch (-want +got):\n%s", diff)
	}
}
