package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"mview/internal/keymap"
	"mview/internal/playback"
	"mview/internal/render"
)

// gameOptions configures newGame.
type gameOptions struct {
	Library *Library
	Config  ConfigLoadResult
	Session *SessionStore
	// ConfigChanges delivers reloaded configurations. Nil disables reloading.
	ConfigChanges <-chan ConfigChange
	// Window defaults to the ebiten window.
	Window windowSystem
	// Clock drives playback; it defaults to time.Now.
	Clock func() time.Time
}

// Game is the ebiten game: it owns the file list, the playback handler and
// the widgets, and implements the viewer actions.
type Game struct {
	library  *Library
	idx      int
	handler  *playback.Handler
	sink     *screenSink
	seekBar  *SeekBar
	renderer *Renderer
	input    *InputHandler
	bindings *keymap.Bindings
	mouse    *MousebindingManager
	window   windowSystem

	config        Config
	configStatus  ConfigLoadResult
	configChanges <-chan ConfigChange
	session       *SessionStore

	fullscreen           bool
	savedWinW, savedWinH int
	showHelp             bool
	playing              bool
	overlayMessage       string
	overlayMessageTime   time.Time
	quit                 bool
}

func newGame(opts gameOptions) (*Game, error) {
	cfg := opts.Config.Config
	g := &Game{
		library:       opts.Library,
		window:        opts.Window,
		config:        cfg,
		configStatus:  opts.Config,
		configChanges: opts.ConfigChanges,
		session:       opts.Session,
	}
	if g.window == nil {
		g.window = ebitenWindow{}
	}
	if g.session == nil {
		g.session = NewSessionStore(nil)
	}

	g.sink = newScreenSink(cfg.WindowWidth, cfg.WindowHeight, cfg.RenderCacheSize)
	g.seekBar = NewSeekBar()
	g.seekBar.Layout(cfg.WindowWidth, cfg.WindowHeight)

	handler, err := playback.NewHandler(playback.Options{
		Sink:      g.sink,
		Host:      g,
		Indicator: g.seekBar,
		Label:     g.seekBar,
		Clock:     opts.Clock,
		Debugf:    debugLog,
		CacheSize: cfg.RenderCacheSize,
	})
	if err != nil {
		return nil, err
	}
	g.handler = handler

	renderer, err := NewRenderer(g, g.sink, g.seekBar)
	if err != nil {
		return nil, err
	}
	g.renderer = renderer

	g.mouse = NewMousebindingManager(cfg.Mousebindings, cfg.MouseSettings)
	g.input = NewInputHandler(g.newDispatcher(cfg.Keybindings), g.mouse, g)
	return g, nil
}

// newDispatcher builds the key chain for bindings, falling back to the
// defaults if they do not validate.
func (g *Game) newDispatcher(bindings map[string][]string) *keymap.Dispatcher {
	b, err := keymap.NewBindings(bindings)
	if err != nil {
		log.Printf("Warning: invalid keybindings, using defaults: %v", err)
		b, _ = keymap.NewBindings(keymap.DefaultBindings())
	}
	g.bindings = b
	return keymap.NewViewerDispatcher(b, g)
}

// Start shows the file at idx.
func (g *Game) Start(idx int) {
	if idx < 0 || idx >= g.library.Len() {
		idx = 0
	}
	g.idx = idx
	g.loadCurrent(NavigationJump)
}

// Update is called every tick (1/60 [s] by default).
func (g *Game) Update() error {
	g.applyConfigChanges()

	captured := g.seekBar.Update(currentPointer())
	g.input.HandleInput(captured)
	g.handler.Advance()

	if g.quit {
		return ebiten.Termination
	}
	return nil
}

// Draw draws the game screen.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
}

// Layout takes the outside size (e.g., the window size) and returns the (logical) screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func (g *Game) resize(w, h int) {
	if !g.sink.Resize(w, h) {
		return
	}
	g.seekBar.Layout(w, h)
	if err := g.handler.Relayout(); err != nil {
		log.Printf("Error: relayout failed: %v", err)
	}
}

// applyConfigChanges applies every configuration reloaded since the last
// tick. Window geometry is not changed on the fly.
func (g *Game) applyConfigChanges() {
	if g.configChanges == nil {
		return
	}
	for {
		select {
		case change := <-g.configChanges:
			g.applyConfigChange(change)
		default:
			return
		}
	}
}

func (g *Game) applyConfigChange(change ConfigChange) {
	if change.Err != nil {
		log.Printf("Warning: config reload failed: %v", change.Err)
		g.showOverlayMessage("Config reload failed")
		return
	}
	cfg := change.Result.Config
	g.config.HelpFontSize = cfg.HelpFontSize
	g.config.Keybindings = cfg.Keybindings
	g.config.Mousebindings = cfg.Mousebindings
	g.config.MouseSettings = cfg.MouseSettings
	g.configStatus = change.Result

	g.input.SetDispatcher(g.newDispatcher(cfg.Keybindings))
	g.mouse.Update(cfg.Mousebindings, cfg.MouseSettings)
	g.showOverlayMessage(fmt.Sprintf("Config reloaded (%s)", change.Result.Status))
}

// loadCurrent shows the file at g.idx. Plain files that are not cached
// are loaded from disk by path; everything else goes through the library.
func (g *Game) loadCurrent(direction NavigationDirection) {
	p, ok := g.library.Path(g.idx)
	if !ok {
		g.handler.Cleanup()
		g.UpdateInfo()
		return
	}

	idx := g.idx
	if p.InArchive() || g.library.Cached(idx) {
		_, err := g.handler.LoadFunc(p.Name(), func() ([]byte, error) {
			return g.library.Read(idx)
		})
		if err != nil {
			debugLog("load %s: %v", p.Path, err)
		}
	} else if _, err := g.handler.Load(p.Path); err != nil {
		debugLog("load %s: %v", p.Path, err)
	}

	g.session.SetLastFile(p.Path)
	g.library.StartPreload(idx, direction)
	g.UpdateInfo()
}

func (g *Game) showOverlayMessage(msg string) {
	g.overlayMessage = msg
	g.overlayMessageTime = time.Now()
}

// saveState writes the window geometry to the config file and the
// session to the data directory.
func (g *Game) saveState() {
	g.saveCurrentWindowSize()
	saveConfig(g.config)
	if err := g.session.Save(); err != nil {
		log.Printf("Warning: %v", err)
	}
}

func (g *Game) saveCurrentWindowSize() {
	if g.fullscreen {
		if g.savedWinW > 0 && g.savedWinH > 0 {
			g.config.WindowWidth, g.config.WindowHeight = g.savedWinW, g.savedWinH
		}
	} else {
		w, h := g.window.Size()
		if w > 0 && h > 0 {
			g.config.WindowWidth, g.config.WindowHeight = w, h
		}
	}
	g.config.Fullscreen = g.fullscreen
}

// playback.Host

// ShowLoading and HideLoading do nothing: decoding runs inside Update, so
// no frame is drawn between the two calls.
func (g *Game) ShowLoading() {}
func (g *Game) HideLoading() {}

func (g *Game) ShowMessage(msg string) {
	debugLog("%s", msg)
	g.showOverlayMessage(msg)
}

// UpdateInfo refreshes the window title and the seek bar.
func (g *Game) UpdateInfo() {
	title := "mview"
	if p, ok := g.library.Path(g.idx); ok && g.handler.Source() != nil {
		title = fmt.Sprintf("%s - mview", p.Name())
	}
	g.window.SetTitle(title)
	g.seekBar.SetVisible(g.handler.Movie() != nil)
}

func (g *Game) PlaybackStateChanged(playing bool) {
	g.playing = playing
}

// keymap.Actions

func (g *Game) IsFullscreen() bool {
	return g.fullscreen
}

func (g *Game) ToggleFullscreen() {
	if !g.fullscreen {
		// Remember the window size before going fullscreen
		g.savedWinW, g.savedWinH = g.window.Size()
		g.fullscreen = true
		g.window.SetFullscreen(true)
		return
	}
	g.fullscreen = false
	g.window.SetFullscreen(false)
	if g.savedWinW > 0 && g.savedWinH > 0 {
		g.window.SetSize(g.savedWinW, g.savedWinH)
	}
}

func (g *Game) ToggleDebug() {
	on := !debugMode.Load()
	debugMode.Store(on)
	state := "off"
	if on {
		state = "on"
	}
	log.Printf("Debug logging %s", state)
	g.showOverlayMessage("Debug logging " + state)
}

func (g *Game) DumpDiagnostics() {
	stats := g.library.PreloadStats()
	log.Printf("Diagnostics: %s", g.handler.Snapshot())
	log.Printf("Diagnostics: file %d/%d, preload loaded=%d failed=%d queued=%d",
		g.idx+1, g.library.Len(), stats.LoadedCount, stats.FailedCount, stats.QueueSize)
	log.Printf("Diagnostics: key stages %s", strings.Join(g.input.dispatcher.Stages(), " > "))
	g.showOverlayMessage("Diagnostics written to log")
}

func (g *Game) IsAnimated() bool {
	return g.handler.Movie() != nil
}

func (g *Game) CleanupMedia() {
	g.handler.Cleanup()
}

func (g *Game) ShowPrevious() {
	n := g.library.Len()
	if n == 0 {
		return
	}
	g.idx = (g.idx - 1 + n) % n
	g.loadCurrent(NavigationBackward)
}

func (g *Game) ShowNext() {
	n := g.library.Len()
	if n == 0 {
		return
	}
	g.idx = (g.idx + 1) % n
	g.loadCurrent(NavigationForward)
}

func (g *Game) Rotate(clockwise bool) {
	err := g.handler.Rotate(clockwise)
	switch {
	case errors.Is(err, render.ErrNoSource):
		g.showOverlayMessage("Nothing to rotate")
	case err != nil:
		log.Printf("Error: rotation failed: %v", err)
		g.showOverlayMessage("Rotation failed")
	default:
		g.showOverlayMessage(fmt.Sprintf("Rotation: %d°", g.handler.Rotation()))
	}
}

func (g *Game) TogglePlayback() {
	if g.handler.Movie() == nil {
		return
	}
	if g.handler.TogglePlayback() {
		g.showOverlayMessage("Playing")
	} else {
		g.showOverlayMessage("Paused")
	}
}

func (g *Game) Volume() int {
	return g.session.Session().Volume
}

func (g *Game) SetVolume(v int) {
	g.session.SetVolume(v)
	g.showOverlayMessage(fmt.Sprintf("Volume: %d%%", g.Volume()))
}

func (g *Game) ToggleMute() {
	muted := !g.session.Session().Muted
	g.session.SetMuted(muted)
	if muted {
		g.showOverlayMessage("Muted")
	} else {
		g.showOverlayMessage("Unmuted")
	}
}

// DeleteCurrent removes the current file from disk and shows the next one.
// Archive entries cannot be deleted.
func (g *Game) DeleteCurrent() {
	p, ok := g.library.Path(g.idx)
	if !ok {
		return
	}
	if p.InArchive() {
		g.showOverlayMessage("Cannot delete a file inside an archive")
		return
	}
	if err := os.Remove(p.Path); err != nil {
		log.Printf("Error: Failed to delete %s: %v", p.Path, err)
		g.showOverlayMessage("Failed to delete: " + p.Name())
		return
	}
	log.Printf("Deleted %s", p.Path)

	g.handler.Cleanup()
	g.library.Remove(g.idx)
	if n := g.library.Len(); n > 0 {
		g.idx %= n
		g.loadCurrent(NavigationJump)
	} else {
		g.idx = 0
		g.UpdateInfo()
	}
	g.showOverlayMessage("Deleted: " + p.Name())
}

func (g *Game) Exit() {
	g.quit = true
}

func (g *Game) ToggleHelp() {
	g.showHelp = !g.showHelp
}

// RenderState

func (g *Game) IsShowingHelp() bool                   { return g.showHelp }
func (g *Game) GetOverlayMessage() string             { return g.overlayMessage }
func (g *Game) GetOverlayMessageTime() time.Time      { return g.overlayMessageTime }
func (g *Game) GetFontSize() float64                  { return g.config.HelpFontSize }
func (g *Game) GetConfigStatus() ConfigLoadResult     { return g.configStatus }
func (g *Game) GetKeybindings() *keymap.Bindings      { return g.bindings }
func (g *Game) GetMousebindings() map[string][]string { return g.mouse.GetMousebindings() }

// GetInfoText describes the current file, e.g. "3 / 12  clip.gif  90°  Vol 80%".
func (g *Game) GetInfoText() string {
	p, ok := g.library.Path(g.idx)
	if !ok {
		return ""
	}
	parts := []string{fmt.Sprintf("%d / %d", g.idx+1, g.library.Len()), p.Name()}
	if r := g.handler.Rotation(); r != 0 {
		parts = append(parts, fmt.Sprintf("%d°", r))
	}
	if g.handler.Movie() != nil && !g.playing {
		parts = append(parts, "Paused")
	}
	if s := g.session.Session(); s.Muted {
		parts = append(parts, "Muted")
	} else {
		parts = append(parts, fmt.Sprintf("Vol %d%%", s.Volume))
	}
	return strings.Join(parts, "  ")
}
