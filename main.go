package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
)

// debugMode enables verbose logging. It is toggled on the UI goroutine and
// read by the preload worker and the config watcher.
var debugMode atomic.Bool

func debugLog(format string, args ...any) {
	if debugMode.Load() {
		log.Printf("DEBUG: "+format, args...)
	}
}

// startingFiles expands the command line into the file list and the index
// to start at. A single file argument browses its directory. With no
// arguments the last file of the previous session is reopened.
func startingFiles(args []string, sortMethod int, session Session) ([]MediaPath, int, error) {
	if len(args) == 0 && session.LastFile != "" {
		if _, err := os.Stat(session.LastFile); err == nil {
			args = []string{session.LastFile}
		}
	}
	if len(args) == 0 {
		return nil, 0, fmt.Errorf("no media files specified")
	}

	if len(args) == 1 && isSupportedExt(args[0]) {
		paths, err := collectFromSameDirectory(args[0], sortMethod)
		if err != nil {
			return nil, 0, err
		}
		start := 0
		target := filepath.Clean(args[0])
		for i, p := range paths {
			if p.Path == target {
				start = i
				break
			}
		}
		return paths, start, nil
	}

	paths, err := collectMedia(args, sortMethod)
	if err != nil {
		return nil, 0, err
	}
	return paths, 0, nil
}

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	sortName := flag.String("sort", "", "sort method: natural, simple or entry (default from config)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <file|directory|archive>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	debugMode.Store(*debug)

	configResult := loadConfig()
	cfg := configResult.Config
	if *sortName != "" {
		method, err := parseSortMethod(*sortName)
		if err != nil {
			log.Fatal(err)
		}
		cfg.SortMethod = method
	}
	debugLog("config %s, sort %s", configResult.Status, getSortMethodName(cfg.SortMethod))

	session := openSessionStore()

	paths, start, err := startingFiles(flag.Args(), cfg.SortMethod, session.Session())
	if err != nil {
		flag.Usage()
		log.Fatal(err)
	}
	if len(paths) == 0 {
		log.Fatal("no media files found")
	}

	preloadCount := 0
	if cfg.PreloadEnabled {
		preloadCount = cfg.PreloadCount
	}
	library := NewLibrary(paths, cfg.CacheSize, preloadCount)
	defer library.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan ConfigChange, 4)
	if _, err := NewConfigWatcher(ctx, getConfigPath(), changes, -1); err != nil {
		log.Printf("Warning: config changes will not be picked up: %v", err)
	}

	g, err := newGame(gameOptions{
		Library:       library,
		Config:        configResult,
		Session:       session,
		ConfigChanges: changes,
	})
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowTitle("mview")
	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if cfg.Fullscreen {
		g.ToggleFullscreen()
	}

	g.Start(start)

	runErr := ebiten.RunGame(g)
	g.CleanupMedia()
	g.saveState()
	if runErr != nil {
		log.Fatal(runErr)
	}
}
