package main

import (
	"context"
	"crypto/sha1"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// configDebounce is how long the watcher waits after a write before
// reading the file, so editors that truncate first are read complete.
const configDebounce = 50 * time.Millisecond

// ConfigChange is a reloaded configuration.
type ConfigChange struct {
	Event  fsnotify.Event
	Result ConfigLoadResult
	Err    error
}

// ConfigWatcher reports changes to the config file.
type ConfigWatcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	changes  chan<- ConfigChange
	sum      [sha1.Size]byte
	done     chan struct{}
}

// NewConfigWatcher watches the directory of configPath and sends a change
// on changes whenever the file's content changes. The watcher stops when
// ctx is cancelled.
func NewConfigWatcher(ctx context.Context, configPath string, changes chan<- ConfigChange, debounce time.Duration) (*ConfigWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors often replace the file by renaming.
	if err := w.Add(filepath.Dir(configPath)); err != nil {
		w.Close()
		return nil, err
	}
	if debounce < 0 {
		debounce = configDebounce
	}
	cw := &ConfigWatcher{
		path:     filepath.Clean(configPath),
		debounce: debounce,
		watcher:  w,
		changes:  changes,
		done:     make(chan struct{}),
	}
	if data, err := os.ReadFile(configPath); err == nil {
		cw.sum = sha1.Sum(data)
	}
	go cw.run(ctx)
	return cw, nil
}

// Done is closed once the watcher has stopped.
func (cw *ConfigWatcher) Done() <-chan struct{} {
	return cw.done
}

func (cw *ConfigWatcher) run(ctx context.Context) {
	defer close(cw.done)
	defer cw.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != cw.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			debugLog("config event: %s", ev)
			select {
			case <-time.After(cw.debounce):
			case <-ctx.Done():
				return
			}

			data, err := readConfigFile(cw.path)
			if err != nil {
				cw.send(ctx, ConfigChange{Event: ev, Err: err})
				continue
			}
			sum := sha1.Sum(data)
			if sum == cw.sum {
				debugLog("config unchanged")
				continue
			}
			cw.sum = sum
			cw.send(ctx, ConfigChange{Event: ev, Result: parseConfig(data, cw.path)})
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.send(ctx, ConfigChange{Err: err})
		}
	}
}

func (cw *ConfigWatcher) send(ctx context.Context, c ConfigChange) {
	select {
	case cw.changes <- c:
	case <-ctx.Done():
	}
}
