package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startTestWatcher(t *testing.T, initial string) (string, <-chan ConfigChange, context.CancelFunc, *ConfigWatcher) {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), configFileName)
	if err := os.WriteFile(configPath, []byte(initial), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan ConfigChange, 4)
	w, err := NewConfigWatcher(ctx, configPath, changes, -1)
	if err != nil {
		cancel()
		t.Fatalf("NewConfigWatcher failed: %v", err)
	}
	t.Cleanup(func() {
		cancel()
		<-w.Done()
	})
	return configPath, changes, cancel, w
}

func waitChange(t *testing.T, changes <-chan ConfigChange) ConfigChange {
	t.Helper()
	select {
	case c := <-changes:
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("no config change received")
		return ConfigChange{}
	}
}

func TestConfigWatcherReportsChanges(t *testing.T) {
	configPath, changes, _, _ := startTestWatcher(t, `{"window_width": 900}`)

	if err := os.WriteFile(configPath, []byte(`{"window_width": 1000, "help_font_size": 30}`), 0o644); err != nil {
		t.Fatal(err)
	}
	c := waitChange(t, changes)
	if c.Err != nil {
		t.Fatalf("change error: %v", c.Err)
	}
	if c.Result.Config.WindowWidth != 1000 || c.Result.Config.HelpFontSize != 30 {
		t.Errorf("config = %+v", c.Result.Config)
	}

	if err := os.WriteFile(configPath, []byte(`{"keybindings": {"exit": ["KeyR"]}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	c = waitChange(t, changes)
	if c.Result.Status != "Warning" {
		t.Errorf("status = %q, want Warning", c.Result.Status)
	}
}

func TestConfigWatcherIgnoresUnchangedContent(t *testing.T) {
	const content = `{"window_width": 900}`
	configPath, changes, _, _ := startTestWatcher(t, content)

	// Rewriting the same bytes and touching another file are not changes.
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(filepath.Dir(configPath), "other.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case c := <-changes:
		t.Errorf("unexpected change: %+v", c)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestConfigWatcherStopsOnCancel(t *testing.T) {
	_, _, cancel, w := startTestWatcher(t, `{}`)
	cancel()
	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestConfigWatcherCancelDuringDebounce(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), configFileName)
	if err := os.WriteFile(configPath, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w, err := NewConfigWatcher(ctx, configPath, make(chan ConfigChange, 1), time.Hour)
	if err != nil {
		t.Fatalf("NewConfigWatcher failed: %v", err)
	}

	if err := os.WriteFile(configPath, []byte(`{"window_width": 1000}`), 0o644); err != nil {
		t.Fatal(err)
	}
	// Give the watcher time to pick up the event and start waiting.
	time.Sleep(200 * time.Millisecond)
	cancel()
	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher waited out the debounce after cancel")
	}
}
