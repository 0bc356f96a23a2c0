package main

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"mview/internal/keymap"
)

const (
	sessionAppName  = "mview"
	sessionObject   = "session"
	sessionProperty = "state"
)

// Session is the viewer state restored on the next start.
type Session struct {
	Volume   int    `yaml:"volume"`
	Muted    bool   `yaml:"muted"`
	LastFile string `yaml:"lastFile"`
}

func defaultSession() Session {
	return Session{Volume: keymap.MaxVolume}
}

// SessionStore persists the session through gdata. A store without a
// gdata manager keeps the session in memory only.
type SessionStore struct {
	manager *gdata.Manager
	session Session
}

// openSessionStore opens the per-user data location. Failures degrade to
// an in-memory store.
func openSessionStore() *SessionStore {
	m, err := gdata.Open(gdata.Config{AppName: sessionAppName})
	if err != nil {
		log.Printf("Warning: session state will not be saved: %v", err)
		m = nil
	}
	return NewSessionStore(m)
}

// NewSessionStore creates a store and loads the saved session.
func NewSessionStore(m *gdata.Manager) *SessionStore {
	s := &SessionStore{manager: m, session: defaultSession()}
	if err := s.Load(); err != nil {
		log.Printf("Warning: Failed to load session: %v (using defaults)", err)
	}
	return s
}

// Load reads the saved session. A missing session leaves the defaults.
func (s *SessionStore) Load() error {
	s.session = defaultSession()
	if s.manager == nil || !s.manager.ObjectPropExists(sessionObject, sessionProperty) {
		return nil
	}
	data, err := s.manager.LoadObjectProp(sessionObject, sessionProperty)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	loaded := defaultSession()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal session: %w", err)
	}
	loaded.Volume = clampVolume(loaded.Volume)
	s.session = loaded
	debugLog("session loaded: %+v", s.session)
	return nil
}

// Save writes the session. It is a no-op without a gdata manager.
func (s *SessionStore) Save() error {
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(s.session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.manager.SaveObjectProp(sessionObject, sessionProperty, data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Session() Session { return s.session }

func (s *SessionStore) SetVolume(v int)      { s.session.Volume = clampVolume(v) }
func (s *SessionStore) SetMuted(m bool)      { s.session.Muted = m }
func (s *SessionStore) SetLastFile(p string) { s.session.LastFile = p }

func clampVolume(v int) int {
	return min(max(v, 0), keymap.MaxVolume)
}
