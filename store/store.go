// Package store persists the last emotion snapshot and display preferences
// between runs.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/aurora/emotion"
)

const (
	sessionObject = "session"
	snapshotProp  = "snapshot"
	prefsProp     = "prefs"
)

// Prefs are display toggles remembered across runs.
type Prefs struct {
	ShowPanel   bool `yaml:"show_panel"`
	ShowDebug   bool `yaml:"show_debug"`
	AutoCapture bool `yaml:"auto_capture"`
}

// DefaultPrefs returns the preferences used before anything is saved.
func DefaultPrefs() Prefs {
	return Prefs{ShowPanel: true}
}

type savedEntry struct {
	Name      string  `yaml:"name"`
	Intensity float64 `yaml:"intensity"`
}

type savedSnapshot struct {
	SavedAt  time.Time    `yaml:"saved_at"`
	Emotions []savedEntry `yaml:"emotions"`
}

// Store reads and writes session data. With a nil gdata manager it keeps
// data in memory only.
type Store struct {
	gm *gdata.Manager

	mu  sync.Mutex
	mem map[string][]byte
}

// Open opens the platform data directory for appName.
func Open(appName string) (*Store, error) {
	gm, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("opening data dir: %w", err)
	}
	return New(gm), nil
}

// New wraps gm. A nil gm gives a memory-only store.
func New(gm *gdata.Manager) *Store {
	return &Store{gm: gm, mem: make(map[string][]byte)}
}

// Persistent reports whether data survives the process.
func (s *Store) Persistent() bool {
	return s != nil && s.gm != nil
}

// SaveSnapshot stores snap as the last seen snapshot.
func (s *Store) SaveSnapshot(snap emotion.Snapshot, at time.Time) error {
	if s == nil {
		return nil
	}
	saved := savedSnapshot{SavedAt: at.UTC()}
	for _, e := range snap.Entries() {
		saved.Emotions = append(saved.Emotions, savedEntry{Name: string(e.Name), Intensity: e.Intensity})
	}
	data, err := yaml.Marshal(saved)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return s.put(snapshotProp, data)
}

// LoadSnapshot returns the last saved snapshot and when it was saved.
// ok is false when nothing was saved.
func (s *Store) LoadSnapshot() (snap emotion.Snapshot, at time.Time, ok bool, err error) {
	if s == nil {
		return emotion.Snapshot{}, time.Time{}, false, nil
	}
	data, ok, err := s.get(snapshotProp)
	if err != nil || !ok {
		return emotion.Snapshot{}, time.Time{}, false, err
	}
	var saved savedSnapshot
	if err := yaml.Unmarshal(data, &saved); err != nil {
		return emotion.Snapshot{}, time.Time{}, false, fmt.Errorf("decoding snapshot: %w", err)
	}
	entries := make([]emotion.Entry, 0, len(saved.Emotions))
	for _, e := range saved.Emotions {
		entries = append(entries, emotion.Entry{Name: emotion.Name(e.Name), Intensity: e.Intensity})
	}
	return emotion.FromEntries(entries...), saved.SavedAt, true, nil
}

// SavePrefs stores display preferences.
func (s *Store) SavePrefs(p Prefs) error {
	if s == nil {
		return nil
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding prefs: %w", err)
	}
	return s.put(prefsProp, data)
}

// LoadPrefs returns saved preferences, or DefaultPrefs when none exist.
func (s *Store) LoadPrefs() (Prefs, error) {
	p := DefaultPrefs()
	if s == nil {
		return p, nil
	}
	data, ok, err := s.get(prefsProp)
	if err != nil || !ok {
		return p, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return DefaultPrefs(), fmt.Errorf("decoding prefs: %w", err)
	}
	return p, nil
}

func (s *Store) put(prop string, data []byte) error {
	if s.gm == nil {
		s.mu.Lock()
		s.mem[prop] = data
		s.mu.Unlock()
		return nil
	}
	if err := s.gm.SaveObjectProp(sessionObject, prop, data); err != nil {
		return fmt.Errorf("saving %s: %w", prop, err)
	}
	return nil
}

func (s *Store) get(prop string) ([]byte, bool, error) {
	if s.gm == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		data, ok := s.mem[prop]
		return data, ok, nil
	}
	if !s.gm.ObjectPropExists(sessionObject, prop) {
		return nil, false, nil
	}
	data, err := s.gm.LoadObjectProp(sessionObject, prop)
	if err != nil {
		return nil, false, fmt.Errorf("loading %s: %w", prop, err)
	}
	return data, true, nil
}
