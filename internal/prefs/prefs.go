// Package prefs persists client preferences between runs.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

// Preferences are the client settings that survive a restart.
type Preferences struct {
	// GroupFilter is the last selected group. Empty means all groups.
	GroupFilter string `yaml:"group_filter"`
}

// Store loads and saves preferences.
type Store interface {
	Load() (Preferences, error)
	Save(Preferences) error
}

// FileStore keeps preferences in a YAML file
type FileStore struct {
	path string
}

// NewFileStore creates a preference store backed by path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns the per-user preference file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "letterplace", "prefs.yaml")
}

// Path returns the backing file path
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the preference file. A missing file yields zero preferences.
func (s *FileStore) Load() (Preferences, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Preferences{}, nil
		}
		return Preferences{}, fmt.Errorf("failed to read preferences: %w", err)
	}

	var p Preferences
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Preferences{}, fmt.Errorf("failed to parse preferences: %w", err)
	}

	return p, nil
}

// Save writes the preference file atomically
func (s *FileStore) Save(p Preferences) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create preferences dir: %w", err)
	}

	// renameio handles temp file, fsync and atomic rename
	if err := renameio.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}

	return nil
}

// MemoryStore keeps preferences for the lifetime of the process.
type MemoryStore struct {
	mu sync.Mutex
	p  Preferences
}

// Load returns the last saved preferences
func (s *MemoryStore) Load() (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p, nil
}

// Save replaces the preferences
func (s *MemoryStore) Save(p Preferences) error {
	s.mu.Lock()
	s.p = p
	s.mu.Unlock()
	return nil
}
