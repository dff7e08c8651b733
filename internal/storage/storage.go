// Package storage provides the durable key-value snapshot store behind the
// annotation store. Each key holds one JSON document.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Port is the persistence interface injected into the annotation store.
// Implementations must treat each key independently.
type Port interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
}

// FileStore persists each key as <key>.json inside a directory, by default
// under the user config dir.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates a file store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// DefaultDir returns the default storage directory under the user config
// dir, falling back to ~/.config when that is unavailable.
func DefaultDir(appName string) string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, appName)
}

// Load reads the document stored under key.
func (f *FileStore) Load(key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return os.ReadFile(f.path(key))
}

// Save writes the document under key, replacing any previous value. The
// write goes through a temp file so a crash never leaves a torn snapshot.
func (f *FileStore) Save(key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, f.path(key)); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// MemStore is an in-memory Port used in tests and as a last-resort
// fallback when the filesystem is unavailable.
type MemStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

// Load returns the stored document or os.ErrNotExist.
func (m *MemStore) Load(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.data[key]; ok {
		return append([]byte(nil), d...), nil
	}
	return nil, os.ErrNotExist
}

// Save stores a copy of the document.
func (m *MemStore) Save(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}
