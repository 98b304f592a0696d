package history

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrKeyNotFound is returned by KV.Get when no value is stored for the key.
var ErrKeyNotFound = errors.New("key not found")

// KV is the durable key/value port the store persists through. All failures
// at this boundary are caught by the store, never propagated to callers.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// FileKV stores each key as a file under a directory, the local analogue of
// per-client durable storage.
type FileKV struct {
	dir string
}

// NewFileKV creates a file-backed KV rooted at dir.
func NewFileKV(dir string) *FileKV {
	return &FileKV{dir: dir}
}

func (f *FileKV) path(key string) string {
	// Keys are fixed identifiers, not user input; flatten separators anyway.
	name := strings.NewReplacer("/", "_", string(filepath.Separator), "_").Replace(key)
	return filepath.Join(f.dir, name+".json")
}

func (f *FileKV) Get(key string) (string, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	return string(data), nil
}

func (f *FileKV) Set(key, value string) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(f.path(key), []byte(value), 0o644)
}

func (f *FileKV) Remove(key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemKV is an in-memory KV for tests, with injectable failures.
type MemKV struct {
	mu     sync.Mutex
	values map[string]string

	// GetErr/SetErr/RemoveErr, when set, are returned by the matching call.
	GetErr    error
	SetErr    error
	RemoveErr error
}

// NewMemKV creates an empty in-memory KV.
func NewMemKV() *MemKV {
	return &MemKV{values: map[string]string{}}
}

func (m *MemKV) Get(key string) (string, error) {
	if m.GetErr != nil {
		return "", m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (m *MemKV) Set(key, value string) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemKV) Remove(key string) error {
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Has reports whether a value is stored for key.
func (m *MemKV) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[key]
	return ok
}
