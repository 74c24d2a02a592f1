package hub

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned by Storage.Read when no document exists yet.
var ErrNotFound = errors.New("hub document not found")

// Storage is where the serialized document lives. Both operations may
// fail; a failed Write must leave the previous document intact.
type Storage interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// FileStorage keeps the document as a single JSON file.
type FileStorage struct {
	path string
}

// NewFileStorage creates a file-backed storage at path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path returns the document path.
func (fs *FileStorage) Path() string {
	return fs.path
}

// Read returns the document bytes, or ErrNotFound if the file is absent.
func (fs *FileStorage) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading hub document: %w", err)
	}
	return data, nil
}

// Write replaces the document atomically: the bytes go to a temp file in
// the same directory which is then renamed over the target.
func (fs *FileStorage) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating document directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fs.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp document: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing temp document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp document: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("setting document permissions: %w", err)
	}
	if err := os.Rename(tmpName, fs.path); err != nil {
		return fmt.Errorf("replacing hub document: %w", err)
	}
	return nil
}

// MemoryStorage keeps the document in memory. Used for throwaway sessions
// and tests.
type MemoryStorage struct {
	mu     sync.Mutex
	data   []byte
	exists bool
	writes int
}

// NewMemoryStorage creates an in-memory storage. A nil initial document
// reads as ErrNotFound.
func NewMemoryStorage(initial []byte) *MemoryStorage {
	m := &MemoryStorage{}
	if initial != nil {
		m.data = append([]byte(nil), initial...)
		m.exists = true
	}
	return m
}

// Read returns a copy of the stored document.
func (m *MemoryStorage) Read(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.exists {
		return nil, ErrNotFound
	}
	return append([]byte(nil), m.data...), nil
}

// Write stores a copy of data.
func (m *MemoryStorage) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.exists = true
	m.writes++
	return nil
}

// Writes reports how many writes succeeded.
func (m *MemoryStorage) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
