package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Saver persists downloaded files.
type Saver interface {
	Save(ctx context.Context, name string, data []byte) error
}

// DirSaver writes files into a directory.
type DirSaver string

// Save writes data to the directory under name.
func (d DirSaver) Save(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := string(d)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("session: create download dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filepath.Base(name)), data, 0o644); err != nil {
		return fmt.Errorf("session: save %s: %w", name, err)
	}
	return nil
}

// MemorySaver keeps files in memory; the web shell serves them back.
type MemorySaver struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemorySaver returns an empty saver.
func NewMemorySaver() *MemorySaver {
	return &MemorySaver{files: make(map[string][]byte)}
}

// Save stores a copy of data under name.
func (m *MemorySaver) Save(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	m.files[name] = append([]byte(nil), data...)
	m.mu.Unlock()
	return nil
}

// Get returns the stored file.
func (m *MemorySaver) Get(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[name]
	return data, ok
}
