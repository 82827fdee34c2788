package stubs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory MediaStore implementation for testing
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryStore creates an empty in-memory media store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string][]byte)}
}

// Save keeps the bytes in memory under a fresh name
func (m *MemoryStore) Save(ctx context.Context, originalName string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	filename := uuid.New().String() + strings.ToLower(filepath.Ext(originalName))
	m.files[filename] = append([]byte(nil), data...)
	return "/uploads/" + filename, nil
}

// Open returns a stored file by filename
func (m *MemoryStore) Open(ctx context.Context, filename string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[filename]
	if !ok {
		return nil, fmt.Errorf("media file not found: %s", filename)
	}
	return data, nil
}

// Count returns how many files are stored
func (m *MemoryStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}

// Close is a no-op for the memory store
func (m *MemoryStore) Close() error {
	return nil
}
