package disk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store writes uploaded media to a local directory. Filenames are fresh
// UUIDs so client-supplied names never reach the filesystem.
type Store struct {
	dir     string
	baseURL string // public access prefix, e.g. "/uploads"
	logger  *zap.Logger
}

// NewStore creates the upload directory if needed and returns a disk store
func NewStore(dir, baseURL string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &Store{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/"), logger: logger}, nil
}

// Save writes the file and returns its public URL
func (s *Store) Save(ctx context.Context, originalName string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	filename := uuid.New().String() + ext
	path := filepath.Join(s.dir, filename)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}

	s.logger.Debug("Stored media file",
		zap.String("filename", filename),
		zap.Int("bytes", len(data)),
	)
	return s.baseURL + "/" + filename, nil
}

// Open reads a stored file back by filename
func (s *Store) Open(ctx context.Context, filename string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Reject anything that could escape the upload directory
	if filename != filepath.Base(filename) {
		return nil, fmt.Errorf("invalid media filename: %s", filename)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		return nil, fmt.Errorf("failed to read media file: %w", err)
	}
	return data, nil
}

// Dir returns the directory files are written to
func (s *Store) Dir() string {
	return s.dir
}

// Close is a no-op for the disk store
func (s *Store) Close() error {
	return nil
}
