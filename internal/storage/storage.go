package storage

import "context"

// MediaStore persists uploaded listing media and hands out the reference
// URLs the publish payload carries.
type MediaStore interface {
	// Save writes the file under a fresh name and returns its public URL
	Save(ctx context.Context, originalName string, data []byte) (string, error)

	// Open reads a stored file back by the name part of its URL
	Open(ctx context.Context, filename string) ([]byte, error)

	// Lifecycle
	Close() error
}
