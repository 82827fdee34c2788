package stubs

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowermarket/internal/storage"
)

var _ storage.MediaStore = (*MemoryStore)(nil)

func TestMemoryStore_SaveAndOpen(t *testing.T) {
	store := NewMemoryStore()

	url, err := store.Save(context.Background(), "rose.jpg", []byte("bytes"))
	require.NoError(t, err)
	assert.Equal(t, 1, store.Count())

	data, err := store.Open(context.Background(), strings.TrimPrefix(url, "/uploads/"))
	require.NoError(t, err)
	assert.Equal(t, []byte("bytes"), data)

	_, err = store.Open(context.Background(), "missing.jpg")
	assert.Error(t, err)
}
