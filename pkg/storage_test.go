package pkg

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/SAP-F-2025/gradebook/internal/config"
	"github.com/SAP-F-2025/gradebook/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBlobStore(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("file store with quota", func(t *testing.T) {
		cfg := &config.Config{Storage: config.StorageConfig{Driver: "file", Path: t.TempDir(), QuotaBytes: 64}}
		store := NewBlobStore(ctx, cfg, logger)

		require.IsType(t, &storage.QuotaStore{}, store)
		require.NoError(t, store.Set(ctx, "courses", "[]"))
		value, found, err := store.Get(ctx, "courses")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "[]", value)
	})

	t.Run("memory store without quota", func(t *testing.T) {
		cfg := &config.Config{Storage: config.StorageConfig{Driver: "memory"}}
		assert.IsType(t, &storage.MemoryStore{}, NewBlobStore(ctx, cfg, logger))
	})

	t.Run("unknown driver falls back to unavailable", func(t *testing.T) {
		cfg := &config.Config{Storage: config.StorageConfig{Driver: "floppy"}}
		store := NewBlobStore(ctx, cfg, logger)

		err := store.Set(ctx, "courses", "[]")
		assert.True(t, errors.Is(err, storage.ErrUnavailable))
	})
}
