package pkg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/gradebook/internal/cache"
	"github.com/SAP-F-2025/gradebook/internal/config"
	"github.com/SAP-F-2025/gradebook/internal/storage"
)

// NewBlobStore opens the configured store and applies the quota. When the store
// cannot be opened it logs a warning and returns an UnavailableStore, so the
// gradebook still runs in memory.
func NewBlobStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) storage.BlobStore {
	store, err := openBlobStore(ctx, cfg, logger)
	if err != nil {
		logger.Warn("Storage unavailable, changes will not be saved",
			"driver", cfg.Storage.Driver,
			"error", err)
		return storage.UnavailableStore{Reason: err}
	}
	return storage.WithQuota(store, cfg.Storage.QuotaBytes)
}

func openBlobStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.BlobStore, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return storage.NewMemoryStore(), nil
	case "file", "":
		return storage.NewFileStore(cfg.Storage.Path)
	case "sqlite", "postgres":
		db, err := InitDatabase(cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewSQLStore(ctx, db)
	case "redis":
		client, err := NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewRedisStore(cache.NewRedisCache(client, logger), "gradebook:"), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
