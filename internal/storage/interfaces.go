package storage

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrQuotaExceeded is returned when a value does not fit the store's quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrUnavailable is returned by stores that cannot be reached or opened.
	ErrUnavailable = errors.New("storage unavailable")
)

// BlobStore is a key-value store of opaque string blobs.
type BlobStore interface {
	// Get returns the value stored under key. found is false when nothing is stored.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key, value string) error
	Close() error
}

// QuotaStore rejects writes larger than MaxBytes.
type QuotaStore struct {
	BlobStore
	MaxBytes int
}

// WithQuota wraps store with a size limit. A non-positive limit disables the check.
func WithQuota(store BlobStore, maxBytes int) BlobStore {
	if maxBytes <= 0 {
		return store
	}
	return &QuotaStore{BlobStore: store, MaxBytes: maxBytes}
}

func (q *QuotaStore) Set(ctx context.Context, key, value string) error {
	if size := len(key) + len(value); size > q.MaxBytes {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrQuotaExceeded, size, q.MaxBytes)
	}
	return q.BlobStore.Set(ctx, key, value)
}

// UnavailableStore stands in for a store that could not be opened, so the
// gradebook keeps working in memory for the session.
type UnavailableStore struct {
	Reason error
}

func (u UnavailableStore) err() error {
	if u.Reason == nil {
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, u.Reason)
}

func (u UnavailableStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, u.err()
}

func (u UnavailableStore) Set(ctx context.Context, key, value string) error {
	return u.err()
}

func (u UnavailableStore) Close() error {
	return nil
}
