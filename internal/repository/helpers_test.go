package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/Shivanand-hulikatti/eventease/internal/kv"
)

var errStorage = errors.New("storage unavailable")

// flakyStore wraps a MemoryStore and fails selected operations on demand.
type flakyStore struct {
	*kv.MemoryStore
	failGet    bool
	failSet    bool
	failRemove bool
	sets       int
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: kv.NewMemoryStore()}
}

func (f *flakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.failGet {
		return nil, errStorage
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	if f.failSet {
		return errStorage
	}
	f.sets++
	return f.MemoryStore.Set(ctx, key, value)
}

func (f *flakyStore) Remove(ctx context.Context, key string) error {
	if f.failRemove {
		return errStorage
	}
	return f.MemoryStore.Remove(ctx, key)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
