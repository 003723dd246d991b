package kv

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the shared contract every backend must satisfy.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	key := "contract_test"

	require.NoError(t, s.Remove(ctx, key))
	_, err := s.Get(ctx, key)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, key, []byte(`{"a":1}`)))
	got, ok, err := Get[map[string]int](ctx, s, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, map[string]int{"a": 1}, got)

	require.NoError(t, s.Remove(ctx, key))
}

func TestStoreContract_Memory(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestStoreContract_Postgres(t *testing.T) {
	dsn := os.Getenv("KV_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("KV_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	s, err := NewPostgresStore(ctx, pool)
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestStoreContract_Redis(t *testing.T) {
	addr := os.Getenv("KV_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("KV_TEST_REDIS_ADDR not set")
	}
	s, err := DialRedis(addr, "eventease_test")
	require.NoError(t, err)
	t.Cleanup(s.Close)
	exerciseStore(t, s)
}
