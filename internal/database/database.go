// Package database provides PostgreSQL connection management using pgx.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolOptions tunes the pool and the startup retry loop.
type PoolOptions struct {
	MaxConns     int32
	MinConns     int32
	Attempts     int
	RetryBackoff time.Duration
}

// DefaultPoolOptions suit a single local client.
func DefaultPoolOptions() PoolOptions {
	return PoolOptions{
		MaxConns:     4,
		MinConns:     1,
		Attempts:     5,
		RetryBackoff: 2 * time.Second,
	}
}

// NewPool creates and validates a pgxpool connection pool for dsn.
// It retries to accommodate a database that is still starting up.
func NewPool(ctx context.Context, dsn string, opts PoolOptions, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	poolCfg.MaxConns = opts.MaxConns
	poolCfg.MinConns = opts.MinConns
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	attempts := max(opts.Attempts, 1)
	for attempt := 1; attempt <= attempts; attempt++ {
		var pool *pgxpool.Pool
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		if attempt == attempts {
			break
		}
		logger.Warn("db connect failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("attempts", attempts),
			slog.Duration("backoff", opts.RetryBackoff),
			slog.String("error", err.Error()),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(opts.RetryBackoff):
		}
	}
	return nil, fmt.Errorf("connect to postgres: %w", err)
}
