// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shivanand-hulikatti/eventease/internal/config"
	"github.com/Shivanand-hulikatti/eventease/internal/database"
	"github.com/Shivanand-hulikatti/eventease/internal/handler"
	"github.com/Shivanand-hulikatti/eventease/internal/kv"
	"github.com/Shivanand-hulikatti/eventease/internal/logger"
	"github.com/Shivanand-hulikatti/eventease/internal/repository"
	"github.com/Shivanand-hulikatti/eventease/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// ── 1. Configuration and logging ─────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	format := cfg.LogFormat
	if cfg.IsProduction() {
		format = "json"
	}
	log := logger.Setup(cfg.LogLevel, format)
	slog.SetDefault(log)

	// ── 2. Open the key-value store ──────────────────────────────────────
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("kv store: %w", err)
	}
	defer closeStore()
	log.Info("kv store ready", slog.String("backend", cfg.KVBackend))

	// ── 3. Wire up layers ────────────────────────────────────────────────
	seeder, err := repository.SeederFor(cfg.SeedScenario)
	if err != nil {
		return err
	}
	catalogOpts := []repository.CatalogOption{
		repository.WithSeeder(seeder),
		repository.WithCatalogLogger(log),
	}
	if cfg.SeedScenario != "" && cfg.SeedScenario != "default" {
		// Test datasets live under their own key and start fresh every run.
		catalogOpts = append(catalogOpts, repository.WithKey(kv.KeyTestEvents), repository.WithReset())
	}
	catalog := repository.NewEventCatalog(store, catalogOpts...)
	sessions := repository.NewSessionStore(store, log)
	ledger := service.NewAttendanceLedger(store, catalog, sessions, log)
	accounts := service.NewAccountService(sessions, cfg.BcryptCost, log)

	if err := ledger.Reconcile(ctx); err != nil {
		return fmt.Errorf("reconcile attendance: %w", err)
	}

	// ── 4. Build the router ──────────────────────────────────────────────
	eventHandler := handler.NewEventHandler(catalog, ledger, accounts, log)
	r := handler.NewRouter(eventHandler, log)

	// ── 5. Start server with graceful shutdown ───────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", slog.String("addr", "http://localhost:"+cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Block until SIGINT, SIGTERM or a listener failure.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("server: %w", err)
		}
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// openStore returns the configured backend and a function releasing it.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (kv.Store, func(), error) {
	switch cfg.KVBackend {
	case config.BackendMemory:
		return kv.NewMemoryStore(), func() {}, nil
	case config.BackendSQLite:
		s, err := kv.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case config.BackendPostgres:
		pool, err := database.NewPool(ctx, cfg.DatabaseURL, database.DefaultPoolOptions(), log)
		if err != nil {
			return nil, nil, err
		}
		s, err := kv.NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return s, pool.Close, nil
	case config.BackendRedis:
		s, err := kv.DialRedis(cfg.RedisAddr, cfg.KVNamespace)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q", cfg.KVBackend)
}
