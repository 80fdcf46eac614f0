package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	gosync "sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/coinrush/internal/api"
	"github.com/hyperengineering/coinrush/internal/auth"
	"github.com/hyperengineering/coinrush/internal/config"
	"github.com/hyperengineering/coinrush/internal/progress"
	"github.com/hyperengineering/coinrush/internal/ratelimit"
	"github.com/hyperengineering/coinrush/internal/sync"
	"github.com/hyperengineering/coinrush/internal/worker"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "coinrush",
	Short: "Coinrush - tap-to-earn progress service",
	RunE:  run,
}

func run(cmd *cobra.Command, args []string) error {
	// 1. Signal handling
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// 2. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// 3. Initialize logger
	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)
	slog.Info("configuration loaded", "port", cfg.Server.Port)

	// 4. Build the core: store, journal, verifier, limiter, processor.
	// All state is in-memory and resets on restart.
	store := progress.NewStore()
	journal := progress.NewJournal(cfg.Game.JournalSize)
	verifier := auth.NewVerifier(cfg.Auth.Secret)
	if !verifier.Enabled() {
		slog.Warn("no launcher secret configured; payload verification is DISABLED (local/dev only)")
	}
	limiter := ratelimit.NewLimiter(time.Duration(cfg.Game.SyncCooldown))
	processor := sync.NewProcessor(store, journal, verifier, limiter, cfg.Game.MaxDeltaPerSync)
	slog.Info("core initialized",
		"max_delta_per_sync", cfg.Game.MaxDeltaPerSync,
		"sync_cooldown", time.Duration(cfg.Game.SyncCooldown).String(),
	)

	// 5. Initialize HTTP router
	handler := api.NewHandler(store, journal, processor, cfg.Game.LeaderboardSize, Version)
	router := api.NewRouter(handler, cfg.Static.Dir)
	slog.Info("router initialized", "static_dir", cfg.Static.Dir)

	// 6. Configure HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout),
	}

	// 7. Background workers
	var wg gosync.WaitGroup
	stats := worker.NewStatsReporter(store, time.Duration(cfg.Worker.StatsInterval))
	startWorker(ctx, &wg, "stats-reporter", stats.Run)

	// 8. Start HTTP server in goroutine
	go func() {
		slog.Info("server starting", "address", addr)
		// ErrServerClosed is the expected error when Shutdown() is called gracefully.
		// Any other error indicates an actual server failure that should trigger shutdown.
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel() // Trigger shutdown on server failure
		}
	}()

	// 9. Block until signal received
	<-ctx.Done()
	slog.Info("shutdown initiated")

	// 10. Graceful shutdown sequence
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()

	// 10a. Stop HTTP server (drains in-flight requests)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// 10b. Wait for workers to complete
	wg.Wait()

	slog.Info("shutdown complete")
	return nil
}

// newLogger builds the process logger from config.
func newLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// startWorker launches a background worker goroutine that respects context cancellation.
// Workers are tracked via WaitGroup for graceful shutdown.
func startWorker(ctx context.Context, wg *gosync.WaitGroup, name string, fn func(ctx context.Context)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("worker started", "worker", name)
		fn(ctx)
		slog.Info("worker stopped", "worker", name)
	}()
}
