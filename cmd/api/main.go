package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/wildvision/observation-store-service/internal/config"
	"github.com/wildvision/observation-store-service/internal/httpserver"
	"github.com/wildvision/observation-store-service/internal/observability"
	"github.com/wildvision/observation-store-service/internal/store"
)

// main boots the service: env → config → store → schema → HTTP server.
func main() {
	// A .env file is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := newStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	router := httpserver.NewRouter(cfg, st, logger, metrics)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server started", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

// newStore opens the configured collection: Postgres when DB_URL is set,
// otherwise an in-memory fallback for local development.
func newStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (store.Store, error) {
	if cfg.DBURL == "" {
		logger.Warn("DB_URL not set, using in-memory store; records will not survive restarts")
		return store.NewMemoryStore(), nil
	}

	pg, err := store.NewPostgresStore(cfg.DBURL)
	if err != nil {
		return nil, err
	}
	// Ensure required tables/indexes exist so `docker compose up --build` is enough.
	if err := pg.EnsureSchema(ctx); err != nil {
		pg.Close()
		return nil, err
	}

	logger.Info("connected to postgres")
	return pg, nil
}
