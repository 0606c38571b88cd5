package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"timeshare/internal/api"
	"timeshare/internal/httpapi"
	"timeshare/internal/pricing"
	"timeshare/pkg/config"
	"timeshare/pkg/db"
	"timeshare/pkg/mailer"
	"timeshare/pkg/serpapi"
)

func main() {
	cfg := config.Load()
	logger := api.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg)
	if err != nil {
		logger.Error("db open", "err", err)
		os.Exit(1)
	}
	defer conn.Close()

	if cfg.MigrationsPath != "" {
		if err := db.Migrate(cfg.MigrationsPath, cfg); err != nil {
			logger.Error("migrate", "err", err)
			os.Exit(1)
		}
	}

	deps := httpapi.Dependencies{
		Cfg:    cfg,
		DB:     conn,
		Logger: logger,
		Mailer: mailer.NewSendGrid(cfg.Feedback.SendGridAPIKey),
		Hotels: serpapi.Client{
			HTTPClient: &http.Client{Timeout: 15 * time.Second},
			BaseURL:    cfg.Pricing.BaseURL,
			APIKey:     cfg.Pricing.SerpAPIKey,
		},
	}

	if cfg.RedisURL != "" {
		rdb, err := pricing.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Error("redis config", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			// Pricing still works uncached; the cache reconnects on its own.
			logger.Warn("redis ping failed", "err", err)
		}
		deps.PriceCache = pricing.NewRedisCache(rdb)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http listening", "addr", cfg.HTTPAddr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "err", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "err", err)
	}
}
