// Package app wires the card API together and supervises its long-lived tasks.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"card-bookmark-api/internal/auth"
	"card-bookmark-api/internal/cache"
	"card-bookmark-api/internal/cards"
	"card-bookmark-api/internal/config"
	"card-bookmark-api/internal/database"
	"card-bookmark-api/internal/models"
	"card-bookmark-api/internal/realtime"
	"card-bookmark-api/internal/routes"
	"card-bookmark-api/internal/store"

	"golang.org/x/sync/errgroup"
)

// Run opens the store and serves the API until ctx is cancelled. Failing to
// open the store is fatal; seeding and refresh failures are not.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	dbLevel, err := config.ParseDBLogLevel(cfg.DatabaseLogLevel)
	if err != nil {
		return err
	}
	db, err := database.Open(database.Options{
		DSN:          cfg.DatabaseDSN,
		MaxOpenConns: cfg.DatabaseMaxConns,
		LogLevel:     dbLevel,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn("close database", slog.String("error", err.Error()))
		}
	}()
	logger.Info("database connected and migrated", slog.String("dsn", cfg.DatabaseDSN))

	listener, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.HTTPAddr, err)
	}

	return Serve(ctx, cfg, store.NewCardStore(db, cfg.StoreTimeout), listener, logger)
}

// Serve runs the seeder, the refresher and the HTTP server on listener until
// ctx is cancelled or one of them fails.
func Serve(ctx context.Context, cfg config.Config, gw store.Gateway, listener net.Listener, logger *slog.Logger) error {
	hub := realtime.NewHub()
	svc := cards.NewService(gw, cache.NewSnapshot[models.Card](), cards.Options{
		Notifier: hub,
		Logger:   logger,
	})

	deps := routes.Deps{
		Cards:      svc,
		Hub:        hub,
		CORSOrigin: cfg.CORSOrigin,
		Logger:     logger,
	}
	if cfg.AuthEnabled() {
		deps.Issuer = auth.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
		deps.Admin = auth.AdminCredentials{Username: cfg.AdminUser, PasswordHash: cfg.AdminPasswordHash}
	}

	server := &http.Server{
		Handler:           routes.SetupRoutes(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	// Shutdown does not touch hijacked connections; close the card feeds explicitly.
	server.RegisterOnShutdown(hub.CloseAll)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// best-effort; a failed seed must not take the server down
		_ = svc.Seed(gctx)
		return nil
	})

	g.Go(func() error {
		return svc.RunRefresher(gctx, cfg.RefreshInterval)
	})

	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", listener.Addr().String()),
			slog.Bool("auth", cfg.AuthEnabled()),
			slog.Duration("refresh_interval", cfg.RefreshInterval))
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
		return nil
	})

	return g.Wait()
}
