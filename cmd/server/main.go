package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"card-bookmark-api/internal/app"
	"card-bookmark-api/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	level, _ := config.ParseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("API endpoints",
		slog.String("list", "GET /cards"),
		slog.String("add", "POST /card"),
		slog.String("delete", "DELETE /card/:id"),
		slog.String("feed", "GET /ws/cards"),
		slog.String("health", "GET /health"))

	if err := app.Run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
