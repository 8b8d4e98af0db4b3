package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trench/internal/api"
	"trench/internal/config"
	"trench/internal/game"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadAPIFromEnv()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	tuning, err := config.LoadTuning(cfg.TuningPath)
	if err != nil {
		logger.Error("load tuning", "err", err)
		os.Exit(1)
	}

	feed := game.NewFeed()
	g := game.New(tuning, logger, feed, cfg.Seed)

	hub := api.NewHub(logger, feed)
	go hub.Run(ctx)

	server := api.New(cfg, logger, g, hub)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("trench api listening", "addr", cfg.Addr, "day_duration", tuning.DayDuration)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
