package main

import (
	"context"
	"errors"
	nethttp "net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"weather-api/configs"
	"weather-api/pkg/log"
	"weather-api/pkg/msg"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := configs.Load()
	if err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}
	if err := log.Configure(cfg.Name, cfg.LogLevel); err != nil {
		log.Fatal("Invalid log configuration", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	log.Info(msg.GetMessage("app.start", cfg.Name, cfg.Version))

	e, cleanup, err := newServer(cfg)
	if err != nil {
		log.Fatal("Failed to build server", zap.Error(err))
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start Routes
	go func() {
		log.Info(msg.GetMessage("app.started", cfg.Name, cfg.Server.Port))
		if err := e.Start(":" + strconv.Itoa(cfg.Server.Port)); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatal("Server stopped unexpectedly", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info(msg.GetMessage("app.stopping", cfg.Name))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
	log.Info(msg.GetMessage("app.stopped", cfg.Name))
}
