package main

import (
	"context"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/eternalApril/moonmock/internal/config"
	"github.com/eternalApril/moonmock/internal/database"
	"github.com/eternalApril/moonmock/internal/logger"
	"github.com/eternalApril/moonmock/internal/server"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync() //nolint:errcheck

	log.Info("Moonmock starting",
		zap.String("port", cfg.Server.Port),
		zap.Int("databases", cfg.Storage.Databases),
		zap.Bool("dynamic", cfg.Storage.Dynamic),
	)

	dir, err := database.NewDirectory(
		database.WithDatabases(cfg.Storage.Databases),
		database.WithDynamic(cfg.Storage.Dynamic),
		database.WithLogger(log),
	)
	if err != nil {
		log.Error("cant initialize databases", zap.Error(err))
		return
	}

	address := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		log.Error("listener error", zap.Error(err))
		return
	}

	srv := server.NewServer(server.NewEngine(dir, log), log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Serve(listener); err != nil {
			log.Error("serve error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("Shutdown timed out, forcing exit", zap.Duration("timeout", shutdownTimeout))
	}

	log.Info("Moonmock stopped")
}
