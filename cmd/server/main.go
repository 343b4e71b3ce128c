package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RocketMenace/Wallet/internal/config"
	"github.com/RocketMenace/Wallet/internal/logging"
	"github.com/RocketMenace/Wallet/internal/server"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	serverInstance, port, err := server.StartServer(cfg)
	if err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}

	logger.Info("server started", "port", port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := serverInstance.Stop(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
