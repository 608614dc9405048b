package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/gateway"
	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/logging"
)

func setupLogger() *logging.ColoredLogger {
	logger, err := logging.NewColoredLogger(logging.ComponentGeneral, true)
	if err != nil {
		panic(err)
	}
	return logger
}

func main() {
	logger := setupLogger()

	// Load gateway config (flags/env/file)
	cfg := parseGatewayConfig(logger)

	// Initialize gateway (connect database, prepare routes)
	g, err := gateway.New(logger, cfg)
	if err != nil {
		logger.ComponentError(logging.ComponentGeneral, "failed to initialize gateway", zap.Error(err))
		os.Exit(1)
	}
	defer g.Close()

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           g.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		logger.ComponentInfo(logging.ComponentGeneral, "Gateway HTTP server starting",
			zap.String("addr", cfg.ListenAddr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.ComponentError(logging.ComponentGeneral, "HTTP server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.ComponentInfo(logging.ComponentGeneral, "Shutting down gateway HTTP server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.ComponentError(logging.ComponentGeneral, "HTTP server shutdown error", zap.Error(err))
	}
	logger.ComponentInfo(logging.ComponentGeneral, "Gateway shutdown complete")
}
