//go:build !lambda
// +build !lambda

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cyphera/cyphera-vault/internal/config"
	"github.com/cyphera/cyphera-vault/internal/logger"
	"github.com/cyphera/cyphera-vault/internal/server"
	"go.uber.org/zap"
)

// @title           Cyphera Vault API
// @version         1.0
// @description     Custody vault: collateral escrow, derivative token sale and admin-gated payouts.
// @BasePath        /

// @securityDefinitions.apikey Signer
// @in header
// @name X-Signer
// @description Base58 identity of the signing caller

// @securityDefinitions.apikey Signature
// @in header
// @name X-Signature
// @description Base58 ed25519 signature over METHOD, request URI, timestamp and body digest

// @securityDefinitions.apikey Timestamp
// @in header
// @name X-Timestamp
// @description Unix seconds at signing
func main() {
	if err := config.LoadEnvFile(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.InitServiceLogger(cfg.Stage, cfg.ProgramID.String())
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := server.Bootstrap(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize API", zap.Error(err))
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Error starting server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
