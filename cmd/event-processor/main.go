package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/cyphera/cyphera-vault/internal/audit"
	"github.com/cyphera/cyphera-vault/internal/config"
	"github.com/cyphera/cyphera-vault/internal/logger"
	"github.com/cyphera/cyphera-vault/internal/server"
	"go.uber.org/zap"
)

func main() {
	if err := config.LoadEnvFile(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger.InitServiceLogger(cfg.Stage, cfg.ProgramID.String())
	defer logger.Sync()

	ctx := context.Background()
	app, err := server.Bootstrap(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize event processor", zap.Error(err))
	}
	defer app.Close()

	auditor := audit.NewAuditor(app.EventLog, app.Program)
	logger.Info("Vault event processor started", zap.String("stage", cfg.Stage))
	lambda.Start(auditor.HandleSQSEvent)
}
