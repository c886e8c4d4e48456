//go:build lambda
// +build lambda

package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/cyphera/cyphera-vault/internal/config"
	"github.com/cyphera/cyphera-vault/internal/logger"
	"github.com/cyphera/cyphera-vault/internal/server"
	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"
)

var ginLambda *ginadapter.GinLambda

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger.InitServiceLogger(cfg.Stage, cfg.ProgramID.String())

	app, err := server.Bootstrap(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Failed to initialize API", zap.Error(err))
	}
	ginLambda = ginadapter.New(app.Router)
}

func Handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger.Debug("Received Lambda request",
		zap.String("path", req.Path),
		zap.String("request", spew.Sdump(req)),
	)
	return ginLambda.ProxyWithContext(ctx, req)
}

func main() {
	defer logger.Sync()
	lambda.Start(Handler)
}
