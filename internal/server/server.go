// Package server wires configuration, storage and the vault program into
// the HTTP API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	_ "github.com/cyphera/cyphera-vault/docs"
	"github.com/cyphera/cyphera-vault/internal/audit"
	"github.com/cyphera/cyphera-vault/internal/auth"
	awsclient "github.com/cyphera/cyphera-vault/internal/client/aws"
	"github.com/cyphera/cyphera-vault/internal/config"
	"github.com/cyphera/cyphera-vault/internal/constants"
	"github.com/cyphera/cyphera-vault/internal/db"
	"github.com/cyphera/cyphera-vault/internal/events"
	"github.com/cyphera/cyphera-vault/internal/handlers"
	"github.com/cyphera/cyphera-vault/internal/ledger"
	"github.com/cyphera/cyphera-vault/internal/logger"
	"github.com/cyphera/cyphera-vault/internal/middleware"
	"github.com/cyphera/cyphera-vault/internal/vault"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// limiterCleanupInterval is how often idle rate limiters and expired
// signatures are evicted.
const limiterCleanupInterval = 5 * time.Minute

// Dependencies are the components the router serves.
type Dependencies struct {
	Program *vault.Program
	// Funder backs the faucet route; nil leaves it unmounted.
	Funder handlers.Funder
	Health map[string]handlers.Pinger
	// Replay remembers accepted signatures; nil keeps them in memory.
	Replay auth.ReplayGuard
}

// NewRouter builds the gin engine. ctx bounds background work such as rate
// limiter cleanup.
func NewRouter(ctx context.Context, cfg *config.Config, deps Dependencies) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(configureCORS(cfg.CORSOrigins))
	router.Use(middleware.CorrelationIDMiddleware())
	router.Use(middleware.RequestLoggingMiddleware())

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	limiter.StartCleanup(ctx, limiterCleanupInterval)
	router.Use(limiter.Middleware())

	router.GET("/health", handlers.NewHealthHandler(deps.Health).Health)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	signed := v1.Group("/")
	verifier := auth.NewVerifier(cfg.SignatureMaxSkew, auth.WithReplayGuard(deps.Replay))
	verifier.StartCleanup(ctx, limiterCleanupInterval)
	signed.Use(verifier.RequireSignature())

	handlers.NewVaultHandler(deps.Program, deps.Funder).RegisterRoutes(v1, signed)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.ErrorResponse{Error: "Not found"})
	})
	return router
}

// configureCORS returns a configured CORS middleware
func configureCORS(origins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = false
	corsConfig.AllowOrigins = nil
	for _, origin := range origins {
		if origin == "*" {
			corsConfig.AllowAllOrigins = true
			break
		}
		corsConfig.AllowOrigins = append(corsConfig.AllowOrigins, origin)
	}
	if corsConfig.AllowAllOrigins {
		corsConfig.AllowOrigins = nil
	}

	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin", "Content-Type", "Accept",
		constants.SignerHeader, constants.SignatureHeader, constants.TimestampHeader,
		middleware.CorrelationIDHeader,
	}
	corsConfig.ExposeHeaders = []string{
		middleware.CorrelationIDHeader,
		"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After",
	}
	corsConfig.MaxAge = 12 * time.Hour
	return cors.New(corsConfig)
}

// fundingStore is a ledger that can also airdrop collateral.
type fundingStore interface {
	ledger.Store
	handlers.Funder
}

// App is a bootstrapped API.
type App struct {
	Router   *gin.Engine
	Program  *vault.Program
	EventLog audit.EventLog
	replay   auth.ReplayGuard
	closers  []func()
}

// Close releases the resources opened by Bootstrap.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// Bootstrap opens the configured ledger and event sinks and builds the router.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{}
	ctx, cancel := context.WithCancel(ctx)
	app.closers = append(app.closers, cancel)

	store, health, err := openStore(ctx, cfg, app)
	if err != nil {
		app.Close()
		return nil, err
	}

	publisher, err := buildPublisher(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Program = vault.NewProgram(cfg.ProgramID, store,
		vault.WithPublisher(publisher),
		vault.WithLogger(logger.OrNop()),
	)

	deps := Dependencies{Program: app.Program, Health: health, Replay: app.replay}
	if cfg.FaucetEnabled {
		deps.Funder = store
	}
	app.Router = NewRouter(ctx, cfg, deps)

	logger.Info("Vault API initialized",
		zap.String("stage", cfg.Stage),
		zap.String("program_id", cfg.ProgramID.String()),
		zap.Bool("postgres", cfg.UsesDatabase()),
		zap.Bool("sqs_events", cfg.EventsQueueURL != ""),
		zap.Bool("faucet", cfg.FaucetEnabled),
	)
	return app, nil
}

func openStore(ctx context.Context, cfg *config.Config, app *App) (fundingStore, map[string]handlers.Pinger, error) {
	if !cfg.UsesDatabase() {
		logger.Warn("No database configured, using the in-memory ledger")
		app.EventLog = audit.NewMemoryEventLog()
		return ledger.NewMemoryStore(), map[string]handlers.Pinger{}, nil
	}

	dsn := cfg.DatabaseURL
	if cfg.DatabaseURLArn != "" {
		secrets, err := awsclient.NewSecretsManagerClient(ctx)
		if err != nil {
			return nil, nil, err
		}
		if dsn, err = secrets.DatabaseURL(ctx, config.EnvDatabaseURLArn, config.EnvDatabaseURL, cfg.DatabaseSSLMode); err != nil {
			return nil, nil, fmt.Errorf("failed to resolve database URL: %w", err)
		}
	}

	pool, err := db.Connect(ctx, dsn, db.DefaultPoolConfig())
	if err != nil {
		return nil, nil, err
	}
	app.closers = append(app.closers, pool.Close)

	store := db.NewPostgresStore(pool)
	if err := store.Migrate(ctx); err != nil {
		return nil, nil, err
	}
	eventLog := db.NewEventLog(pool)
	if err := eventLog.Migrate(ctx); err != nil {
		return nil, nil, err
	}
	app.EventLog = eventLog

	signatures := db.NewSignatureLog(pool)
	if err := signatures.Migrate(ctx); err != nil {
		return nil, nil, err
	}
	app.replay = signatures
	return store, map[string]handlers.Pinger{"database": store}, nil
}

func buildPublisher(ctx context.Context, cfg *config.Config) (events.Publisher, error) {
	logPublisher := events.NewLogPublisher(logger.OrNop())
	if cfg.EventsQueueURL == "" {
		return logPublisher, nil
	}
	sqsPublisher, err := events.NewSQSPublisherFromEnv(ctx, cfg.EventsQueueURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create SQS event publisher: %w", err)
	}
	return events.MultiPublisher{logPublisher, sqsPublisher}, nil
}
