// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cyphera/cyphera-vault/internal/address"
	"github.com/cyphera/cyphera-vault/internal/constants"
	"github.com/cyphera/cyphera-vault/internal/helpers"
	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvStage            = "STAGE"
	EnvPort             = "PORT"
	EnvDatabaseURL      = "DATABASE_URL"
	EnvDatabaseURLArn   = "DATABASE_URL_ARN"
	EnvDatabaseSSLMode  = "DATABASE_SSL_MODE"
	EnvProgramID        = "VAULT_PROGRAM_ID"
	EnvEventsQueueURL   = "EVENTS_QUEUE_URL"
	EnvRateLimitRPS     = "RATE_LIMIT_RPS"
	EnvRateLimitBurst   = "RATE_LIMIT_BURST"
	EnvSignatureMaxSkew = "SIGNATURE_MAX_SKEW"
	EnvCORSOrigins      = "CORS_ALLOWED_ORIGINS"
	EnvFaucetEnabled    = "FAUCET_ENABLED"
)

// Config holds the settings of the vault API.
type Config struct {
	Stage string
	Port  string

	// DatabaseURL and DatabaseURLArn are both empty for the in-memory ledger.
	DatabaseURL     string
	DatabaseURLArn  string
	DatabaseSSLMode string

	ProgramID      address.Identity
	EventsQueueURL string

	RateLimitRPS     float64
	RateLimitBurst   int
	SignatureMaxSkew time.Duration
	CORSOrigins      []string
	FaucetEnabled    bool
}

// LoadEnvFile loads .env style files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads the configuration through getenv.
func LoadFrom(getenv func(string) string) (*Config, error) {
	env := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	stage := env(EnvStage, constants.LocalEnvironment)
	if !helpers.IsValidStage(stage) {
		return nil, fmt.Errorf("invalid %s: %q", EnvStage, stage)
	}
	cfg := &Config{
		Stage:           stage,
		Port:            env(EnvPort, "8080"),
		DatabaseURL:     env(EnvDatabaseURL, ""),
		DatabaseURLArn:  env(EnvDatabaseURLArn, ""),
		DatabaseSSLMode: env(EnvDatabaseSSLMode, "require"),
		EventsQueueURL:  env(EnvEventsQueueURL, ""),
		CORSOrigins:     splitList(env(EnvCORSOrigins, "*")),
	}

	var err error
	if cfg.ProgramID, err = parseProgramID(env(EnvProgramID, "")); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = strconv.ParseFloat(env(EnvRateLimitRPS, "10"), 64); err != nil || cfg.RateLimitRPS <= 0 {
		return nil, fmt.Errorf("invalid %s: %q", EnvRateLimitRPS, getenv(EnvRateLimitRPS))
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(env(EnvRateLimitBurst, "20")); err != nil || cfg.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("invalid %s: %q", EnvRateLimitBurst, getenv(EnvRateLimitBurst))
	}
	if cfg.SignatureMaxSkew, err = time.ParseDuration(env(EnvSignatureMaxSkew, "5m")); err != nil || cfg.SignatureMaxSkew <= 0 {
		return nil, fmt.Errorf("invalid %s: %q", EnvSignatureMaxSkew, getenv(EnvSignatureMaxSkew))
	}

	defaultFaucet := strconv.FormatBool(stage != constants.ProdEnvironment)
	if cfg.FaucetEnabled, err = strconv.ParseBool(env(EnvFaucetEnabled, defaultFaucet)); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvFaucetEnabled, err)
	}
	if cfg.FaucetEnabled && stage == constants.ProdEnvironment {
		return nil, fmt.Errorf("%s cannot be enabled in %s", EnvFaucetEnabled, stage)
	}
	return cfg, nil
}

// UsesDatabase reports whether a Postgres ledger is configured.
func (c *Config) UsesDatabase() bool {
	return c.DatabaseURL != "" || c.DatabaseURLArn != ""
}

// IsProduction reports whether the service runs in the prod stage.
func (c *Config) IsProduction() bool {
	return c.Stage == constants.ProdEnvironment
}

func parseProgramID(s string) (address.Identity, error) {
	if s == "" {
		return address.FromName("cyphera-vault/program"), nil
	}
	id, err := address.ParseIdentity(s)
	if err != nil {
		return address.Zero, fmt.Errorf("invalid %s: %w", EnvProgramID, err)
	}
	return id, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
