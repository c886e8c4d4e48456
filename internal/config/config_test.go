package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cyphera/cyphera-vault/internal/address"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Stage)
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.UsesDatabase())
	assert.Equal(t, address.FromName("cyphera-vault/program"), cfg.ProgramID)
	assert.Equal(t, 10.0, cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, 5*time.Minute, cfg.SignatureMaxSkew)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.True(t, cfg.FaucetEnabled)
}

func TestLoadFrom(t *testing.T) {
	program := address.FromName("config-test/program")

	tests := []struct {
		name    string
		env     map[string]string
		check   func(t *testing.T, cfg *Config)
		wantErr bool
	}{
		{
			name: "production with database secret",
			env: map[string]string{
				EnvStage:          "prod",
				EnvDatabaseURLArn: "arn:aws:secretsmanager:us-east-1:0:secret:db",
				EnvProgramID:      program.String(),
				EnvCORSOrigins:    "https://app.example.com, https://admin.example.com",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.IsProduction())
				assert.True(t, cfg.UsesDatabase())
				assert.False(t, cfg.FaucetEnabled)
				assert.Equal(t, program, cfg.ProgramID)
				assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
			},
		},
		{
			name: "custom limits",
			env:  map[string]string{EnvRateLimitRPS: "2.5", EnvRateLimitBurst: "3", EnvSignatureMaxSkew: "30s"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 2.5, cfg.RateLimitRPS)
				assert.Equal(t, 3, cfg.RateLimitBurst)
				assert.Equal(t, 30*time.Second, cfg.SignatureMaxSkew)
			},
		},
		{name: "bad program id", env: map[string]string{EnvProgramID: "not-base58-0OIl"}, wantErr: true},
		{name: "zero rps", env: map[string]string{EnvRateLimitRPS: "0"}, wantErr: true},
		{name: "bad burst", env: map[string]string{EnvRateLimitBurst: "many"}, wantErr: true},
		{name: "bad skew", env: map[string]string{EnvSignatureMaxSkew: "5"}, wantErr: true},
		{name: "unknown stage", env: map[string]string{EnvStage: "staging"}, wantErr: true},
		{name: "faucet in prod", env: map[string]string{EnvStage: "prod", EnvFaucetEnabled: "true"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFrom(envOf(tt.env))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("CONFIG_TEST_PORT=9999\n"), 0o600))
	t.Setenv("CONFIG_TEST_PORT", "")
	require.NoError(t, os.Unsetenv("CONFIG_TEST_PORT"))

	require.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "9999", os.Getenv("CONFIG_TEST_PORT"))
}
