package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cyphera/cyphera-vault/internal/address"
	"github.com/cyphera/cyphera-vault/internal/auth"
	"github.com/cyphera/cyphera-vault/internal/config"
	"github.com/cyphera/cyphera-vault/internal/handlers"
	"github.com/cyphera/cyphera-vault/internal/ledger"
	"github.com/cyphera/cyphera-vault/internal/logger"
	"github.com/cyphera/cyphera-vault/internal/middleware"
	"github.com/cyphera/cyphera-vault/internal/vault"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitLogger("test")
	gin.SetMode(gin.TestMode)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func testConfig(t *testing.T, env map[string]string) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(func(key string) string { return env[key] })
	require.NoError(t, err)
	return cfg
}

func TestBootstrap_InMemory(t *testing.T) {
	app, err := Bootstrap(context.Background(), testConfig(t, nil))
	require.NoError(t, err)
	t.Cleanup(app.Close)

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{}}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.CorrelationIDHeader))

	w = httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/faucet", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code, "faucet is mounted outside prod but still signed")
}

func TestRouter_HealthDegraded(t *testing.T) {
	store := ledger.NewMemoryStore()
	router := NewRouter(context.Background(), testConfig(t, nil), Dependencies{
		Program: vault.NewProgram(vault.DefaultProgramID, store),
		Health: map[string]handlers.Pinger{
			"database": pingerFunc(func(context.Context) error { return errors.New("connection refused") }),
		},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"degraded","checks":{"database":"connection refused"}}`, w.Body.String())
}

func TestRouter_FaucetOnlyWithFunder(t *testing.T) {
	store := ledger.NewMemoryStore()
	router := NewRouter(context.Background(), testConfig(t, nil), Dependencies{
		Program: vault.NewProgram(vault.DefaultProgramID, store),
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/faucet", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_CORS(t *testing.T) {
	cfg := testConfig(t, map[string]string{config.EnvCORSOrigins: "https://app.example.com"})
	router := NewRouter(context.Background(), cfg, Dependencies{
		Program: vault.NewProgram(vault.DefaultProgramID, ledger.NewMemoryStore()),
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/vaults", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_RejectsReplayedInstruction(t *testing.T) {
	store := ledger.NewMemoryStore()
	router := NewRouter(context.Background(), testConfig(t, nil), Dependencies{
		Program: vault.NewProgram(vault.DefaultProgramID, store),
		Funder:  store,
	})

	seed := address.FromName("server-test/caller")
	kp, err := address.KeypairFromSeed(seed[:])
	require.NoError(t, err)
	body := `{"recipient":"` + kp.Public.String() + `","amount":"1000"}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/faucet", strings.NewReader(body))
	require.NoError(t, auth.SignRequest(req, kp, time.Now()))
	headers := req.Header.Clone()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	replay := httptest.NewRequest(http.MethodPost, "/api/v1/faucet", strings.NewReader(body))
	replay.Header = headers
	w = httptest.NewRecorder()
	router.ServeHTTP(w, replay)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	balance, err := vault.NewProgram(vault.DefaultProgramID, store).Balance(context.Background(), kp.Public)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), balance)
}

func TestRouter_ServesAPIDocs(t *testing.T) {
	router := NewRouter(context.Background(), testConfig(t, nil), Dependencies{
		Program: vault.NewProgram(vault.DefaultProgramID, ledger.NewMemoryStore()),
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/api/v1/vaults/{vault}/children/{child}/payouts/{payout}/execute"`)
	assert.Contains(t, w.Body.String(), `"X-Signature"`)
}
