package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cyphera/cyphera-vault/internal/address"
	"github.com/cyphera/cyphera-vault/internal/auth"
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

const sol = uint64(1_000_000_000)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	store  *ledger.MemoryStore
}

func keypair(t *testing.T, name string) *address.Keypair {
	t.Helper()
	seed := address.FromName(name)
	kp, err := address.KeypairFromSeed(seed[:])
	require.NoError(t, err)
	return kp
}

func newTestServer(t *testing.T, funded ...*address.Keypair) *testServer {
	t.Helper()
	store := ledger.NewMemoryStore()
	for _, kp := range funded {
		require.NoError(t, store.Fund(context.Background(), kp.Public, 100*sol))
	}
	program := vault.NewProgram(vault.DefaultProgramID, store)

	router := gin.New()
	router.Use(middleware.CorrelationIDMiddleware())
	v1 := router.Group("/api/v1")
	signed := v1.Group("/")
	signed.Use(auth.NewVerifier(time.Minute).RequireSignature())
	NewVaultHandler(program, store).RegisterRoutes(v1, signed)

	return &testServer{t: t, router: router, store: store}
}

func (s *testServer) do(kp *address.Keypair, method, path string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(s.t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if kp != nil {
		require.NoError(s.t, auth.SignRequest(req, kp, time.Now()))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestVaultLifecycleOverHTTP(t *testing.T) {
	admin := keypair(t, "handlers/admin")
	buyer := keypair(t, "handlers/buyer")
	destination := address.FromName("handlers/destination")
	s := newTestServer(t, admin, buyer)

	w := s.do(admin, http.MethodPost, "/api/v1/vaults", map[string]string{
		"payout_destination": destination.String(),
		"rate_numerator":     "100",
		"rate_denominator":   "1",
		"supply_cap":         "1000000000000",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[VaultResponse](t, w)
	assert.Equal(t, "vault", created.Object)
	assert.Equal(t, admin.Public, created.Admin)
	assert.Equal(t, "1000", created.SupplyCap.Display)
	vaultPath := "/api/v1/vaults/" + created.Address.String()

	w = s.do(admin, http.MethodPost, vaultPath+"/mint", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(buyer, http.MethodPost, vaultPath+"/buy", map[string]string{"amount": "100000000"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	purchase := decode[PurchaseResponse](t, w)
	assert.Equal(t, 10*sol, purchase.Minted.Units)
	assert.Equal(t, "10", purchase.Minted.Display)
	assert.Equal(t, "0.1", purchase.Collateral.Display)

	w = s.do(nil, http.MethodGet, vaultPath+"/tokens/"+buyer.Public.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10*sol, decode[BalanceResponse](t, w).Balance.Units)

	w = s.do(buyer, http.MethodPut, vaultPath+"/rate", map[string]string{"rate_numerator": "200", "rate_denominator": "1"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	errResp := decode[ErrorResponse](t, w)
	assert.Equal(t, "Unauthorized", errResp.Code)
	assert.Equal(t, uint32(6004), errResp.Number)
	assert.NotEmpty(t, errResp.CorrelationID)

	w = s.do(admin, http.MethodPost, vaultPath+"/admin-withdrawals", map[string]string{"amount": "40000000"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	v := decode[VaultResponse](t, w)
	assert.Equal(t, uint64(60_000_000), v.TreasuryBalance.Units)
	assert.Equal(t, uint64(40_000_000), v.TotalWithdrawn.Units)

	w = s.do(nil, http.MethodGet, "/api/v1/accounts/"+destination.String()+"/balance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0.04", decode[BalanceResponse](t, w).Balance.Display)
}

func TestPayoutFlowOverHTTP(t *testing.T) {
	admin := keypair(t, "handlers/admin")
	depositor := keypair(t, "handlers/depositor")
	s := newTestServer(t, admin, depositor)

	w := s.do(admin, http.MethodPost, "/api/v1/vaults", map[string]string{
		"payout_destination": admin.Public.String(),
		"rate_numerator":     "1",
		"rate_denominator":   "1",
		"supply_cap":         "1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	vaultPath := "/api/v1/vaults/" + decode[VaultResponse](t, w).Address.String()

	w = s.do(depositor, http.MethodPost, vaultPath+"/children", map[string]string{"amount": "100"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	child := decode[ChildResponse](t, w)
	assert.Equal(t, depositor.Public, child.Authority)
	assert.Equal(t, uint64(100), child.Remaining.Units)
	childPath := vaultPath + "/children/" + child.Address.String()

	w = s.do(admin, http.MethodPost, childPath+"/payouts", map[string]string{"amount": "60", "nonce": "1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decode[PayoutResponse](t, w)
	assert.Equal(t, "requested", first.Status)

	w = s.do(admin, http.MethodPost, childPath+"/payouts", map[string]string{"amount": "60", "nonce": "2"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	second := decode[PayoutResponse](t, w)

	w = s.do(admin, http.MethodPost, childPath+"/payouts", map[string]string{"amount": "1", "nonce": "1"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "AccountAlreadyExists", decode[ErrorResponse](t, w).Code)

	w = s.do(admin, http.MethodPost, childPath+"/payouts/"+first.Address.String()+"/execute",
		map[string]string{"recipient": address.FromName("handlers/thief").String()})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "RecipientMismatch", decode[ErrorResponse](t, w).Code)

	w = s.do(admin, http.MethodPost, childPath+"/payouts/"+first.Address.String()+"/execute",
		map[string]string{"recipient": depositor.Public.String()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "executed", decode[PayoutResponse](t, w).Status)

	w = s.do(admin, http.MethodPost, childPath+"/payouts", map[string]string{"amount": "5", "nonce": "1"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "AccountAlreadyExists", decode[ErrorResponse](t, w).Code, "executed nonces stay taken")

	w = s.do(admin, http.MethodPost, childPath+"/payouts/"+second.Address.String()+"/execute",
		map[string]string{"recipient": depositor.Public.String()})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ExceedsAllowedPayout", decode[ErrorResponse](t, w).Code)

	w = s.do(nil, http.MethodGet, childPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint64(40), decode[ChildResponse](t, w).Remaining.Units)

	w = s.do(nil, http.MethodGet, childPath+"/payouts/"+second.Address.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "requested", decode[PayoutResponse](t, w).Status)
}

func TestRequestValidation(t *testing.T) {
	admin := keypair(t, "handlers/admin")
	s := newTestServer(t, admin)

	tests := []struct {
		name     string
		kp       *address.Keypair
		method   string
		path     string
		body     interface{}
		expected int
	}{
		{name: "unsigned instruction", method: http.MethodPost, path: "/api/v1/vaults", body: map[string]string{}, expected: http.StatusUnauthorized},
		{name: "missing destination", kp: admin, method: http.MethodPost, path: "/api/v1/vaults", body: map[string]string{"rate_numerator": "1"}, expected: http.StatusBadRequest},
		{name: "zero rate", kp: admin, method: http.MethodPost, path: "/api/v1/vaults", body: map[string]string{
			"payout_destination": admin.Public.String(), "rate_numerator": "0", "rate_denominator": "1", "supply_cap": "1",
		}, expected: http.StatusBadRequest},
		{name: "bad vault address", method: http.MethodGet, path: "/api/v1/vaults/not-an-address", expected: http.StatusBadRequest},
		{name: "unknown vault", method: http.MethodGet, path: "/api/v1/vaults/" + address.FromName("handlers/none").String(), expected: http.StatusNotFound},
		{name: "amount is not a number", kp: admin, method: http.MethodPost, path: "/api/v1/vaults/" + address.FromName("handlers/none").String() + "/deposits", body: map[string]string{"amount": "lots"}, expected: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(tt.kp, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.expected, w.Code, w.Body.String())
		})
	}
}

func TestFaucet(t *testing.T) {
	caller := keypair(t, "handlers/caller")
	recipient := address.FromName("handlers/recipient")
	s := newTestServer(t)

	w := s.do(caller, http.MethodPost, "/api/v1/faucet", map[string]string{"recipient": recipient.String(), "amount": "2500000000"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "2.5", decode[BalanceResponse](t, w).Balance.Display)
}

func TestStatusForKind(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{err: vault.ErrInvalidAmount, expected: http.StatusBadRequest},
		{err: vault.ErrUnauthorized, expected: http.StatusForbidden},
		{err: vault.ErrExceedsMaxSupply, expected: http.StatusConflict},
		{err: vault.ErrInsufficientBalance, expected: http.StatusConflict},
		{err: vault.ErrAlreadyExecuted, expected: http.StatusConflict},
		{err: vault.ErrAccountNotFound, expected: http.StatusNotFound},
		{err: vault.ErrArithmeticOverflow, expected: http.StatusUnprocessableEntity},
		{err: vault.ErrAccountDidNotDecode, expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(vault.CodeOf(tt.err), func(t *testing.T) {
			assert.Equal(t, tt.expected, statusForKind(vault.KindOf(tt.err)))
		})
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	handleVaultError(c, errors.New("connection reset"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decode[ErrorResponse](t, w).Error)
}
