package handlers

import (
	"context"
	"net/http"

	"github.com/cyphera/cyphera-vault/internal/address"
	"github.com/cyphera/cyphera-vault/internal/logger"
	"github.com/cyphera/cyphera-vault/internal/vault"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Funder credits collateral outside of any vault instruction.
type Funder interface {
	Fund(ctx context.Context, key address.Identity, lamports uint64) error
}

// VaultHandler exposes the vault program over HTTP.
type VaultHandler struct {
	program *vault.Program
	funder  Funder
	logger  *zap.Logger
}

// NewVaultHandler creates a VaultHandler. funder may be nil, which disables
// the faucet route.
func NewVaultHandler(program *vault.Program, funder Funder) *VaultHandler {
	return &VaultHandler{program: program, funder: funder, logger: logger.OrNop()}
}

// RegisterRoutes mounts the read routes on public and the instruction
// routes on signed.
func (h *VaultHandler) RegisterRoutes(public, signed *gin.RouterGroup) {
	public.GET("/vaults/:vault", h.GetVault)
	public.GET("/vaults/:vault/children/:child", h.GetChild)
	public.GET("/vaults/:vault/children/:child/payouts/:payout", h.GetPayout)
	public.GET("/vaults/:vault/tokens/:owner", h.GetTokenBalance)
	public.GET("/accounts/:account/balance", h.GetBalance)

	signed.POST("/vaults", h.CreateVault)
	signed.POST("/vaults/:vault/mint", h.InitializeMint)
	signed.POST("/vaults/:vault/buy", h.Buy)
	signed.PUT("/vaults/:vault/rate", h.UpdateRate)
	signed.POST("/vaults/:vault/admin-withdrawals", h.AdminWithdraw)
	signed.POST("/vaults/:vault/deposits", h.Deposit)
	signed.POST("/vaults/:vault/withdrawals", h.Withdraw)
	signed.POST("/vaults/:vault/children", h.DepositAndRegister)
	signed.POST("/vaults/:vault/children/:child/payouts", h.RequestPayout)
	signed.POST("/vaults/:vault/children/:child/payouts/:payout/execute", h.ExecutePayout)

	if h.funder != nil {
		signed.POST("/faucet", h.Faucet)
	}
}

// CreateVault initializes the caller's vault.
// @Summary      Initialize a vault
// @Tags         vaults
// @Accept       json
// @Produce      json
// @Param        request  body  CreateVaultRequest  true  "Vault parameters"
// @Success      201  {object}  VaultResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Security     Signer && Signature && Timestamp
// @Router       /api/v1/vaults [post]
func (h *VaultHandler) CreateVault(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	var req CreateVaultRequest
	if !bindJSON(c, &req) {
		return
	}

	key, err := h.program.Initialize(c.Request.Context(), caller, vault.InitializeParams{
		PayoutDestination: req.PayoutDestination,
		RateNumerator:     req.RateNumerator,
		RateDenominator:   req.RateDenominator,
		SupplyCap:         req.SupplyCap,
	})
	if err != nil {
		handleVaultError(c, err)
		return
	}
	h.sendVault(c, http.StatusCreated, key)
}

// GetVault returns a vault with its treasury balance.
// @Summary      Get a vault
// @Tags         vaults
// @Accept       json
// @Produce      json
// @Param        vault  path  string  true  "Vault address (base58)"
// @Success      200  {object}  VaultResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/v1/vaults/{vault} [get]
func (h *VaultHandler) GetVault(c *gin.Context) {
	key, ok := identityParam(c, "vault")
	if !ok {
		return
	}
	h.sendVault(c, http.StatusOK, key)
}

func (h *VaultHandler) sendVault(c *gin.Context, status int, key address.Identity) {
	ctx := c.Request.Context()
	v, err := h.program.GetVault(ctx, key)
	if err != nil {
		handleVaultError(c, err)
		return
	}
	held, err := h.program.TreasuryBalance(ctx, key)
	if err != nil {
		handleVaultError(c, err)
		return
	}
	treasury, _, err := h.program.TreasuryAddress(key)
	if err != nil {
		handleVaultError(c, err)
		return
	}
	mint, _, err := h.program.MintAddress(key)
	if err != nil {
		handleVaultError(c, err)
		return
	}

	sendSuccess(c, status, VaultResponse{
		Object:            "vault",
		Address:           key,
		Admin:             v.Admin,
		PayoutDestination: v.PayoutDestination,
		Treasury:          treasury,
		Mint:              mint,
		RateNumerator:     v.RateNumerator,
		RateDenominator:   v.RateDenominator,
		SupplyCap:         tokens(v.SupplyCap),
		TotalMinted:       tokens(v.TotalMinted),
		TotalDeposited:    collateral(v.TotalDeposited),
		TotalWithdrawn:    collateral(v.TotalWithdrawn),
		TreasuryBalance:   collateral(held),
		CreatedAt:         v.CreatedAt,
	})
}

// InitializeMint creates the vault's derivative token mint.
// @Summary      Initialize the derivative token mint
// @Tags         vaults
// @Accept       json
// @Produce      json
// @Param        vault  path  string  true  "Vault address (base58)"
// @Success      201  {object}  VaultResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Security     Signer && Signature && Timestamp
// @Router       /api/v1/vaults/{vault}/mint [post]
func (h *VaultHandler) InitializeMint(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	key, ok := identityParam(c, "vault")
	if !ok {
		return
	}
	mint, err := h.program.InitializeMint(c.Request.Context(), caller, key)
	if err != nil {
		handleVaultError(c, err)
		return
	}
	sendSuccess(c, http.StatusCreated, gin.H{"object": "mint", "vault": key, "mint": mint})
}

// Buy exchanges collateral for derivative tokens.
// @Summary      Buy derivative tokens with collateral
// @Tags         tokens
// @Accept       json
// @Produce      json
// @Param        vault  path  string  true  "Vault address (base58)"
// @Param        request  body  AmountRequest  true  "Collateral in lamports"
// @Success      200  {object}  PurchaseResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Security     Signer && Signature && Timestamp
// @Router       /api/v1/vaults/{vault}/buy [post]
func (h *VaultHandler) Buy(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	key, ok := identityParam(c, "vault")
	if !ok {
		return
	}
	var req AmountRequest
	if !bindJSON(c, &req) {
		return
	}

	purchase, err := h.program.Buy(c.Request.Context(), caller, key, req.Amount)
	if err != nil {
		handleVaultError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, PurchaseResponse{
		Object:       "purchase",
		Vault:        key,
		Buyer:        caller,
		Collateral:   collateral(req.Amount),
		Minted:       tokens(purchase.Minted),
		TokenAccount: purchase.TokenAccount,
	})
}

// UpdateRate changes the exchange rate.
// @Summary      Update the exchange rate
// @Tags         vaults
// @Accept       json
// @Produce      json
// @Param        vault  path  string  true  "Vault address (base58)"
// @Param        request  body  UpdateRateRequest  true  "New rate"
// @Success      200  {object}  VaultResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Security     Signer && Signature && Timestamp
// @Router       /api/v1/vaults/{vault}/rate [put]
func (h *VaultHandler) UpdateRate(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	key, ok := identityParam(c, "vault")
	if !ok {
		return
	}
	var req UpdateRateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.program.UpdateExchangeRate(c.Request.Context(), caller, key, req.RateNumerator, req.RateDenominator); err != nil {
		handleVaultError(c, err)
		return
	}
	h.sendVault(c, http.StatusOK, key)
}

// AdminWithdraw pays treasury funds to the payout destination.
// @Summary      Withdraw to the payout destination
// @Tags         treasury
// @Accept       json
// @Produce      json
// @Param        vault  path  string  true  "Vault address (base58)"
// @Param        request  body  AmountRequest  true  "Lamports to withdraw"
// @Success      200  {object}  VaultResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Security     Signer && Signature && Timestamp
// @Router       /api/v1/vaults/{vault}/admin-withdrawals [post]
func (h *VaultHandler) AdminWithdraw(c *gin.Context) {
	h.amountInstruction(c, h.program.AdminWithdraw)
}

// Deposit adds collateral to the treasury without minting.
// @Summary      Deposit collateral
// @Tags         treasury
// @Accept       json
// @Produce      json
// @Param        vault  path  string  true  "Vault address (base58)"
// @Param        request  body  AmountRequest  true  "Lamports to deposit"
// @Success      200  {object}  VaultResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Security     Signer && Signature && Timestamp
// @Router       /api/v1/vaults/{vault}/deposits [post]
func (h *VaultHandler) Deposit(c *gin.Context) {
	h.amountInstruction(c, h.program.Deposit)
}

// Withdraw pays treasury funds to the admin.
// @Summary      Withdraw to the admin
// @Tags         treasury
// @Accept       json
// @Produce      json
// @Param        vault  path  string  true  "Vault address (base58)"
// @Param        request  body  AmountRequest  true  "Lamports to withdraw"
// @Success      200  {object}  VaultResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Security     Signer && Signature && Timestamp
// @Router       /api/v1/vaults/{vault}/withdrawals [post]
func (h *VaultHandler) Withdraw(c *gin.Context) {
	h.amountInstruction(c, h.program.Withdraw)
}

type amountFunc func(ctx context.Context, caller, vaultKey address.Identity, amount uint64) error

func (h *VaultHandler) amountInstruction(c *gin.Context, fn amountFunc) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	key, ok := identityParam(c, "vault")
	if !ok {
		return
	}
	var req AmountRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := fn(c.Request.Context(), caller, key, req.Amount); err != nil {
		handleVaultError(c, err)
		return
	}
	h.sendVault(c, http.StatusOK, key)
}

// DepositAndRegister credits the caller's child ledger.
// @Summary      Deposit into the caller's child ledger
// @Tags         children
// @Accept       json
// @Produce      json
// @Param        vault  path  string  true  "Vault address (base58)"
// @Param        request  body  AmountRequest  true  "Lamports to deposit"
// @Success      200  {object}  ChildResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Security     Signer && Signature && Timestamp
// @Router       /api/v1/vaults/{vault}/children [post]
func (h *VaultHandler) DepositAndRegister(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	key, ok := identityParam(c, "vault")
	if !ok {
		return
	}
	var req AmountRequest
	if !bindJSON(c, &req) {
		return
	}

	childKey, err := h.program.DepositAndRegister(c.Request.Context(), caller, key, req.Amount)
	if err != nil {
		handleVaultError(c, err)
		return
	}
	h.sendChild(c, http.StatusOK, childKey)
}

// GetChild returns a child ledger.
// @Summary      Get a child ledger
// @Tags         children
// @Accept       json
// @Produce      json
// @Param        vault  path  string  true  "Vault address (base58)"
// @Param        child  path  string  true  "Child ledger address (base58)"
// @Success      200  {object}  ChildResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/v1/vaults/{vault}/children/{child} [get]
func (h *VaultHandler) GetChild(c *gin.Context) {
	if _, ok := identityParam(c, "vault"); !ok {
		return
	}
	childKey, ok := identityParam(c, "child")
	if !ok {
		return
	}
	h.sendChild(c, http.StatusOK, childKey)
}

func (h *VaultHandler) sendChild(c *gin.Context, status int, key address.Identity) {
	child, err := h.program.GetChild(c.Request.Context(), key)
	if err != nil {
		handleVaultError(c, err)
		return
	}
	if vaultKey, err := address.ParseIdentity(c.Param("vault")); err == nil && child.Vault != vaultKey {
		handleVaultError(c, vault.ErrAccountNotFound)
		return
	}
	sendSuccess(c, status, toChildResponse(key, child))
}

// RequestPayout records a payout for later execution.
// @Summary      Request a payout
// @Tags         payouts
// @Accept       json
// @Produce      json
// @Param        vault  path  string  true  "Vault address (base58)"
// @Param        child  path  string  true  "Child ledger address (base58)"
// @Param        request  body  RequestPayoutRequest  true  "Amount and nonce"
// @Success      201  {object}  PayoutResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Security     Signer && Signature && Timestamp
// @Router       /api/v1/vaults/{vault}/children/{child}/payouts [post]
func (h *VaultHandler) RequestPayout(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	key, ok := identityParam(c, "vault")
	if !ok {
		return
	}
	childKey, ok := identityParam(c, "child")
	if !ok {
		return
	}
	var req RequestPayoutRequest
	if !bindJSON(c, &req) {
		return
	}

	payoutKey, err := h.program.RequestPayout(c.Request.Context(), caller, key, childKey, req.Amount, req.Nonce)
	if err != nil {
		handleVaultError(c, err)
		return
	}
	h.sendPayout(c, http.StatusCreated, payoutKey)
}

// ExecutePayout pays out a requested payout.
// @Summary      Execute a requested payout
// @Tags         payouts
// @Accept       json
// @Produce      json
// @Param        vault  path  string  true  "Vault address (base58)"
// @Param        child  path  string  true  "Child ledger address (base58)"
// @Param        payout  path  string  true  "Pending payout address (base58)"
// @Param        request  body  ExecutePayoutRequest  true  "Recipient"
// @Success      200  {object}  PayoutResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Security     Signer && Signature && Timestamp
// @Router       /api/v1/vaults/{vault}/children/{child}/payouts/{payout}/execute [post]
func (h *VaultHandler) ExecutePayout(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	key, ok := identityParam(c, "vault")
	if !ok {
		return
	}
	childKey, ok := identityParam(c, "child")
	if !ok {
		return
	}
	payoutKey, ok := identityParam(c, "payout")
	if !ok {
		return
	}
	var req ExecutePayoutRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.program.ExecutePayout(c.Request.Context(), caller, key, childKey, payoutKey, req.Recipient); err != nil {
		handleVaultError(c, err)
		return
	}
	h.sendPayout(c, http.StatusOK, payoutKey)
}

// GetPayout returns a pending payout.
// @Summary      Get a pending payout
// @Tags         payouts
// @Accept       json
// @Produce      json
// @Param        vault  path  string  true  "Vault address (base58)"
// @Param        child  path  string  true  "Child ledger address (base58)"
// @Param        payout  path  string  true  "Pending payout address (base58)"
// @Success      200  {object}  PayoutResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/v1/vaults/{vault}/children/{child}/payouts/{payout} [get]
func (h *VaultHandler) GetPayout(c *gin.Context) {
	key, ok := identityParam(c, "vault")
	if !ok {
		return
	}
	childKey, ok := identityParam(c, "child")
	if !ok {
		return
	}
	payoutKey, ok := identityParam(c, "payout")
	if !ok {
		return
	}
	payout, err := h.program.GetPayout(c.Request.Context(), payoutKey)
	if err != nil {
		handleVaultError(c, err)
		return
	}
	if payout.Vault != key || payout.Child != childKey {
		handleVaultError(c, vault.ErrAccountNotFound)
		return
	}
	sendSuccess(c, http.StatusOK, toPayoutResponse(payoutKey, payout))
}

func (h *VaultHandler) sendPayout(c *gin.Context, status int, key address.Identity) {
	payout, err := h.program.GetPayout(c.Request.Context(), key)
	if err != nil {
		handleVaultError(c, err)
		return
	}
	sendSuccess(c, status, toPayoutResponse(key, payout))
}

// GetTokenBalance returns an owner's derivative token balance.
// @Summary      Get a derivative token balance
// @Tags         tokens
// @Accept       json
// @Produce      json
// @Param        vault  path  string  true  "Vault address (base58)"
// @Param        owner  path  string  true  "Token owner (base58)"
// @Success      200  {object}  BalanceResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/v1/vaults/{vault}/tokens/{owner} [get]
func (h *VaultHandler) GetTokenBalance(c *gin.Context) {
	key, ok := identityParam(c, "vault")
	if !ok {
		return
	}
	owner, ok := identityParam(c, "owner")
	if !ok {
		return
	}
	held, err := h.program.TokenBalance(c.Request.Context(), key, owner)
	if err != nil {
		handleVaultError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, BalanceResponse{Object: "token_balance", Owner: owner, Balance: tokens(held)})
}

// GetBalance returns the collateral balance of any account.
// @Summary      Get a collateral balance
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        account  path  string  true  "Account address (base58)"
// @Success      200  {object}  BalanceResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /api/v1/accounts/{account}/balance [get]
func (h *VaultHandler) GetBalance(c *gin.Context) {
	owner, ok := identityParam(c, "account")
	if !ok {
		return
	}
	held, err := h.program.Balance(c.Request.Context(), owner)
	if err != nil {
		handleVaultError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, BalanceResponse{Object: "balance", Owner: owner, Balance: collateral(held)})
}

// Faucet credits collateral to an account. Only mounted outside production.
// @Summary      Airdrop collateral (non-production only)
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        request  body  FaucetRequest  true  "Recipient and lamports"
// @Success      200  {object}  BalanceResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     Signer && Signature && Timestamp
// @Router       /api/v1/faucet [post]
func (h *VaultHandler) Faucet(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	var req FaucetRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.funder.Fund(c.Request.Context(), req.Recipient, req.Amount); err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to fund account", err)
		return
	}
	h.logger.Info("Faucet funded account",
		zap.String("caller", caller.String()),
		zap.String("recipient", req.Recipient.String()),
		zap.Uint64("amount", req.Amount),
	)
	held, err := h.program.Balance(c.Request.Context(), req.Recipient)
	if err != nil {
		handleVaultError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, BalanceResponse{Object: "balance", Owner: req.Recipient, Balance: collateral(held)})
}
