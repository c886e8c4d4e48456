package handlers

import (
	"github.com/cyphera/cyphera-vault/internal/address"
	"github.com/cyphera/cyphera-vault/internal/amount"
	"github.com/cyphera/cyphera-vault/internal/constants"
	"github.com/cyphera/cyphera-vault/internal/vault"
)

// CreateVaultRequest represents the request body for creating a vault
type CreateVaultRequest struct {
	PayoutDestination address.Identity `json:"payout_destination" binding:"required"`
	RateNumerator     uint64           `json:"rate_numerator,string"`
	RateDenominator   uint64           `json:"rate_denominator,string"`
	SupplyCap         uint64           `json:"supply_cap,string"`
}

// UpdateRateRequest represents the request body for changing the exchange rate
type UpdateRateRequest struct {
	RateNumerator   uint64 `json:"rate_numerator,string"`
	RateDenominator uint64 `json:"rate_denominator,string"`
}

// AmountRequest carries an amount in base units.
type AmountRequest struct {
	Amount uint64 `json:"amount,string"`
}

// RequestPayoutRequest represents the request body for requesting a payout
type RequestPayoutRequest struct {
	Amount uint64 `json:"amount,string"`
	Nonce  uint64 `json:"nonce,string"`
}

// ExecutePayoutRequest represents the request body for executing a payout
type ExecutePayoutRequest struct {
	Recipient address.Identity `json:"recipient" binding:"required"`
}

// FaucetRequest represents the request body for a development airdrop
type FaucetRequest struct {
	Recipient address.Identity `json:"recipient" binding:"required"`
	Amount    uint64           `json:"amount,string" binding:"required"`
}

// Money is an amount in base units with its display form.
type Money struct {
	Units   uint64 `json:"units,string"`
	Display string `json:"display"`
}

func collateral(units uint64) Money {
	return Money{Units: units, Display: amount.Format(units, constants.CollateralDecimals)}
}

func tokens(units uint64) Money {
	return Money{Units: units, Display: amount.Format(units, vault.MintDecimals)}
}

// VaultResponse represents the API view of a vault
type VaultResponse struct {
	Object            string           `json:"object"`
	Address           address.Identity `json:"address"`
	Admin             address.Identity `json:"admin"`
	PayoutDestination address.Identity `json:"payout_destination"`
	Treasury          address.Identity `json:"treasury"`
	Mint              address.Identity `json:"mint"`
	RateNumerator     uint64           `json:"rate_numerator,string"`
	RateDenominator   uint64           `json:"rate_denominator,string"`
	SupplyCap         Money            `json:"supply_cap"`
	TotalMinted       Money            `json:"total_minted"`
	TotalDeposited    Money            `json:"total_deposited"`
	TotalWithdrawn    Money            `json:"total_withdrawn"`
	TreasuryBalance   Money            `json:"treasury_balance"`
	CreatedAt         int64            `json:"created_at"`
}

// ChildResponse represents the API view of a child ledger
type ChildResponse struct {
	Object         string           `json:"object"`
	Address        address.Identity `json:"address"`
	Vault          address.Identity `json:"vault"`
	Authority      address.Identity `json:"authority"`
	TotalDeposited Money            `json:"total_deposited"`
	TotalPaidOut   Money            `json:"total_paid_out"`
	Remaining      Money            `json:"remaining"`
	CreatedAt      int64            `json:"created_at"`
}

// PayoutResponse represents the API view of a pending payout
type PayoutResponse struct {
	Object      string           `json:"object"`
	Address     address.Identity `json:"address"`
	Vault       address.Identity `json:"vault"`
	Child       address.Identity `json:"child"`
	Amount      Money            `json:"amount"`
	Status      string           `json:"status"`
	RequestedAt int64            `json:"requested_at"`
}

// PurchaseResponse represents the outcome of a token purchase
type PurchaseResponse struct {
	Object       string           `json:"object"`
	Vault        address.Identity `json:"vault"`
	Buyer        address.Identity `json:"buyer"`
	Collateral   Money            `json:"collateral"`
	Minted       Money            `json:"minted"`
	TokenAccount address.Identity `json:"token_account"`
}

// BalanceResponse represents a balance lookup
type BalanceResponse struct {
	Object  string           `json:"object"`
	Owner   address.Identity `json:"owner"`
	Balance Money            `json:"balance"`
}

func toChildResponse(key address.Identity, c *vault.ChildAccount) ChildResponse {
	remaining, _ := c.Remaining()
	return ChildResponse{
		Object:         "child_account",
		Address:        key,
		Vault:          c.Vault,
		Authority:      c.Authority,
		TotalDeposited: collateral(c.TotalDeposited),
		TotalPaidOut:   collateral(c.TotalPaidOut),
		Remaining:      collateral(remaining),
		CreatedAt:      c.CreatedAt,
	}
}

func toPayoutResponse(key address.Identity, p *vault.PendingPayout) PayoutResponse {
	return PayoutResponse{
		Object:      "pending_payout",
		Address:     key,
		Vault:       p.Vault,
		Child:       p.Child,
		Amount:      collateral(p.Amount),
		Status:      string(p.State()),
		RequestedAt: p.RequestedAt,
	}
}
