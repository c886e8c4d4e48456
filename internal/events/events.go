// Package events defines the notifications emitted by vault instructions and
// the publishers that deliver them once the instruction has committed.
package events

import (
	"context"
	"time"

	"github.com/cyphera/cyphera-vault/internal/address"
)

// Event types
const (
	TypeVaultInitialized = "vault.initialized"
	TypeMintInitialized  = "vault.mint_initialized"
	TypeTokensPurchased  = "vault.tokens_purchased"
	TypeRateUpdated      = "vault.rate_updated"
	TypeAdminWithdrawal  = "vault.admin_withdrawal"
	TypeDepositMade      = "vault.deposit_made"
	TypeWithdrawalMade   = "vault.withdrawal_made"
	TypeChildDeposit     = "vault.child_deposit"
	TypePayoutRequested  = "vault.payout_requested"
	TypePayoutExecuted   = "vault.payout_executed"
)

// Event is a committed state change of one vault.
type Event interface {
	EventType() string
	VaultKey() address.Identity
}

// Publisher delivers committed events. Implementations must not assume the
// event can still be rolled back.
//
//go:generate mockgen -destination=../mocks/mock_publisher.go -package=mocks github.com/cyphera/cyphera-vault/internal/events Publisher
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type VaultInitialized struct {
	Admin             address.Identity `json:"admin"`
	Vault             address.Identity `json:"vault"`
	PayoutDestination address.Identity `json:"payout_destination"`
	SupplyCap         uint64           `json:"supply_cap,string"`
	Timestamp         time.Time        `json:"timestamp"`
}

type MintInitialized struct {
	Admin         address.Identity `json:"admin"`
	Vault         address.Identity `json:"vault"`
	Mint          address.Identity `json:"mint"`
	MintAuthority address.Identity `json:"mint_authority"`
}

type TokensPurchased struct {
	Buyer            address.Identity `json:"buyer"`
	Vault            address.Identity `json:"vault"`
	CollateralAmount uint64           `json:"collateral_amount,string"`
	MintedAmount     uint64           `json:"minted_amount,string"`
	TotalMinted      uint64           `json:"total_minted,string"`
}

type RateUpdated struct {
	Admin          address.Identity `json:"admin"`
	Vault          address.Identity `json:"vault"`
	OldNumerator   uint64           `json:"old_numerator,string"`
	OldDenominator uint64           `json:"old_denominator,string"`
	NewNumerator   uint64           `json:"new_numerator,string"`
	NewDenominator uint64           `json:"new_denominator,string"`
}

type AdminWithdrawal struct {
	Admin          address.Identity `json:"admin"`
	Vault          address.Identity `json:"vault"`
	Destination    address.Identity `json:"destination"`
	Amount         uint64           `json:"amount,string"`
	TotalWithdrawn uint64           `json:"total_withdrawn,string"`
}

type DepositMade struct {
	Depositor      address.Identity `json:"depositor"`
	Vault          address.Identity `json:"vault"`
	Amount         uint64           `json:"amount,string"`
	TotalDeposited uint64           `json:"total_deposited,string"`
}

type WithdrawalMade struct {
	Admin          address.Identity `json:"admin"`
	Vault          address.Identity `json:"vault"`
	Amount         uint64           `json:"amount,string"`
	TotalWithdrawn uint64           `json:"total_withdrawn,string"`
}

type ChildDeposit struct {
	Depositor           address.Identity `json:"depositor"`
	Vault               address.Identity `json:"vault"`
	Child               address.Identity `json:"child"`
	Registered          bool             `json:"registered"`
	Amount              uint64           `json:"amount,string"`
	ChildTotalDeposited uint64           `json:"child_total_deposited,string"`
}

type PayoutRequested struct {
	Admin  address.Identity `json:"admin"`
	Vault  address.Identity `json:"vault"`
	Child  address.Identity `json:"child"`
	Payout address.Identity `json:"payout"`
	Nonce  uint64           `json:"nonce,string"`
	Amount uint64           `json:"amount,string"`
}

type PayoutExecuted struct {
	Admin             address.Identity `json:"admin"`
	Vault             address.Identity `json:"vault"`
	Child             address.Identity `json:"child"`
	Payout            address.Identity `json:"payout"`
	Recipient         address.Identity `json:"recipient"`
	Amount            uint64           `json:"amount,string"`
	ChildTotalPaidOut uint64           `json:"child_total_paid_out,string"`
}

func (e VaultInitialized) EventType() string { return TypeVaultInitialized }
func (e MintInitialized) EventType() string  { return TypeMintInitialized }
func (e TokensPurchased) EventType() string  { return TypeTokensPurchased }
func (e RateUpdated) EventType() string      { return TypeRateUpdated }
func (e AdminWithdrawal) EventType() string  { return TypeAdminWithdrawal }
func (e DepositMade) EventType() string      { return TypeDepositMade }
func (e WithdrawalMade) EventType() string   { return TypeWithdrawalMade }
func (e ChildDeposit) EventType() string     { return TypeChildDeposit }
func (e PayoutRequested) EventType() string  { return TypePayoutRequested }
func (e PayoutExecuted) EventType() string   { return TypePayoutExecuted }

func (e VaultInitialized) VaultKey() address.Identity { return e.Vault }
func (e MintInitialized) VaultKey() address.Identity  { return e.Vault }
func (e TokensPurchased) VaultKey() address.Identity  { return e.Vault }
func (e RateUpdated) VaultKey() address.Identity      { return e.Vault }
func (e AdminWithdrawal) VaultKey() address.Identity  { return e.Vault }
func (e DepositMade) VaultKey() address.Identity      { return e.Vault }
func (e WithdrawalMade) VaultKey() address.Identity   { return e.Vault }
func (e ChildDeposit) VaultKey() address.Identity     { return e.Vault }
func (e PayoutRequested) VaultKey() address.Identity  { return e.Vault }
func (e PayoutExecuted) VaultKey() address.Identity   { return e.Vault }
