package vault

import (
	"crypto/sha256"
	"time"

	"github.com/cyphera/cyphera-vault/internal/address"
)

// Seed tags of every derived account.
const (
	VaultSeed         = "vault"
	TreasurySeed      = "treasury"
	MintSeed          = "val_mint"
	MintAuthoritySeed = "mint_authority"
	ChildSeed         = "child"
	PayoutSeed        = "payout"
)

// MintDecimals is the precision of the derivative token.
const MintDecimals = 9

// Fixed record sizes, discriminator included.
const (
	VaultLen         = 8 + 32 + 32 + 8 + 8 + 8 + 8 + 8 + 8 + 8 + 1 + 1
	ChildAccountLen  = 8 + 32 + 32 + 8 + 8 + 8 + 1
	PendingPayoutLen = 8 + 32 + 32 + 8 + 8 + 1 + 1
)

type discriminator [8]byte

func accountDiscriminator(name string) discriminator {
	sum := sha256.Sum256([]byte("account:" + name))
	var d discriminator
	copy(d[:], sum[:8])
	return d
}

var (
	vaultDiscriminator         = accountDiscriminator("Vault")
	childAccountDiscriminator  = accountDiscriminator("ChildAccount")
	pendingPayoutDiscriminator = accountDiscriminator("PendingPayout")
)

// Vault is the root custody record of one admin.
type Vault struct {
	Admin             address.Identity
	PayoutDestination address.Identity
	RateNumerator     uint64
	RateDenominator   uint64
	SupplyCap         uint64
	TotalMinted       uint64
	TotalDeposited    uint64
	TotalWithdrawn    uint64
	CreatedAt         int64
	VaultBump         uint8
	TreasuryBump      uint8
}

// RemainingSupply is how many token units can still be minted.
func (v *Vault) RemainingSupply() uint64 {
	if v.TotalMinted >= v.SupplyCap {
		return 0
	}
	return v.SupplyCap - v.TotalMinted
}

// Created returns CreatedAt as a time.
func (v *Vault) Created() time.Time {
	return time.Unix(v.CreatedAt, 0).UTC()
}

// ChildAccount tracks one depositor's entitlement to payouts.
type ChildAccount struct {
	Vault          address.Identity
	Authority      address.Identity
	TotalDeposited uint64
	TotalPaidOut   uint64
	CreatedAt      int64
	Bump           uint8
}

// Remaining is the live entitlement, total_deposited - total_paid_out.
func (c *ChildAccount) Remaining() (uint64, error) {
	return checkedSub(c.TotalDeposited, c.TotalPaidOut)
}

// PayoutState is the lifecycle position of a PendingPayout.
type PayoutState string

const (
	PayoutRequested PayoutState = "requested"
	PayoutExecuted  PayoutState = "executed"
)

// PendingPayout is one admin-authorized payout, identified by (vault, child, nonce).
type PendingPayout struct {
	Vault       address.Identity
	Child       address.Identity
	Amount      uint64
	RequestedAt int64
	Executed    bool
	Bump        uint8
}

func (p *PendingPayout) State() PayoutState {
	if p.Executed {
		return PayoutExecuted
	}
	return PayoutRequested
}
