package vault

import (
	"context"

	"github.com/cyphera/cyphera-vault/internal/address"
	"github.com/cyphera/cyphera-vault/internal/ledger"
)

// GetVault returns the vault stored at key.
func (p *Program) GetVault(ctx context.Context, key address.Identity) (*Vault, error) {
	var v *Vault
	err := p.view(ctx, func(in *instruction) error {
		var err error
		v, err = in.loadVault(key)
		return err
	})
	return v, err
}

// GetChild returns the child ledger stored at key.
func (p *Program) GetChild(ctx context.Context, key address.Identity) (*ChildAccount, error) {
	c := &ChildAccount{}
	if err := p.view(ctx, func(in *instruction) error { return in.load(key, c) }); err != nil {
		return nil, err
	}
	return c, nil
}

// GetPayout returns the pending payout stored at key.
func (p *Program) GetPayout(ctx context.Context, key address.Identity) (*PendingPayout, error) {
	payout := &PendingPayout{}
	if err := p.view(ctx, func(in *instruction) error { return in.load(key, payout) }); err != nil {
		return nil, err
	}
	return payout, nil
}

// Remaining returns the live payout entitlement of the child at key.
func (p *Program) Remaining(ctx context.Context, key address.Identity) (uint64, error) {
	c, err := p.GetChild(ctx, key)
	if err != nil {
		return 0, err
	}
	return c.Remaining()
}

// TreasuryBalance returns the collateral held by the vault at key.
func (p *Program) TreasuryBalance(ctx context.Context, vaultKey address.Identity) (uint64, error) {
	var held uint64
	err := p.view(ctx, func(in *instruction) error {
		v, err := in.loadVault(vaultKey)
		if err != nil {
			return err
		}
		treasury, err := in.treasury(vaultKey, v)
		if err != nil {
			return err
		}
		held, err = in.balance(treasury)
		return err
	})
	return held, err
}

// TokenBalance returns owner's derivative token balance for the vault.
func (p *Program) TokenBalance(ctx context.Context, vaultKey, owner address.Identity) (uint64, error) {
	mint, _, err := p.MintAddress(vaultKey)
	if err != nil {
		return 0, ErrInvalidSeeds.Wrap(err)
	}
	var held uint64
	err = p.view(ctx, func(in *instruction) error {
		var verr error
		held, verr = ledger.TokenBalance(in.ctx, in.tx, mint, owner)
		return verr
	})
	return held, err
}

// Balance returns the collateral balance of any identity.
func (p *Program) Balance(ctx context.Context, key address.Identity) (uint64, error) {
	var held uint64
	err := p.view(ctx, func(in *instruction) error {
		var err error
		held, err = in.balance(key)
		return err
	})
	return held, err
}
