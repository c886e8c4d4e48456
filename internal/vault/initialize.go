package vault

import (
	"context"
	"time"

	"github.com/cyphera/cyphera-vault/internal/address"
	"github.com/cyphera/cyphera-vault/internal/events"
	"go.uber.org/zap"
)

// InitializeParams configures a new vault.
type InitializeParams struct {
	PayoutDestination address.Identity
	RateNumerator     uint64
	RateDenominator   uint64
	SupplyCap         uint64
}

// Initialize creates the vault of caller, who becomes its admin, and binds
// its treasury. Each admin has at most one vault.
func (p *Program) Initialize(ctx context.Context, caller address.Identity, params InitializeParams) (address.Identity, error) {
	var vaultKey address.Identity
	err := p.execute(ctx, "initialize", caller, func(in *instruction) error {
		if params.RateNumerator == 0 || params.RateDenominator == 0 {
			return ErrInvalidRate
		}

		key, vaultBump, err := p.VaultAddress(caller)
		if err != nil {
			return ErrInvalidSeeds.Wrap(err)
		}
		treasury, treasuryBump, err := p.TreasuryAddress(key)
		if err != nil {
			return ErrInvalidSeeds.Wrap(err)
		}

		createdAt := in.now()
		v := &Vault{
			Admin:             caller,
			PayoutDestination: params.PayoutDestination,
			RateNumerator:     params.RateNumerator,
			RateDenominator:   params.RateDenominator,
			SupplyCap:         params.SupplyCap,
			CreatedAt:         createdAt,
			VaultBump:         vaultBump,
			TreasuryBump:      treasuryBump,
		}
		if err := in.create(key, v); err != nil {
			return err
		}

		vaultKey = key
		in.log(
			zap.String("vault", key.String()),
			zap.String("treasury", treasury.String()),
			zap.Uint64("supply_cap", params.SupplyCap),
		)
		in.emit(events.VaultInitialized{
			Admin:             caller,
			Vault:             key,
			PayoutDestination: params.PayoutDestination,
			SupplyCap:         params.SupplyCap,
			Timestamp:         time.Unix(createdAt, 0).UTC(),
		})
		return nil
	})
	if err != nil {
		return address.Zero, err
	}
	return vaultKey, nil
}
