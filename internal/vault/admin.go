package vault

import (
	"context"

	"github.com/cyphera/cyphera-vault/internal/address"
	"github.com/cyphera/cyphera-vault/internal/events"
	"go.uber.org/zap"
)

// UpdateExchangeRate replaces the vault's rate. Tokens already minted are
// not revalued.
func (p *Program) UpdateExchangeRate(ctx context.Context, caller, vaultKey address.Identity, numerator, denominator uint64) error {
	return p.execute(ctx, "update_exchange_rate", caller, func(in *instruction) error {
		v, err := in.loadAdminVault(vaultKey, caller)
		if err != nil {
			return err
		}
		if numerator == 0 || denominator == 0 {
			return ErrInvalidRate
		}

		old := *v
		v.RateNumerator = numerator
		v.RateDenominator = denominator
		if err := in.save(vaultKey, v); err != nil {
			return err
		}

		in.log(
			zap.String("vault", vaultKey.String()),
			zap.Uint64("numerator", numerator),
			zap.Uint64("denominator", denominator),
		)
		in.emit(events.RateUpdated{
			Admin:          caller,
			Vault:          vaultKey,
			OldNumerator:   old.RateNumerator,
			OldDenominator: old.RateDenominator,
			NewNumerator:   numerator,
			NewDenominator: denominator,
		})
		return nil
	})
}

// AdminWithdraw moves amount from the treasury to the vault's configured
// payout destination.
func (p *Program) AdminWithdraw(ctx context.Context, caller, vaultKey address.Identity, amount uint64) error {
	return p.execute(ctx, "admin_withdraw", caller, func(in *instruction) error {
		v, err := in.loadAdminVault(vaultKey, caller)
		if err != nil {
			return err
		}
		if amount == 0 {
			return ErrInvalidWithdrawAmount
		}
		total, err := p.withdrawFromTreasury(in, vaultKey, v, v.PayoutDestination, amount)
		if err != nil {
			return err
		}

		in.log(
			zap.String("vault", vaultKey.String()),
			zap.String("destination", v.PayoutDestination.String()),
			zap.Uint64("amount", amount),
		)
		in.emit(events.AdminWithdrawal{
			Admin:          caller,
			Vault:          vaultKey,
			Destination:    v.PayoutDestination,
			Amount:         amount,
			TotalWithdrawn: total,
		})
		return nil
	})
}

// withdrawFromTreasury pays amount out of the vault treasury to destination
// and books it against total_withdrawn.
func (p *Program) withdrawFromTreasury(in *instruction, vaultKey address.Identity, v *Vault, destination address.Identity, amount uint64) (uint64, error) {
	treasury, err := in.treasury(vaultKey, v)
	if err != nil {
		return 0, err
	}
	held, err := in.balance(treasury)
	if err != nil {
		return 0, err
	}
	if held < amount {
		return 0, ErrInsufficientBalance
	}
	total, err := checkedAdd(v.TotalWithdrawn, amount)
	if err != nil {
		return 0, err
	}
	if err := in.transfer(treasury, destination, amount); err != nil {
		return 0, err
	}
	v.TotalWithdrawn = total
	if err := in.save(vaultKey, v); err != nil {
		return 0, err
	}
	return total, nil
}
