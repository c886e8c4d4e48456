package vault

import (
	"context"

	"github.com/cyphera/cyphera-vault/internal/address"
	"github.com/cyphera/cyphera-vault/internal/events"
	"go.uber.org/zap"
)

// Deposit moves amount from caller into the treasury without minting.
func (p *Program) Deposit(ctx context.Context, caller, vaultKey address.Identity, amount uint64) error {
	return p.execute(ctx, "deposit", caller, func(in *instruction) error {
		if amount == 0 {
			return ErrInvalidDepositAmount
		}
		v, err := in.loadVault(vaultKey)
		if err != nil {
			return err
		}
		total, err := checkedAdd(v.TotalDeposited, amount)
		if err != nil {
			return err
		}
		treasury, err := in.treasury(vaultKey, v)
		if err != nil {
			return err
		}
		if err := in.transfer(caller, treasury, amount); err != nil {
			return err
		}
		v.TotalDeposited = total
		if err := in.save(vaultKey, v); err != nil {
			return err
		}

		in.log(zap.String("vault", vaultKey.String()), zap.Uint64("amount", amount))
		in.emit(events.DepositMade{
			Depositor:      caller,
			Vault:          vaultKey,
			Amount:         amount,
			TotalDeposited: total,
		})
		return nil
	})
}

// Withdraw moves amount from the treasury to the admin.
func (p *Program) Withdraw(ctx context.Context, caller, vaultKey address.Identity, amount uint64) error {
	return p.execute(ctx, "withdraw", caller, func(in *instruction) error {
		v, err := in.loadAdminVault(vaultKey, caller)
		if err != nil {
			return err
		}
		if amount == 0 {
			return ErrInvalidWithdrawAmount
		}
		total, err := p.withdrawFromTreasury(in, vaultKey, v, v.Admin, amount)
		if err != nil {
			return err
		}

		in.log(zap.String("vault", vaultKey.String()), zap.Uint64("amount", amount))
		in.emit(events.WithdrawalMade{
			Admin:          caller,
			Vault:          vaultKey,
			Amount:         amount,
			TotalWithdrawn: total,
		})
		return nil
	})
}

// DepositAndRegister moves amount from caller into the treasury and credits
// it to caller's child ledger under the vault, creating the ledger on first
// use. The vault-level counters are not touched.
func (p *Program) DepositAndRegister(ctx context.Context, caller, vaultKey address.Identity, amount uint64) (address.Identity, error) {
	var childKey address.Identity
	err := p.execute(ctx, "deposit_and_register", caller, func(in *instruction) error {
		if amount == 0 {
			return ErrInvalidAmount
		}
		v, err := in.loadVault(vaultKey)
		if err != nil {
			return err
		}

		key, bump, err := p.ChildAddress(vaultKey, caller)
		if err != nil {
			return ErrInvalidSeeds.Wrap(err)
		}

		registered := false
		var child *ChildAccount
		account, err := in.tx.Get(in.ctx, key)
		if err != nil {
			return err
		}
		if account.HasData() {
			if child, err = in.loadChild(vaultKey, key); err != nil {
				return err
			}
		} else {
			registered = true
			child = &ChildAccount{
				Vault:     vaultKey,
				Authority: caller,
				CreatedAt: in.now(),
				Bump:      bump,
			}
		}

		total, err := checkedAdd(child.TotalDeposited, amount)
		if err != nil {
			return err
		}
		treasury, err := in.treasury(vaultKey, v)
		if err != nil {
			return err
		}
		if err := in.transfer(caller, treasury, amount); err != nil {
			return err
		}

		child.TotalDeposited = total
		if registered {
			err = in.create(key, child)
		} else {
			err = in.save(key, child)
		}
		if err != nil {
			return err
		}

		childKey = key
		in.log(
			zap.String("vault", vaultKey.String()),
			zap.String("child", key.String()),
			zap.Bool("registered", registered),
			zap.Uint64("amount", amount),
		)
		in.emit(events.ChildDeposit{
			Depositor:           caller,
			Vault:               vaultKey,
			Child:               key,
			Registered:          registered,
			Amount:              amount,
			ChildTotalDeposited: total,
		})
		return nil
	})
	if err != nil {
		return address.Zero, err
	}
	return childKey, nil
}
