package vault

import (
	"context"

	"github.com/cyphera/cyphera-vault/internal/address"
	"github.com/cyphera/cyphera-vault/internal/events"
	"go.uber.org/zap"
)

// RequestPayout records an admin-authorized payout of amount against the
// child's remaining entitlement. The check uses the entitlement at request
// time only; ExecutePayout checks it again.
//
// nonce distinguishes payouts of the same child: reusing one fails with
// AccountAlreadyExists whatever state the earlier payout is in.
func (p *Program) RequestPayout(ctx context.Context, caller, vaultKey, childKey address.Identity, amount, nonce uint64) (address.Identity, error) {
	var payoutKey address.Identity
	err := p.execute(ctx, "request_payout", caller, func(in *instruction) error {
		if _, err := in.loadAdminVault(vaultKey, caller); err != nil {
			return err
		}
		child, err := in.loadChild(vaultKey, childKey)
		if err != nil {
			return err
		}

		key, bump, err := p.PayoutAddress(vaultKey, childKey, nonce)
		if err != nil {
			return ErrInvalidSeeds.Wrap(err)
		}
		existing, err := in.tx.Get(in.ctx, key)
		if err != nil {
			return err
		}
		if existing.HasData() {
			return ErrAccountAlreadyExists
		}

		if amount == 0 {
			return ErrInvalidAmount
		}
		remaining, err := child.Remaining()
		if err != nil {
			return err
		}
		if amount > remaining {
			return ErrExceedsAllowedPayout
		}

		payout := &PendingPayout{
			Vault:       vaultKey,
			Child:       childKey,
			Amount:      amount,
			RequestedAt: in.now(),
			Bump:        bump,
		}
		if err := in.create(key, payout); err != nil {
			return err
		}

		payoutKey = key
		in.log(
			zap.String("vault", vaultKey.String()),
			zap.String("child", childKey.String()),
			zap.String("payout", key.String()),
			zap.Uint64("nonce", nonce),
			zap.Uint64("amount", amount),
		)
		in.emit(events.PayoutRequested{
			Admin:  caller,
			Vault:  vaultKey,
			Child:  childKey,
			Payout: key,
			Nonce:  nonce,
			Amount: amount,
		})
		return nil
	})
	if err != nil {
		return address.Zero, err
	}
	return payoutKey, nil
}

// ExecutePayout pays a requested payout from the treasury to the child's
// authority. The entitlement is re-checked against the child's live
// counters, so a payout requested before another one executed can be
// rejected here.
func (p *Program) ExecutePayout(ctx context.Context, caller, vaultKey, childKey, payoutKey, recipient address.Identity) error {
	return p.execute(ctx, "execute_payout", caller, func(in *instruction) error {
		v, err := in.loadAdminVault(vaultKey, caller)
		if err != nil {
			return err
		}
		child, err := in.loadChild(vaultKey, childKey)
		if err != nil {
			return err
		}
		payout := &PendingPayout{}
		if err := in.load(payoutKey, payout); err != nil {
			return err
		}
		if payout.Vault != vaultKey || payout.Child != childKey {
			return ErrUnauthorized
		}
		if payout.Executed {
			return ErrAlreadyExecuted
		}

		remaining, err := child.Remaining()
		if err != nil {
			return err
		}
		if payout.Amount > remaining {
			return ErrExceedsAllowedPayout
		}
		if recipient != child.Authority {
			return ErrRecipientMismatch
		}

		treasury, err := in.treasury(vaultKey, v)
		if err != nil {
			return err
		}
		held, err := in.balance(treasury)
		if err != nil {
			return err
		}
		if held < payout.Amount {
			return ErrInsufficientBalance
		}
		paidOut, err := checkedAdd(child.TotalPaidOut, payout.Amount)
		if err != nil {
			return err
		}
		if err := in.transfer(treasury, recipient, payout.Amount); err != nil {
			return err
		}

		child.TotalPaidOut = paidOut
		payout.Executed = true
		if err := in.save(childKey, child); err != nil {
			return err
		}
		if err := in.save(payoutKey, payout); err != nil {
			return err
		}

		in.log(
			zap.String("vault", vaultKey.String()),
			zap.String("child", childKey.String()),
			zap.String("payout", payoutKey.String()),
			zap.Uint64("amount", payout.Amount),
		)
		in.emit(events.PayoutExecuted{
			Admin:             caller,
			Vault:             vaultKey,
			Child:             childKey,
			Payout:            payoutKey,
			Recipient:         recipient,
			Amount:            payout.Amount,
			ChildTotalPaidOut: paidOut,
		})
		return nil
	})
}
