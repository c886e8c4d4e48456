package vault

import (
	"context"

	"github.com/cyphera/cyphera-vault/internal/address"
	"github.com/cyphera/cyphera-vault/internal/events"
	"github.com/cyphera/cyphera-vault/internal/ledger"
	"go.uber.org/zap"
)

// Purchase is the outcome of a Buy.
type Purchase struct {
	Minted       uint64
	TokenAccount address.Identity
}

// InitializeMint creates the derivative token mint of the vault, with the
// vault's derived mint authority as the only identity able to mint.
func (p *Program) InitializeMint(ctx context.Context, caller, vaultKey address.Identity) (address.Identity, error) {
	var mintKey address.Identity
	err := p.execute(ctx, "initialize_mint", caller, func(in *instruction) error {
		if _, err := in.loadAdminVault(vaultKey, caller); err != nil {
			return err
		}

		mint, _, err := p.MintAddress(vaultKey)
		if err != nil {
			return ErrInvalidSeeds.Wrap(err)
		}
		authority, _, err := p.MintAuthorityAddress(vaultKey)
		if err != nil {
			return ErrInvalidSeeds.Wrap(err)
		}
		if err := ledger.InitializeMint(in.ctx, in.tx, mint, authority, MintDecimals); err != nil {
			return translateLedgerError(err)
		}

		mintKey = mint
		in.log(zap.String("vault", vaultKey.String()), zap.String("mint", mint.String()))
		in.emit(events.MintInitialized{
			Admin:         caller,
			Vault:         vaultKey,
			Mint:          mint,
			MintAuthority: authority,
		})
		return nil
	})
	if err != nil {
		return address.Zero, err
	}
	return mintKey, nil
}

// Buy moves collateral from caller into the treasury and mints
// floor(collateral * numerator / denominator) derivative units to caller.
// Anyone may buy.
func (p *Program) Buy(ctx context.Context, caller, vaultKey address.Identity, collateral uint64) (Purchase, error) {
	var purchase Purchase
	err := p.execute(ctx, "buy", caller, func(in *instruction) error {
		if collateral == 0 {
			return ErrInvalidAmount
		}
		v, err := in.loadVault(vaultKey)
		if err != nil {
			return err
		}
		if v.RateDenominator == 0 {
			return ErrInvalidRate
		}

		minted, err := mulDivFloor(collateral, v.RateNumerator, v.RateDenominator)
		if err != nil {
			return err
		}
		totalMinted, err := checkedAdd(v.TotalMinted, minted)
		if err != nil {
			return err
		}
		if totalMinted > v.SupplyCap {
			return ErrExceedsMaxSupply
		}
		totalDeposited, err := checkedAdd(v.TotalDeposited, collateral)
		if err != nil {
			return err
		}

		treasury, err := in.treasury(vaultKey, v)
		if err != nil {
			return err
		}
		if err := in.transfer(caller, treasury, collateral); err != nil {
			return err
		}

		mint, _, err := p.MintAddress(vaultKey)
		if err != nil {
			return ErrInvalidSeeds.Wrap(err)
		}
		authority, _, err := p.MintAuthorityAddress(vaultKey)
		if err != nil {
			return ErrInvalidSeeds.Wrap(err)
		}
		ata, err := ledger.MintTo(in.ctx, in.tx, mint, caller, authority, minted)
		if err != nil {
			return translateLedgerError(err)
		}

		v.TotalMinted = totalMinted
		v.TotalDeposited = totalDeposited
		if err := in.save(vaultKey, v); err != nil {
			return err
		}

		purchase = Purchase{Minted: minted, TokenAccount: ata}
		in.log(
			zap.String("vault", vaultKey.String()),
			zap.Uint64("collateral", collateral),
			zap.Uint64("minted", minted),
		)
		in.emit(events.TokensPurchased{
			Buyer:            caller,
			Vault:            vaultKey,
			CollateralAmount: collateral,
			MintedAmount:     minted,
			TotalMinted:      totalMinted,
		})
		return nil
	})
	if err != nil {
		return Purchase{}, err
	}
	return purchase, nil
}
