package ledger

import (
	"context"
	"testing"

	"github.com/cyphera/cyphera-vault/internal/address"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintTo_CreatesAssociatedAccount(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	mint := address.FromName("mint")
	authority := address.FromName("mint-authority")

	require.NoError(t, store.Atomic(ctx, func(tx Tx) error {
		return InitializeMint(ctx, tx, mint, authority, 9)
	}))

	require.NoError(t, store.Atomic(ctx, func(tx Tx) error {
		ata, err := MintTo(ctx, tx, mint, alice, authority, 500)
		if err != nil {
			return err
		}
		expected, err := AssociatedTokenAddress(alice, mint)
		require.NoError(t, err)
		assert.Equal(t, expected, ata)
		return nil
	}))

	require.NoError(t, store.Atomic(ctx, func(tx Tx) error {
		_, err := MintTo(ctx, tx, mint, alice, authority, 250)
		return err
	}))

	require.NoError(t, store.Atomic(ctx, func(tx Tx) error {
		balance, err := TokenBalance(ctx, tx, mint, alice)
		require.NoError(t, err)
		assert.Equal(t, uint64(750), balance)

		other, err := TokenBalance(ctx, tx, mint, bob)
		require.NoError(t, err)
		assert.Zero(t, other)

		state, err := LoadMint(ctx, tx, mint)
		require.NoError(t, err)
		assert.Equal(t, uint64(750), state.Supply)
		assert.Equal(t, uint8(9), state.Decimals)
		assert.True(t, state.Initialized)
		return nil
	}))
}

func TestMintTo_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	mint := address.FromName("mint")
	authority := address.FromName("mint-authority")

	require.NoError(t, store.Atomic(ctx, func(tx Tx) error {
		return InitializeMint(ctx, tx, mint, authority, 9)
	}))

	err := store.Atomic(ctx, func(tx Tx) error {
		_, err := MintTo(ctx, tx, mint, alice, bob, 1)
		return err
	})
	assert.ErrorIs(t, err, ErrMintAuthorityMismatch)

	err = store.Atomic(ctx, func(tx Tx) error {
		_, err := MintTo(ctx, tx, address.FromName("no-mint"), alice, authority, 1)
		return err
	})
	assert.ErrorIs(t, err, ErrAccountNotFound)

	require.NoError(t, store.Atomic(ctx, func(tx Tx) error {
		_, err := MintTo(ctx, tx, mint, alice, authority, ^uint64(0))
		return err
	}))
	err = store.Atomic(ctx, func(tx Tx) error {
		_, err := MintTo(ctx, tx, mint, bob, authority, 1)
		return err
	})
	assert.ErrorIs(t, err, ErrSupplyOverflow)
}

func TestInitializeMint_Twice(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	mint := address.FromName("mint")

	require.NoError(t, store.Atomic(ctx, func(tx Tx) error {
		return InitializeMint(ctx, tx, mint, alice, 9)
	}))
	err := store.Atomic(ctx, func(tx Tx) error {
		return InitializeMint(ctx, tx, mint, alice, 9)
	})
	assert.ErrorIs(t, err, ErrAccountInUse)
}
