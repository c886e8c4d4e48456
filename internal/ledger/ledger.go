// Package ledger models the host environment the vault runs on: keyed
// accounts holding lamports and opaque data, mutated only inside atomic
// transactions.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/bits"

	"github.com/cyphera/cyphera-vault/internal/address"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountInUse      = errors.New("account already in use")
	ErrInvalidOwner      = errors.New("account owner mismatch")
	ErrInsufficientFunds = errors.New("insufficient funds for transfer")
	ErrLamportsOverflow  = errors.New("lamports overflow")
)

// SystemOwner owns every account that carries no program data.
var SystemOwner = address.Zero

// Account is the unit of state in the host ledger.
type Account struct {
	Key      address.Identity
	Owner    address.Identity
	Lamports uint64
	Data     []byte
}

// Clone returns a deep copy so staged writes never alias committed state.
func (a Account) Clone() Account {
	out := a
	if a.Data != nil {
		out.Data = append([]byte(nil), a.Data...)
	}
	return out
}

// HasData reports whether a program has claimed the account.
func (a Account) HasData() bool {
	return len(a.Data) > 0 || a.Owner != SystemOwner
}

// Tx is the view a single atomic call has of the ledger.
// Get never fails for unknown keys: it returns an empty system account.
type Tx interface {
	Get(ctx context.Context, key address.Identity) (Account, error)
	Put(ctx context.Context, account Account) error
}

// Store executes fn atomically: every Put made through tx is applied if fn
// returns nil and discarded otherwise. Calls touching the same accounts are
// serialized by the implementation.
type Store interface {
	Atomic(ctx context.Context, fn func(tx Tx) error) error
}

// Create claims key for owner with the given data. It fails with
// ErrAccountInUse when the account already carries data.
func Create(ctx context.Context, tx Tx, key, owner address.Identity, data []byte) error {
	account, err := tx.Get(ctx, key)
	if err != nil {
		return err
	}
	if account.HasData() {
		return fmt.Errorf("%w: %s", ErrAccountInUse, key)
	}
	account.Owner = owner
	account.Data = append([]byte(nil), data...)
	return tx.Put(ctx, account)
}

// Load returns a program-owned account, failing when it is missing or owned by someone else.
func Load(ctx context.Context, tx Tx, key, owner address.Identity) (Account, error) {
	account, err := tx.Get(ctx, key)
	if err != nil {
		return Account{}, err
	}
	if !account.HasData() {
		return Account{}, fmt.Errorf("%w: %s", ErrAccountNotFound, key)
	}
	if account.Owner != owner {
		return Account{}, fmt.Errorf("%w: %s", ErrInvalidOwner, key)
	}
	return account, nil
}

// StoreData writes new data into an existing program-owned account.
func StoreData(ctx context.Context, tx Tx, key address.Identity, data []byte) error {
	account, err := tx.Get(ctx, key)
	if err != nil {
		return err
	}
	account.Data = append([]byte(nil), data...)
	return tx.Put(ctx, account)
}

// Balance returns the lamports held at key.
func Balance(ctx context.Context, tx Tx, key address.Identity) (uint64, error) {
	account, err := tx.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return account.Lamports, nil
}

// Transfer moves amount lamports from one account to another.
func Transfer(ctx context.Context, tx Tx, from, to address.Identity, amount uint64) error {
	if from == to {
		return nil
	}

	src, err := tx.Get(ctx, from)
	if err != nil {
		return err
	}
	if src.Lamports < amount {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientFunds, from, src.Lamports, amount)
	}

	dst, err := tx.Get(ctx, to)
	if err != nil {
		return err
	}
	sum, carry := bits.Add64(dst.Lamports, amount, 0)
	if carry != 0 {
		return ErrLamportsOverflow
	}

	src.Lamports -= amount
	dst.Lamports = sum

	if err := tx.Put(ctx, src); err != nil {
		return err
	}
	return tx.Put(ctx, dst)
}

// Credit adds lamports to key outside of any program logic (airdrops, funding).
func Credit(ctx context.Context, tx Tx, key address.Identity, amount uint64) error {
	account, err := tx.Get(ctx, key)
	if err != nil {
		return err
	}
	sum, carry := bits.Add64(account.Lamports, amount, 0)
	if carry != 0 {
		return ErrLamportsOverflow
	}
	account.Lamports = sum
	return tx.Put(ctx, account)
}
