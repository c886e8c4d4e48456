package ledger

import (
	"context"
	"sync"

	"github.com/cyphera/cyphera-vault/internal/address"
)

// MemoryStore is an in-process Store. Atomic calls are fully serialized and
// writes are staged in an overlay that is merged only on success.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[address.Identity]Account
}

// NewMemoryStore creates an empty ledger.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[address.Identity]Account)}
}

// Atomic implements Store.
func (s *MemoryStore) Atomic(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{
		committed: s.accounts,
		staged:    make(map[address.Identity]Account),
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for key, account := range tx.staged {
		s.accounts[key] = account
	}
	return nil
}

// Fund credits lamports to key in its own transaction.
func (s *MemoryStore) Fund(ctx context.Context, key address.Identity, lamports uint64) error {
	return s.Atomic(ctx, func(tx Tx) error {
		return Credit(ctx, tx, key, lamports)
	})
}

// Len returns the number of accounts ever written.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}

type memoryTx struct {
	committed map[address.Identity]Account
	staged    map[address.Identity]Account
}

func (t *memoryTx) Get(_ context.Context, key address.Identity) (Account, error) {
	if account, ok := t.staged[key]; ok {
		return account.Clone(), nil
	}
	if account, ok := t.committed[key]; ok {
		return account.Clone(), nil
	}
	return Account{Key: key, Owner: SystemOwner}, nil
}

func (t *memoryTx) Put(_ context.Context, account Account) error {
	t.staged[account.Key] = account.Clone()
	return nil
}
