package db

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/cyphera/cyphera-vault/internal/address"
	"github.com/cyphera/cyphera-vault/internal/ledger"
	"github.com/cyphera/cyphera-vault/internal/logger"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitLogger("test")
}

func TestIsSerializationFailure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "serialization failure", err: &pgconn.PgError{Code: "40001"}, expected: true},
		{name: "wrapped", err: fmt.Errorf("transaction failed: %w", &pgconn.PgError{Code: "40001"}), expected: true},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}},
		{name: "plain error", err: assert.AnError},
		{name: "nil", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsSerializationFailure(tt.err))
		})
	}
}

func TestDecodeRow(t *testing.T) {
	key := address.FromName("db/key")
	owner := address.FromName("db/owner")

	account, err := decodeRow(key, owner[:], "18446744073709551615", []byte{1, 2})
	require.NoError(t, err)
	assert.Equal(t, key, account.Key)
	assert.Equal(t, owner, account.Owner)
	assert.Equal(t, uint64(18446744073709551615), account.Lamports)
	assert.Equal(t, []byte{1, 2}, account.Data)

	account, err = decodeRow(key, owner[:], "0", []byte{})
	require.NoError(t, err)
	assert.Nil(t, account.Data)

	_, err = decodeRow(key, owner[:4], "0", nil)
	assert.Error(t, err)

	_, err = decodeRow(key, owner[:], "18446744073709551616", nil)
	assert.Error(t, err)
}

// newTestStore connects to TEST_DATABASE_URL and starts from an empty table.
func newTestStore(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := Connect(ctx, dsn, PoolConfig{MaxConns: 8, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store := NewPostgresStore(pool)
	require.NoError(t, store.Migrate(ctx))
	_, err = pool.Exec(ctx, "TRUNCATE ledger_accounts")
	require.NoError(t, err)
	return store
}

func TestPostgresStore_CommitAndRollback(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := address.FromName("db/alice")
	bob := address.FromName("db/bob")

	require.NoError(t, store.Fund(ctx, alice, 100))

	require.NoError(t, store.Atomic(ctx, func(tx ledger.Tx) error {
		return ledger.Transfer(ctx, tx, alice, bob, 30)
	}))

	err := store.Atomic(ctx, func(tx ledger.Tx) error {
		if err := ledger.Transfer(ctx, tx, alice, bob, 10); err != nil {
			return err
		}
		return ledger.Transfer(ctx, tx, alice, bob, 1_000)
	})
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	require.NoError(t, store.Atomic(ctx, func(tx ledger.Tx) error {
		held, err := ledger.Balance(ctx, tx, alice)
		require.NoError(t, err)
		assert.Equal(t, uint64(70), held)
		held, err = ledger.Balance(ctx, tx, bob)
		require.NoError(t, err)
		assert.Equal(t, uint64(30), held)
		return nil
	}))
}

func TestPostgresStore_DataRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	key := address.FromName("db/record")
	owner := address.FromName("db/program")

	require.NoError(t, store.Atomic(ctx, func(tx ledger.Tx) error {
		return ledger.Create(ctx, tx, key, owner, []byte("payload"))
	}))

	err := store.Atomic(ctx, func(tx ledger.Tx) error {
		return ledger.Create(ctx, tx, key, owner, []byte("again"))
	})
	assert.ErrorIs(t, err, ledger.ErrAccountInUse)

	require.NoError(t, store.Atomic(ctx, func(tx ledger.Tx) error {
		account, err := ledger.Load(ctx, tx, key, owner)
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), account.Data)
		return nil
	}))
}

func TestPostgresStore_ConcurrentTransfersConserveFunds(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	source := address.FromName("db/source")
	sink := address.FromName("db/sink")
	require.NoError(t, store.Fund(ctx, source, 50))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Atomic(ctx, func(tx ledger.Tx) error {
				return ledger.Transfer(ctx, tx, source, sink, 5)
			})
		}()
	}
	wg.Wait()

	require.NoError(t, store.Atomic(ctx, func(tx ledger.Tx) error {
		src, err := ledger.Balance(ctx, tx, source)
		require.NoError(t, err)
		dst, err := ledger.Balance(ctx, tx, sink)
		require.NoError(t, err)
		assert.Equal(t, uint64(50), src+dst)
		return nil
	}))
}
