// Package db persists the ledger in Postgres.
package db

import (
	"context"
	"strconv"
	"time"

	"github.com/cyphera/cyphera-vault/internal/address"
	"github.com/cyphera/cyphera-vault/internal/ledger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// DefaultMaxRetries bounds serialization-failure retries of one Atomic call.
const DefaultMaxRetries = 5

const schema = `
CREATE TABLE IF NOT EXISTS ledger_accounts (
    key        BYTEA PRIMARY KEY CHECK (octet_length(key) = 32),
    owner      BYTEA NOT NULL CHECK (octet_length(owner) = 32),
    lamports   NUMERIC(20, 0) NOT NULL DEFAULT 0 CHECK (lamports >= 0 AND lamports <= 18446744073709551615),
    data       BYTEA NOT NULL DEFAULT ''::bytea,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

const (
	selectAccount = `SELECT owner, lamports::text, data FROM ledger_accounts WHERE key = $1 FOR UPDATE`
	upsertAccount = `
INSERT INTO ledger_accounts (key, owner, lamports, data, updated_at)
VALUES ($1, $2, $3::numeric, $4, now())
ON CONFLICT (key) DO UPDATE
SET owner = EXCLUDED.owner, lamports = EXCLUDED.lamports, data = EXCLUDED.data, updated_at = now()`
)

// PoolConfig sizes the connection pool.
type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// DefaultPoolConfig returns the pool sizing used by the API.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{MaxConns: 20, MinConns: 5, MaxConnLifetime: 30 * time.Minute}
}

// Connect opens a pool against dsn and verifies it with a ping.
func Connect(ctx context.Context, dsn string, cfg PoolConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse database URL")
	}
	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create connection pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "unable to reach database")
	}
	return pool, nil
}

// PostgresStore is a ledger.Store backed by one table. Every Atomic call is a
// SERIALIZABLE transaction whose reads lock the touched rows.
type PostgresStore struct {
	pool       *pgxpool.Pool
	maxRetries int
}

// NewPostgresStore creates a store on pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, maxRetries: DefaultMaxRetries}
}

// Migrate creates the ledger table when missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to migrate ledger schema")
	}
	return nil
}

// Atomic implements ledger.Store.
func (s *PostgresStore) Atomic(ctx context.Context, fn func(tx ledger.Tx) error) error {
	return WithSerializableRetry(ctx, s.pool, s.maxRetries, func(tx pgx.Tx) error {
		return fn(&postgresTx{tx: tx})
	})
}

// Fund credits lamports to key in its own transaction.
func (s *PostgresStore) Fund(ctx context.Context, key address.Identity, lamports uint64) error {
	return s.Atomic(ctx, func(tx ledger.Tx) error {
		return ledger.Credit(ctx, tx, key, lamports)
	})
}

// Ping checks the pool.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

type postgresTx struct {
	tx pgx.Tx
}

func (t *postgresTx) Get(ctx context.Context, key address.Identity) (ledger.Account, error) {
	var (
		owner    []byte
		lamports string
		data     []byte
	)
	err := t.tx.QueryRow(ctx, selectAccount, key[:]).Scan(&owner, &lamports, &data)
	if errors.Is(err, pgx.ErrNoRows) {
		return ledger.Account{Key: key, Owner: ledger.SystemOwner}, nil
	}
	if err != nil {
		return ledger.Account{}, errors.Wrapf(err, "failed to load account %s", key)
	}
	return decodeRow(key, owner, lamports, data)
}

func (t *postgresTx) Put(ctx context.Context, account ledger.Account) error {
	data := account.Data
	if data == nil {
		data = []byte{}
	}
	_, err := t.tx.Exec(ctx, upsertAccount,
		account.Key[:],
		account.Owner[:],
		strconv.FormatUint(account.Lamports, 10),
		data,
	)
	if err != nil {
		return errors.Wrapf(err, "failed to store account %s", account.Key)
	}
	return nil
}

func decodeRow(key address.Identity, owner []byte, lamports string, data []byte) (ledger.Account, error) {
	if len(owner) != address.IdentityLength {
		return ledger.Account{}, errors.Errorf("account %s: owner is %d bytes", key, len(owner))
	}
	held, err := strconv.ParseUint(lamports, 10, 64)
	if err != nil {
		return ledger.Account{}, errors.Wrapf(err, "account %s: invalid lamports %q", key, lamports)
	}
	account := ledger.Account{Key: key, Lamports: held}
	copy(account.Owner[:], owner)
	if len(data) > 0 {
		account.Data = data
	}
	return account, nil
}
