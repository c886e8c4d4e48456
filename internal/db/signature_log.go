package db

import (
	"context"
	"time"

	"github.com/cyphera/cyphera-vault/internal/address"
	"github.com/cyphera/cyphera-vault/internal/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var signatureLogSchema = []string{`
CREATE TABLE IF NOT EXISTS request_signatures (
    signer     TEXT NOT NULL,
    signature  TEXT NOT NULL,
    expires_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (signer, signature)
)`,
	`CREATE INDEX IF NOT EXISTS request_signatures_expires_at_idx ON request_signatures (expires_at)`,
}

// An expired row is taken over by a new claim; a live one is left alone.
const claimSignature = `
INSERT INTO request_signatures (signer, signature, expires_at)
VALUES ($1, $2, $3)
ON CONFLICT (signer, signature) DO UPDATE SET expires_at = EXCLUDED.expires_at
WHERE request_signatures.expires_at <= $4`

const purgeSignatures = `DELETE FROM request_signatures WHERE expires_at <= $1`

// SignatureLog records accepted request signatures so every API instance
// rejects a replay.
type SignatureLog struct {
	pool *pgxpool.Pool
}

// NewSignatureLog creates a SignatureLog on pool.
func NewSignatureLog(pool *pgxpool.Pool) *SignatureLog {
	return &SignatureLog{pool: pool}
}

// Migrate creates the signature table when missing.
func (l *SignatureLog) Migrate(ctx context.Context) error {
	for _, stmt := range signatureLogSchema {
		if _, err := l.pool.Exec(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed to migrate request signature schema")
		}
	}
	return nil
}

// Claim stores signature for signer until expires and reports false when a
// live claim already exists at now.
func (l *SignatureLog) Claim(ctx context.Context, signer address.Identity, signature string, now, expires time.Time) (bool, error) {
	tag, err := l.pool.Exec(ctx, claimSignature, signer.String(), signature, expires, now)
	if err != nil {
		return false, errors.Wrap(err, "failed to claim request signature")
	}
	return tag.RowsAffected() == 1, nil
}

// Purge deletes claims that expired at or before now.
func (l *SignatureLog) Purge(ctx context.Context, now time.Time) (int64, error) {
	tag, err := l.pool.Exec(ctx, purgeSignatures, now)
	if err != nil {
		return 0, errors.Wrap(err, "failed to purge request signatures")
	}
	return tag.RowsAffected(), nil
}

// StartCleanup purges expired claims every interval until ctx is done.
func (l *SignatureLog) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if purged, err := l.Purge(ctx, now); err != nil {
					logger.Warn("Failed to purge request signatures", zap.Error(err))
				} else if purged > 0 {
					logger.Debug("Purged request signatures", zap.Int64("count", purged))
				}
			}
		}
	}()
}
