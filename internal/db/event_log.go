package db

import (
	"context"

	"github.com/cyphera/cyphera-vault/internal/events"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

const eventLogSchema = `
CREATE TABLE IF NOT EXISTS vault_event_log (
    event_id    TEXT PRIMARY KEY,
    event_type  TEXT NOT NULL,
    vault       TEXT NOT NULL,
    occurred_at TIMESTAMPTZ NOT NULL,
    data        JSONB NOT NULL,
    received_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

const insertEvent = `
INSERT INTO vault_event_log (event_id, event_type, vault, occurred_at, data)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (event_id) DO NOTHING`

const deleteEvent = `DELETE FROM vault_event_log WHERE event_id = $1`

// EventLog records processed vault events for idempotent consumers.
type EventLog struct {
	pool *pgxpool.Pool
}

// NewEventLog creates an EventLog on pool.
func NewEventLog(pool *pgxpool.Pool) *EventLog {
	return &EventLog{pool: pool}
}

// Migrate creates the event log table when missing.
func (l *EventLog) Migrate(ctx context.Context) error {
	if _, err := l.pool.Exec(ctx, eventLogSchema); err != nil {
		return errors.Wrap(err, "failed to migrate event log schema")
	}
	return nil
}

// Record inserts env and reports false when the event ID already exists.
func (l *EventLog) Record(ctx context.Context, env *events.Envelope) (bool, error) {
	data := []byte(env.Data)
	if len(data) == 0 {
		data = []byte("null")
	}
	tag, err := l.pool.Exec(ctx, insertEvent, env.ID, env.Type, env.Vault, env.OccurredAt, data)
	if err != nil {
		return false, errors.Wrapf(err, "failed to record event %s", env.ID)
	}
	return tag.RowsAffected() == 1, nil
}

// Forget deletes the record of id so a redelivery is processed again.
func (l *EventLog) Forget(ctx context.Context, id string) error {
	if _, err := l.pool.Exec(ctx, deleteEvent, id); err != nil {
		return errors.Wrapf(err, "failed to forget event %s", id)
	}
	return nil
}
