package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cyphera/cyphera-vault/internal/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Envelope is the wire form of an event.
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Vault      string          `json:"vault"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// NewEnvelope wraps event with a fresh ID.
func NewEnvelope(event Event, now time.Time) (*Envelope, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", event.EventType(), err)
	}
	return &Envelope{
		ID:         uuid.New().String(),
		Type:       event.EventType(),
		Vault:      event.VaultKey().String(),
		OccurredAt: now.UTC(),
		Data:       data,
	}, nil
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// LogPublisher writes events to the structured log.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a publisher backed by log, or the global logger when nil.
func NewLogPublisher(log *zap.Logger) *LogPublisher {
	if log == nil {
		log = logger.OrNop()
	}
	return &LogPublisher{logger: log}
}

func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	p.logger.Info("Vault event",
		zap.String("event_type", event.EventType()),
		zap.String("vault", event.VaultKey().String()),
		zap.Any("event", event),
	)
	return nil
}

// MultiPublisher fans an event out to every publisher and joins their errors.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
