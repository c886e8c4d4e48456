// Package audit consumes published vault events and re-checks the ledger
// state they describe.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/cyphera/cyphera-vault/internal/address"
	"github.com/cyphera/cyphera-vault/internal/events"
	"github.com/cyphera/cyphera-vault/internal/logger"
	"github.com/cyphera/cyphera-vault/internal/vault"
	"go.uber.org/zap"
)

// ErrInvariantViolated marks an event whose ledger state failed a check.
var ErrInvariantViolated = errors.New("vault invariant violated")

// EventLog remembers processed event IDs.
type EventLog interface {
	// Record stores env and reports false when its ID was seen before.
	Record(ctx context.Context, env *events.Envelope) (bool, error)
	// Forget removes id so a redelivery is processed again.
	Forget(ctx context.Context, id string) error
}

// Ledger is the read side of the vault program.
type Ledger interface {
	GetVault(ctx context.Context, key address.Identity) (*vault.Vault, error)
	GetChild(ctx context.Context, key address.Identity) (*vault.ChildAccount, error)
	GetPayout(ctx context.Context, key address.Identity) (*vault.PendingPayout, error)
}

// Auditor checks every event once.
type Auditor struct {
	log    EventLog
	ledger Ledger
	logger *zap.Logger
}

// NewAuditor creates an Auditor.
func NewAuditor(log EventLog, ledger Ledger) *Auditor {
	return &Auditor{log: log, ledger: ledger, logger: logger.OrNop()}
}

// HandleSQSEvent processes a batch and reports the records to retry.
func (a *Auditor) HandleSQSEvent(ctx context.Context, event awsevents.SQSEvent) (awsevents.SQSEventResponse, error) {
	var response awsevents.SQSEventResponse
	for _, record := range event.Records {
		if err := a.Process(ctx, []byte(record.Body)); err != nil {
			a.logger.Error("Failed to audit vault event",
				zap.String("message_id", record.MessageId),
				zap.Error(err),
			)
			if errors.Is(err, ErrInvariantViolated) {
				// retrying cannot fix the ledger; the error log is the alert
				continue
			}
			response.BatchItemFailures = append(response.BatchItemFailures,
				awsevents.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
	}
	a.logger.Info("Audited vault events",
		zap.Int("record_count", len(event.Records)),
		zap.Int("failed", len(response.BatchItemFailures)),
	)
	return response, nil
}

// Process audits one envelope body.
func (a *Auditor) Process(ctx context.Context, body []byte) error {
	var env events.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to unmarshal event envelope: %w", err)
	}
	if env.ID == "" || env.Type == "" {
		return fmt.Errorf("incomplete event envelope")
	}

	fresh, err := a.log.Record(ctx, &env)
	if err != nil {
		return fmt.Errorf("failed to record event %s: %w", env.ID, err)
	}
	if !fresh {
		a.logger.Info("Skipping duplicate vault event", zap.String("event_id", env.ID))
		return nil
	}

	if err := a.check(ctx, &env); err != nil {
		if !errors.Is(err, ErrInvariantViolated) {
			if ferr := a.log.Forget(ctx, env.ID); ferr != nil {
				a.logger.Error("Failed to release vault event for retry",
					zap.String("event_id", env.ID),
					zap.Error(ferr),
				)
			}
		}
		return fmt.Errorf("event %s (%s): %w", env.ID, env.Type, err)
	}
	return nil
}

func (a *Auditor) check(ctx context.Context, env *events.Envelope) error {
	vaultKey, err := address.ParseIdentity(env.Vault)
	if err != nil {
		return fmt.Errorf("invalid vault in envelope: %w", err)
	}
	v, err := a.ledger.GetVault(ctx, vaultKey)
	if err != nil {
		return err
	}
	if v.TotalMinted > v.SupplyCap {
		return fmt.Errorf("%w: total minted %d above cap %d", ErrInvariantViolated, v.TotalMinted, v.SupplyCap)
	}

	switch env.Type {
	case events.TypePayoutRequested:
		var e events.PayoutRequested
		if err := json.Unmarshal(env.Data, &e); err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", env.Type, err)
		}
		payout, err := a.ledger.GetPayout(ctx, e.Payout)
		if err != nil {
			return err
		}
		if payout.Vault != vaultKey || payout.Child != e.Child || payout.Amount != e.Amount {
			return fmt.Errorf("%w: payout %s does not match its request", ErrInvariantViolated, e.Payout)
		}
	case events.TypePayoutExecuted:
		var e events.PayoutExecuted
		if err := json.Unmarshal(env.Data, &e); err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", env.Type, err)
		}
		payout, err := a.ledger.GetPayout(ctx, e.Payout)
		if err != nil {
			return err
		}
		if !payout.Executed {
			return fmt.Errorf("%w: payout %s not marked executed", ErrInvariantViolated, e.Payout)
		}
		child, err := a.ledger.GetChild(ctx, e.Child)
		if err != nil {
			return err
		}
		if child.TotalPaidOut > child.TotalDeposited {
			return fmt.Errorf("%w: child %s paid out %d of %d deposited",
				ErrInvariantViolated, e.Child, child.TotalPaidOut, child.TotalDeposited)
		}
		if e.Recipient != child.Authority {
			return fmt.Errorf("%w: payout %s went to %s, not the child authority", ErrInvariantViolated, e.Payout, e.Recipient)
		}
	}
	return nil
}

// MemoryEventLog is an in-process EventLog.
type MemoryEventLog struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewMemoryEventLog creates an empty log.
func NewMemoryEventLog() *MemoryEventLog {
	return &MemoryEventLog{seen: make(map[string]struct{})}
}

func (l *MemoryEventLog) Record(_ context.Context, env *events.Envelope) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.seen[env.ID]; ok {
		return false, nil
	}
	l.seen[env.ID] = struct{}{}
	return true, nil
}

func (l *MemoryEventLog) Forget(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.seen, id)
	return nil
}
