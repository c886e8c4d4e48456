// Package vault implements the custody state machine: a vault escrows
// collateral in a derived treasury, mints a derivative token against it under
// a bonded rate and supply cap, and releases funds only through admin
// authorized instructions, including the two-phase payout protocol for
// per-depositor child ledgers.
//
// Every exported instruction runs as one atomic ledger transaction: all
// checks happen against current state before any mutation, and any failure
// discards every write of the call.
package vault

import (
	"context"
	"errors"
	"time"

	"github.com/cyphera/cyphera-vault/internal/address"
	"github.com/cyphera/cyphera-vault/internal/events"
	"github.com/cyphera/cyphera-vault/internal/ledger"
	"github.com/cyphera/cyphera-vault/internal/logger"
	"go.uber.org/zap"
)

// DefaultProgramID is the program identity used when none is configured.
var DefaultProgramID = address.FromName("cyphera-vault/program")

// Program hosts the vault instructions against a ledger store.
type Program struct {
	id        address.Identity
	store     ledger.Store
	publisher events.Publisher
	now       func() time.Time
	logger    *zap.Logger
}

// Option configures a Program.
type Option func(*Program)

// WithPublisher sets where committed events are delivered.
func WithPublisher(publisher events.Publisher) Option {
	return func(p *Program) { p.publisher = publisher }
}

// WithClock overrides the timestamp source for created_at / requested_at.
func WithClock(now func() time.Time) Option {
	return func(p *Program) { p.now = now }
}

// WithLogger sets the program logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Program) { p.logger = log }
}

// NewProgram creates a Program identified by id.
func NewProgram(id address.Identity, store ledger.Store, opts ...Option) *Program {
	p := &Program{
		id:        id,
		store:     store,
		publisher: events.NopPublisher{},
		now:       time.Now,
		logger:    logger.OrNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ID returns the program identity every account is derived under.
func (p *Program) ID() address.Identity {
	return p.id
}

// VaultAddress derives the vault of admin.
func (p *Program) VaultAddress(admin address.Identity) (address.Identity, uint8, error) {
	return address.Derive(p.id, VaultSeed, admin)
}

// TreasuryAddress derives the treasury of vault.
func (p *Program) TreasuryAddress(vault address.Identity) (address.Identity, uint8, error) {
	return address.Derive(p.id, TreasurySeed, vault)
}

// MintAddress derives the derivative token mint of vault.
func (p *Program) MintAddress(vault address.Identity) (address.Identity, uint8, error) {
	return address.Derive(p.id, MintSeed, vault)
}

// MintAuthorityAddress derives the identity allowed to mint for vault.
func (p *Program) MintAuthorityAddress(vault address.Identity) (address.Identity, uint8, error) {
	return address.Derive(p.id, MintAuthoritySeed, vault)
}

// ChildAddress derives the child ledger of authority under vault.
func (p *Program) ChildAddress(vault, authority address.Identity) (address.Identity, uint8, error) {
	return address.Derive(p.id, ChildSeed, vault, authority[:])
}

// PayoutAddress derives the pending payout for (vault, child, nonce).
func (p *Program) PayoutAddress(vault, child address.Identity, nonce uint64) (address.Identity, uint8, error) {
	return address.Derive(p.id, PayoutSeed, vault, child[:], address.Uint64Seed(nonce))
}

// instruction is the state of one atomic call.
type instruction struct {
	ctx     context.Context
	tx      ledger.Tx
	program *Program
	emitted []events.Event
	fields  []zap.Field
}

func (in *instruction) emit(event events.Event) {
	in.emitted = append(in.emitted, event)
}

func (in *instruction) log(fields ...zap.Field) {
	in.fields = append(in.fields, fields...)
}

// execute runs fn in one ledger transaction. Events and the success log line
// are released only after commit; the store may retry fn, so both are rebuilt
// on every attempt.
func (p *Program) execute(ctx context.Context, name string, caller address.Identity, fn func(in *instruction) error) error {
	var in *instruction
	err := p.store.Atomic(ctx, func(tx ledger.Tx) error {
		in = &instruction{ctx: ctx, tx: tx, program: p}
		return fn(in)
	})
	if err != nil {
		err = translateLedgerError(err)
		p.logger.Warn("Vault instruction rejected",
			zap.String("instruction", name),
			zap.String("caller", caller.String()),
			zap.String("code", CodeOf(err)),
			zap.Error(err),
		)
		return err
	}

	p.logger.Info("Vault instruction committed",
		append([]zap.Field{zap.String("instruction", name), zap.String("caller", caller.String())}, in.fields...)...)

	for _, event := range in.emitted {
		if perr := p.publisher.Publish(ctx, event); perr != nil {
			p.logger.Error("Failed to publish vault event",
				zap.String("event_type", event.EventType()),
				zap.String("vault", event.VaultKey().String()),
				zap.Error(perr),
			)
		}
	}
	return nil
}

// view runs a read-only transaction.
func (p *Program) view(ctx context.Context, fn func(in *instruction) error) error {
	err := p.store.Atomic(ctx, func(tx ledger.Tx) error {
		return fn(&instruction{ctx: ctx, tx: tx, program: p})
	})
	return translateLedgerError(err)
}

// translateLedgerError maps host failures onto program errors.
func translateLedgerError(err error) error {
	if err == nil {
		return nil
	}
	var programErr *Error
	if errors.As(err, &programErr) {
		return err
	}
	switch {
	case errors.Is(err, ledger.ErrAccountInUse):
		return ErrAccountAlreadyExists.Wrap(err)
	case errors.Is(err, ledger.ErrAccountNotFound):
		return ErrAccountNotFound.Wrap(err)
	case errors.Is(err, ledger.ErrInvalidOwner):
		return ErrAccountOwnedByOther.Wrap(err)
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return ErrInsufficientFunds.Wrap(err)
	case errors.Is(err, ledger.ErrLamportsOverflow), errors.Is(err, ledger.ErrSupplyOverflow):
		return ErrArithmeticOverflow.Wrap(err)
	case errors.Is(err, ledger.ErrMintAuthorityMismatch):
		return ErrUnauthorized.Wrap(err)
	case errors.Is(err, ledger.ErrInvalidTokenAccount):
		return ErrAccountDidNotDecode.Wrap(err)
	}
	return err
}

type record interface {
	MarshalBinary() ([]byte, error)
	UnmarshalBinary(data []byte) error
}

func (in *instruction) load(key address.Identity, out record) error {
	account, err := ledger.Load(in.ctx, in.tx, key, in.program.id)
	if err != nil {
		return translateLedgerError(err)
	}
	return out.UnmarshalBinary(account.Data)
}

func (in *instruction) create(key address.Identity, rec record) error {
	data, err := rec.MarshalBinary()
	if err != nil {
		return err
	}
	return translateLedgerError(ledger.Create(in.ctx, in.tx, key, in.program.id, data))
}

func (in *instruction) save(key address.Identity, rec record) error {
	data, err := rec.MarshalBinary()
	if err != nil {
		return err
	}
	return translateLedgerError(ledger.StoreData(in.ctx, in.tx, key, data))
}

func (in *instruction) transfer(from, to address.Identity, amount uint64) error {
	return translateLedgerError(ledger.Transfer(in.ctx, in.tx, from, to, amount))
}

func (in *instruction) balance(key address.Identity) (uint64, error) {
	return ledger.Balance(in.ctx, in.tx, key)
}

// loadVault reads the vault at key and checks it sits at the identity its
// admin and bump derive to.
func (in *instruction) loadVault(key address.Identity) (*Vault, error) {
	v := &Vault{}
	if err := in.load(key, v); err != nil {
		return nil, err
	}
	expected, err := address.CreateProgramAddress(
		[][]byte{[]byte(VaultSeed), v.Admin[:], {v.VaultBump}}, in.program.id)
	if err != nil || expected != key {
		return nil, ErrInvalidSeeds
	}
	return v, nil
}

// loadAdminVault is loadVault plus the admin authorization check.
func (in *instruction) loadAdminVault(key, caller address.Identity) (*Vault, error) {
	v, err := in.loadVault(key)
	if err != nil {
		return nil, err
	}
	if v.Admin != caller {
		return nil, ErrUnauthorized
	}
	return v, nil
}

func (in *instruction) treasury(vaultKey address.Identity, v *Vault) (address.Identity, error) {
	key, err := address.CreateProgramAddress(
		[][]byte{[]byte(TreasurySeed), vaultKey[:], {v.TreasuryBump}}, in.program.id)
	if err != nil {
		return address.Zero, ErrInvalidSeeds.Wrap(err)
	}
	return key, nil
}

// loadChild reads a child ledger and checks it belongs to vaultKey.
func (in *instruction) loadChild(vaultKey, childKey address.Identity) (*ChildAccount, error) {
	c := &ChildAccount{}
	if err := in.load(childKey, c); err != nil {
		return nil, err
	}
	if c.Vault != vaultKey {
		return nil, ErrUnauthorized
	}
	expected, err := address.CreateProgramAddress(
		[][]byte{[]byte(ChildSeed), vaultKey[:], c.Authority[:], {c.Bump}}, in.program.id)
	if err != nil || expected != childKey {
		return nil, ErrInvalidSeeds
	}
	return c, nil
}

func (in *instruction) now() int64 {
	return in.program.now().Unix()
}
