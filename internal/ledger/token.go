package ledger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"

	"github.com/cyphera/cyphera-vault/internal/address"
)

var (
	// TokenProgram owns mint and token accounts.
	TokenProgram = address.FromName("cyphera-vault/token-program")
	// AssociatedTokenProgram derives the canonical token account of an owner.
	AssociatedTokenProgram = address.FromName("cyphera-vault/associated-token-program")
)

var (
	ErrMintAuthorityMismatch = errors.New("mint authority mismatch")
	ErrSupplyOverflow        = errors.New("mint supply overflow")
	ErrInvalidTokenAccount   = errors.New("invalid token account data")
)

const (
	mintLen         = 32 + 8 + 1 + 1
	tokenAccountLen = 32 + 32 + 8
)

// Mint is the state of a fungible token mint.
type Mint struct {
	Authority   address.Identity
	Supply      uint64
	Decimals    uint8
	Initialized bool
}

// TokenAccount holds an owner's balance of one mint.
type TokenAccount struct {
	Mint   address.Identity
	Owner  address.Identity
	Amount uint64
}

func (m Mint) encode() []byte {
	buf := make([]byte, mintLen)
	copy(buf[0:32], m.Authority[:])
	binary.LittleEndian.PutUint64(buf[32:40], m.Supply)
	buf[40] = m.Decimals
	if m.Initialized {
		buf[41] = 1
	}
	return buf
}

func decodeMint(data []byte) (Mint, error) {
	if len(data) != mintLen {
		return Mint{}, fmt.Errorf("%w: mint length %d", ErrInvalidTokenAccount, len(data))
	}
	var m Mint
	copy(m.Authority[:], data[0:32])
	m.Supply = binary.LittleEndian.Uint64(data[32:40])
	m.Decimals = data[40]
	m.Initialized = data[41] == 1
	return m, nil
}

func (a TokenAccount) encode() []byte {
	buf := make([]byte, tokenAccountLen)
	copy(buf[0:32], a.Mint[:])
	copy(buf[32:64], a.Owner[:])
	binary.LittleEndian.PutUint64(buf[64:72], a.Amount)
	return buf
}

func decodeTokenAccount(data []byte) (TokenAccount, error) {
	if len(data) != tokenAccountLen {
		return TokenAccount{}, fmt.Errorf("%w: token account length %d", ErrInvalidTokenAccount, len(data))
	}
	var a TokenAccount
	copy(a.Mint[:], data[0:32])
	copy(a.Owner[:], data[32:64])
	a.Amount = binary.LittleEndian.Uint64(data[64:72])
	return a, nil
}

// InitializeMint creates a mint at key controlled by authority.
func InitializeMint(ctx context.Context, tx Tx, key, authority address.Identity, decimals uint8) error {
	mint := Mint{Authority: authority, Decimals: decimals, Initialized: true}
	return Create(ctx, tx, key, TokenProgram, mint.encode())
}

// LoadMint reads the mint at key.
func LoadMint(ctx context.Context, tx Tx, key address.Identity) (Mint, error) {
	account, err := Load(ctx, tx, key, TokenProgram)
	if err != nil {
		return Mint{}, err
	}
	return decodeMint(account.Data)
}

// AssociatedTokenAddress derives the canonical token account of owner for mint.
func AssociatedTokenAddress(owner, mint address.Identity) (address.Identity, error) {
	id, _, err := address.FindProgramAddress(
		[][]byte{owner[:], TokenProgram[:], mint[:]},
		AssociatedTokenProgram,
	)
	return id, err
}

// MintTo increases supply by amount and credits it to owner's associated token
// account, creating that account when absent. authority must match the mint.
func MintTo(ctx context.Context, tx Tx, mintKey, owner, authority address.Identity, amount uint64) (address.Identity, error) {
	mint, err := LoadMint(ctx, tx, mintKey)
	if err != nil {
		return address.Zero, err
	}
	if mint.Authority != authority {
		return address.Zero, ErrMintAuthorityMismatch
	}

	supply, carry := bits.Add64(mint.Supply, amount, 0)
	if carry != 0 {
		return address.Zero, ErrSupplyOverflow
	}

	ata, err := AssociatedTokenAddress(owner, mintKey)
	if err != nil {
		return address.Zero, err
	}

	holding, err := loadOrCreateTokenAccount(ctx, tx, ata, mintKey, owner)
	if err != nil {
		return address.Zero, err
	}
	balance, carry := bits.Add64(holding.Amount, amount, 0)
	if carry != 0 {
		return address.Zero, ErrSupplyOverflow
	}
	holding.Amount = balance
	mint.Supply = supply

	if err := StoreData(ctx, tx, ata, holding.encode()); err != nil {
		return address.Zero, err
	}
	if err := StoreData(ctx, tx, mintKey, mint.encode()); err != nil {
		return address.Zero, err
	}
	return ata, nil
}

func loadOrCreateTokenAccount(ctx context.Context, tx Tx, key, mint, owner address.Identity) (TokenAccount, error) {
	account, err := tx.Get(ctx, key)
	if err != nil {
		return TokenAccount{}, err
	}
	if !account.HasData() {
		holding := TokenAccount{Mint: mint, Owner: owner}
		if err := Create(ctx, tx, key, TokenProgram, holding.encode()); err != nil {
			return TokenAccount{}, err
		}
		return holding, nil
	}
	if account.Owner != TokenProgram {
		return TokenAccount{}, fmt.Errorf("%w: %s", ErrInvalidOwner, key)
	}
	holding, err := decodeTokenAccount(account.Data)
	if err != nil {
		return TokenAccount{}, err
	}
	if holding.Mint != mint || holding.Owner != owner {
		return TokenAccount{}, fmt.Errorf("%w: %s", ErrInvalidTokenAccount, key)
	}
	return holding, nil
}

// TokenBalance returns owner's balance of mint; zero when no account exists yet.
func TokenBalance(ctx context.Context, tx Tx, mint, owner address.Identity) (uint64, error) {
	ata, err := AssociatedTokenAddress(owner, mint)
	if err != nil {
		return 0, err
	}
	account, err := tx.Get(ctx, ata)
	if err != nil {
		return 0, err
	}
	if !account.HasData() {
		return 0, nil
	}
	holding, err := decodeTokenAccount(account.Data)
	if err != nil {
		return 0, err
	}
	return holding.Amount, nil
}
