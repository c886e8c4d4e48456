// Package address implements the deterministic identity derivation used to
// locate every vault account without a directory or index.
//
// A derived identity is sha256(seeds || bump || program || "ProgramDerivedAddress")
// for the first bump (255 downward) whose digest is not a valid ed25519 point,
// so no private key can ever sign for it.
package address

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/btcsuite/btcd/btcutil/base58"
)

const (
	// IdentityLength is the size of an identity in bytes.
	IdentityLength = 32
	// MaxSeeds bounds the number of seeds, bump included.
	MaxSeeds = 16
	// MaxSeedLength bounds each individual seed.
	MaxSeedLength = 32

	derivedMarker = "ProgramDerivedAddress"
)

var (
	ErrInvalidIdentity       = errors.New("invalid identity")
	ErrMaxSeedLengthExceeded = errors.New("max seed length exceeded")
	ErrTooManySeeds          = errors.New("too many seeds")
	ErrOnCurve               = errors.New("provided seeds do not result in a valid derived identity")
	ErrNoViableBump          = errors.New("unable to find a viable bump seed")
)

// Identity is a 32-byte account identity, rendered in base58.
type Identity [IdentityLength]byte

// Zero is the all-zero identity. It doubles as the system owner.
var Zero Identity

// FromName returns a fixed identity for a well-known name.
func FromName(name string) Identity {
	return Identity(sha256.Sum256([]byte(name)))
}

// ParseIdentity decodes a base58 identity.
func ParseIdentity(s string) (Identity, error) {
	raw := base58.Decode(s)
	if len(raw) != IdentityLength {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidIdentity, s)
	}
	var id Identity
	copy(id[:], raw)
	return id, nil
}

// MustParse is ParseIdentity for constants; it panics on malformed input.
func MustParse(s string) Identity {
	id, err := ParseIdentity(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id Identity) String() string {
	return base58.Encode(id[:])
}

// Bytes returns a copy of the identity bytes.
func (id Identity) Bytes() []byte {
	out := make([]byte, IdentityLength)
	copy(out, id[:])
	return out
}

func (id Identity) IsZero() bool {
	return id == Zero
}

// MarshalText implements encoding.TextMarshaler.
func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *Identity) UnmarshalText(text []byte) error {
	parsed, err := ParseIdentity(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// IsOnCurve reports whether b decodes to a point on the ed25519 curve.
func IsOnCurve(b []byte) bool {
	if len(b) != IdentityLength {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

// CreateProgramAddress hashes the seeds (bump included by the caller) under program.
func CreateProgramAddress(seeds [][]byte, program Identity) (Identity, error) {
	if len(seeds) > MaxSeeds {
		return Zero, ErrTooManySeeds
	}

	h := sha256.New()
	for _, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return Zero, ErrMaxSeedLengthExceeded
		}
		h.Write(seed)
	}
	h.Write(program[:])
	h.Write([]byte(derivedMarker))

	var id Identity
	copy(id[:], h.Sum(nil))
	if IsOnCurve(id[:]) {
		return Zero, ErrOnCurve
	}
	return id, nil
}

// FindProgramAddress searches bumps from 255 downward and returns the first
// off-curve identity together with its bump.
func FindProgramAddress(seeds [][]byte, program Identity) (Identity, uint8, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)

	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{byte(bump)}
		id, err := CreateProgramAddress(withBump, program)
		if err == nil {
			return id, uint8(bump), nil
		}
		if !errors.Is(err, ErrOnCurve) {
			return Zero, 0, err
		}
	}
	return Zero, 0, ErrNoViableBump
}

// Derive maps (tag, parent, aux...) to a derived identity under program.
func Derive(program Identity, tag string, parent Identity, aux ...[]byte) (Identity, uint8, error) {
	seeds := make([][]byte, 0, 2+len(aux))
	seeds = append(seeds, []byte(tag), parent[:])
	seeds = append(seeds, aux...)
	return FindProgramAddress(seeds, program)
}

// Uint64Seed encodes n as 8 little-endian bytes.
func Uint64Seed(n uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], n)
	return b[:]
}
