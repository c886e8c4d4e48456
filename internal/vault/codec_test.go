package vault

import (
	"math"
	"testing"

	"github.com/cyphera/cyphera-vault/internal/address"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVaultRecordLayout(t *testing.T) {
	v := &Vault{
		Admin:             address.FromName("codec/admin"),
		PayoutDestination: address.FromName("codec/destination"),
		RateNumerator:     7,
		RateDenominator:   3,
		SupplyCap:         math.MaxUint64,
		TotalMinted:       11,
		TotalDeposited:    13,
		TotalWithdrawn:    17,
		CreatedAt:         -1,
		VaultBump:         254,
		TreasuryBump:      253,
	}
	data, err := v.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, VaultLen)
	assert.Equal(t, 130, VaultLen)
	assert.Equal(t, vaultDiscriminator[:], data[:8])

	decoded := &Vault{}
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, v, decoded)
}

func TestRecordSizes(t *testing.T) {
	child, err := (&ChildAccount{}).MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, child, ChildAccountLen)
	assert.Equal(t, 97, ChildAccountLen)

	payout, err := (&PendingPayout{Executed: true}).MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, payout, PendingPayoutLen)
	assert.Equal(t, 90, PendingPayoutLen)

	decoded := &PendingPayout{}
	require.NoError(t, decoded.UnmarshalBinary(payout))
	assert.True(t, decoded.Executed)
}

func TestUnmarshal_Rejects(t *testing.T) {
	child, err := (&ChildAccount{Bump: 1}).MarshalBinary()
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "truncated", data: child[:len(child)-1]},
		{name: "wrong discriminator", data: append([]byte{1, 2, 3, 4, 5, 6, 7, 8}, child[8:]...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&ChildAccount{}).UnmarshalBinary(tt.data)
			assert.ErrorIs(t, err, ErrAccountDidNotDecode)
		})
	}

	// Records never decode as another record type.
	assert.ErrorIs(t, (&Vault{}).UnmarshalBinary(child), ErrAccountDidNotDecode)
}

func TestMulDivFloor(t *testing.T) {
	tests := []struct {
		name     string
		a        uint64
		num      uint64
		den      uint64
		expected uint64
		err      error
	}{
		{name: "whole rate", a: 100_000_000, num: 100, den: 1, expected: 10_000_000_000},
		{name: "floors", a: 10, num: 1, den: 3, expected: 3},
		{name: "below one unit", a: 1, num: 1, den: 2, expected: 0},
		{name: "wide intermediate", a: math.MaxUint64, num: 3, den: 4, expected: 13835058055282163711},
		{name: "zero denominator", a: 1, num: 1, den: 0, err: ErrInvalidRate},
		{name: "result overflows", a: math.MaxUint64, num: 2, den: 1, err: ErrArithmeticOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mulDivFloor(tt.a, tt.num, tt.den)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCheckedArithmetic(t *testing.T) {
	_, err := checkedAdd(math.MaxUint64, 1)
	assert.ErrorIs(t, err, ErrArithmeticOverflow)
	_, err = checkedSub(1, 2)
	assert.ErrorIs(t, err, ErrArithmeticOverflow)

	sum, err := checkedAdd(2, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), sum)
}
