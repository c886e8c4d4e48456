// Package amount converts integer base units to and from decimal display
// amounts.
package amount

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Format renders v base units at the given number of decimals, e.g.
// Format(1_500_000_000, 9) == "1.5".
func Format(v uint64, decimals int32) string {
	return ToDecimal(v, decimals).String()
}

// ToDecimal returns v scaled down by 10^decimals.
func ToDecimal(v uint64, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), -decimals)
}

// Parse converts a display amount such as "0.1" into base units. Amounts
// with more precision than decimals, negative amounts and amounts that do
// not fit in 64 bits are rejected.
func Parse(s string, decimals int32) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("invalid amount %q: negative", s)
	}
	scaled := d.Shift(decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("invalid amount %q: more than %d decimal places", s, decimals)
	}
	units := scaled.BigInt()
	if !units.IsUint64() {
		return 0, fmt.Errorf("invalid amount %q: out of range", s)
	}
	return units.Uint64(), nil
}
