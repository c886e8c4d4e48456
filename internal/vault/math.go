package vault

import "math/bits"

func checkedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrArithmeticOverflow
	}
	return sum, nil
}

func checkedSub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrArithmeticOverflow
	}
	return diff, nil
}

// mulDivFloor returns floor(a*num/den) using a 128-bit intermediate product.
// It fails when den is zero or the quotient does not fit in 64 bits.
func mulDivFloor(a, num, den uint64) (uint64, error) {
	if den == 0 {
		return 0, ErrInvalidRate
	}
	hi, lo := bits.Mul64(a, num)
	if hi >= den {
		return 0, ErrArithmeticOverflow
	}
	quo, _ := bits.Div64(hi, lo, den)
	return quo, nil
}
