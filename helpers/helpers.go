package helpers

import (
	"fmt"
	"math/big"
)

// UnitToBase converts whole units to base amounts (multiplies input by 1e9)
func UnitToBase(unit *big.Int) *big.Int {
	p := big.NewInt(10)
	p.Exp(p, big.NewInt(9), nil)
	p.Mul(p, unit)

	return p
}

// ExceedsThreshold reports whether accumulated stake is strictly above the
// given percentage of the total. A zero total never passes.
func ExceedsThreshold(accumulated, total *big.Int, percent uint32) bool {
	if total.Sign() <= 0 {
		return false
	}

	lhs := big.NewInt(0).Mul(accumulated, big.NewInt(100))
	rhs := big.NewInt(0).Mul(total, big.NewInt(int64(percent)))

	return lhs.Cmp(rhs) == 1
}

// StringToBigInt converts string to BigInt, panics on empty strings and errors
func StringToBigInt(s string) *big.Int {
	if s == "" {
		panic("string is empty")
	}

	b, success := big.NewInt(0).SetString(s, 10)
	if !success {
		panic(fmt.Sprintf("Cannot decode %s into big.Int", s))
	}

	return b
}

// IsValidBigInt verifies that string is a valid non-negative int
func IsValidBigInt(s string) bool {
	if s == "" {
		return false
	}

	b, success := big.NewInt(0).SetString(s, 10)
	if !success {
		return false
	}

	if b.Cmp(big.NewInt(0)) == -1 {
		return false
	}

	return true
}
