package helpers

import (
	"math/big"
	"testing"
)

func TestUnitToBase(t *testing.T) {
	t.Parallel()
	base := UnitToBase(big.NewInt(7))
	if base.String() != "7000000000" {
		t.Fatalf("want 7000000000, got %s", base.String())
	}
}

func TestExceedsThreshold(t *testing.T) {
	t.Parallel()

	// exactly 51 of 100 is not strictly above 51%
	if ExceedsThreshold(big.NewInt(51), big.NewInt(100), 51) {
		t.Fatal("51 of 100 must not exceed a 51% threshold")
	}

	if !ExceedsThreshold(big.NewInt(52), big.NewInt(100), 51) {
		t.Fatal("52 of 100 must exceed a 51% threshold")
	}

	// zero total fails closed
	if ExceedsThreshold(big.NewInt(100), big.NewInt(0), 51) {
		t.Fatal("zero total weight must never pass")
	}

	if ExceedsThreshold(big.NewInt(0), big.NewInt(0), 51) {
		t.Fatal("zero accumulated over zero total must never pass")
	}

	// boundary at a fractional cut: 51% of 1000 is 510, so 510 loses and 511 wins
	if ExceedsThreshold(big.NewInt(510), big.NewInt(1000), 51) {
		t.Fatal("510 of 1000 must not exceed a 51% threshold")
	}
	if !ExceedsThreshold(big.NewInt(511), big.NewInt(1000), 51) {
		t.Fatal("511 of 1000 must exceed a 51% threshold")
	}
}

func TestStringToBigInt(t *testing.T) {
	t.Parallel()
	if StringToBigInt("100000000000000000000").Cmp(UnitToBase(big.NewInt(100000000000))) != 0 {
		t.Fatal("decoded value mismatch")
	}

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on malformed input")
		}
	}()
	StringToBigInt("not-a-number")
}

func TestIsValidBigInt(t *testing.T) {
	t.Parallel()
	for s, want := range map[string]bool{
		"":    false,
		"x":   false,
		"-1":  false,
		"0":   true,
		"100": true,
	} {
		if IsValidBigInt(s) != want {
			t.Fatalf("IsValidBigInt(%q) != %v", s, want)
		}
	}
}
