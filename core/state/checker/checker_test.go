package checker

import (
	"math/big"
	"testing"

	"github.com/gittensor/bounty-go-node/core/state/bus"
)

func TestCheckerBalancesDeltas(t *testing.T) {
	t.Parallel()
	c := NewChecker(bus.NewBus())

	if err := c.Check(); err != nil {
		t.Fatal(err)
	}

	// deposit: funds and volume move together
	c.AddFunds(big.NewInt(100))
	c.AddVolume(big.NewInt(100))
	if err := c.Check(); err != nil {
		t.Fatal(err)
	}

	// internal move between buckets nets to zero
	c.AddFunds(big.NewInt(-40))
	c.AddFunds(big.NewInt(40))
	if err := c.Check(); err != nil {
		t.Fatal(err)
	}

	c.AddFunds(big.NewInt(1))
	if err := c.Check(); err == nil {
		t.Fatal("unmatched funds delta must fail")
	}

	c.Reset()
	if err := c.Check(); err != nil {
		t.Fatal(err)
	}
}
