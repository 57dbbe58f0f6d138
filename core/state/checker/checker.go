package checker

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/gittensor/bounty-go-node/core/state/bus"
)

// Checker accumulates per-block deltas of the fund buckets (pool, escrow,
// payable, paid) against the deposit volume. Internal moves between buckets
// net to zero, so after every block both deltas must be equal.
type Checker struct {
	fundsDelta  *big.Int
	volumeDelta *big.Int

	lock sync.RWMutex
}

func NewChecker(bus *bus.Bus) *Checker {
	checker := &Checker{
		fundsDelta:  big.NewInt(0),
		volumeDelta: big.NewInt(0),
	}
	bus.SetChecker(checker)

	return checker
}

func (c *Checker) AddFunds(value *big.Int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.fundsDelta.Add(c.fundsDelta, value)
}

func (c *Checker) AddVolume(value *big.Int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.volumeDelta.Add(c.volumeDelta, value)
}

// Reset resets checker data
func (c *Checker) Reset() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.fundsDelta = big.NewInt(0)
	c.volumeDelta = big.NewInt(0)
}

func (c *Checker) Check() error {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if c.fundsDelta.Cmp(c.volumeDelta) != 0 {
		return fmt.Errorf("invariants error: %s", big.NewInt(0).Sub(c.volumeDelta, c.fundsDelta).String())
	}

	return nil
}
