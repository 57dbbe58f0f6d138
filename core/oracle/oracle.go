package oracle

import (
	"math/big"
	"sync"

	"github.com/gittensor/bounty-go-node/core/types"
)

// Oracle is an in-process stake oracle. Weights are pushed in from outside
// the ledger and snapshotted by voting operations at vote time.
type Oracle struct {
	weights map[types.Address]*big.Int
	total   *big.Int

	lock sync.RWMutex
}

func NewOracle() *Oracle {
	return &Oracle{
		weights: map[types.Address]*big.Int{},
		total:   big.NewInt(0),
	}
}

func (o *Oracle) SetWeight(address types.Address, weight *big.Int) {
	o.lock.Lock()
	defer o.lock.Unlock()

	old, ok := o.weights[address]
	if ok {
		o.total.Sub(o.total, old)
	}

	if weight.Sign() == 0 {
		delete(o.weights, address)
		return
	}

	o.weights[address] = big.NewInt(0).Set(weight)
	o.total.Add(o.total, weight)
}

func (o *Oracle) WeightOf(address types.Address) *big.Int {
	o.lock.RLock()
	defer o.lock.RUnlock()

	weight, ok := o.weights[address]
	if !ok {
		return big.NewInt(0)
	}

	return big.NewInt(0).Set(weight)
}

func (o *Oracle) TotalWeight() *big.Int {
	o.lock.RLock()
	defer o.lock.RUnlock()

	return big.NewInt(0).Set(o.total)
}
