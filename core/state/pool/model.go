package pool

import (
	"math/big"
	"sync"
)

// Model holds the unallocated pool amount and the funding queue of issue ids
// waiting for bounties, in registration order.
type Model struct {
	Amount []byte
	Queue  []uint64

	markDirty func()
	mx        sync.RWMutex
}

func (model *Model) getAmount() *big.Int {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return big.NewInt(0).SetBytes(model.Amount)
}

func (model *Model) setAmount(amount *big.Int) {
	model.mx.Lock()
	defer model.mx.Unlock()

	model.Amount = amount.Bytes()
	model.markDirty()
}

func (model *Model) getQueue() []uint64 {
	model.mx.RLock()
	defer model.mx.RUnlock()

	queue := make([]uint64, len(model.Queue))
	copy(queue, model.Queue)

	return queue
}

func (model *Model) enqueue(issueID uint64) {
	model.mx.Lock()
	defer model.mx.Unlock()

	model.Queue = append(model.Queue, issueID)
	model.markDirty()
}

// remove deletes the id keeping the relative order of the rest of the queue.
func (model *Model) remove(issueID uint64) bool {
	model.mx.Lock()
	defer model.mx.Unlock()

	for i, id := range model.Queue {
		if id == issueID {
			model.Queue = append(model.Queue[:i], model.Queue[i+1:]...)
			model.markDirty()
			return true
		}
	}

	return false
}
