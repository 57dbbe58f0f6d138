package pool

import (
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/cosmos/iavl"
	"github.com/gittensor/bounty-go-node/core/events"
	"github.com/gittensor/bounty-go-node/core/state/bus"
	"github.com/gittensor/bounty-go-node/core/types"
	"github.com/tendermint/go-amino"
)

const mainPrefix = 'p'

type RPool interface {
	GetAmount() *big.Int
	GetQueue() []uint64
	Export(state *types.AppState)
}

// Pool keeps the unallocated funds and runs the allocation pass over the
// funding queue.
type Pool struct {
	model   *Model
	isDirty bool

	cdc *amino.Codec
	db  atomic.Value

	bus *bus.Bus
	mx  sync.Mutex
}

func NewPool(stateBus *bus.Bus, db *iavl.ImmutableTree) *Pool {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}

	return &Pool{bus: stateBus, db: immutableTree, cdc: amino.NewCodec()}
}

func (p *Pool) immutableTree() *iavl.ImmutableTree {
	db := p.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (p *Pool) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	p.db.Store(immutableTree)
}

func (p *Pool) Commit(db *iavl.MutableTree) error {
	p.mx.Lock()
	defer p.mx.Unlock()

	if !p.isDirty {
		return nil
	}

	p.isDirty = false

	data, err := p.cdc.MarshalBinaryBare(p.model)
	if err != nil {
		return fmt.Errorf("can't encode pool model: %s", err)
	}

	path := []byte{mainPrefix}
	db.Set(path, data)

	return nil
}

func (p *Pool) GetAmount() *big.Int {
	return p.getOrNew().getAmount()
}

func (p *Pool) GetQueue() []uint64 {
	return p.getOrNew().getQueue()
}

// AddToPool credits the pool. The deposit volume side is tracked separately
// by the caller, so recycled escrow nets to zero here.
func (p *Pool) AddToPool(amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}

	model := p.getOrNew()
	model.setAmount(big.NewInt(0).Add(model.getAmount(), amount))
	p.bus.Checker().AddFunds(amount)
}

func (p *Pool) Enqueue(issueID uint64) {
	p.getOrNew().enqueue(issueID)
}

func (p *Pool) RemoveFromQueue(issueID uint64) bool {
	return p.getOrNew().remove(issueID)
}

// FillQueue runs the allocation pass: walk the queue from the head, drop
// entries that are no longer fundable, and move min(remaining, pool) onto the
// head's escrow. A fully funded head activates and leaves the queue; a partly
// funded head keeps its place and blocks the entries behind it.
func (p *Pool) FillQueue() {
	model := p.getOrNew()

	for {
		queue := model.getQueue()
		if len(queue) == 0 {
			return
		}

		head := queue[0]
		issue := p.bus.Issues().GetIssue(head)
		if issue == nil || (issue.Status != types.IssueRegistered && issue.Status != types.IssueActive) {
			model.remove(head)
			continue
		}

		remaining := big.NewInt(0).Sub(issue.Target, issue.Escrow)
		if remaining.Sign() != 1 {
			model.remove(head)
			continue
		}

		amount := model.getAmount()
		if amount.Sign() != 1 {
			return
		}

		transfer := remaining
		if amount.Cmp(remaining) == -1 {
			transfer = amount
		}

		model.setAmount(big.NewInt(0).Sub(amount, transfer))
		p.bus.Checker().AddFunds(big.NewInt(0).Neg(transfer))
		funded := p.bus.Issues().Fund(head, transfer)

		p.bus.Events().AddEvent(events.BountyFilled{
			IssueID: head,
			Amount:  transfer.String(),
		})

		if !funded {
			return
		}

		model.remove(head)
	}
}

func (p *Pool) Export(state *types.AppState) {
	state.Pool = p.GetAmount().String()
	state.FundingQueue = p.GetQueue()
}

// Import restores the pool from genesis without touching the checker.
func (p *Pool) Import(amount *big.Int, queue []uint64) {
	model := p.getOrNew()
	model.setAmount(amount)

	model.mx.Lock()
	model.Queue = append([]uint64{}, queue...)
	model.mx.Unlock()
	p.markDirty()
}

func (p *Pool) get() *Model {
	p.mx.Lock()
	defer p.mx.Unlock()

	if p.model != nil {
		return p.model
	}

	path := []byte{mainPrefix}
	_, enc := p.immutableTree().Get(path)
	if len(enc) == 0 {
		return nil
	}

	model := &Model{}
	if err := p.cdc.UnmarshalBinaryBare(enc, model); err != nil {
		panic(fmt.Sprintf("failed to decode pool model: %s", err))
	}

	p.model = model
	p.model.markDirty = p.markDirty
	return p.model
}

func (p *Pool) getOrNew() *Model {
	model := p.get()
	if model == nil {
		model = &Model{
			markDirty: p.markDirty,
		}
		p.mx.Lock()
		p.model = model
		p.mx.Unlock()
	}

	return model
}

func (p *Pool) markDirty() {
	p.mx.Lock()
	defer p.mx.Unlock()

	p.isDirty = true
}
