package pairing

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/cosmos/iavl"
	"github.com/gittensor/bounty-go-node/core/state/bus"
	"github.com/gittensor/bounty-go-node/core/types"
	"github.com/tendermint/go-amino"
)

const mainPrefix = byte('r')

type RPairing interface {
	GetProposal(issueID uint64) *Model
	Export(state *types.AppState)
}

// Pairing keeps the open pair proposals, one per issue.
type Pairing struct {
	list    map[uint64]*Model
	dirty   map[uint64]struct{}
	deleted map[uint64]struct{}

	cdc *amino.Codec
	db  atomic.Value

	bus *bus.Bus

	lock sync.RWMutex
}

func NewPairing(stateBus *bus.Bus, db *iavl.ImmutableTree) *Pairing {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}

	return &Pairing{
		bus:     stateBus,
		cdc:     amino.NewCodec(),
		db:      immutableTree,
		list:    map[uint64]*Model{},
		dirty:   map[uint64]struct{}{},
		deleted: map[uint64]struct{}{},
	}
}

func (p *Pairing) immutableTree() *iavl.ImmutableTree {
	db := p.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (p *Pairing) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	p.db.Store(immutableTree)
}

func (p *Pairing) Commit(db *iavl.MutableTree) error {
	dirty := p.getOrderedDirty()
	for _, issueID := range dirty {
		p.lock.Lock()
		delete(p.dirty, issueID)
		_, removed := p.deleted[issueID]
		delete(p.deleted, issueID)
		p.lock.Unlock()

		if removed {
			db.Remove(getPath(issueID))
			continue
		}

		proposal := p.getFromMap(issueID)
		if proposal == nil {
			continue
		}

		proposal.lock.RLock()
		data, err := p.cdc.MarshalBinaryBare(proposal)
		proposal.lock.RUnlock()
		if err != nil {
			return fmt.Errorf("can't encode pair proposal for issue %d: %v", issueID, err)
		}

		db.Set(getPath(issueID), data)
	}

	return nil
}

// Propose opens a proposal for the issue, replacing any previous one and
// discarding its votes.
func (p *Pairing) Propose(issueID uint64, a, b, proposer types.Address, height uint64) *Model {
	proposal := &Model{
		IssueID:      issueID,
		ParticipantA: a,
		ParticipantB: b,
		Proposer:     proposer,
		ProposedAt:   height,
		markDirty:    p.markDirty,
	}

	p.lock.Lock()
	p.list[issueID] = proposal
	delete(p.deleted, issueID)
	p.lock.Unlock()
	p.markDirty(issueID)

	return proposal
}

func (p *Pairing) GetProposal(issueID uint64) *Model {
	p.lock.RLock()
	_, removed := p.deleted[issueID]
	p.lock.RUnlock()
	if removed {
		return nil
	}

	return p.get(issueID)
}

// AddVote records the voter's weight and returns the new accumulated stake.
func (p *Pairing) AddVote(issueID uint64, voter types.Address, weight *big.Int) *big.Int {
	return p.get(issueID).addVote(voter, weight)
}

// Delete drops the proposal, after promotion or expiry.
func (p *Pairing) Delete(issueID uint64) {
	p.lock.Lock()
	delete(p.list, issueID)
	p.deleted[issueID] = struct{}{}
	p.lock.Unlock()
	p.markDirty(issueID)
}

func (p *Pairing) Export(state *types.AppState) {
	p.immutableTree().IterateRange([]byte{mainPrefix}, []byte{mainPrefix + 1}, true, func(key []byte, value []byte) bool {
		issueID := binary.BigEndian.Uint64(key[1:])

		proposal := p.GetProposal(issueID)
		if proposal == nil {
			return false
		}

		state.PairProposals = append(state.PairProposals, types.PairProposal{
			IssueID:      proposal.IssueID,
			ParticipantA: proposal.ParticipantA,
			ParticipantB: proposal.ParticipantB,
			Proposer:     proposal.Proposer,
			ProposedAt:   proposal.ProposedAt,
			VotedWeight:  proposal.GetAccumulated().String(),
			Voters:       proposal.GetVoters(),
		})

		return false
	})

	sort.SliceStable(state.PairProposals, func(a, b int) bool {
		return state.PairProposals[a].IssueID < state.PairProposals[b].IssueID
	})
}

// Import restores a proposal from genesis.
func (p *Pairing) Import(proposal types.PairProposal, accumulated *big.Int) {
	model := &Model{
		IssueID:      proposal.IssueID,
		ParticipantA: proposal.ParticipantA,
		ParticipantB: proposal.ParticipantB,
		Proposer:     proposal.Proposer,
		ProposedAt:   proposal.ProposedAt,
		Voters:       append([]types.Address{}, proposal.Voters...),
		Accumulated:  accumulated.Bytes(),
		markDirty:    p.markDirty,
	}

	p.lock.Lock()
	p.list[proposal.IssueID] = model
	p.lock.Unlock()
	p.markDirty(proposal.IssueID)
}

func (p *Pairing) get(issueID uint64) *Model {
	if proposal := p.getFromMap(issueID); proposal != nil {
		return proposal
	}

	_, enc := p.immutableTree().Get(getPath(issueID))
	if len(enc) == 0 {
		return nil
	}

	proposal := new(Model)
	if err := p.cdc.UnmarshalBinaryBare(enc, proposal); err != nil {
		panic(fmt.Sprintf("failed to decode pair proposal for issue %d: %s", issueID, err))
	}

	proposal.markDirty = p.markDirty
	p.setToMap(issueID, proposal)

	return proposal
}

func (p *Pairing) getFromMap(issueID uint64) *Model {
	p.lock.RLock()
	defer p.lock.RUnlock()

	return p.list[issueID]
}

func (p *Pairing) setToMap(issueID uint64, model *Model) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.list[issueID] = model
}

func (p *Pairing) markDirty(issueID uint64) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.dirty[issueID] = struct{}{}
}

func (p *Pairing) getOrderedDirty() []uint64 {
	p.lock.Lock()
	keys := make([]uint64, 0, len(p.dirty))
	for k := range p.dirty {
		keys = append(keys, k)
	}
	p.lock.Unlock()

	sort.Slice(keys, func(a, b int) bool {
		return keys[a] < keys[b]
	})

	return keys
}

func getPath(issueID uint64) []byte {
	path := make([]byte, 9)
	path[0] = mainPrefix
	binary.BigEndian.PutUint64(path[1:], issueID)

	return path
}
