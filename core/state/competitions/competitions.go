package competitions

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

const (
	mainPrefix      = byte('c')
	occupancyPrefix = byte('o')
)

type RCompetitions interface {
	GetCompetition(id uint64) *Model
	GetOccupancy(address types.Address) (uint64, bool)
	Export(state *types.AppState)
}

// Competitions keeps every competition record and the occupancy index that
// enforces one active competition per miner.
type Competitions struct {
	list           map[uint64]*Model
	dirty          map[uint64]struct{}
	occupancy      map[types.Address]uint64
	dirtyOccupancy map[types.Address]struct{}

	cdc *amino.Codec
	db  atomic.Value

	bus *bus.Bus

	lock sync.RWMutex
}

func NewCompetitions(stateBus *bus.Bus, db *iavl.ImmutableTree) *Competitions {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}

	return &Competitions{
		bus:            stateBus,
		cdc:            amino.NewCodec(),
		db:             immutableTree,
		list:           map[uint64]*Model{},
		dirty:          map[uint64]struct{}{},
		occupancy:      map[types.Address]uint64{},
		dirtyOccupancy: map[types.Address]struct{}{},
	}
}

func (c *Competitions) immutableTree() *iavl.ImmutableTree {
	db := c.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (c *Competitions) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	c.db.Store(immutableTree)
}

func (c *Competitions) Commit(db *iavl.MutableTree) error {
	dirty := c.getOrderedDirty()
	for _, id := range dirty {
		competition := c.getFromMap(id)

		c.lock.Lock()
		delete(c.dirty, id)
		c.lock.Unlock()

		competition.lock.RLock()
		data, err := c.cdc.MarshalBinaryBare(competition)
		competition.lock.RUnlock()
		if err != nil {
			return fmt.Errorf("can't encode competition %d: %v", id, err)
		}

		db.Set(getPath(id), data)
	}

	for _, address := range c.getOrderedDirtyOccupancy() {
		c.lock.Lock()
		id := c.occupancy[address]
		delete(c.dirtyOccupancy, address)
		c.lock.Unlock()

		path := getOccupancyPath(address)
		if id == 0 {
			db.Remove(path)
			continue
		}

		value := make([]byte, 8)
		binary.BigEndian.PutUint64(value, id)
		db.Set(path, value)
	}

	return nil
}

// Create starts a competition and occupies both miners.
func (c *Competitions) Create(id, issueID uint64, a, b types.Address, startedAt, submissionDeadline, finalDeadline uint64) *Model {
	competition := &Model{
		ID:                 id,
		IssueID:            issueID,
		ParticipantA:       a,
		ParticipantB:       b,
		StartedAt:          startedAt,
		SubmissionDeadline: submissionDeadline,
		FinalDeadline:      finalDeadline,
		Status:             types.CompetitionActive,
		markDirty:          c.markDirty,
	}

	c.setToMap(id, competition)
	c.markDirty(id)

	c.setOccupancy(a, id)
	c.setOccupancy(b, id)

	return competition
}

func (c *Competitions) GetCompetition(id uint64) *Model {
	return c.get(id)
}

// GetOccupancy returns the id of the active competition the miner is in.
func (c *Competitions) GetOccupancy(address types.Address) (uint64, bool) {
	c.lock.RLock()
	id, ok := c.occupancy[address]
	c.lock.RUnlock()
	if ok {
		return id, id != 0
	}

	_, enc := c.immutableTree().Get(getOccupancyPath(address))
	if len(enc) == 0 {
		return 0, false
	}

	id = binary.BigEndian.Uint64(enc)

	c.lock.Lock()
	c.occupancy[address] = id
	c.lock.Unlock()

	return id, true
}

func (c *Competitions) IsOccupied(address types.Address) bool {
	_, ok := c.GetOccupancy(address)
	return ok
}

// Complete records the winner and holds the payout on the record. The caller
// releases the issue escrow for the same amount first.
func (c *Competitions) Complete(id uint64, winner types.Address, proof types.Hash, payout *big.Int) {
	competition := c.get(id)
	competition.complete(winner, proof, payout)
	c.bus.Checker().AddFunds(payout)

	c.vacate(competition)
}

// TimeOut terminalizes the competition without moving funds.
func (c *Competitions) TimeOut(id uint64) {
	competition := c.get(id)
	competition.timeOut()

	c.vacate(competition)
}

// Cancel terminalizes the competition. The caller recycles the issue escrow.
func (c *Competitions) Cancel(id uint64, reason types.Hash) {
	competition := c.get(id)
	competition.cancel(reason)

	c.vacate(competition)
}

// MarkPaid flips the payout flag. The amount stays recorded on the
// competition, so the fund buckets do not change.
func (c *Competitions) MarkPaid(id uint64) {
	c.get(id).markPaid()
}

func (c *Competitions) vacate(competition *Model) {
	c.setOccupancy(competition.ParticipantA, 0)
	c.setOccupancy(competition.ParticipantB, 0)
}

func (c *Competitions) Export(state *types.AppState) {
	c.immutableTree().IterateRange([]byte{mainPrefix}, []byte{mainPrefix + 1}, true, func(key []byte, value []byte) bool {
		id := binary.BigEndian.Uint64(key[1:])

		competition := c.GetCompetition(id)
		if competition == nil {
			return false
		}

		state.Competitions = append(state.Competitions, types.Competition{
			ID:                 competition.ID,
			IssueID:            competition.IssueID,
			ParticipantA:       competition.ParticipantA,
			ParticipantB:       competition.ParticipantB,
			StartedAt:          competition.StartedAt,
			SubmissionDeadline: competition.SubmissionDeadline,
			FinalDeadline:      competition.FinalDeadline,
			Status:             competition.GetStatus(),
			Winner:             competition.GetWinner(),
			ProofHash:          competition.ProofHash,
			ReasonHash:         competition.ReasonHash,
			Payout:             competition.GetPayout().String(),
			PaidOut:            competition.IsPaidOut(),
		})

		return false
	})

	sort.SliceStable(state.Competitions, func(a, b int) bool {
		return state.Competitions[a].ID < state.Competitions[b].ID
	})
}

// Import restores a competition from genesis without touching the checker.
func (c *Competitions) Import(competition types.Competition, payout *big.Int) {
	model := &Model{
		ID:                 competition.ID,
		IssueID:            competition.IssueID,
		ParticipantA:       competition.ParticipantA,
		ParticipantB:       competition.ParticipantB,
		StartedAt:          competition.StartedAt,
		SubmissionDeadline: competition.SubmissionDeadline,
		FinalDeadline:      competition.FinalDeadline,
		Status:             competition.Status,
		Winner:             competition.Winner,
		ProofHash:          competition.ProofHash,
		ReasonHash:         competition.ReasonHash,
		Payout:             payout.Bytes(),
		PaidOut:            competition.PaidOut,
		markDirty:          c.markDirty,
	}

	c.setToMap(competition.ID, model)
	c.markDirty(competition.ID)

	if competition.Status == types.CompetitionActive {
		c.setOccupancy(competition.ParticipantA, competition.ID)
		c.setOccupancy(competition.ParticipantB, competition.ID)
	}
}

func (c *Competitions) get(id uint64) *Model {
	if competition := c.getFromMap(id); competition != nil {
		return competition
	}

	_, enc := c.immutableTree().Get(getPath(id))
	if len(enc) == 0 {
		return nil
	}

	competition := new(Model)
	if err := c.cdc.UnmarshalBinaryBare(enc, competition); err != nil {
		panic(fmt.Sprintf("failed to decode competition %d: %s", id, err))
	}

	competition.markDirty = c.markDirty
	c.setToMap(id, competition)

	return competition
}

func (c *Competitions) getFromMap(id uint64) *Model {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.list[id]
}

func (c *Competitions) setToMap(id uint64, model *Model) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.list[id] = model
}

func (c *Competitions) setOccupancy(address types.Address, id uint64) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.occupancy[address] = id
	c.dirtyOccupancy[address] = struct{}{}
}

func (c *Competitions) markDirty(id uint64) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.dirty[id] = struct{}{}
}

func (c *Competitions) getOrderedDirty() []uint64 {
	c.lock.Lock()
	keys := make([]uint64, 0, len(c.dirty))
	for k := range c.dirty {
		keys = append(keys, k)
	}
	c.lock.Unlock()

	sort.Slice(keys, func(a, b int) bool {
		return keys[a] < keys[b]
	})

	return keys
}

func (c *Competitions) getOrderedDirtyOccupancy() []types.Address {
	c.lock.Lock()
	keys := make([]types.Address, 0, len(c.dirtyOccupancy))
	for k := range c.dirtyOccupancy {
		keys = append(keys, k)
	}
	c.lock.Unlock()

	sort.SliceStable(keys, func(a, b int) bool {
		return keys[a].Compare(keys[b]) < 0
	})

	return keys
}

func getPath(id uint64) []byte {
	path := make([]byte, 9)
	path[0] = mainPrefix
	binary.BigEndian.PutUint64(path[1:], id)

	return path
}

func getOccupancyPath(address types.Address) []byte {
	return append([]byte{occupancyPrefix}, address.Bytes()...)
}
