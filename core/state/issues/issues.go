package issues

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
	mainPrefix  = byte('i')
	dedupPrefix = byte('d')
)

type RIssues interface {
	GetIssue(id uint64) *Model
	GetIDByDedupKey(key types.Hash) (uint64, bool)
	Export(state *types.AppState)
}

// Issues keeps every registered issue and the dedup index that guards
// against double registration of the same repository and number.
type Issues struct {
	list       map[uint64]*Model
	dirty      map[uint64]struct{}
	dedup      map[types.Hash]uint64
	dirtyDedup map[types.Hash]struct{}

	cdc *amino.Codec
	db  atomic.Value

	bus *bus.Bus

	lock sync.RWMutex
}

func NewIssues(stateBus *bus.Bus, db *iavl.ImmutableTree) *Issues {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	issues := &Issues{
		bus:        stateBus,
		cdc:        amino.NewCodec(),
		db:         immutableTree,
		list:       map[uint64]*Model{},
		dirty:      map[uint64]struct{}{},
		dedup:      map[types.Hash]uint64{},
		dirtyDedup: map[types.Hash]struct{}{},
	}
	issues.bus.SetIssues(NewBus(issues))

	return issues
}

func (i *Issues) immutableTree() *iavl.ImmutableTree {
	db := i.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (i *Issues) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	i.db.Store(immutableTree)
}

func (i *Issues) Commit(db *iavl.MutableTree) error {
	dirty := i.getOrderedDirty()
	for _, id := range dirty {
		issue := i.getFromMap(id)

		i.lock.Lock()
		delete(i.dirty, id)
		i.lock.Unlock()

		issue.lock.RLock()
		data, err := i.cdc.MarshalBinaryBare(issue)
		issue.lock.RUnlock()
		if err != nil {
			return fmt.Errorf("can't encode issue %d: %v", id, err)
		}

		db.Set(getPath(id), data)
	}

	for _, key := range i.getOrderedDirtyDedup() {
		i.lock.Lock()
		id := i.dedup[key]
		delete(i.dirtyDedup, key)
		i.lock.Unlock()

		value := make([]byte, 8)
		binary.BigEndian.PutUint64(value, id)
		db.Set(getDedupPath(key), value)
	}

	return nil
}

// Create registers a new issue in Registered status with zero escrow.
func (i *Issues) Create(id uint64, owner types.Address, repository string, number uint32, target *big.Int, height uint64) *Model {
	issue := &Model{
		ID:           id,
		Owner:        owner,
		Repository:   repository,
		Number:       number,
		Target:       target.Bytes(),
		Status:       types.IssueRegistered,
		RegisteredAt: height,
		markDirty:    i.markDirty,
	}

	i.setToMap(id, issue)
	i.markDirty(id)

	key := DedupKey(repository, number)
	i.lock.Lock()
	i.dedup[key] = id
	i.dirtyDedup[key] = struct{}{}
	i.lock.Unlock()

	return issue
}

func (i *Issues) GetIssue(id uint64) *Model {
	return i.get(id)
}

func (i *Issues) GetIDByDedupKey(key types.Hash) (uint64, bool) {
	i.lock.RLock()
	id, ok := i.dedup[key]
	i.lock.RUnlock()
	if ok {
		return id, true
	}

	_, enc := i.immutableTree().Get(getDedupPath(key))
	if len(enc) == 0 {
		return 0, false
	}

	id = binary.BigEndian.Uint64(enc)

	i.lock.Lock()
	i.dedup[key] = id
	i.lock.Unlock()

	return id, true
}

// Fund locks amount on the issue's escrow. Called by the pool during the
// allocation pass, after it already subtracted the same amount. Reaching the
// target moves the issue to Active; reports whether it did.
func (i *Issues) Fund(id uint64, amount *big.Int) bool {
	issue := i.get(id)

	escrow := big.NewInt(0).Add(issue.GetEscrow(), amount)
	issue.setEscrow(escrow)
	i.bus.Checker().AddFunds(amount)

	if escrow.Cmp(issue.GetTarget()) == -1 {
		return false
	}

	issue.setStatus(types.IssueActive)
	return true
}

// Cancel releases the escrow and terminalizes the issue. Returns the amount
// freed, which the caller recycles into the pool.
func (i *Issues) Cancel(id uint64) *big.Int {
	issue := i.get(id)
	freed := issue.GetEscrow()

	issue.setEscrow(big.NewInt(0))
	issue.setStatus(types.IssueCancelled)
	i.bus.Checker().AddFunds(big.NewInt(0).Neg(freed))

	return freed
}

// ReleaseEscrow frees the locked amount without touching the status.
func (i *Issues) ReleaseEscrow(id uint64) *big.Int {
	issue := i.get(id)
	freed := issue.GetEscrow()

	issue.setEscrow(big.NewInt(0))
	i.bus.Checker().AddFunds(big.NewInt(0).Neg(freed))

	return freed
}

// AttachCompetition links the running competition and moves the issue into
// InCompetition.
func (i *Issues) AttachCompetition(id uint64, competitionID uint64) {
	issue := i.get(id)
	issue.setCompetition(competitionID)
	issue.setStatus(types.IssueInCompetition)
}

// DetachCompetition returns a timed out issue back to Active with its escrow
// intact.
func (i *Issues) DetachCompetition(id uint64) {
	issue := i.get(id)
	issue.setCompetition(0)
	issue.setStatus(types.IssueActive)
}

func (i *Issues) Complete(id uint64) {
	i.get(id).setStatus(types.IssueCompleted)
}

func (i *Issues) SetStatus(id uint64, status types.IssueStatus) {
	i.get(id).setStatus(status)
}

func (i *Issues) Export(state *types.AppState) {
	i.immutableTree().IterateRange([]byte{mainPrefix}, []byte{mainPrefix + 1}, true, func(key []byte, value []byte) bool {
		id := binary.BigEndian.Uint64(key[1:])

		issue := i.GetIssue(id)
		if issue == nil {
			return false
		}

		state.Issues = append(state.Issues, types.Issue{
			ID:            issue.ID,
			DedupKey:      DedupKey(issue.Repository, issue.Number),
			Owner:         issue.Owner,
			Repository:    issue.Repository,
			Number:        issue.Number,
			Target:        issue.GetTarget().String(),
			Escrow:        issue.GetEscrow().String(),
			Status:        issue.GetStatus(),
			CompetitionID: issue.GetCompetitionID(),
			RegisteredAt:  issue.RegisteredAt,
		})

		return false
	})

	sort.SliceStable(state.Issues, func(a, b int) bool {
		return state.Issues[a].ID < state.Issues[b].ID
	})
}

// Import restores an issue from genesis without touching the checker.
func (i *Issues) Import(issue types.Issue, target, escrow *big.Int) {
	model := &Model{
		ID:            issue.ID,
		Owner:         issue.Owner,
		Repository:    issue.Repository,
		Number:        issue.Number,
		Target:        target.Bytes(),
		Escrow:        escrow.Bytes(),
		Status:        issue.Status,
		CompetitionID: issue.CompetitionID,
		RegisteredAt:  issue.RegisteredAt,
		markDirty:     i.markDirty,
	}

	i.setToMap(issue.ID, model)
	i.markDirty(issue.ID)

	key := DedupKey(issue.Repository, issue.Number)
	i.lock.Lock()
	i.dedup[key] = issue.ID
	i.dirtyDedup[key] = struct{}{}
	i.lock.Unlock()
}

func (i *Issues) get(id uint64) *Model {
	if issue := i.getFromMap(id); issue != nil {
		return issue
	}

	_, enc := i.immutableTree().Get(getPath(id))
	if len(enc) == 0 {
		return nil
	}

	issue := new(Model)
	if err := i.cdc.UnmarshalBinaryBare(enc, issue); err != nil {
		panic(fmt.Sprintf("failed to decode issue %d: %s", id, err))
	}

	issue.markDirty = i.markDirty
	i.setToMap(id, issue)

	return issue
}

func (i *Issues) getFromMap(id uint64) *Model {
	i.lock.RLock()
	defer i.lock.RUnlock()

	return i.list[id]
}

func (i *Issues) setToMap(id uint64, model *Model) {
	i.lock.Lock()
	defer i.lock.Unlock()

	i.list[id] = model
}

func (i *Issues) markDirty(id uint64) {
	i.lock.Lock()
	defer i.lock.Unlock()
	i.dirty[id] = struct{}{}
}

func (i *Issues) getOrderedDirty() []uint64 {
	i.lock.Lock()
	keys := make([]uint64, 0, len(i.dirty))
	for k := range i.dirty {
		keys = append(keys, k)
	}
	i.lock.Unlock()

	sort.Slice(keys, func(a, b int) bool {
		return keys[a] < keys[b]
	})

	return keys
}

func (i *Issues) getOrderedDirtyDedup() []types.Hash {
	i.lock.Lock()
	keys := make([]types.Hash, 0, len(i.dirtyDedup))
	for k := range i.dirtyDedup {
		keys = append(keys, k)
	}
	i.lock.Unlock()

	sort.Slice(keys, func(a, b int) bool {
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

func getDedupPath(key types.Hash) []byte {
	return append([]byte{dedupPrefix}, key.Bytes()...)
}
