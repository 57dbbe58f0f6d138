package resolution

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

const mainPrefix = byte('b')

type ballotKey struct {
	kind          byte
	competitionID uint64
}

type RResolution interface {
	GetBallot(competitionID uint64, kind byte) *Model
	Export(state *types.AppState)
}

// Resolution keeps the open ballots of the running competitions.
type Resolution struct {
	list    map[ballotKey]*Model
	dirty   map[ballotKey]struct{}
	deleted map[ballotKey]struct{}

	cdc *amino.Codec
	db  atomic.Value

	bus *bus.Bus

	lock sync.RWMutex
}

func NewResolution(stateBus *bus.Bus, db *iavl.ImmutableTree) *Resolution {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}

	return &Resolution{
		bus:     stateBus,
		cdc:     amino.NewCodec(),
		db:      immutableTree,
		list:    map[ballotKey]*Model{},
		dirty:   map[ballotKey]struct{}{},
		deleted: map[ballotKey]struct{}{},
	}
}

func (r *Resolution) immutableTree() *iavl.ImmutableTree {
	db := r.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (r *Resolution) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	r.db.Store(immutableTree)
}

func (r *Resolution) Commit(db *iavl.MutableTree) error {
	dirty := r.getOrderedDirty()
	for _, key := range dirty {
		r.lock.Lock()
		delete(r.dirty, key)
		_, removed := r.deleted[key]
		delete(r.deleted, key)
		r.lock.Unlock()

		if removed {
			db.Remove(getPath(key.kind, key.competitionID))
			continue
		}

		ballot := r.getFromMap(key)
		if ballot == nil {
			continue
		}

		ballot.lock.RLock()
		data, err := r.cdc.MarshalBinaryBare(ballot)
		ballot.lock.RUnlock()
		if err != nil {
			return fmt.Errorf("can't encode ballot %d/%d: %v", key.kind, key.competitionID, err)
		}

		db.Set(getPath(key.kind, key.competitionID), data)
	}

	return nil
}

// Open creates a ballot with a fixed outcome. Solution ballots carry the
// winner and proof, cancel ballots the reason.
func (r *Resolution) Open(competitionID uint64, kind byte, winner types.Address, proof, reason types.Hash) *Model {
	ballot := &Model{
		CompetitionID: competitionID,
		Kind:          kind,
		Winner:        winner,
		ProofHash:     proof,
		ReasonHash:    reason,
		markDirty:     r.markDirty,
	}

	key := ballotKey{kind: kind, competitionID: competitionID}
	r.lock.Lock()
	r.list[key] = ballot
	delete(r.deleted, key)
	r.lock.Unlock()
	r.markDirty(kind, competitionID)

	return ballot
}

func (r *Resolution) GetBallot(competitionID uint64, kind byte) *Model {
	key := ballotKey{kind: kind, competitionID: competitionID}

	r.lock.RLock()
	_, removed := r.deleted[key]
	r.lock.RUnlock()
	if removed {
		return nil
	}

	return r.get(key)
}

// AddVote records the voter's weight and returns the new accumulated stake.
func (r *Resolution) AddVote(competitionID uint64, kind byte, voter types.Address, weight *big.Int) *big.Int {
	return r.get(ballotKey{kind: kind, competitionID: competitionID}).addVote(voter, weight)
}

// ClearAll drops every ballot of a terminalized competition.
func (r *Resolution) ClearAll(competitionID uint64) {
	for _, kind := range []byte{KindSolution, KindTimeout, KindCancel} {
		key := ballotKey{kind: kind, competitionID: competitionID}

		r.lock.Lock()
		delete(r.list, key)
		r.deleted[key] = struct{}{}
		r.lock.Unlock()
		r.markDirty(kind, competitionID)
	}
}

func (r *Resolution) Export(state *types.AppState) {
	r.immutableTree().IterateRange([]byte{mainPrefix}, []byte{mainPrefix + 1}, true, func(key []byte, value []byte) bool {
		kind := key[1]
		competitionID := binary.BigEndian.Uint64(key[2:])

		ballot := r.GetBallot(competitionID, kind)
		if ballot == nil {
			return false
		}

		state.Ballots = append(state.Ballots, types.Ballot{
			CompetitionID: ballot.CompetitionID,
			Kind:          ballot.Kind,
			Winner:        ballot.Winner,
			ProofHash:     ballot.ProofHash,
			ReasonHash:    ballot.ReasonHash,
			VotedWeight:   ballot.GetAccumulated().String(),
			Voters:        ballot.GetVoters(),
		})

		return false
	})

	sort.SliceStable(state.Ballots, func(a, b int) bool {
		if state.Ballots[a].CompetitionID != state.Ballots[b].CompetitionID {
			return state.Ballots[a].CompetitionID < state.Ballots[b].CompetitionID
		}
		return state.Ballots[a].Kind < state.Ballots[b].Kind
	})
}

// Import restores a ballot from genesis.
func (r *Resolution) Import(ballot types.Ballot, accumulated *big.Int) {
	model := &Model{
		CompetitionID: ballot.CompetitionID,
		Kind:          ballot.Kind,
		Winner:        ballot.Winner,
		ProofHash:     ballot.ProofHash,
		ReasonHash:    ballot.ReasonHash,
		Voters:        append([]types.Address{}, ballot.Voters...),
		Accumulated:   accumulated.Bytes(),
		markDirty:     r.markDirty,
	}

	key := ballotKey{kind: ballot.Kind, competitionID: ballot.CompetitionID}
	r.lock.Lock()
	r.list[key] = model
	r.lock.Unlock()
	r.markDirty(ballot.Kind, ballot.CompetitionID)
}

func (r *Resolution) get(key ballotKey) *Model {
	if ballot := r.getFromMap(key); ballot != nil {
		return ballot
	}

	_, enc := r.immutableTree().Get(getPath(key.kind, key.competitionID))
	if len(enc) == 0 {
		return nil
	}

	ballot := new(Model)
	if err := r.cdc.UnmarshalBinaryBare(enc, ballot); err != nil {
		panic(fmt.Sprintf("failed to decode ballot %d/%d: %s", key.kind, key.competitionID, err))
	}

	ballot.markDirty = r.markDirty
	r.setToMap(key, ballot)

	return ballot
}

func (r *Resolution) getFromMap(key ballotKey) *Model {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.list[key]
}

func (r *Resolution) setToMap(key ballotKey, model *Model) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.list[key] = model
}

func (r *Resolution) markDirty(kind byte, competitionID uint64) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.dirty[ballotKey{kind: kind, competitionID: competitionID}] = struct{}{}
}

func (r *Resolution) getOrderedDirty() []ballotKey {
	r.lock.Lock()
	keys := make([]ballotKey, 0, len(r.dirty))
	for k := range r.dirty {
		keys = append(keys, k)
	}
	r.lock.Unlock()

	sort.Slice(keys, func(a, b int) bool {
		if keys[a].kind != keys[b].kind {
			return keys[a].kind < keys[b].kind
		}
		return keys[a].competitionID < keys[b].competitionID
	})

	return keys
}

func getPath(kind byte, competitionID uint64) []byte {
	path := make([]byte, 10)
	path[0] = mainPrefix
	path[1] = kind
	binary.BigEndian.PutUint64(path[2:], competitionID)

	return path
}
