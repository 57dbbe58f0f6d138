package resolution

import (
	"math/big"
	"sync"

	"github.com/gittensor/bounty-go-node/core/types"
)

// Ballot kinds. Each competition carries at most one ballot of each kind.
const (
	KindSolution = byte(1)
	KindTimeout  = byte(2)
	KindCancel   = byte(3)
)

// Model is a resolution ballot. The first vote opens the ballot and fixes
// its outcome; later votes only add stake to it.
type Model struct {
	CompetitionID uint64
	Kind          byte
	Winner        types.Address
	ProofHash     types.Hash
	ReasonHash    types.Hash
	Voters        []types.Address
	Accumulated   []byte

	markDirty func(kind byte, competitionID uint64)
	lock      sync.RWMutex
}

func (m *Model) GetAccumulated() *big.Int {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return big.NewInt(0).SetBytes(m.Accumulated)
}

func (m *Model) GetVoters() []types.Address {
	m.lock.RLock()
	defer m.lock.RUnlock()

	voters := make([]types.Address, len(m.Voters))
	copy(voters, m.Voters)

	return voters
}

func (m *Model) HasVoted(voter types.Address) bool {
	m.lock.RLock()
	defer m.lock.RUnlock()

	for _, v := range m.Voters {
		if v == voter {
			return true
		}
	}

	return false
}

func (m *Model) addVote(voter types.Address, weight *big.Int) *big.Int {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.Voters = append(m.Voters, voter)
	accumulated := big.NewInt(0).Add(big.NewInt(0).SetBytes(m.Accumulated), weight)
	m.Accumulated = accumulated.Bytes()
	m.markDirty(m.Kind, m.CompetitionID)

	return accumulated
}
