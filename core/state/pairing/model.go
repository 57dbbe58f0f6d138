package pairing

import (
	"math/big"
	"sync"

	"github.com/gittensor/bounty-go-node/core/types"
)

// Model is the open pair proposal for an issue. A new proposal overwrites
// the previous one and resets its votes.
type Model struct {
	IssueID      uint64
	ParticipantA types.Address
	ParticipantB types.Address
	Proposer     types.Address
	ProposedAt   uint64
	Voters       []types.Address
	Accumulated  []byte

	markDirty func(issueID uint64)
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

// IsExpired reports whether the proposal is older than the expiry window.
func (m *Model) IsExpired(now, expiry uint64) bool {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return now > m.ProposedAt+expiry
}

func (m *Model) addVote(voter types.Address, weight *big.Int) *big.Int {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.Voters = append(m.Voters, voter)
	accumulated := big.NewInt(0).Add(big.NewInt(0).SetBytes(m.Accumulated), weight)
	m.Accumulated = accumulated.Bytes()
	m.markDirty(m.IssueID)

	return accumulated
}
