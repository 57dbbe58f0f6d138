package competitions

import (
	"math/big"
	"sync"

	"github.com/gittensor/bounty-go-node/core/types"
)

// Model is a head-to-head competition between two miners over one issue.
// Payout is set on completion and stays on the record until the manual
// payout marks it paid.
type Model struct {
	ID                 uint64
	IssueID            uint64
	ParticipantA       types.Address
	ParticipantB       types.Address
	StartedAt          uint64
	SubmissionDeadline uint64
	FinalDeadline      uint64
	Status             types.CompetitionStatus
	Winner             types.Address
	ProofHash          types.Hash
	ReasonHash         types.Hash
	Payout             []byte
	PaidOut            bool

	markDirty func(id uint64)
	lock      sync.RWMutex
}

func (m *Model) GetStatus() types.CompetitionStatus {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.Status
}

func (m *Model) GetPayout() *big.Int {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return big.NewInt(0).SetBytes(m.Payout)
}

func (m *Model) IsPaidOut() bool {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.PaidOut
}

func (m *Model) GetWinner() types.Address {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.Winner
}

// HasParticipant reports whether the address is one of the two miners.
func (m *Model) HasParticipant(address types.Address) bool {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.ParticipantA == address || m.ParticipantB == address
}

func (m *Model) complete(winner types.Address, proof types.Hash, payout *big.Int) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.Status = types.CompetitionCompleted
	m.Winner = winner
	m.ProofHash = proof
	m.Payout = payout.Bytes()
	m.markDirty(m.ID)
}

func (m *Model) timeOut() {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.Status = types.CompetitionTimedOut
	m.markDirty(m.ID)
}

func (m *Model) cancel(reason types.Hash) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.Status = types.CompetitionCancelled
	m.ReasonHash = reason
	m.markDirty(m.ID)
}

func (m *Model) markPaid() {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.PaidOut = true
	m.markDirty(m.ID)
}
