package issues

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/gittensor/bounty-go-node/core/types"
)

// Model is a registered issue. Target is the bounty the issue waits for,
// Escrow is the amount currently locked on it. Both are stored as raw
// big-endian bytes.
type Model struct {
	ID            uint64
	Owner         types.Address
	Repository    string
	Number        uint32
	Target        []byte
	Escrow        []byte
	Status        types.IssueStatus
	CompetitionID uint64
	RegisteredAt  uint64

	markDirty func(id uint64)
	lock      sync.RWMutex
}

// DedupKey identifies an issue by repository and number, preventing double
// registration.
func DedupKey(repository string, number uint32) types.Hash {
	return types.HashOf([]byte(fmt.Sprintf("%s#%d", repository, number)))
}

func (m *Model) GetTarget() *big.Int {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return big.NewInt(0).SetBytes(m.Target)
}

func (m *Model) GetEscrow() *big.Int {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return big.NewInt(0).SetBytes(m.Escrow)
}

func (m *Model) GetStatus() types.IssueStatus {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.Status
}

func (m *Model) GetCompetitionID() uint64 {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.CompetitionID
}

func (m *Model) setStatus(status types.IssueStatus) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.Status = status
	m.markDirty(m.ID)
}

func (m *Model) setEscrow(escrow *big.Int) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.Escrow = escrow.Bytes()
	m.markDirty(m.ID)
}

func (m *Model) setCompetition(competitionID uint64) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.CompetitionID = competitionID
	m.markDirty(m.ID)
}
