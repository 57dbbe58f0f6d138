package issues

import (
	"math/big"

	"github.com/gittensor/bounty-go-node/core/state/bus"
)

type Bus struct {
	issues *Issues
}

func NewBus(issues *Issues) *Bus {
	return &Bus{issues: issues}
}

func (b *Bus) GetIssue(id uint64) *bus.Issue {
	issue := b.issues.GetIssue(id)
	if issue == nil {
		return nil
	}

	return &bus.Issue{
		ID:     issue.ID,
		Owner:  issue.Owner,
		Target: issue.GetTarget(),
		Escrow: issue.GetEscrow(),
		Status: issue.GetStatus(),
	}
}

func (b *Bus) Fund(id uint64, amount *big.Int) bool {
	return b.issues.Fund(id, amount)
}
