package bus

import (
	"math/big"

	"github.com/gittensor/bounty-go-node/core/types"
)

type Issues interface {
	GetIssue(id uint64) *Issue
	Fund(id uint64, amount *big.Int) bool
}

// Issue is the cross-store view of a registered issue.
type Issue struct {
	ID     uint64
	Owner  types.Address
	Target *big.Int
	Escrow *big.Int
	Status types.IssueStatus
}
