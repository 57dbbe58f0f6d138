package resolution

import (
	"math/big"
	"testing"

	"github.com/gittensor/bounty-go-node/core/state/bus"
	"github.com/gittensor/bounty-go-node/core/state/checker"
	"github.com/gittensor/bounty-go-node/core/types"
	"github.com/gittensor/bounty-go-node/tree"
	db "github.com/tendermint/tm-db"
)

func TestResolutionBallotsAreIndependentPerKind(t *testing.T) {
	t.Parallel()
	mutableTree, _ := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	b := bus.NewBus()
	b.SetChecker(checker.NewChecker(b))
	r := NewResolution(b, mutableTree.GetLastImmutable())

	winner := types.Address{10}
	r.Open(5, KindSolution, winner, types.Hash{0xaa}, types.Hash{})
	r.Open(5, KindTimeout, types.Address{}, types.Hash{}, types.Hash{})

	r.AddVote(5, KindSolution, types.Address{1}, big.NewInt(30))

	solution := r.GetBallot(5, KindSolution)
	if solution.GetAccumulated().Cmp(big.NewInt(30)) != 0 {
		t.Fatalf("wrong solution weight %s", solution.GetAccumulated().String())
	}
	if solution.Winner != winner {
		t.Fatal("solution ballot must keep the opening outcome")
	}

	timeout := r.GetBallot(5, KindTimeout)
	if timeout.GetAccumulated().Sign() != 0 {
		t.Fatal("timeout ballot must not see solution votes")
	}

	if r.GetBallot(5, KindCancel) != nil {
		t.Fatal("unopened ballot must be nil")
	}
}

func TestResolutionVotesAccumulate(t *testing.T) {
	t.Parallel()
	mutableTree, _ := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	b := bus.NewBus()
	b.SetChecker(checker.NewChecker(b))
	r := NewResolution(b, mutableTree.GetLastImmutable())

	r.Open(5, KindCancel, types.Address{}, types.Hash{}, types.Hash{0xcc})
	r.AddVote(5, KindCancel, types.Address{1}, big.NewInt(30))
	total := r.AddVote(5, KindCancel, types.Address{2}, big.NewInt(25))

	if total.Cmp(big.NewInt(55)) != 0 {
		t.Fatalf("wrong accumulated weight %s", total.String())
	}

	ballot := r.GetBallot(5, KindCancel)
	if !ballot.HasVoted(types.Address{1}) || !ballot.HasVoted(types.Address{2}) {
		t.Fatal("both voters must be recorded")
	}
	if ballot.ReasonHash != (types.Hash{0xcc}) {
		t.Fatal("cancel ballot must keep the opening reason")
	}
}

func TestResolutionClearAll(t *testing.T) {
	t.Parallel()
	mutableTree, _ := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	b := bus.NewBus()
	b.SetChecker(checker.NewChecker(b))
	r := NewResolution(b, mutableTree.GetLastImmutable())

	r.Open(5, KindSolution, types.Address{10}, types.Hash{0xaa}, types.Hash{})
	r.Open(5, KindTimeout, types.Address{}, types.Hash{}, types.Hash{})
	r.Open(6, KindSolution, types.Address{11}, types.Hash{0xbb}, types.Hash{})

	_, _, err := mutableTree.Commit(r)
	if err != nil {
		t.Fatal(err)
	}

	r.ClearAll(5)

	_, _, err = mutableTree.Commit(r)
	if err != nil {
		t.Fatal(err)
	}

	fresh := NewResolution(b, mutableTree.GetLastImmutable())
	if fresh.GetBallot(5, KindSolution) != nil || fresh.GetBallot(5, KindTimeout) != nil {
		t.Fatal("terminalized competition must drop every ballot")
	}
	if fresh.GetBallot(6, KindSolution) == nil {
		t.Fatal("other competitions must keep their ballots")
	}
}
