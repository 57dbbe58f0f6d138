package competitions

import (
	"math/big"
	"testing"

	"github.com/gittensor/bounty-go-node/core/state/bus"
	"github.com/gittensor/bounty-go-node/core/state/checker"
	"github.com/gittensor/bounty-go-node/core/types"
	"github.com/gittensor/bounty-go-node/tree"
	db "github.com/tendermint/tm-db"
)

func TestCompetitionsCreateOccupiesMiners(t *testing.T) {
	t.Parallel()
	mutableTree, _ := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	b := bus.NewBus()
	b.SetChecker(checker.NewChecker(b))
	c := NewCompetitions(b, mutableTree.GetLastImmutable())

	a, m := types.Address{1}, types.Address{2}
	c.Create(1, 10, a, m, 5, 105, 205)

	for _, addr := range []types.Address{a, m} {
		id, ok := c.GetOccupancy(addr)
		if !ok || id != 1 {
			t.Fatalf("miner %s not occupied by competition 1", addr.String())
		}
	}

	if _, ok := c.GetOccupancy(types.Address{3}); ok {
		t.Fatal("outsider must not be occupied")
	}
}

func TestCompetitionsCompleteVacatesAndReloads(t *testing.T) {
	t.Parallel()
	mutableTree, _ := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	b := bus.NewBus()
	b.SetChecker(checker.NewChecker(b))
	c := NewCompetitions(b, mutableTree.GetLastImmutable())

	a, m := types.Address{1}, types.Address{2}
	c.Create(1, 10, a, m, 5, 105, 205)
	c.Complete(1, a, types.Hash{0xaa}, big.NewInt(300))

	if _, ok := c.GetOccupancy(a); ok {
		t.Fatal("winner must be vacated after completion")
	}
	if _, ok := c.GetOccupancy(m); ok {
		t.Fatal("loser must be vacated after completion")
	}

	_, _, err := mutableTree.Commit(c)
	if err != nil {
		t.Fatal(err)
	}

	fresh := NewCompetitions(b, mutableTree.GetLastImmutable())
	competition := fresh.GetCompetition(1)
	if competition == nil {
		t.Fatal("competition not found after commit")
	}
	if competition.GetStatus() != types.CompetitionCompleted {
		t.Fatalf("wrong status %s", competition.GetStatus().String())
	}
	if competition.GetWinner() != a {
		t.Fatalf("wrong winner %s", competition.GetWinner().String())
	}
	if competition.GetPayout().Cmp(big.NewInt(300)) != 0 {
		t.Fatalf("wrong payout %s", competition.GetPayout().String())
	}
	if competition.IsPaidOut() {
		t.Fatal("payout flag must start unset")
	}

	if _, ok := fresh.GetOccupancy(a); ok {
		t.Fatal("occupancy must not survive the commit")
	}
}

func TestCompetitionsTimeOutAndCancel(t *testing.T) {
	t.Parallel()
	mutableTree, _ := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	b := bus.NewBus()
	b.SetChecker(checker.NewChecker(b))
	c := NewCompetitions(b, mutableTree.GetLastImmutable())

	c.Create(1, 10, types.Address{1}, types.Address{2}, 5, 105, 205)
	c.TimeOut(1)
	if c.GetCompetition(1).GetStatus() != types.CompetitionTimedOut {
		t.Fatal("competition must be timed out")
	}

	c.Create(2, 11, types.Address{3}, types.Address{4}, 6, 106, 206)
	c.Cancel(2, types.Hash{0xbb})
	competition := c.GetCompetition(2)
	if competition.GetStatus() != types.CompetitionCancelled {
		t.Fatal("competition must be cancelled")
	}
	if competition.ReasonHash != (types.Hash{0xbb}) {
		t.Fatal("cancel reason must be recorded")
	}
}

func TestCompetitionsMarkPaid(t *testing.T) {
	t.Parallel()
	mutableTree, _ := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	b := bus.NewBus()
	b.SetChecker(checker.NewChecker(b))
	c := NewCompetitions(b, mutableTree.GetLastImmutable())

	c.Create(1, 10, types.Address{1}, types.Address{2}, 5, 105, 205)
	c.Complete(1, types.Address{1}, types.Hash{0xaa}, big.NewInt(300))
	c.MarkPaid(1)

	competition := c.GetCompetition(1)
	if !competition.IsPaidOut() {
		t.Fatal("payout flag must be set")
	}
	if competition.GetPayout().Cmp(big.NewInt(300)) != 0 {
		t.Fatal("payout amount must stay recorded after the flag flips")
	}
}
