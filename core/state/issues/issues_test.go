package issues

import (
	"math/big"
	"testing"

	"github.com/gittensor/bounty-go-node/core/state/bus"
	"github.com/gittensor/bounty-go-node/core/state/checker"
	"github.com/gittensor/bounty-go-node/core/types"
	"github.com/gittensor/bounty-go-node/tree"
	db "github.com/tendermint/tm-db"
)

func TestIssuesCreateAndReload(t *testing.T) {
	t.Parallel()
	mutableTree, _ := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	b := bus.NewBus()
	b.SetChecker(checker.NewChecker(b))
	i := NewIssues(b, mutableTree.GetLastImmutable())

	owner := types.Address{1}
	i.Create(1, owner, "octo/widgets", 7, big.NewInt(500), 10)

	_, _, err := mutableTree.Commit(i)
	if err != nil {
		t.Fatal(err)
	}

	// drop the cache, force a read from the tree
	fresh := NewIssues(b, mutableTree.GetLastImmutable())
	issue := fresh.GetIssue(1)
	if issue == nil {
		t.Fatal("issue not found after commit")
	}
	if issue.Owner != owner {
		t.Fatalf("wrong owner %s", issue.Owner.String())
	}
	if issue.GetStatus() != types.IssueRegistered {
		t.Fatalf("wrong status %s", issue.GetStatus().String())
	}
	if issue.GetTarget().Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("wrong target %s", issue.GetTarget().String())
	}
	if issue.GetEscrow().Sign() != 0 {
		t.Fatal("escrow must be zero before activation")
	}
}

func TestIssuesDedupIndex(t *testing.T) {
	t.Parallel()
	mutableTree, _ := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	b := bus.NewBus()
	b.SetChecker(checker.NewChecker(b))
	i := NewIssues(b, mutableTree.GetLastImmutable())

	i.Create(3, types.Address{1}, "octo/widgets", 42, big.NewInt(100), 1)

	_, _, err := mutableTree.Commit(i)
	if err != nil {
		t.Fatal(err)
	}

	fresh := NewIssues(b, mutableTree.GetLastImmutable())
	id, ok := fresh.GetIDByDedupKey(DedupKey("octo/widgets", 42))
	if !ok || id != 3 {
		t.Fatalf("dedup lookup failed: id %d, ok %v", id, ok)
	}

	if _, ok := fresh.GetIDByDedupKey(DedupKey("octo/widgets", 43)); ok {
		t.Fatal("dedup lookup must miss for an unknown issue")
	}
}

func TestIssuesFundAccumulatesEscrow(t *testing.T) {
	t.Parallel()
	mutableTree, _ := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	b := bus.NewBus()
	b.SetChecker(checker.NewChecker(b))
	i := NewIssues(b, mutableTree.GetLastImmutable())

	i.Create(1, types.Address{1}, "octo/widgets", 1, big.NewInt(250), 1)

	if i.Fund(1, big.NewInt(100)) {
		t.Fatal("100 of 250 must not activate the issue")
	}

	issue := i.GetIssue(1)
	if issue.GetStatus() != types.IssueRegistered {
		t.Fatalf("wrong status %s", issue.GetStatus().String())
	}
	if issue.GetEscrow().Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("wrong escrow %s", issue.GetEscrow().String())
	}

	if !i.Fund(1, big.NewInt(150)) {
		t.Fatal("reaching the target must activate the issue")
	}
	if issue.GetStatus() != types.IssueActive {
		t.Fatalf("wrong status %s", issue.GetStatus().String())
	}
	if issue.GetEscrow().Cmp(big.NewInt(250)) != 0 {
		t.Fatalf("wrong escrow %s", issue.GetEscrow().String())
	}
}

func TestIssuesCancelFreesEscrow(t *testing.T) {
	t.Parallel()
	mutableTree, _ := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	b := bus.NewBus()
	b.SetChecker(checker.NewChecker(b))
	i := NewIssues(b, mutableTree.GetLastImmutable())

	i.Create(1, types.Address{1}, "octo/widgets", 1, big.NewInt(250), 1)
	i.Fund(1, big.NewInt(250))

	freed := i.Cancel(1)
	if freed.Cmp(big.NewInt(250)) != 0 {
		t.Fatalf("wrong freed amount %s", freed.String())
	}

	issue := i.GetIssue(1)
	if issue.GetStatus() != types.IssueCancelled {
		t.Fatalf("wrong status %s", issue.GetStatus().String())
	}
	if issue.GetEscrow().Sign() != 0 {
		t.Fatal("escrow must be zero after cancel")
	}
}

func TestIssuesCompetitionLifecycle(t *testing.T) {
	t.Parallel()
	mutableTree, _ := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	b := bus.NewBus()
	b.SetChecker(checker.NewChecker(b))
	i := NewIssues(b, mutableTree.GetLastImmutable())

	i.Create(1, types.Address{1}, "octo/widgets", 1, big.NewInt(250), 1)
	i.Fund(1, big.NewInt(250))

	i.AttachCompetition(1, 9)
	issue := i.GetIssue(1)
	if issue.GetStatus() != types.IssueInCompetition || issue.GetCompetitionID() != 9 {
		t.Fatal("issue not attached to competition")
	}

	i.DetachCompetition(1)
	if issue.GetStatus() != types.IssueActive || issue.GetCompetitionID() != 0 {
		t.Fatal("issue not detached from competition")
	}
	if issue.GetEscrow().Cmp(big.NewInt(250)) != 0 {
		t.Fatal("escrow must survive a detach")
	}
}
