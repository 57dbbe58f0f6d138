package pool

import (
	"math/big"
	"testing"

	"github.com/gittensor/bounty-go-node/core/events"
	"github.com/gittensor/bounty-go-node/core/state/bus"
	"github.com/gittensor/bounty-go-node/core/state/checker"
	"github.com/gittensor/bounty-go-node/core/state/issues"
	"github.com/gittensor/bounty-go-node/core/types"
	"github.com/gittensor/bounty-go-node/tree"
	db "github.com/tendermint/tm-db"
)

func newTestPool(t *testing.T) (*Pool, *issues.Issues) {
	t.Helper()

	mutableTree, err := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	if err != nil {
		t.Fatal(err)
	}

	b := bus.NewBus()
	b.SetChecker(checker.NewChecker(b))
	b.SetEvents(events.NewMockEvents())

	i := issues.NewIssues(b, mutableTree.GetLastImmutable())
	p := NewPool(b, mutableTree.GetLastImmutable())

	return p, i
}

func TestPoolFillQueueFIFO(t *testing.T) {
	t.Parallel()
	p, i := newTestPool(t)

	i.Create(1, types.Address{1}, "octo/widgets", 1, big.NewInt(100), 1)
	i.Create(2, types.Address{1}, "octo/widgets", 2, big.NewInt(30), 1)
	p.Enqueue(1)
	p.Enqueue(2)

	p.AddToPool(big.NewInt(60))
	p.FillQueue()

	// the head takes all 60 but stays short of its 100 target
	if i.GetIssue(1).GetStatus() != types.IssueRegistered {
		t.Fatal("partly funded head must stay registered")
	}
	if i.GetIssue(1).GetEscrow().Cmp(big.NewInt(60)) != 0 {
		t.Fatalf("head must hold the partial escrow, got %s", i.GetIssue(1).GetEscrow().String())
	}
	if i.GetIssue(2).GetEscrow().Sign() != 0 {
		t.Fatal("later issue must not jump a partly funded head")
	}
	if p.GetAmount().Sign() != 0 {
		t.Fatalf("pool must be drained into the head, got %s", p.GetAmount().String())
	}
	if queue := p.GetQueue(); len(queue) != 2 || queue[0] != 1 {
		t.Fatalf("partly funded head must keep its place, got %v", queue)
	}

	p.AddToPool(big.NewInt(40))
	p.FillQueue()

	// 40 more completes the head, and the remaining 0 cannot start the next
	if i.GetIssue(1).GetStatus() != types.IssueActive {
		t.Fatal("head must activate once fully funded")
	}
	if i.GetIssue(1).GetEscrow().Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("head escrow must reach the target, got %s", i.GetIssue(1).GetEscrow().String())
	}
	if i.GetIssue(2).GetStatus() != types.IssueRegistered || i.GetIssue(2).GetEscrow().Sign() != 0 {
		t.Fatal("second issue must wait for more deposits")
	}

	p.AddToPool(big.NewInt(30))
	p.FillQueue()

	if i.GetIssue(2).GetStatus() != types.IssueActive {
		t.Fatal("second issue must be funded in turn")
	}
	if p.GetAmount().Sign() != 0 {
		t.Fatalf("pool must be drained, got %s", p.GetAmount().String())
	}
	if len(p.GetQueue()) != 0 {
		t.Fatal("queue must be empty after both allocations")
	}
}

func TestPoolFillQueueSkipsStaleHead(t *testing.T) {
	t.Parallel()
	p, i := newTestPool(t)

	i.Create(1, types.Address{1}, "octo/widgets", 1, big.NewInt(100), 1)
	i.Create(2, types.Address{1}, "octo/widgets", 2, big.NewInt(30), 1)
	p.Enqueue(1)
	p.Enqueue(2)

	// head got cancelled while still queued
	i.Cancel(1)

	p.AddToPool(big.NewInt(30))
	p.FillQueue()

	if i.GetIssue(2).GetStatus() != types.IssueActive {
		t.Fatal("stale head must be dropped, not block the queue")
	}
	if len(p.GetQueue()) != 0 {
		t.Fatal("stale head must be removed from the queue")
	}
}

func TestPoolRemoveFromQueue(t *testing.T) {
	t.Parallel()
	p, _ := newTestPool(t)

	p.Enqueue(1)
	p.Enqueue(2)
	p.Enqueue(3)

	if !p.RemoveFromQueue(2) {
		t.Fatal("removal of a queued issue must succeed")
	}
	if p.RemoveFromQueue(2) {
		t.Fatal("second removal must report a miss")
	}

	queue := p.GetQueue()
	if len(queue) != 2 || queue[0] != 1 || queue[1] != 3 {
		t.Fatalf("queue order broken: %v", queue)
	}
}

func TestPoolCommitAndReload(t *testing.T) {
	t.Parallel()
	mutableTree, _ := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	b := bus.NewBus()
	b.SetChecker(checker.NewChecker(b))
	p := NewPool(b, mutableTree.GetLastImmutable())

	p.AddToPool(big.NewInt(77))
	p.Enqueue(5)

	_, _, err := mutableTree.Commit(p)
	if err != nil {
		t.Fatal(err)
	}

	fresh := NewPool(b, mutableTree.GetLastImmutable())
	if fresh.GetAmount().Cmp(big.NewInt(77)) != 0 {
		t.Fatalf("wrong amount after reload: %s", fresh.GetAmount().String())
	}
	queue := fresh.GetQueue()
	if len(queue) != 1 || queue[0] != 5 {
		t.Fatalf("wrong queue after reload: %v", queue)
	}
}
