package pairing

import (
	"math/big"
	"testing"

	"github.com/gittensor/bounty-go-node/core/state/bus"
	"github.com/gittensor/bounty-go-node/core/state/checker"
	"github.com/gittensor/bounty-go-node/core/types"
	"github.com/gittensor/bounty-go-node/tree"
	db "github.com/tendermint/tm-db"
)

func TestPairingProposeAndVote(t *testing.T) {
	t.Parallel()
	mutableTree, _ := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	b := bus.NewBus()
	b.SetChecker(checker.NewChecker(b))
	p := NewPairing(b, mutableTree.GetLastImmutable())

	proposer, voter := types.Address{1}, types.Address{2}
	p.Propose(7, types.Address{10}, types.Address{11}, proposer, 100)

	proposal := p.GetProposal(7)
	if proposal == nil {
		t.Fatal("proposal not found")
	}
	if proposal.GetAccumulated().Sign() != 0 {
		t.Fatal("fresh proposal must have no accumulated weight")
	}

	p.AddVote(7, voter, big.NewInt(40))
	if proposal.GetAccumulated().Cmp(big.NewInt(40)) != 0 {
		t.Fatalf("wrong accumulated weight %s", proposal.GetAccumulated().String())
	}
	if !proposal.HasVoted(voter) {
		t.Fatal("voter must be recorded")
	}
	// Propose alone records no votes; the proposer's vote is added explicitly
	if proposal.HasVoted(proposer) {
		t.Fatal("propose must not record a vote by itself")
	}
}

func TestPairingReproposeResetsVotes(t *testing.T) {
	t.Parallel()
	mutableTree, _ := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	b := bus.NewBus()
	b.SetChecker(checker.NewChecker(b))
	p := NewPairing(b, mutableTree.GetLastImmutable())

	p.Propose(7, types.Address{10}, types.Address{11}, types.Address{1}, 100)
	p.AddVote(7, types.Address{2}, big.NewInt(40))

	// a new pairing for the same issue starts from scratch
	p.Propose(7, types.Address{12}, types.Address{13}, types.Address{1}, 110)

	proposal := p.GetProposal(7)
	if proposal.GetAccumulated().Sign() != 0 {
		t.Fatal("repropose must drop accumulated weight")
	}
	if len(proposal.GetVoters()) != 0 {
		t.Fatal("repropose must drop the voter list")
	}
	if proposal.ParticipantA != (types.Address{12}) {
		t.Fatal("repropose must replace the pair")
	}
}

func TestPairingDeleteSurvivesCommit(t *testing.T) {
	t.Parallel()
	mutableTree, _ := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	b := bus.NewBus()
	b.SetChecker(checker.NewChecker(b))
	p := NewPairing(b, mutableTree.GetLastImmutable())

	p.Propose(7, types.Address{10}, types.Address{11}, types.Address{1}, 100)

	_, _, err := mutableTree.Commit(p)
	if err != nil {
		t.Fatal(err)
	}

	p.Delete(7)
	if p.GetProposal(7) != nil {
		t.Fatal("deleted proposal must not be readable")
	}

	_, _, err = mutableTree.Commit(p)
	if err != nil {
		t.Fatal(err)
	}

	fresh := NewPairing(b, mutableTree.GetLastImmutable())
	if fresh.GetProposal(7) != nil {
		t.Fatal("deleted proposal must not come back after commit")
	}
}

func TestPairingExpiry(t *testing.T) {
	t.Parallel()
	mutableTree, _ := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	b := bus.NewBus()
	b.SetChecker(checker.NewChecker(b))
	p := NewPairing(b, mutableTree.GetLastImmutable())

	proposal := p.Propose(7, types.Address{10}, types.Address{11}, types.Address{1}, 100)

	if proposal.IsExpired(110, 10) {
		t.Fatal("proposal must still be votable at the expiry boundary")
	}
	if !proposal.IsExpired(111, 10) {
		t.Fatal("proposal must expire past the boundary")
	}
}
