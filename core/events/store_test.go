package events

import (
	"testing"

	"github.com/gittensor/bounty-go-node/core/types"
	db "github.com/tendermint/tm-db"
)

func TestIEventsDB(t *testing.T) {
	t.Parallel()
	store := NewEventsStore(db.NewMemDB())

	addr1 := types.Address{1}
	addr2 := types.Address{2}

	store.AddEvent(IssueRegistered{
		IssueID:    1,
		DedupKey:   types.HashOf([]byte("org/repo#7")),
		Repository: "org/repo",
		Number:     7,
		Target:     "100",
	})
	store.AddEvent(PoolDeposit{
		Depositor: addr1,
		Amount:    "100",
	})
	err := store.CommitEvents(12)
	if err != nil {
		t.Fatal(err)
	}

	store.AddEvent(CompetitionStarted{
		CompetitionID:      1,
		IssueID:            1,
		ParticipantA:       addr1,
		ParticipantB:       addr2,
		SubmissionDeadline: 14412,
		FinalDeadline:      50412,
	})
	err = store.CommitEvents(13)
	if err != nil {
		t.Fatal(err)
	}

	loaded := store.LoadEvents(12)
	if len(loaded) != 2 {
		t.Fatalf("count of events not equal 2, got %d", len(loaded))
	}
	if loaded[0].Type() != TypeIssueRegistered {
		t.Fatal("invalid event type")
	}
	registered, ok := loaded[0].(IssueRegistered)
	if !ok {
		t.Fatal("invalid event interface")
	}
	if registered.Repository != "org/repo" {
		t.Fatal("invalid repository")
	}
	deposit, ok := loaded[1].(PoolDeposit)
	if !ok {
		t.Fatal("invalid event interface")
	}
	if deposit.Depositor != addr1 {
		t.Fatal("invalid depositor")
	}

	loaded = store.LoadEvents(13)
	if len(loaded) != 1 {
		t.Fatalf("count of events not equal 1, got %d", len(loaded))
	}
	started, ok := loaded[0].(CompetitionStarted)
	if !ok {
		t.Fatal("invalid event interface")
	}
	if started.ParticipantB != addr2 {
		t.Fatal("invalid participant")
	}

	if len(store.LoadEvents(14)) != 0 {
		t.Fatal("unexpected events at empty height")
	}
}
