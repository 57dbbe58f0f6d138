package state

import (
	"log"
	"sync"

	"github.com/cosmos/iavl"
	"github.com/gittensor/bounty-go-node/core/events"
	"github.com/gittensor/bounty-go-node/core/state/app"
	"github.com/gittensor/bounty-go-node/core/state/bus"
	"github.com/gittensor/bounty-go-node/core/state/checker"
	"github.com/gittensor/bounty-go-node/core/state/competitions"
	"github.com/gittensor/bounty-go-node/core/state/issues"
	"github.com/gittensor/bounty-go-node/core/state/pairing"
	"github.com/gittensor/bounty-go-node/core/state/pool"
	"github.com/gittensor/bounty-go-node/core/state/resolution"
	"github.com/gittensor/bounty-go-node/core/types"
	"github.com/gittensor/bounty-go-node/helpers"
	"github.com/gittensor/bounty-go-node/tree"
	db "github.com/tendermint/tm-db"
)

// CheckState is the read-only view over the last committed version.
type CheckState struct {
	state *State
}

func NewCheckState(state *State) *CheckState {
	return &CheckState{state: state}
}

func (cs *CheckState) App() app.RApp {
	return cs.state.App
}

func (cs *CheckState) Issues() issues.RIssues {
	return cs.state.Issues
}

func (cs *CheckState) Pool() pool.RPool {
	return cs.state.Pool
}

func (cs *CheckState) Competitions() competitions.RCompetitions {
	return cs.state.Competitions
}

func (cs *CheckState) Pairing() pairing.RPairing {
	return cs.state.Pairing
}

func (cs *CheckState) Resolution() resolution.RResolution {
	return cs.state.Resolution
}

func (cs *CheckState) Export() types.AppState {
	appState := new(types.AppState)
	cs.state.App.Export(appState)
	cs.state.Issues.Export(appState)
	cs.state.Pool.Export(appState)
	cs.state.Competitions.Export(appState)
	cs.state.Pairing.Export(appState)
	cs.state.Resolution.Export(appState)

	return *appState
}

// State is the mutable ledger state assembled from the sub-stores sharing
// one iavl tree.
type State struct {
	App          *app.App
	Issues       *issues.Issues
	Pool         *pool.Pool
	Competitions *competitions.Competitions
	Pairing      *pairing.Pairing
	Resolution   *resolution.Resolution
	Checker      *checker.Checker

	db             db.DB
	events         events.IEventsDB
	tree           tree.MTree
	keepLastStates int64

	bus            *bus.Bus
	lock           sync.RWMutex
	height         int64
	initialVersion int64
}

func NewState(height uint64, db db.DB, events events.IEventsDB, cacheSize int, keepLastStates int64, initialVersion uint64) (*State, error) {
	iavlTree, err := tree.NewMutableTree(height, db, cacheSize, initialVersion)
	if err != nil {
		return nil, err
	}

	state, err := newStateForTree(iavlTree.GetLastImmutable(), events, db, keepLastStates)
	if err != nil {
		return nil, err
	}

	state.tree = iavlTree
	state.height = int64(height)
	state.initialVersion = int64(initialVersion)

	return state, nil
}

func NewCheckStateAtHeight(height uint64, db db.DB) (*CheckState, error) {
	iavlTree, err := tree.NewImmutableTree(height, db)
	if err != nil {
		return nil, err
	}
	return newCheckStateForTree(iavlTree, nil, db)
}

func (s *State) Tree() tree.MTree {
	return s.tree
}

func (s *State) Bus() *bus.Bus {
	return s.bus
}

func (s *State) Lock() {
	s.lock.Lock()
}

func (s *State) Unlock() {
	s.lock.Unlock()
}

func (s *State) RLock() {
	s.lock.RLock()
}

func (s *State) RUnlock() {
	s.lock.RUnlock()
}

func (s *State) Check() error {
	return s.Checker.Check()
}

func (s *State) Commit() ([]byte, error) {
	s.Checker.Reset()

	hash, version, err := s.tree.Commit(
		s.App,
		s.Issues,
		s.Pool,
		s.Competitions,
		s.Pairing,
		s.Resolution,
	)
	if err != nil {
		return hash, err
	}

	s.height = version

	if s.keepLastStates < 1 {
		return hash, nil
	}

	versionToDelete := version - s.keepLastStates - 1
	if versionToDelete < s.initialVersion {
		return hash, nil
	}

	if err := s.tree.DeleteVersion(versionToDelete); err != nil {
		log.Printf("DeleteVersion %d error: %s\n", versionToDelete, err)
	}

	return hash, nil
}

func (s *State) Height() uint64 {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return uint64(s.height)
}

// Import replays a genesis app state into the stores. The checker is reset
// afterwards so the restored balances do not count as a block delta.
func (s *State) Import(appState types.AppState) error {
	if err := appState.Verify(); err != nil {
		return err
	}

	s.App.SetOwner(appState.Owner)
	s.App.SetTreasury(appState.Treasury)
	s.App.SetMinBounty(helpers.StringToBigInt(appState.Params.MinBounty))
	s.App.SetWindows(
		appState.Params.SubmissionWindow,
		appState.Params.CompetitionDeadline,
		appState.Params.ProposalExpiry,
		appState.Params.ConsensusPercent,
	)
	s.App.SetNextIssueID(appState.NextIssueID)
	s.App.SetNextCompetitionID(appState.NextCompetitionID)
	s.App.SetTotalDeposited(helpers.StringToBigInt(appState.TotalDeposited))
	s.App.SetTotalPaidOut(helpers.StringToBigInt(appState.TotalPaidOut))

	for _, issue := range appState.Issues {
		s.Issues.Import(issue, helpers.StringToBigInt(issue.Target), helpers.StringToBigInt(issue.Escrow))
	}

	s.Pool.Import(helpers.StringToBigInt(appState.Pool), appState.FundingQueue)

	for _, competition := range appState.Competitions {
		s.Competitions.Import(competition, helpers.StringToBigInt(competition.Payout))
	}

	for _, proposal := range appState.PairProposals {
		s.Pairing.Import(proposal, helpers.StringToBigInt(proposal.VotedWeight))
	}

	for _, ballot := range appState.Ballots {
		s.Resolution.Import(ballot, helpers.StringToBigInt(ballot.VotedWeight))
	}

	s.Checker.Reset()

	return nil
}

func newCheckStateForTree(immutableTree *iavl.ImmutableTree, events events.IEventsDB, db db.DB) (*CheckState, error) {
	stateForTree, err := newStateForTree(immutableTree, events, db, 0)
	if err != nil {
		return nil, err
	}

	return NewCheckState(stateForTree), nil
}

func newStateForTree(immutableTree *iavl.ImmutableTree, events events.IEventsDB, db db.DB, keepLastStates int64) (*State, error) {
	stateBus := bus.NewBus()
	stateBus.SetEvents(events)

	stateChecker := checker.NewChecker(stateBus)
	issuesState := issues.NewIssues(stateBus, immutableTree)
	poolState := pool.NewPool(stateBus, immutableTree)
	competitionsState := competitions.NewCompetitions(stateBus, immutableTree)
	pairingState := pairing.NewPairing(stateBus, immutableTree)
	resolutionState := resolution.NewResolution(stateBus, immutableTree)
	appState := app.NewApp(stateBus, immutableTree)

	state := &State{
		App:          appState,
		Issues:       issuesState,
		Pool:         poolState,
		Competitions: competitionsState,
		Pairing:      pairingState,
		Resolution:   resolutionState,
		Checker:      stateChecker,

		bus:            stateBus,
		db:             db,
		events:         events,
		keepLastStates: keepLastStates,
	}

	if immutableTree != nil {
		state.height = immutableTree.Version()
	}

	return state, nil
}
