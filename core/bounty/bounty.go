package bounty

import (
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/gittensor/bounty-go-node/config"
	"github.com/gittensor/bounty-go-node/core/appdb"
	"github.com/gittensor/bounty-go-node/core/code"
	"github.com/gittensor/bounty-go-node/core/events"
	"github.com/gittensor/bounty-go-node/core/oracle"
	"github.com/gittensor/bounty-go-node/core/state"
	"github.com/gittensor/bounty-go-node/core/state/competitions"
	"github.com/gittensor/bounty-go-node/core/state/issues"
	"github.com/gittensor/bounty-go-node/core/state/resolution"
	"github.com/gittensor/bounty-go-node/core/types"
	"github.com/gittensor/bounty-go-node/helpers"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/tendermint/tendermint/libs/log"
	db "github.com/tendermint/tm-db"
)

// Ledger is the bounty competition state machine. Every operation validates
// against the current state, applies its writes and emits events; Commit
// seals the block, checks fund conservation and persists a new tree version.
type Ledger struct {
	stateDeliver *state.State
	stateCheck   *state.CheckState

	appDB    *appdb.AppDB
	stateDB  db.DB
	eventsDB events.IEventsDB
	oracle   *oracle.Oracle

	cfg    *config.Config
	logger log.Logger

	lock   sync.RWMutex
	height uint64
}

// NewLedger opens the node storages and loads the state at the last
// committed height.
func NewLedger(cfg *config.Config, logger log.Logger) (*Ledger, error) {
	appDB, err := openDB("app", cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open app db")
	}
	stateDB, err := openDB("state", cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open state db")
	}
	eventsDB, err := openDB("events", cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open events db")
	}

	ledger, err := newLedger(appDB, stateDB, eventsDB, cfg.StateCacheSize, cfg.KeepLastStates, logger)
	if err != nil {
		return nil, err
	}

	ledger.cfg = cfg
	return ledger, nil
}

func newLedger(applicationDB, stateDB, eventsDB db.DB, cacheSize int, keepLastStates int64, logger log.Logger) (*Ledger, error) {
	applicationStore := appdb.NewAppDB(applicationDB)
	height := applicationStore.GetLastHeight()

	eventsStore := events.NewEventsStore(eventsDB)
	stakeOracle := oracle.NewOracle()

	stateDeliver, err := state.NewState(height, stateDB, eventsStore, cacheSize, keepLastStates, 0)
	if err != nil {
		return nil, fmt.Errorf("can't load state at height %d: %w", height, err)
	}

	return &Ledger{
		stateDeliver: stateDeliver,
		stateCheck:   state.NewCheckState(stateDeliver),
		appDB:        applicationStore,
		stateDB:      stateDB,
		eventsDB:     eventsStore,
		oracle:       stakeOracle,
		logger:       logger,
		height:       height,
	}, nil
}

func openDB(name string, cfg *config.Config) (db.DB, error) {
	if cfg.DBBackend == "memdb" {
		return db.NewMemDB(), nil
	}

	return db.NewGoLevelDBWithOpts(name, cfg.DBDir(), getDbOpts(cfg.StateMemAvailable))
}

func getDbOpts(memLimit int) *opt.Options {
	if memLimit < 1024 {
		memLimit = 1024
	}
	return &opt.Options{
		OpenFilesCacheCapacity: memLimit,
		BlockCacheCapacity:     memLimit / 2 * opt.MiB,
		WriteBuffer:            memLimit / 4 * opt.MiB, // Two of these are used internally
		Filter:                 filter.NewBloomFilter(10),
	}
}

// Height returns the last committed height.
func (l *Ledger) Height() uint64 {
	return atomic.LoadUint64(&l.height)
}

// now is the height of the block currently being built.
func (l *Ledger) now() uint64 {
	return l.Height() + 1
}

// CurrentState returns the read-only view over the ledger state.
func (l *Ledger) CurrentState() *state.CheckState {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.stateCheck
}

// GetStateForHeight returns the read-only state at the given height.
func (l *Ledger) GetStateForHeight(height uint64) (*state.CheckState, error) {
	if height > 0 {
		s, err := state.NewCheckStateAtHeight(height, l.stateDB)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return l.CurrentState(), nil
}

// Oracle returns the stake oracle fed from outside the ledger.
func (l *Ledger) Oracle() *oracle.Oracle {
	return l.oracle
}

// GetEventsDB returns the per-height event journal.
func (l *Ledger) GetEventsDB() events.IEventsDB {
	return l.eventsDB
}

// InitGenesis replays a genesis app state into an empty ledger.
func (l *Ledger) InitGenesis(appState types.AppState) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if l.Height() != 0 {
		return fmt.Errorf("genesis import on non-empty ledger at height %d", l.Height())
	}

	return l.stateDeliver.Import(appState)
}

// Commit checks fund conservation, persists the block and advances the
// height.
func (l *Ledger) Commit() ([]byte, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	if err := l.stateDeliver.Check(); err != nil {
		return nil, err
	}

	hash, err := l.stateDeliver.Commit()
	if err != nil {
		return nil, err
	}

	height := l.stateDeliver.Height()

	if err := l.eventsDB.CommitEvents(height); err != nil {
		return nil, err
	}

	l.appDB.SetLastBlockHash(hash)
	l.appDB.SetLastHeight(height)
	atomic.StoreUint64(&l.height, height)

	l.logger.Info("Committed state", "height", height, "hash", fmt.Sprintf("%X", hash))

	return hash, nil
}

// Close closes the node storages.
func (l *Ledger) Close() error {
	if err := l.appDB.Close(); err != nil {
		return err
	}
	if err := l.stateDB.Close(); err != nil {
		return err
	}
	return nil
}

// RegisterIssue registers a repository issue and queues it for funding. The
// allocation pass runs immediately, so a funded pool activates the issue in
// the same block.
func (l *Ledger) RegisterIssue(owner types.Address, repository string, number uint32, target *big.Int) (uint64, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	if !types.IsValidRepositoryName(repository) {
		return 0, code.NewInvalidIdentifier(repository, number, fmt.Sprintf("invalid repository name %q", repository))
	}

	if number == 0 {
		return 0, code.NewInvalidIdentifier(repository, number, "issue number must be positive")
	}

	if target == nil || target.Sign() != 1 {
		return 0, code.NewInvalidAmount(bigString(target), "bounty target must be a positive amount")
	}

	minBounty := l.stateDeliver.App.GetMinBounty()
	if target.Cmp(minBounty) == -1 {
		return 0, code.NewBelowMinimum(minBounty.String(), target.String(), fmt.Sprintf("bounty target %s is below the minimum %s", target, minBounty))
	}

	dedupKey := issues.DedupKey(repository, number)
	if existingID, ok := l.stateDeliver.Issues.GetIDByDedupKey(dedupKey); ok {
		return 0, code.NewDuplicateItem(dedupKey.String(), existingID, fmt.Sprintf("issue %s#%d is already registered", repository, number))
	}

	id := l.stateDeliver.App.TakeIssueID()
	l.stateDeliver.Issues.Create(id, owner, repository, number, target, l.now())
	l.stateDeliver.Pool.Enqueue(id)

	l.eventsDB.AddEvent(events.IssueRegistered{
		IssueID:    id,
		DedupKey:   dedupKey,
		Repository: repository,
		Number:     number,
		Target:     target.String(),
	})

	l.stateDeliver.Pool.FillQueue()

	return id, nil
}

// Deposit credits the pool and runs the allocation pass. A zero amount is a
// no-op.
func (l *Ledger) Deposit(from types.Address, amount *big.Int) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if amount == nil || amount.Sign() == -1 {
		return code.NewInvalidAmount(bigString(amount), "deposit can not be negative")
	}

	if amount.Sign() == 0 {
		return nil
	}

	l.stateDeliver.Pool.AddToPool(amount)
	l.stateDeliver.App.AddTotalDeposited(amount)

	l.eventsDB.AddEvent(events.PoolDeposit{
		Depositor: from,
		Amount:    amount.String(),
	})

	l.stateDeliver.Pool.FillQueue()

	return nil
}

// CancelIssue lets the ledger owner withdraw an issue before a competition
// starts. Escrow, if any, returns to the pool and the allocation pass runs on
// it.
func (l *Ledger) CancelIssue(sender types.Address, issueID uint64) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if err := l.requireOwner(sender); err != nil {
		return err
	}

	issue := l.stateDeliver.Issues.GetIssue(issueID)
	if issue == nil {
		return code.NewIssueNotFound(issueID, fmt.Sprintf("issue %d not found", issueID))
	}

	status := issue.GetStatus()
	if status != types.IssueRegistered && status != types.IssueActive {
		return code.NewIssueNotCancellable(issueID, status.String(), fmt.Sprintf("issue %d is %s and can not be cancelled", issueID, status))
	}

	if status == types.IssueRegistered {
		l.stateDeliver.Pool.RemoveFromQueue(issueID)
	}

	freed := l.stateDeliver.Issues.Cancel(issueID)
	l.stateDeliver.Pool.AddToPool(freed)

	l.eventsDB.AddEvent(events.IssueCancelled{
		IssueID:  issueID,
		Returned: freed.String(),
	})

	l.stateDeliver.Pool.FillQueue()

	return nil
}

// ProposePair opens a pair proposal for a funded issue, replacing any
// previous proposal and its votes. The proposer is the proposal's first
// voter, so a sufficiently staked proposer starts the competition at once.
func (l *Ledger) ProposePair(proposer types.Address, issueID uint64, a, b types.Address) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	issue := l.stateDeliver.Issues.GetIssue(issueID)
	if issue == nil {
		return code.NewIssueNotFound(issueID, fmt.Sprintf("issue %d not found", issueID))
	}

	if status := issue.GetStatus(); status != types.IssueActive {
		return code.NewIssueNotActive(issueID, status.String(), fmt.Sprintf("issue %d is %s, pairing needs an active issue", issueID, status))
	}

	if a == b {
		return code.NewSameParticipant(a.String(), "a competition needs two distinct miners")
	}

	if id, ok := l.stateDeliver.Competitions.GetOccupancy(a); ok {
		return code.NewAlreadyCompeting(a.String(), id, fmt.Sprintf("%s already competes in competition %d", a, id))
	}
	if id, ok := l.stateDeliver.Competitions.GetOccupancy(b); ok {
		return code.NewAlreadyCompeting(b.String(), id, fmt.Sprintf("%s already competes in competition %d", b, id))
	}

	weight := l.oracle.WeightOf(proposer)
	if weight.Sign() != 1 {
		return code.NewNoStake(proposer.String(), fmt.Sprintf("%s has no stake", proposer))
	}

	now := l.now()
	l.stateDeliver.Pairing.Propose(issueID, a, b, proposer, now)
	accumulated := l.stateDeliver.Pairing.AddVote(issueID, proposer, weight)

	l.eventsDB.AddEvent(events.PairVoteCast{
		IssueID: issueID,
		Voter:   proposer,
		Weight:  weight.String(),
	})

	if l.thresholdPassed(accumulated) {
		l.startCompetition(issueID, a, b, now)
	}

	return nil
}

// VotePair adds the voter's stake to the open pair proposal. Passing the
// consensus threshold starts the competition.
func (l *Ledger) VotePair(voter types.Address, issueID uint64) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	issue := l.stateDeliver.Issues.GetIssue(issueID)
	if issue == nil {
		return code.NewIssueNotFound(issueID, fmt.Sprintf("issue %d not found", issueID))
	}

	if status := issue.GetStatus(); status != types.IssueActive {
		return code.NewIssueNotActive(issueID, status.String(), fmt.Sprintf("issue %d is %s, pairing needs an active issue", issueID, status))
	}

	proposal := l.stateDeliver.Pairing.GetProposal(issueID)
	if proposal == nil {
		return code.NewProposalNotFound(issueID, fmt.Sprintf("no open pair proposal for issue %d", issueID))
	}

	now := l.now()
	expiry := l.stateDeliver.App.GetProposalExpiry()
	if proposal.IsExpired(now, expiry) {
		l.stateDeliver.Pairing.Delete(issueID)
		return code.NewExpired(proposal.ProposedAt, proposal.ProposedAt+expiry, fmt.Sprintf("pair proposal for issue %d expired at height %d", issueID, proposal.ProposedAt+expiry))
	}

	// A proposal can go stale while collecting votes.
	if id, ok := l.stateDeliver.Competitions.GetOccupancy(proposal.ParticipantA); ok {
		l.stateDeliver.Pairing.Delete(issueID)
		return code.NewAlreadyCompeting(proposal.ParticipantA.String(), id, fmt.Sprintf("%s already competes in competition %d", proposal.ParticipantA, id))
	}
	if id, ok := l.stateDeliver.Competitions.GetOccupancy(proposal.ParticipantB); ok {
		l.stateDeliver.Pairing.Delete(issueID)
		return code.NewAlreadyCompeting(proposal.ParticipantB.String(), id, fmt.Sprintf("%s already competes in competition %d", proposal.ParticipantB, id))
	}

	if proposal.HasVoted(voter) {
		return code.NewAlreadyVoted(voter.String(), fmt.Sprintf("%s already voted on the pair proposal for issue %d", voter, issueID))
	}

	weight := l.oracle.WeightOf(voter)
	if weight.Sign() != 1 {
		return code.NewNoStake(voter.String(), fmt.Sprintf("%s has no stake", voter))
	}

	accumulated := l.stateDeliver.Pairing.AddVote(issueID, voter, weight)

	l.eventsDB.AddEvent(events.PairVoteCast{
		IssueID: issueID,
		Voter:   voter,
		Weight:  weight.String(),
	})

	total := l.oracle.TotalWeight()
	percent := l.stateDeliver.App.GetConsensusPercent()
	if !helpers.ExceedsThreshold(accumulated, total, percent) {
		return nil
	}

	l.startCompetition(issueID, proposal.ParticipantA, proposal.ParticipantB, now)

	return nil
}

func (l *Ledger) startCompetition(issueID uint64, a, b types.Address, now uint64) {
	id := l.stateDeliver.App.TakeCompetitionID()
	submissionDeadline := now + l.stateDeliver.App.GetSubmissionWindow()
	finalDeadline := now + l.stateDeliver.App.GetCompetitionDeadline()

	l.stateDeliver.Competitions.Create(id, issueID, a, b, now, submissionDeadline, finalDeadline)
	l.stateDeliver.Issues.AttachCompetition(issueID, id)
	l.stateDeliver.Pairing.Delete(issueID)

	l.eventsDB.AddEvent(events.CompetitionStarted{
		CompetitionID:      id,
		IssueID:            issueID,
		ParticipantA:       a,
		ParticipantB:       b,
		SubmissionDeadline: submissionDeadline,
		FinalDeadline:      finalDeadline,
	})

	l.logger.Info("Competition started", "competition", id, "issue", issueID)
}

// VoteSolution votes that the winner solved the issue. Voting opens once the
// submission window has passed. The first vote fixes the ballot's winner and
// proof; the stake of every later vote counts toward that stored outcome,
// though each vote still has to name a valid participant. Passing the
// threshold completes the competition.
func (l *Ledger) VoteSolution(voter types.Address, competitionID uint64, winner types.Address, proof types.Hash) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	competition, err := l.activeCompetition(competitionID)
	if err != nil {
		return err
	}

	if !competition.HasParticipant(winner) {
		return code.NewInvalidWinner(winner.String(), fmt.Sprintf("%s is not a participant of competition %d", winner, competitionID))
	}

	if now := l.now(); now <= competition.SubmissionDeadline {
		return code.NewTooEarly(now, competition.SubmissionDeadline, fmt.Sprintf("submission window of competition %d runs until height %d", competitionID, competition.SubmissionDeadline))
	}

	ballot := l.stateDeliver.Resolution.GetBallot(competitionID, resolution.KindSolution)
	if ballot == nil {
		ballot = l.stateDeliver.Resolution.Open(competitionID, resolution.KindSolution, winner, proof, types.Hash{})
	}

	weight, err := l.ballotVote(ballot, voter)
	if err != nil {
		return err
	}

	accumulated := l.stateDeliver.Resolution.AddVote(competitionID, resolution.KindSolution, voter, weight)

	l.eventsDB.AddEvent(events.SolutionVoteCast{
		CompetitionID: competitionID,
		Voter:         voter,
		Weight:        weight.String(),
	})

	if !l.thresholdPassed(accumulated) {
		return nil
	}

	// Consensus executes the outcome stored on the ballot.
	payout := l.stateDeliver.Issues.ReleaseEscrow(competition.IssueID)
	l.stateDeliver.Competitions.Complete(competitionID, ballot.Winner, ballot.ProofHash, payout)
	l.stateDeliver.Issues.Complete(competition.IssueID)
	l.stateDeliver.Resolution.ClearAll(competitionID)

	l.eventsDB.AddEvent(events.CompetitionCompleted{
		CompetitionID: competitionID,
		IssueID:       competition.IssueID,
		Winner:        ballot.Winner,
		ProofHash:     ballot.ProofHash,
		Payout:        payout.String(),
	})

	l.logger.Info("Competition completed", "competition", competitionID, "winner", ballot.Winner.String())

	return nil
}

// VoteTimeout votes to void a competition whose final deadline has passed.
// Passing the threshold returns the issue to Active with its escrow intact.
func (l *Ledger) VoteTimeout(voter types.Address, competitionID uint64) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	competition, err := l.activeCompetition(competitionID)
	if err != nil {
		return err
	}

	if now := l.now(); now <= competition.FinalDeadline {
		return code.NewTooEarly(now, competition.FinalDeadline, fmt.Sprintf("competition %d runs until height %d", competitionID, competition.FinalDeadline))
	}

	ballot := l.stateDeliver.Resolution.GetBallot(competitionID, resolution.KindTimeout)
	if ballot == nil {
		ballot = l.stateDeliver.Resolution.Open(competitionID, resolution.KindTimeout, types.Address{}, types.Hash{}, types.Hash{})
	}

	weight, err := l.ballotVote(ballot, voter)
	if err != nil {
		return err
	}

	accumulated := l.stateDeliver.Resolution.AddVote(competitionID, resolution.KindTimeout, voter, weight)

	l.eventsDB.AddEvent(events.TimeoutVoteCast{
		CompetitionID: competitionID,
		Voter:         voter,
		Weight:        weight.String(),
	})

	if !l.thresholdPassed(accumulated) {
		return nil
	}

	l.stateDeliver.Competitions.TimeOut(competitionID)
	l.stateDeliver.Issues.DetachCompetition(competition.IssueID)
	l.stateDeliver.Resolution.ClearAll(competitionID)

	l.eventsDB.AddEvent(events.CompetitionTimedOut{
		CompetitionID: competitionID,
		IssueID:       competition.IssueID,
	})

	l.logger.Info("Competition timed out", "competition", competitionID, "issue", competition.IssueID)

	return nil
}

// VoteCancel votes to abort a competition. The first vote fixes the reason.
// Passing the threshold terminalizes the competition and its issue and
// recycles the escrow into the pool.
func (l *Ledger) VoteCancel(voter types.Address, competitionID uint64, reason types.Hash) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	competition, err := l.activeCompetition(competitionID)
	if err != nil {
		return err
	}

	ballot := l.stateDeliver.Resolution.GetBallot(competitionID, resolution.KindCancel)
	if ballot == nil {
		ballot = l.stateDeliver.Resolution.Open(competitionID, resolution.KindCancel, types.Address{}, types.Hash{}, reason)
	}

	weight, err := l.ballotVote(ballot, voter)
	if err != nil {
		return err
	}

	accumulated := l.stateDeliver.Resolution.AddVote(competitionID, resolution.KindCancel, voter, weight)

	l.eventsDB.AddEvent(events.CancelVoteCast{
		CompetitionID: competitionID,
		Voter:         voter,
		Weight:        weight.String(),
	})

	if !l.thresholdPassed(accumulated) {
		return nil
	}

	recycled := l.stateDeliver.Issues.ReleaseEscrow(competition.IssueID)
	l.stateDeliver.Pool.AddToPool(recycled)
	l.stateDeliver.Competitions.Cancel(competitionID, ballot.ReasonHash)
	l.stateDeliver.Issues.Complete(competition.IssueID)
	l.stateDeliver.Resolution.ClearAll(competitionID)

	l.eventsDB.AddEvent(events.CompetitionCancelled{
		CompetitionID: competitionID,
		IssueID:       competition.IssueID,
		Recycled:      recycled.String(),
		ReasonHash:    ballot.ReasonHash,
	})

	l.stateDeliver.Pool.FillQueue()

	l.logger.Info("Competition cancelled", "competition", competitionID, "issue", competition.IssueID)

	return nil
}

// ManualPayout releases the held payout of a completed competition to the
// given destination, or to the recorded winner when the destination is the
// zero address. Repeating the call fails with AlreadyPaid.
func (l *Ledger) ManualPayout(sender types.Address, competitionID uint64, destination types.Address) (*big.Int, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	if err := l.requireOwner(sender); err != nil {
		return nil, err
	}

	competition := l.stateDeliver.Competitions.GetCompetition(competitionID)
	if competition == nil {
		return nil, code.NewCompetitionNotFound(competitionID, fmt.Sprintf("competition %d not found", competitionID))
	}

	if status := competition.GetStatus(); status != types.CompetitionCompleted {
		return nil, code.NewCompetitionNotActive(competitionID, status.String(), fmt.Sprintf("competition %d is %s, payout needs a completed competition", competitionID, status))
	}

	if competition.IsPaidOut() {
		return nil, code.NewAlreadyPaid(competitionID, fmt.Sprintf("competition %d is already paid out", competitionID))
	}

	if destination.IsZero() {
		destination = competition.GetWinner()
	}

	payout := competition.GetPayout()

	l.stateDeliver.Competitions.MarkPaid(competitionID)
	l.stateDeliver.App.AddTotalPaidOut(payout)

	l.eventsDB.AddEvent(events.BountyPaidOut{
		CompetitionID: competitionID,
		IssueID:       competition.IssueID,
		Destination:   destination,
		Amount:        payout.String(),
	})

	l.logger.Info("Bounty paid out", "competition", competitionID, "destination", destination.String(), "amount", payout.String())

	return payout, nil
}

// SetOwner hands admin control to a new owner.
func (l *Ledger) SetOwner(sender, newOwner types.Address) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if err := l.requireOwner(sender); err != nil {
		return err
	}

	if newOwner.IsZero() {
		return code.NewInvalidAmount(newOwner.String(), "owner can not be the zero address")
	}

	l.stateDeliver.App.SetOwner(newOwner)

	return nil
}

// SetTreasury points the treasury at a new address.
func (l *Ledger) SetTreasury(sender, treasury types.Address) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if err := l.requireOwner(sender); err != nil {
		return err
	}

	l.stateDeliver.App.SetTreasury(treasury)

	return nil
}

// SetConsensusParameters tunes the minimum bounty, the competition windows
// and the consensus threshold.
func (l *Ledger) SetConsensusParameters(sender types.Address, minBounty *big.Int, submissionWindow, competitionDeadline, proposalExpiry uint64, consensusPercent uint32) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if err := l.requireOwner(sender); err != nil {
		return err
	}

	if minBounty == nil || minBounty.Sign() != 1 {
		return code.NewInvalidAmount(bigString(minBounty), "minimum bounty must be a positive amount")
	}

	if consensusPercent < 51 || consensusPercent > 100 {
		return code.NewInvalidAmount(fmt.Sprintf("%d", consensusPercent), "consensus percent must be between 51 and 100")
	}

	if submissionWindow == 0 || competitionDeadline <= submissionWindow || proposalExpiry == 0 {
		return code.NewInvalidAmount("0", "competition windows must be positive and ordered")
	}

	l.stateDeliver.App.SetMinBounty(minBounty)
	l.stateDeliver.App.SetWindows(submissionWindow, competitionDeadline, proposalExpiry, consensusPercent)

	l.logger.Info("Consensus parameters updated", "min_bounty", minBounty.String(), "percent", consensusPercent)

	return nil
}

func (l *Ledger) requireOwner(sender types.Address) error {
	owner := l.stateDeliver.App.GetOwner()
	if sender != owner {
		return code.NewNotOwner(sender.String(), fmt.Sprintf("%s is not the ledger owner", sender))
	}

	return nil
}

func (l *Ledger) activeCompetition(competitionID uint64) (*competitions.Model, error) {
	competition := l.stateDeliver.Competitions.GetCompetition(competitionID)
	if competition == nil {
		return nil, code.NewCompetitionNotFound(competitionID, fmt.Sprintf("competition %d not found", competitionID))
	}

	if status := competition.GetStatus(); status != types.CompetitionActive {
		return nil, code.NewCompetitionNotActive(competitionID, status.String(), fmt.Sprintf("competition %d is %s", competitionID, status))
	}

	return competition, nil
}

func (l *Ledger) ballotVote(ballot *resolution.Model, voter types.Address) (*big.Int, error) {
	if ballot.HasVoted(voter) {
		return nil, code.NewAlreadyVoted(voter.String(), fmt.Sprintf("%s already voted on this ballot", voter))
	}

	weight := l.oracle.WeightOf(voter)
	if weight.Sign() != 1 {
		return nil, code.NewNoStake(voter.String(), fmt.Sprintf("%s has no stake", voter))
	}

	return weight, nil
}

func (l *Ledger) thresholdPassed(accumulated *big.Int) bool {
	return helpers.ExceedsThreshold(accumulated, l.oracle.TotalWeight(), l.stateDeliver.App.GetConsensusPercent())
}

func bigString(value *big.Int) string {
	if value == nil {
		return "nil"
	}
	return value.String()
}
