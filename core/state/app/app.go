package app

import (
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/cosmos/iavl"
	"github.com/gittensor/bounty-go-node/core/state/bus"
	"github.com/gittensor/bounty-go-node/core/types"
	"github.com/tendermint/go-amino"
)

const mainPrefix = 'a'

// RApp is the read-only surface of the application store.
type RApp interface {
	Export(state *types.AppState)
	GetOwner() types.Address
	GetTreasury() types.Address
	GetMinBounty() *big.Int
	GetSubmissionWindow() uint64
	GetCompetitionDeadline() uint64
	GetProposalExpiry() uint64
	GetConsensusPercent() uint32
	GetNextIssueID() uint64
	GetNextCompetitionID() uint64
	GetTotalDeposited() *big.Int
	GetTotalPaidOut() *big.Int
}

// App keeps the ledger-wide configuration record: admin addresses, consensus
// parameters, id counters and the lifetime deposit and payout totals.
type App struct {
	model   *Model
	isDirty bool

	cdc *amino.Codec
	db  atomic.Value

	bus *bus.Bus
	mx  sync.Mutex
}

func NewApp(stateBus *bus.Bus, db *iavl.ImmutableTree) *App {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}

	return &App{bus: stateBus, db: immutableTree, cdc: amino.NewCodec()}
}

func (a *App) immutableTree() *iavl.ImmutableTree {
	db := a.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (a *App) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	a.db.Store(immutableTree)
}

func (a *App) Commit(db *iavl.MutableTree) error {
	a.mx.Lock()
	defer a.mx.Unlock()

	if !a.isDirty {
		return nil
	}

	a.isDirty = false

	data, err := a.cdc.MarshalBinaryBare(a.model)
	if err != nil {
		return fmt.Errorf("can't encode app model: %s", err)
	}

	path := []byte{mainPrefix}
	db.Set(path, data)

	return nil
}

func (a *App) GetOwner() types.Address {
	return a.getOrNew().getOwner()
}

func (a *App) SetOwner(owner types.Address) {
	a.getOrNew().setOwner(owner)
}

func (a *App) GetTreasury() types.Address {
	return a.getOrNew().getTreasury()
}

func (a *App) SetTreasury(treasury types.Address) {
	a.getOrNew().setTreasury(treasury)
}

func (a *App) GetMinBounty() *big.Int {
	return a.getOrNew().getMinBounty()
}

func (a *App) SetMinBounty(minBounty *big.Int) {
	a.getOrNew().setMinBounty(minBounty)
}

func (a *App) GetSubmissionWindow() uint64 {
	return a.getOrNew().getSubmissionWindow()
}

func (a *App) GetCompetitionDeadline() uint64 {
	return a.getOrNew().getCompetitionDeadline()
}

func (a *App) GetProposalExpiry() uint64 {
	return a.getOrNew().getProposalExpiry()
}

func (a *App) GetConsensusPercent() uint32 {
	return a.getOrNew().getConsensusPercent()
}

func (a *App) SetWindows(submissionWindow, competitionDeadline, proposalExpiry uint64, consensusPercent uint32) {
	a.getOrNew().setWindows(submissionWindow, competitionDeadline, proposalExpiry, consensusPercent)
}

// TakeIssueID hands out the next issue id and advances the counter.
func (a *App) TakeIssueID() uint64 {
	return a.getOrNew().takeIssueID()
}

func (a *App) GetNextIssueID() uint64 {
	return a.getOrNew().getNextIssueID()
}

func (a *App) SetNextIssueID(id uint64) {
	a.getOrNew().setNextIssueID(id)
}

// TakeCompetitionID hands out the next competition id and advances the counter.
func (a *App) TakeCompetitionID() uint64 {
	return a.getOrNew().takeCompetitionID()
}

func (a *App) GetNextCompetitionID() uint64 {
	return a.getOrNew().getNextCompetitionID()
}

func (a *App) SetNextCompetitionID(id uint64) {
	a.getOrNew().setNextCompetitionID(id)
}

func (a *App) GetTotalDeposited() *big.Int {
	return a.getOrNew().getTotalDeposited()
}

func (a *App) SetTotalDeposited(total *big.Int) {
	a.getOrNew().setTotalDeposited(total)
}

func (a *App) AddTotalDeposited(amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}

	model := a.getOrNew()
	model.setTotalDeposited(big.NewInt(0).Add(model.getTotalDeposited(), amount))
	a.bus.Checker().AddVolume(amount)
}

func (a *App) GetTotalPaidOut() *big.Int {
	return a.getOrNew().getTotalPaidOut()
}

func (a *App) SetTotalPaidOut(total *big.Int) {
	a.getOrNew().setTotalPaidOut(total)
}

func (a *App) AddTotalPaidOut(amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}

	model := a.getOrNew()
	model.setTotalPaidOut(big.NewInt(0).Add(model.getTotalPaidOut(), amount))
}

func (a *App) get() *Model {
	a.mx.Lock()
	defer a.mx.Unlock()

	if a.model != nil {
		return a.model
	}

	path := []byte{mainPrefix}
	_, enc := a.immutableTree().Get(path)
	if len(enc) == 0 {
		return nil
	}

	model := &Model{}
	if err := a.cdc.UnmarshalBinaryBare(enc, model); err != nil {
		panic(fmt.Sprintf("failed to decode app model: %s", err))
	}

	a.model = model
	a.model.markDirty = a.markDirty
	return a.model
}

func (a *App) getOrNew() *Model {
	model := a.get()
	if model == nil {
		model = &Model{
			MinBounty:           big.NewInt(types.DefaultMinBounty).Bytes(),
			SubmissionWindow:    types.DefaultSubmissionWindow,
			CompetitionDeadline: types.DefaultCompetitionDeadline,
			ProposalExpiry:      types.DefaultProposalExpiry,
			ConsensusPercent:    types.DefaultConsensusPercent,
			NextIssueID:         1,
			NextCompetitionID:   1,
			markDirty:           a.markDirty,
		}
		a.mx.Lock()
		a.model = model
		a.mx.Unlock()
		a.markDirty()
	}

	return model
}

func (a *App) markDirty() {
	a.mx.Lock()
	defer a.mx.Unlock()

	a.isDirty = true
}

func (a *App) Export(state *types.AppState) {
	state.Owner = a.GetOwner()
	state.Treasury = a.GetTreasury()
	state.Params = types.Params{
		MinBounty:           a.GetMinBounty().String(),
		SubmissionWindow:    a.GetSubmissionWindow(),
		CompetitionDeadline: a.GetCompetitionDeadline(),
		ProposalExpiry:      a.GetProposalExpiry(),
		ConsensusPercent:    a.GetConsensusPercent(),
	}
	state.NextIssueID = a.GetNextIssueID()
	state.NextCompetitionID = a.GetNextCompetitionID()
	state.TotalDeposited = a.GetTotalDeposited().String()
	state.TotalPaidOut = a.GetTotalPaidOut().String()
}
