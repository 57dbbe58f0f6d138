package app

import (
	"bytes"
	"math/big"
	"sync"

	"github.com/gittensor/bounty-go-node/core/types"
)

type Model struct {
	Owner    types.Address
	Treasury types.Address

	MinBounty           []byte
	SubmissionWindow    uint64
	CompetitionDeadline uint64
	ProposalExpiry      uint64
	ConsensusPercent    uint32

	NextIssueID       uint64
	NextCompetitionID uint64

	TotalDeposited []byte
	TotalPaidOut   []byte

	markDirty func()
	mx        sync.RWMutex
}

func (model *Model) getOwner() types.Address {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.Owner
}

func (model *Model) setOwner(owner types.Address) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.Owner != owner {
		model.markDirty()
	}
	model.Owner = owner
}

func (model *Model) getTreasury() types.Address {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.Treasury
}

func (model *Model) setTreasury(treasury types.Address) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.Treasury != treasury {
		model.markDirty()
	}
	model.Treasury = treasury
}

func (model *Model) getMinBounty() *big.Int {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return big.NewInt(0).SetBytes(model.MinBounty)
}

func (model *Model) setMinBounty(minBounty *big.Int) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if !bytes.Equal(model.MinBounty, minBounty.Bytes()) {
		model.markDirty()
	}
	model.MinBounty = minBounty.Bytes()
}

func (model *Model) getSubmissionWindow() uint64 {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.SubmissionWindow
}

func (model *Model) getCompetitionDeadline() uint64 {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.CompetitionDeadline
}

func (model *Model) getProposalExpiry() uint64 {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.ProposalExpiry
}

func (model *Model) getConsensusPercent() uint32 {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.ConsensusPercent
}

func (model *Model) setWindows(submissionWindow, competitionDeadline, proposalExpiry uint64, consensusPercent uint32) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.SubmissionWindow != submissionWindow ||
		model.CompetitionDeadline != competitionDeadline ||
		model.ProposalExpiry != proposalExpiry ||
		model.ConsensusPercent != consensusPercent {
		model.markDirty()
	}
	model.SubmissionWindow = submissionWindow
	model.CompetitionDeadline = competitionDeadline
	model.ProposalExpiry = proposalExpiry
	model.ConsensusPercent = consensusPercent
}

func (model *Model) takeIssueID() uint64 {
	model.mx.Lock()
	defer model.mx.Unlock()

	id := model.NextIssueID
	model.NextIssueID++
	model.markDirty()

	return id
}

func (model *Model) getNextIssueID() uint64 {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.NextIssueID
}

func (model *Model) setNextIssueID(id uint64) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.NextIssueID != id {
		model.markDirty()
	}
	model.NextIssueID = id
}

func (model *Model) takeCompetitionID() uint64 {
	model.mx.Lock()
	defer model.mx.Unlock()

	id := model.NextCompetitionID
	model.NextCompetitionID++
	model.markDirty()

	return id
}

func (model *Model) getNextCompetitionID() uint64 {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.NextCompetitionID
}

func (model *Model) setNextCompetitionID(id uint64) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.NextCompetitionID != id {
		model.markDirty()
	}
	model.NextCompetitionID = id
}

func (model *Model) getTotalDeposited() *big.Int {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return big.NewInt(0).SetBytes(model.TotalDeposited)
}

func (model *Model) setTotalDeposited(total *big.Int) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if !bytes.Equal(model.TotalDeposited, total.Bytes()) {
		model.markDirty()
	}
	model.TotalDeposited = total.Bytes()
}

func (model *Model) getTotalPaidOut() *big.Int {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return big.NewInt(0).SetBytes(model.TotalPaidOut)
}

func (model *Model) setTotalPaidOut(total *big.Int) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if !bytes.Equal(model.TotalPaidOut, total.Bytes()) {
		model.markDirty()
	}
	model.TotalPaidOut = total.Bytes()
}
