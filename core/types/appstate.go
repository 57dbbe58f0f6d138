package types

import (
	"fmt"
)

// AppState is the full persisted surface of the ledger, used for genesis
// import and deterministic export.
type AppState struct {
	Note              string         `json:"note"`
	Owner             Address        `json:"owner"`
	Treasury          Address        `json:"treasury"`
	Params            Params         `json:"params"`
	NextIssueID       uint64         `json:"next_issue_id"`
	NextCompetitionID uint64         `json:"next_competition_id"`
	Pool              string         `json:"pool"`
	TotalDeposited    string         `json:"total_deposited"`
	TotalPaidOut      string         `json:"total_paid_out"`
	FundingQueue      []uint64       `json:"funding_queue,omitempty"`
	Issues            []Issue        `json:"issues,omitempty"`
	Competitions      []Competition  `json:"competitions,omitempty"`
	PairProposals     []PairProposal `json:"pair_proposals,omitempty"`
	Ballots           []Ballot       `json:"ballots,omitempty"`
}

type Params struct {
	MinBounty           string `json:"min_bounty"`
	SubmissionWindow    uint64 `json:"submission_window"`
	CompetitionDeadline uint64 `json:"competition_deadline"`
	ProposalExpiry      uint64 `json:"proposal_expiry"`
	ConsensusPercent    uint32 `json:"consensus_percent"`
}

type Issue struct {
	ID            uint64      `json:"id"`
	DedupKey      Hash        `json:"dedup_key"`
	Owner         Address     `json:"owner"`
	Repository    string      `json:"repository"`
	Number        uint32      `json:"number"`
	Escrow        string      `json:"escrow"`
	Target        string      `json:"target"`
	Status        IssueStatus `json:"status"`
	CompetitionID uint64      `json:"competition_id,omitempty"`
	RegisteredAt  uint64      `json:"registered_at"`
}

type Competition struct {
	ID                 uint64            `json:"id"`
	IssueID            uint64            `json:"issue_id"`
	ParticipantA       Address           `json:"participant_a"`
	ParticipantB       Address           `json:"participant_b"`
	StartedAt          uint64            `json:"started_at"`
	SubmissionDeadline uint64            `json:"submission_deadline"`
	FinalDeadline      uint64            `json:"final_deadline"`
	Status             CompetitionStatus `json:"status"`
	Winner             Address           `json:"winner"`
	ProofHash          Hash              `json:"proof_hash"`
	ReasonHash         Hash              `json:"reason_hash"`
	Payout             string            `json:"payout"`
	PaidOut            bool              `json:"paid_out"`
}

type PairProposal struct {
	IssueID      uint64    `json:"issue_id"`
	ParticipantA Address   `json:"participant_a"`
	ParticipantB Address   `json:"participant_b"`
	Proposer     Address   `json:"proposer"`
	ProposedAt   uint64    `json:"proposed_at"`
	VotedWeight  string    `json:"voted_weight"`
	Voters       []Address `json:"voters,omitempty"`
}

type Ballot struct {
	CompetitionID uint64    `json:"competition_id"`
	Kind          byte      `json:"kind"`
	Winner        Address   `json:"winner"`
	ProofHash     Hash      `json:"proof_hash"`
	ReasonHash    Hash      `json:"reason_hash"`
	VotedWeight   string    `json:"voted_weight"`
	Voters        []Address `json:"voters,omitempty"`
}

func (s *AppState) Verify() error {
	if !isValidAmount(s.Pool) || !isValidAmount(s.TotalDeposited) || !isValidAmount(s.TotalPaidOut) {
		return fmt.Errorf("pool totals are not valid non-negative integers")
	}

	seen := map[uint64]struct{}{}
	dedup := map[Hash]struct{}{}
	for _, issue := range s.Issues {
		if _, exists := seen[issue.ID]; exists {
			return fmt.Errorf("duplicated issue id %d", issue.ID)
		}
		seen[issue.ID] = struct{}{}

		if _, exists := dedup[issue.DedupKey]; exists {
			return fmt.Errorf("duplicated issue dedup key %s", issue.DedupKey.String())
		}
		dedup[issue.DedupKey] = struct{}{}

		if !isValidAmount(issue.Escrow) || !isValidAmount(issue.Target) {
			return fmt.Errorf("issue %d has invalid amounts", issue.ID)
		}
	}

	occupied := map[Address]struct{}{}
	for _, comp := range s.Competitions {
		if _, exists := seen[comp.IssueID]; !exists {
			return fmt.Errorf("competition %d references unknown issue %d", comp.ID, comp.IssueID)
		}
		if comp.ParticipantA == comp.ParticipantB {
			return fmt.Errorf("competition %d has identical participants", comp.ID)
		}
		if comp.Status == CompetitionActive {
			for _, p := range []Address{comp.ParticipantA, comp.ParticipantB} {
				if _, exists := occupied[p]; exists {
					return fmt.Errorf("participant %s is in two active competitions", p.String())
				}
				occupied[p] = struct{}{}
			}
		}
	}

	return nil
}

func isValidAmount(s string) bool {
	if s == "" {
		return false
	}
	v := BigIntOrZero(nil)
	if _, ok := v.SetString(s, 10); !ok {
		return false
	}
	return v.Sign() >= 0
}
