package events

import (
	"github.com/gittensor/bounty-go-node/core/types"
	"github.com/tendermint/go-amino"
)

// Event type names
const (
	TypeIssueRegistered      = "bounty/IssueRegistered"
	TypeIssueCancelled       = "bounty/IssueCancelled"
	TypePoolDeposit          = "bounty/PoolDeposit"
	TypeBountyFilled         = "bounty/BountyFilled"
	TypePairVoteCast         = "bounty/PairVoteCast"
	TypeCompetitionStarted   = "bounty/CompetitionStarted"
	TypeSolutionVoteCast     = "bounty/SolutionVoteCast"
	TypeTimeoutVoteCast      = "bounty/TimeoutVoteCast"
	TypeCancelVoteCast       = "bounty/CancelVoteCast"
	TypeCompetitionCompleted = "bounty/CompetitionCompleted"
	TypeCompetitionTimedOut  = "bounty/CompetitionTimedOut"
	TypeCompetitionCancelled = "bounty/CompetitionCancelled"
	TypeBountyPaidOut        = "bounty/BountyPaidOut"
)

type Event interface {
	Type() string
}

type Events []Event

func RegisterAminoEvents(codec *amino.Codec) {
	codec.RegisterInterface((*Event)(nil), nil)
	codec.RegisterConcrete(IssueRegistered{}, TypeIssueRegistered, nil)
	codec.RegisterConcrete(IssueCancelled{}, TypeIssueCancelled, nil)
	codec.RegisterConcrete(PoolDeposit{}, TypePoolDeposit, nil)
	codec.RegisterConcrete(BountyFilled{}, TypeBountyFilled, nil)
	codec.RegisterConcrete(PairVoteCast{}, TypePairVoteCast, nil)
	codec.RegisterConcrete(CompetitionStarted{}, TypeCompetitionStarted, nil)
	codec.RegisterConcrete(SolutionVoteCast{}, TypeSolutionVoteCast, nil)
	codec.RegisterConcrete(TimeoutVoteCast{}, TypeTimeoutVoteCast, nil)
	codec.RegisterConcrete(CancelVoteCast{}, TypeCancelVoteCast, nil)
	codec.RegisterConcrete(CompetitionCompleted{}, TypeCompetitionCompleted, nil)
	codec.RegisterConcrete(CompetitionTimedOut{}, TypeCompetitionTimedOut, nil)
	codec.RegisterConcrete(CompetitionCancelled{}, TypeCompetitionCancelled, nil)
	codec.RegisterConcrete(BountyPaidOut{}, TypeBountyPaidOut, nil)
}

// IssueRegistered is emitted on successful registration.
type IssueRegistered struct {
	IssueID    uint64     `json:"issue_id"`
	DedupKey   types.Hash `json:"dedup_key"`
	Repository string     `json:"repository"`
	Number     uint32     `json:"number"`
	Target     string     `json:"target"`
}

func (IssueRegistered) Type() string { return TypeIssueRegistered }

// IssueCancelled is emitted when the owner cancels an issue; the escrowed
// amount is returned to the pool.
type IssueCancelled struct {
	IssueID  uint64 `json:"issue_id"`
	Returned string `json:"returned"`
}

func (IssueCancelled) Type() string { return TypeIssueCancelled }

type PoolDeposit struct {
	Depositor types.Address `json:"depositor"`
	Amount    string        `json:"amount"`
}

func (PoolDeposit) Type() string { return TypePoolDeposit }

// BountyFilled is emitted when the allocation pass fully funds an issue.
type BountyFilled struct {
	IssueID uint64 `json:"issue_id"`
	Amount  string `json:"amount"`
}

func (BountyFilled) Type() string { return TypeBountyFilled }

type PairVoteCast struct {
	IssueID uint64        `json:"issue_id"`
	Voter   types.Address `json:"voter"`
	Weight  string        `json:"weight"`
}

func (PairVoteCast) Type() string { return TypePairVoteCast }

type CompetitionStarted struct {
	CompetitionID      uint64        `json:"competition_id"`
	IssueID            uint64        `json:"issue_id"`
	ParticipantA       types.Address `json:"participant_a"`
	ParticipantB       types.Address `json:"participant_b"`
	SubmissionDeadline uint64        `json:"submission_deadline"`
	FinalDeadline      uint64        `json:"final_deadline"`
}

func (CompetitionStarted) Type() string { return TypeCompetitionStarted }

type SolutionVoteCast struct {
	CompetitionID uint64        `json:"competition_id"`
	Voter         types.Address `json:"voter"`
	Weight        string        `json:"weight"`
}

func (SolutionVoteCast) Type() string { return TypeSolutionVoteCast }

type TimeoutVoteCast struct {
	CompetitionID uint64        `json:"competition_id"`
	Voter         types.Address `json:"voter"`
	Weight        string        `json:"weight"`
}

func (TimeoutVoteCast) Type() string { return TypeTimeoutVoteCast }

type CancelVoteCast struct {
	CompetitionID uint64        `json:"competition_id"`
	Voter         types.Address `json:"voter"`
	Weight        string        `json:"weight"`
}

func (CancelVoteCast) Type() string { return TypeCancelVoteCast }

type CompetitionCompleted struct {
	CompetitionID uint64        `json:"competition_id"`
	IssueID       uint64        `json:"issue_id"`
	Winner        types.Address `json:"winner"`
	ProofHash     types.Hash    `json:"proof_hash"`
	Payout        string        `json:"payout"`
}

func (CompetitionCompleted) Type() string { return TypeCompetitionCompleted }

// CompetitionTimedOut is emitted when timeout consensus passes; the issue
// returns to Active with its escrow intact.
type CompetitionTimedOut struct {
	CompetitionID uint64 `json:"competition_id"`
	IssueID       uint64 `json:"issue_id"`
}

func (CompetitionTimedOut) Type() string { return TypeCompetitionTimedOut }

// CompetitionCancelled is emitted when cancel consensus passes; the escrow
// is recycled into the pool.
type CompetitionCancelled struct {
	CompetitionID uint64     `json:"competition_id"`
	IssueID       uint64     `json:"issue_id"`
	Recycled      string     `json:"recycled"`
	ReasonHash    types.Hash `json:"reason_hash"`
}

func (CompetitionCancelled) Type() string { return TypeCompetitionCancelled }

type BountyPaidOut struct {
	CompetitionID uint64        `json:"competition_id"`
	IssueID       uint64        `json:"issue_id"`
	Destination   types.Address `json:"destination"`
	Amount        string        `json:"amount"`
}

func (BountyPaidOut) Type() string { return TypeBountyPaidOut }
