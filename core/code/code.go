package code

import (
	"encoding/json"
	"strconv"
)

// Codes for operation rejections. Grouped by taxonomy: a rejected operation
// never mutates state.
const (
	OK uint32 = 0

	// validation
	InvalidIdentifier uint32 = 101
	BelowMinimum      uint32 = 102
	SameParticipant   uint32 = 103
	DuplicateItem     uint32 = 104
	InvalidAmount     uint32 = 105

	// not found
	IssueNotFound       uint32 = 201
	CompetitionNotFound uint32 = 202
	ProposalNotFound    uint32 = 203

	// authorization
	NotOwner uint32 = 301

	// state conflict
	IssueNotActive       uint32 = 401
	IssueNotCancellable  uint32 = 402
	AlreadyCompeting     uint32 = 403
	CompetitionNotActive uint32 = 404
	InvalidWinner        uint32 = 405
	TooEarly             uint32 = 406
	AlreadyPaid          uint32 = 407

	// voting
	AlreadyVoted uint32 = 501
	NoStake      uint32 = 502
	Expired      uint32 = 503
)

// Error is implemented by every typed rejection payload below.
type Error interface {
	error
	ErrorCode() uint32
}

// EncodeError marshals a typed rejection payload for API surfaces.
func EncodeError(data interface{}) string {
	marshal, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	return string(marshal)
}

// Code extracts the numeric code from an error produced by this package.
// Unknown errors report OK as false negative is not possible here.
func Code(err error) uint32 {
	if e, ok := err.(Error); ok {
		return e.ErrorCode()
	}
	return OK
}

type base struct {
	code uint32
	log  string
}

func (b base) ErrorCode() uint32 { return b.code }
func (b base) Error() string     { return b.log }

func newBase(code uint32, log string) base {
	return base{code: code, log: log}
}

type invalidIdentifier struct {
	base
	Code       string `json:"code,omitempty"`
	Repository string `json:"repository,omitempty"`
	Number     string `json:"number,omitempty"`
}

func NewInvalidIdentifier(repository string, number uint32, log string) *invalidIdentifier {
	return &invalidIdentifier{
		base:       newBase(InvalidIdentifier, log),
		Code:       strconv.Itoa(int(InvalidIdentifier)),
		Repository: repository,
		Number:     strconv.Itoa(int(number)),
	}
}

type belowMinimum struct {
	base
	Code      string `json:"code,omitempty"`
	Minimum   string `json:"minimum,omitempty"`
	GotAmount string `json:"got_amount,omitempty"`
}

func NewBelowMinimum(minimum, gotAmount, log string) *belowMinimum {
	return &belowMinimum{
		base:      newBase(BelowMinimum, log),
		Code:      strconv.Itoa(int(BelowMinimum)),
		Minimum:   minimum,
		GotAmount: gotAmount,
	}
}

type sameParticipant struct {
	base
	Code        string `json:"code,omitempty"`
	Participant string `json:"participant,omitempty"`
}

func NewSameParticipant(participant, log string) *sameParticipant {
	return &sameParticipant{
		base:        newBase(SameParticipant, log),
		Code:        strconv.Itoa(int(SameParticipant)),
		Participant: participant,
	}
}

type duplicateItem struct {
	base
	Code     string `json:"code,omitempty"`
	DedupKey string `json:"dedup_key,omitempty"`
	IssueID  string `json:"issue_id,omitempty"`
}

func NewDuplicateItem(dedupKey string, issueID uint64, log string) *duplicateItem {
	return &duplicateItem{
		base:     newBase(DuplicateItem, log),
		Code:     strconv.Itoa(int(DuplicateItem)),
		DedupKey: dedupKey,
		IssueID:  strconv.FormatUint(issueID, 10),
	}
}

type invalidAmount struct {
	base
	Code   string `json:"code,omitempty"`
	Amount string `json:"amount,omitempty"`
}

func NewInvalidAmount(amount, log string) *invalidAmount {
	return &invalidAmount{
		base:   newBase(InvalidAmount, log),
		Code:   strconv.Itoa(int(InvalidAmount)),
		Amount: amount,
	}
}

type issueNotFound struct {
	base
	Code    string `json:"code,omitempty"`
	IssueID string `json:"issue_id,omitempty"`
}

func NewIssueNotFound(issueID uint64, log string) *issueNotFound {
	return &issueNotFound{
		base:    newBase(IssueNotFound, log),
		Code:    strconv.Itoa(int(IssueNotFound)),
		IssueID: strconv.FormatUint(issueID, 10),
	}
}

type competitionNotFound struct {
	base
	Code          string `json:"code,omitempty"`
	CompetitionID string `json:"competition_id,omitempty"`
}

func NewCompetitionNotFound(competitionID uint64, log string) *competitionNotFound {
	return &competitionNotFound{
		base:          newBase(CompetitionNotFound, log),
		Code:          strconv.Itoa(int(CompetitionNotFound)),
		CompetitionID: strconv.FormatUint(competitionID, 10),
	}
}

type proposalNotFound struct {
	base
	Code    string `json:"code,omitempty"`
	IssueID string `json:"issue_id,omitempty"`
}

func NewProposalNotFound(issueID uint64, log string) *proposalNotFound {
	return &proposalNotFound{
		base:    newBase(ProposalNotFound, log),
		Code:    strconv.Itoa(int(ProposalNotFound)),
		IssueID: strconv.FormatUint(issueID, 10),
	}
}

type notOwner struct {
	base
	Code   string `json:"code,omitempty"`
	Caller string `json:"caller,omitempty"`
}

func NewNotOwner(caller, log string) *notOwner {
	return &notOwner{
		base:   newBase(NotOwner, log),
		Code:   strconv.Itoa(int(NotOwner)),
		Caller: caller,
	}
}

type issueNotActive struct {
	base
	Code    string `json:"code,omitempty"`
	IssueID string `json:"issue_id,omitempty"`
	Status  string `json:"status,omitempty"`
}

func NewIssueNotActive(issueID uint64, status string, log string) *issueNotActive {
	return &issueNotActive{
		base:    newBase(IssueNotActive, log),
		Code:    strconv.Itoa(int(IssueNotActive)),
		IssueID: strconv.FormatUint(issueID, 10),
		Status:  status,
	}
}

type issueNotCancellable struct {
	base
	Code    string `json:"code,omitempty"`
	IssueID string `json:"issue_id,omitempty"`
	Status  string `json:"status,omitempty"`
}

func NewIssueNotCancellable(issueID uint64, status string, log string) *issueNotCancellable {
	return &issueNotCancellable{
		base:    newBase(IssueNotCancellable, log),
		Code:    strconv.Itoa(int(IssueNotCancellable)),
		IssueID: strconv.FormatUint(issueID, 10),
		Status:  status,
	}
}

type alreadyCompeting struct {
	base
	Code          string `json:"code,omitempty"`
	Participant   string `json:"participant,omitempty"`
	CompetitionID string `json:"competition_id,omitempty"`
}

func NewAlreadyCompeting(participant string, competitionID uint64, log string) *alreadyCompeting {
	return &alreadyCompeting{
		base:          newBase(AlreadyCompeting, log),
		Code:          strconv.Itoa(int(AlreadyCompeting)),
		Participant:   participant,
		CompetitionID: strconv.FormatUint(competitionID, 10),
	}
}

type competitionNotActive struct {
	base
	Code          string `json:"code,omitempty"`
	CompetitionID string `json:"competition_id,omitempty"`
	Status        string `json:"status,omitempty"`
}

func NewCompetitionNotActive(competitionID uint64, status string, log string) *competitionNotActive {
	return &competitionNotActive{
		base:          newBase(CompetitionNotActive, log),
		Code:          strconv.Itoa(int(CompetitionNotActive)),
		CompetitionID: strconv.FormatUint(competitionID, 10),
		Status:        status,
	}
}

type invalidWinner struct {
	base
	Code   string `json:"code,omitempty"`
	Winner string `json:"winner,omitempty"`
}

func NewInvalidWinner(winner, log string) *invalidWinner {
	return &invalidWinner{
		base:   newBase(InvalidWinner, log),
		Code:   strconv.Itoa(int(InvalidWinner)),
		Winner: winner,
	}
}

type tooEarly struct {
	base
	Code     string `json:"code,omitempty"`
	Now      string `json:"now,omitempty"`
	Deadline string `json:"deadline,omitempty"`
}

func NewTooEarly(now, deadline uint64, log string) *tooEarly {
	return &tooEarly{
		base:     newBase(TooEarly, log),
		Code:     strconv.Itoa(int(TooEarly)),
		Now:      strconv.FormatUint(now, 10),
		Deadline: strconv.FormatUint(deadline, 10),
	}
}

type alreadyPaid struct {
	base
	Code          string `json:"code,omitempty"`
	CompetitionID string `json:"competition_id,omitempty"`
}

func NewAlreadyPaid(competitionID uint64, log string) *alreadyPaid {
	return &alreadyPaid{
		base:          newBase(AlreadyPaid, log),
		Code:          strconv.Itoa(int(AlreadyPaid)),
		CompetitionID: strconv.FormatUint(competitionID, 10),
	}
}

type alreadyVoted struct {
	base
	Code  string `json:"code,omitempty"`
	Voter string `json:"voter,omitempty"`
}

func NewAlreadyVoted(voter, log string) *alreadyVoted {
	return &alreadyVoted{
		base:  newBase(AlreadyVoted, log),
		Code:  strconv.Itoa(int(AlreadyVoted)),
		Voter: voter,
	}
}

type noStake struct {
	base
	Code  string `json:"code,omitempty"`
	Voter string `json:"voter,omitempty"`
}

func NewNoStake(voter, log string) *noStake {
	return &noStake{
		base:  newBase(NoStake, log),
		Code:  strconv.Itoa(int(NoStake)),
		Voter: voter,
	}
}

type expired struct {
	base
	Code       string `json:"code,omitempty"`
	ProposedAt string `json:"proposed_at,omitempty"`
	ExpiredAt  string `json:"expired_at,omitempty"`
}

func NewExpired(proposedAt, expiredAt uint64, log string) *expired {
	return &expired{
		base:       newBase(Expired, log),
		Code:       strconv.Itoa(int(Expired)),
		ProposedAt: strconv.FormatUint(proposedAt, 10),
		ExpiredAt:  strconv.FormatUint(expiredAt, 10),
	}
}
