package types

import "fmt"

// Default consensus parameters. Deadlines are ledger ticks (block heights at
// ~12s blocks in the reference deployment).
const (
	// DefaultMinBounty is the minimum target bounty: 10 units at 9 decimals
	DefaultMinBounty = 10000000000

	// DefaultSubmissionWindow is ~2 days
	DefaultSubmissionWindow = 14400

	// DefaultCompetitionDeadline is ~7 days
	DefaultCompetitionDeadline = 50400

	// DefaultProposalExpiry is ~3.3 hours
	DefaultProposalExpiry = 1000

	// DefaultConsensusPercent is the share of total network weight a ballot
	// must strictly exceed to pass
	DefaultConsensusPercent = 51
)

// IssueStatus is the lifecycle state of a registered issue.
type IssueStatus byte

const (
	IssueRegistered IssueStatus = iota + 1
	IssueActive
	IssueInCompetition
	IssueCompleted
	IssueCancelled
)

func (s IssueStatus) String() string {
	switch s {
	case IssueRegistered:
		return "Registered"
	case IssueActive:
		return "Active"
	case IssueInCompetition:
		return "InCompetition"
	case IssueCompleted:
		return "Completed"
	case IssueCancelled:
		return "Cancelled"
	}
	return fmt.Sprintf("IssueStatus(%d)", byte(s))
}

// CompetitionStatus is the lifecycle state of a competition. Every state but
// Active is terminal.
type CompetitionStatus byte

const (
	CompetitionActive CompetitionStatus = iota + 1
	CompetitionCompleted
	CompetitionTimedOut
	CompetitionCancelled
)

func (s CompetitionStatus) String() string {
	switch s {
	case CompetitionActive:
		return "Active"
	case CompetitionCompleted:
		return "Completed"
	case CompetitionTimedOut:
		return "TimedOut"
	case CompetitionCancelled:
		return "Cancelled"
	}
	return fmt.Sprintf("CompetitionStatus(%d)", byte(s))
}
