package api

import (
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gittensor/bounty-go-node/core/code"
	"github.com/gittensor/bounty-go-node/core/types"
	"github.com/gittensor/bounty-go-node/helpers"
)

type registerIssueRequest struct {
	Owner      string `json:"owner" binding:"required"`
	Repository string `json:"repository" binding:"required"`
	Number     uint32 `json:"number" binding:"required"`
	Target     string `json:"target" binding:"required"`
}

func (s *Service) registerIssue(c *gin.Context) {
	var req registerIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	target, err := parseAmount(req.Target)
	if err != nil {
		badRequest(c, err)
		return
	}

	id, err := s.ledger.RegisterIssue(types.HexToAddress(req.Owner), req.Repository, req.Number, target)
	if err != nil {
		rejected(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"issue_id": id})
}

type depositRequest struct {
	From   string `json:"from" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

func (s *Service) deposit(c *gin.Context) {
	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		badRequest(c, err)
		return
	}

	if err := s.ledger.Deposit(types.HexToAddress(req.From), amount); err != nil {
		rejected(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type senderRequest struct {
	Sender string `json:"sender" binding:"required"`
}

func (s *Service) cancelIssue(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}

	var req senderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := s.ledger.CancelIssue(types.HexToAddress(req.Sender), id); err != nil {
		rejected(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type proposePairRequest struct {
	Proposer     string `json:"proposer" binding:"required"`
	ParticipantA string `json:"participant_a" binding:"required"`
	ParticipantB string `json:"participant_b" binding:"required"`
}

func (s *Service) proposePair(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}

	var req proposePairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err = s.ledger.ProposePair(
		types.HexToAddress(req.Proposer),
		id,
		types.HexToAddress(req.ParticipantA),
		types.HexToAddress(req.ParticipantB),
	)
	if err != nil {
		rejected(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type voterRequest struct {
	Voter string `json:"voter" binding:"required"`
}

func (s *Service) votePair(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}

	var req voterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := s.ledger.VotePair(types.HexToAddress(req.Voter), id); err != nil {
		rejected(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type voteSolutionRequest struct {
	Voter     string `json:"voter" binding:"required"`
	Winner    string `json:"winner" binding:"required"`
	ProofHash string `json:"proof_hash" binding:"required"`
}

func (s *Service) voteSolution(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}

	var req voteSolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err = s.ledger.VoteSolution(
		types.HexToAddress(req.Voter),
		id,
		types.HexToAddress(req.Winner),
		types.HexToHash(req.ProofHash),
	)
	if err != nil {
		rejected(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Service) voteTimeout(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}

	var req voterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := s.ledger.VoteTimeout(types.HexToAddress(req.Voter), id); err != nil {
		rejected(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type voteCancelRequest struct {
	Voter      string `json:"voter" binding:"required"`
	ReasonHash string `json:"reason_hash" binding:"required"`
}

func (s *Service) voteCancel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}

	var req voteCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err = s.ledger.VoteCancel(types.HexToAddress(req.Voter), id, types.HexToHash(req.ReasonHash))
	if err != nil {
		rejected(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type payoutRequest struct {
	Sender string `json:"sender" binding:"required"`
	// Destination overrides the recorded winner when set.
	Destination string `json:"destination"`
}

func (s *Service) payout(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}

	var req payoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	amount, err := s.ledger.ManualPayout(types.HexToAddress(req.Sender), id, types.HexToAddress(req.Destination))
	if err != nil {
		rejected(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"amount": amount.String()})
}

type setOwnerRequest struct {
	Sender   string `json:"sender" binding:"required"`
	NewOwner string `json:"new_owner" binding:"required"`
}

func (s *Service) setOwner(c *gin.Context) {
	var req setOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := s.ledger.SetOwner(types.HexToAddress(req.Sender), types.HexToAddress(req.NewOwner))
	if err != nil {
		rejected(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type setTreasuryRequest struct {
	Sender   string `json:"sender" binding:"required"`
	Treasury string `json:"treasury" binding:"required"`
}

func (s *Service) setTreasury(c *gin.Context) {
	var req setTreasuryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := s.ledger.SetTreasury(types.HexToAddress(req.Sender), types.HexToAddress(req.Treasury))
	if err != nil {
		rejected(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type setParamsRequest struct {
	Sender              string `json:"sender" binding:"required"`
	MinBounty           string `json:"min_bounty" binding:"required"`
	SubmissionWindow    uint64 `json:"submission_window" binding:"required"`
	CompetitionDeadline uint64 `json:"competition_deadline" binding:"required"`
	ProposalExpiry      uint64 `json:"proposal_expiry" binding:"required"`
	ConsensusPercent    uint32 `json:"consensus_percent" binding:"required"`
}

func (s *Service) setParams(c *gin.Context) {
	var req setParamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	minBounty, err := parseAmount(req.MinBounty)
	if err != nil {
		badRequest(c, err)
		return
	}

	err = s.ledger.SetConsensusParameters(
		types.HexToAddress(req.Sender),
		minBounty,
		req.SubmissionWindow,
		req.CompetitionDeadline,
		req.ProposalExpiry,
		req.ConsensusPercent,
	)
	if err != nil {
		rejected(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func parseAmount(s string) (*big.Int, error) {
	if !helpers.IsValidBigInt(s) {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return helpers.StringToBigInt(s), nil
}

// rejected maps typed ledger rejections to a json error body. Anything
// without a code is a malformed request rather than a rule violation.
func rejected(c *gin.Context, err error) {
	status := http.StatusBadRequest
	if errCode := code.Code(err); errCode == code.IssueNotFound ||
		errCode == code.CompetitionNotFound || errCode == code.ProposalNotFound {
		status = http.StatusNotFound
	}

	c.JSON(status, gin.H{
		"error": map[string]string{
			"code":    strconv.Itoa(int(code.Code(err))),
			"message": err.Error(),
		},
	})
}
