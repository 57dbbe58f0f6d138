package api

import (
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gittensor/bounty-go-node/config"
	"github.com/gittensor/bounty-go-node/core/bounty"
	"github.com/gittensor/bounty-go-node/core/state/issues"
	"github.com/gittensor/bounty-go-node/core/statistics"
	"github.com/gittensor/bounty-go-node/core/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Service exposes the read surface of the ledger over http.
type Service struct {
	ledger *bounty.Ledger
	stats  *statistics.Data
	logger log.Logger
}

func NewService(ledger *bounty.Ledger, stats *statistics.Data, logger log.Logger) *Service {
	return &Service{ledger: ledger, stats: stats, logger: logger}
}

// RunApi starts the http api on the configured address.
func RunApi(ledger *bounty.Ledger, cfg *config.Config, stats *statistics.Data, logger log.Logger) error {
	service := NewService(ledger, stats, logger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), service.timing)

	r.GET("/status", service.status)
	r.GET("/params", service.params)
	r.GET("/pool", service.pool)
	r.GET("/issue/:id", service.issue)
	r.GET("/issues", service.issues)
	r.GET("/competition/:id", service.competition)
	r.GET("/competitions", service.competitions)
	r.GET("/miner/:address", service.minerCompetition)
	r.GET("/proposal/:id", service.proposal)
	r.GET("/events/:height", service.events)
	r.GET("/state", service.state)
	r.POST("/stake/:address/:weight", service.setStake)

	r.POST("/issue", service.registerIssue)
	r.POST("/deposit", service.deposit)
	r.POST("/issue/:id/cancel", service.cancelIssue)
	r.POST("/issue/:id/pair", service.proposePair)
	r.POST("/issue/:id/pair/vote", service.votePair)
	r.POST("/competition/:id/vote/solution", service.voteSolution)
	r.POST("/competition/:id/vote/timeout", service.voteTimeout)
	r.POST("/competition/:id/vote/cancel", service.voteCancel)
	r.POST("/competition/:id/payout", service.payout)
	r.POST("/admin/owner", service.setOwner)
	r.POST("/admin/treasury", service.setTreasury)
	r.POST("/admin/params", service.setParams)

	logger.Info("Running api", "addr", cfg.APIListenAddress)
	return r.Run(strings.TrimPrefix(cfg.APIListenAddress, "tcp://"))
}

func (s *Service) timing(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.stats.SetApiTime(time.Since(start), c.FullPath())
}

func (s *Service) status(c *gin.Context) {
	info := s.stats.GetLastBlockInfo()
	c.JSON(http.StatusOK, gin.H{
		"height":          s.ledger.Height(),
		"block_duration":  info.Duration,
		"block_timestamp": info.Timestamp,
	})
}

func (s *Service) params(c *gin.Context) {
	app := s.ledger.CurrentState().App()
	c.JSON(http.StatusOK, gin.H{
		"owner":                app.GetOwner(),
		"treasury":             app.GetTreasury(),
		"min_bounty":           app.GetMinBounty().String(),
		"submission_window":    app.GetSubmissionWindow(),
		"competition_deadline": app.GetCompetitionDeadline(),
		"proposal_expiry":      app.GetProposalExpiry(),
		"consensus_percent":    app.GetConsensusPercent(),
		"total_deposited":      app.GetTotalDeposited().String(),
		"total_paid_out":       app.GetTotalPaidOut().String(),
	})
}

func (s *Service) pool(c *gin.Context) {
	pool := s.ledger.CurrentState().Pool()
	c.JSON(http.StatusOK, gin.H{
		"amount":        pool.GetAmount().String(),
		"funding_queue": pool.GetQueue(),
	})
}

func (s *Service) issue(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}

	issue := s.ledger.CurrentState().Issues().GetIssue(id)
	if issue == nil {
		notFound(c, "issue not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":             issue.ID,
		"owner":          issue.Owner,
		"repository":     issue.Repository,
		"number":         issue.Number,
		"target":         issue.GetTarget().String(),
		"escrow":         issue.GetEscrow().String(),
		"status":         issue.GetStatus().String(),
		"competition_id": issue.GetCompetitionID(),
		"registered_at":  issue.RegisteredAt,
	})
}

// issues lists registered issues, optionally filtered by status or resolved
// by repository and number through the dedup index.
func (s *Service) issues(c *gin.Context) {
	cs := s.ledger.CurrentState()

	if repository := c.Query("repository"); repository != "" {
		number, err := strconv.ParseUint(c.Query("number"), 10, 32)
		if err != nil {
			badRequest(c, err)
			return
		}

		id, ok := cs.Issues().GetIDByDedupKey(issues.DedupKey(repository, uint32(number)))
		if !ok {
			notFound(c, "issue not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"issue_id": id})
		return
	}

	var state types.AppState
	cs.Issues().Export(&state)

	status := c.Query("status")
	response := make([]types.Issue, 0, len(state.Issues))
	for _, issue := range state.Issues {
		if status != "" && issue.Status.String() != status {
			continue
		}
		response = append(response, issue)
	}

	c.JSON(http.StatusOK, gin.H{"issues": response})
}

func (s *Service) competitions(c *gin.Context) {
	var state types.AppState
	s.ledger.CurrentState().Competitions().Export(&state)

	status := c.Query("status")
	response := make([]types.Competition, 0, len(state.Competitions))
	for _, competition := range state.Competitions {
		if status != "" && competition.Status.String() != status {
			continue
		}
		response = append(response, competition)
	}

	c.JSON(http.StatusOK, gin.H{"competitions": response})
}

// minerCompetition resolves the competition a miner is currently occupied by.
func (s *Service) minerCompetition(c *gin.Context) {
	address := types.HexToAddress(c.Param("address"))

	id, ok := s.ledger.CurrentState().Competitions().GetOccupancy(address)
	if !ok {
		notFound(c, "miner has no active competition")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address":        address,
		"competition_id": id,
	})
}

func (s *Service) competition(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}

	competition := s.ledger.CurrentState().Competitions().GetCompetition(id)
	if competition == nil {
		notFound(c, "competition not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                  competition.ID,
		"issue_id":            competition.IssueID,
		"participant_a":       competition.ParticipantA,
		"participant_b":       competition.ParticipantB,
		"started_at":          competition.StartedAt,
		"submission_deadline": competition.SubmissionDeadline,
		"final_deadline":      competition.FinalDeadline,
		"status":              competition.GetStatus().String(),
		"winner":              competition.GetWinner(),
		"proof_hash":          competition.ProofHash,
		"payout":              competition.GetPayout().String(),
		"paid_out":            competition.IsPaidOut(),
	})
}

func (s *Service) proposal(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}

	proposal := s.ledger.CurrentState().Pairing().GetProposal(id)
	if proposal == nil {
		notFound(c, "no open pair proposal for issue")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"issue_id":      proposal.IssueID,
		"participant_a": proposal.ParticipantA,
		"participant_b": proposal.ParticipantB,
		"proposer":      proposal.Proposer,
		"proposed_at":   proposal.ProposedAt,
		"voted_weight":  proposal.GetAccumulated().String(),
		"voters":        proposal.GetVoters(),
	})
}

func (s *Service) events(c *gin.Context) {
	height, err := strconv.ParseUint(c.Param("height"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}

	loaded := s.ledger.GetEventsDB().LoadEvents(height)
	response := make([]gin.H, 0, len(loaded))
	for _, event := range loaded {
		response = append(response, gin.H{
			"type":  event.Type(),
			"value": event,
		})
	}

	c.JSON(http.StatusOK, gin.H{"events": response})
}

func (s *Service) state(c *gin.Context) {
	c.JSON(http.StatusOK, s.ledger.CurrentState().Export())
}

// setStake feeds a stake weight from the external oracle boundary.
func (s *Service) setStake(c *gin.Context) {
	address := types.HexToAddress(c.Param("address"))
	weight, ok := big.NewInt(0).SetString(c.Param("weight"), 10)
	if !ok || weight.Sign() == -1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": map[string]string{
				"message": "weight must be a non-negative integer",
			},
		})
		return
	}

	s.ledger.Oracle().SetWeight(address, weight)
	c.JSON(http.StatusOK, gin.H{
		"address": address,
		"weight":  weight.String(),
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": map[string]string{
			"message": err.Error(),
		},
	})
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{
		"error": map[string]string{
			"message": message,
		},
	})
}
