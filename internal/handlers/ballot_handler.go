package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/justCallMeJeg/eboto/internal/auth"
	"github.com/justCallMeJeg/eboto/internal/domain/ballot"
	"github.com/justCallMeJeg/eboto/internal/logger"
	"github.com/justCallMeJeg/eboto/internal/response"
	"github.com/justCallMeJeg/eboto/internal/services"
)

// BallotHandler serves the voter-facing endpoints: magic-link login,
// session exchange, ballot retrieval, and submission.
type BallotHandler struct {
	accounts *services.AccountService
	ballots  *services.BallotService
	log      *log.Logger
}

// NewBallotHandler creates a ballot handler.
func NewBallotHandler(accounts *services.AccountService, ballots *services.BallotService) *BallotHandler {
	return &BallotHandler{
		accounts: accounts,
		ballots:  ballots,
		log:      logger.Handler("ballot"),
	}
}

type voterLoginRequest struct {
	Email string `json:"email" binding:"required"`
}

// RequestLogin handles POST /api/ballot/:electionID/login. An email that
// is not on the registry gets a success-shaped answer with
// registered=false rather than an error.
func (h *BallotHandler) RequestLogin(c *gin.Context) {
	var req voterLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Email is required.")
		return
	}

	registered, message, err := h.accounts.RequestVoterLogin(c.Param("electionID"), req.Email)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, message, gin.H{"registered": registered})
}

type sessionExchangeRequest struct {
	Token string `json:"token" binding:"required"`
}

// ExchangeSession handles POST /api/ballot/:electionID/session, trading
// a magic-link token for a voter session. The token must have been
// issued for the election in the path.
func (h *BallotHandler) ExchangeSession(c *gin.Context) {
	var req sessionExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Token is required.")
		return
	}

	v, session, err := h.accounts.ExchangeMagicLink(req.Token)
	if err != nil || v.ElectionID.String() != c.Param("electionID") {
		response.Unauthorized(c, "Invalid or expired voting link.")
		return
	}

	response.Success(c, http.StatusOK, "Session established.", gin.H{
		"voter": v,
		"token": session,
	})
}

// Get handles GET /api/ballot/:electionID (voter session). The session
// is bound to one election; a mismatched path is rejected.
func (h *BallotHandler) Get(c *gin.Context) {
	electionID := c.Param("electionID")
	if c.GetString(auth.ContextElectionID) != electionID {
		response.Forbidden(c, "This session is not valid for this election.")
		return
	}

	result, err := h.ballots.GetBallotForVoter(electionID, c.GetString(auth.ContextVoterID))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "", result)
}

type submitBallotRequest struct {
	// Selections maps position ID to the chosen candidate ID. An empty
	// map is a valid abstention ballot.
	Selections map[string]string `json:"selections"`
}

// Submit handles POST /api/ballot/:electionID/submit (voter session).
func (h *BallotHandler) Submit(c *gin.Context) {
	electionID := c.Param("electionID")
	if c.GetString(auth.ContextElectionID) != electionID {
		response.Forbidden(c, "This session is not valid for this election.")
		return
	}

	var req submitBallotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Malformed ballot payload.")
		return
	}

	selections := make(ballot.Selections, len(req.Selections))
	for positionID, candidateID := range req.Selections {
		positionUUID, err := uuid.Parse(positionID)
		if err != nil {
			response.BadRequest(c, "Malformed position ID in selections.")
			return
		}
		candidateUUID, err := uuid.Parse(candidateID)
		if err != nil {
			response.BadRequest(c, "Malformed candidate ID in selections.")
			return
		}
		selections[positionUUID] = candidateUUID
	}

	if err := h.ballots.SubmitBallot(electionID, c.GetString(auth.ContextVoterID), selections); err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "Your ballot has been cast.", nil)
}
