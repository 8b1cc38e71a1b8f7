package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/justCallMeJeg/eboto/internal/auth"
	"github.com/justCallMeJeg/eboto/internal/logger"
	"github.com/justCallMeJeg/eboto/internal/realtime"
	"github.com/justCallMeJeg/eboto/internal/response"
	"github.com/justCallMeJeg/eboto/internal/services"
)

// ResultsHandler serves tally snapshots, analytics, and the live SSE
// results stream for the organizer dashboard.
type ResultsHandler struct {
	elections *services.ElectionService
	tally     *services.TallyService
	hub       *realtime.Hub
	tokens    *auth.TokenIssuer
	log       *log.Logger
}

// NewResultsHandler creates a results handler.
func NewResultsHandler(elections *services.ElectionService, tally *services.TallyService, hub *realtime.Hub, tokens *auth.TokenIssuer) *ResultsHandler {
	return &ResultsHandler{
		elections: elections,
		tally:     tally,
		hub:       hub,
		tokens:    tokens,
		log:       logger.Handler("results"),
	}
}

// Results handles GET /api/elections/:electionID/results (owner only).
func (h *ResultsHandler) Results(c *gin.Context) {
	ownerID := c.GetString(auth.ContextOrganizerID)
	electionID := c.Param("electionID")

	if _, err := h.elections.GetOwned(ownerID, electionID); err != nil {
		writeError(c, h.log, err)
		return
	}

	snapshot, err := h.tally.ComputeTally(electionID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "", snapshot)
}

// Analytics handles GET /api/elections/:electionID/analytics (owner only).
func (h *ResultsHandler) Analytics(c *gin.Context) {
	ownerID := c.GetString(auth.ContextOrganizerID)
	electionID := c.Param("electionID")

	if _, err := h.elections.GetOwned(ownerID, electionID); err != nil {
		writeError(c, h.log, err)
		return
	}

	analytics, err := h.tally.Turnout(electionID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "", analytics)
}

// Stream handles GET /api/elections/:electionID/results/stream. It sends
// the full tally as the first event, then a partial update with the
// affected positions after each committed ballot. EventSource clients
// cannot set headers, so the session token may also arrive as a query
// parameter.
func (h *ResultsHandler) Stream(c *gin.Context) {
	ownerID, ok := h.streamIdentity(c)
	if !ok {
		response.Unauthorized(c, "Invalid or expired session")
		return
	}

	electionID := c.Param("electionID")
	e, err := h.elections.GetOwned(ownerID, electionID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	snapshot, err := h.tally.ComputeTally(electionID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	events, cancel := h.hub.Subscribe(e.ID)
	defer cancel()

	h.log.Debug("results stream opened", "election_id", electionID)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.SSEvent("snapshot", snapshot)
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case event, open := <-events:
			if !open {
				return false
			}
			snapshot.Apply(event)
			c.SSEvent("positions", snapshot.AffectedPositions(event))
			return true
		case <-clientGone:
			return false
		}
	})

	h.log.Debug("results stream closed", "election_id", electionID)
}

// streamIdentity resolves the organizer from the Authorization header or
// the token query parameter.
func (h *ResultsHandler) streamIdentity(c *gin.Context) (string, bool) {
	if id := c.GetString(auth.ContextOrganizerID); id != "" {
		return id, true
	}

	tokenString := c.Query("token")
	if tokenString == "" {
		header := c.GetHeader("Authorization")
		if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			tokenString = parts[1]
		}
	}
	if tokenString == "" {
		return "", false
	}

	claims, err := h.tokens.Parse(tokenString, auth.KindOrganizerSession)
	if err != nil {
		return "", false
	}

	return claims.Subject, true
}
