package handlers

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/justCallMeJeg/eboto/internal/auth"
	"github.com/justCallMeJeg/eboto/internal/logger"
	"github.com/justCallMeJeg/eboto/internal/response"
	"github.com/justCallMeJeg/eboto/internal/services"
)

// ElectionHandler serves the organizer's election endpoints.
type ElectionHandler struct {
	elections *services.ElectionService
	log       *log.Logger
}

// NewElectionHandler creates an election handler.
func NewElectionHandler(elections *services.ElectionService) *ElectionHandler {
	return &ElectionHandler{
		elections: elections,
		log:       logger.Handler("election"),
	}
}

type createElectionRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
}

// Create handles POST /api/elections
func (h *ElectionHandler) Create(c *gin.Context) {
	var req createElectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Name, start date, and end date are required.")
		return
	}

	ownerID := c.GetString(auth.ContextOrganizerID)
	e, err := h.elections.Create(ownerID, req.Name, req.Description, req.StartDate, req.EndDate)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, "Election created.", e)
}

// List handles GET /api/elections
func (h *ElectionHandler) List(c *gin.Context) {
	ownerID := c.GetString(auth.ContextOrganizerID)
	elections, err := h.elections.ListByOwner(ownerID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "", elections)
}

// Get handles GET /api/elections/:electionID
func (h *ElectionHandler) Get(c *gin.Context) {
	ownerID := c.GetString(auth.ContextOrganizerID)
	e, err := h.elections.GetOwned(ownerID, c.Param("electionID"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "", e)
}

// Start handles POST /api/elections/:electionID/start
func (h *ElectionHandler) Start(c *gin.Context) {
	ownerID := c.GetString(auth.ContextOrganizerID)
	e, err := h.elections.Start(ownerID, c.Param("electionID"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "Election started.", e)
}

// Delete handles DELETE /api/elections/:electionID
func (h *ElectionHandler) Delete(c *gin.Context) {
	ownerID := c.GetString(auth.ContextOrganizerID)
	if err := h.elections.Delete(ownerID, c.Param("electionID")); err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "Election deleted.", nil)
}
