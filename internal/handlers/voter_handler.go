package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/justCallMeJeg/eboto/internal/auth"
	"github.com/justCallMeJeg/eboto/internal/logger"
	"github.com/justCallMeJeg/eboto/internal/response"
	"github.com/justCallMeJeg/eboto/internal/services"
)

// VoterHandler serves the organizer's voter-registry endpoints.
type VoterHandler struct {
	voters *services.VoterService
	log    *log.Logger
}

// NewVoterHandler creates a voter handler.
func NewVoterHandler(voters *services.VoterService) *VoterHandler {
	return &VoterHandler{
		voters: voters,
		log:    logger.Handler("voter"),
	}
}

type voterRequest struct {
	Email   string `json:"email" binding:"required"`
	GroupID string `json:"group_id"`
}

// Register handles POST /api/elections/:electionID/voters
func (h *VoterHandler) Register(c *gin.Context) {
	var req voterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Email is required.")
		return
	}

	ownerID := c.GetString(auth.ContextOrganizerID)
	v, err := h.voters.Register(ownerID, c.Param("electionID"), req.Email, req.GroupID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, "Voter registered.", v)
}

// List handles GET /api/elections/:electionID/voters
func (h *VoterHandler) List(c *gin.Context) {
	ownerID := c.GetString(auth.ContextOrganizerID)
	voters, err := h.voters.List(ownerID, c.Param("electionID"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "", voters)
}

// Update handles PUT /api/elections/:electionID/voters/:voterID
func (h *VoterHandler) Update(c *gin.Context) {
	var req voterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Email is required.")
		return
	}

	ownerID := c.GetString(auth.ContextOrganizerID)
	v, err := h.voters.Update(ownerID, c.Param("electionID"), c.Param("voterID"), req.Email, req.GroupID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "Voter updated.", v)
}

// Delete handles DELETE /api/elections/:electionID/voters/:voterID
func (h *VoterHandler) Delete(c *gin.Context) {
	ownerID := c.GetString(auth.ContextOrganizerID)
	if err := h.voters.Delete(ownerID, c.Param("electionID"), c.Param("voterID")); err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "Voter deleted.", nil)
}
