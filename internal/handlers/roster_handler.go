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

// maxPortraitSize caps candidate portrait uploads at 5 MiB.
const maxPortraitSize = 5 << 20

// RosterHandler serves group, position, and candidate endpoints under an
// election.
type RosterHandler struct {
	roster *services.RosterService
	log    *log.Logger
}

// NewRosterHandler creates a roster handler.
func NewRosterHandler(roster *services.RosterService) *RosterHandler {
	return &RosterHandler{
		roster: roster,
		log:    logger.Handler("roster"),
	}
}

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateGroup handles POST /api/elections/:electionID/groups
func (h *RosterHandler) CreateGroup(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Name is required.")
		return
	}

	ownerID := c.GetString(auth.ContextOrganizerID)
	g, err := h.roster.CreateGroup(ownerID, c.Param("electionID"), req.Name)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, "Group created.", g)
}

// ListGroups handles GET /api/elections/:electionID/groups
func (h *RosterHandler) ListGroups(c *gin.Context) {
	ownerID := c.GetString(auth.ContextOrganizerID)
	groups, err := h.roster.ListGroups(ownerID, c.Param("electionID"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "", groups)
}

// UpdateGroup handles PUT /api/elections/:electionID/groups/:groupID
func (h *RosterHandler) UpdateGroup(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Name is required.")
		return
	}

	ownerID := c.GetString(auth.ContextOrganizerID)
	g, err := h.roster.UpdateGroup(ownerID, c.Param("electionID"), c.Param("groupID"), req.Name)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "Group updated.", g)
}

// DeleteGroup handles DELETE /api/elections/:electionID/groups/:groupID
func (h *RosterHandler) DeleteGroup(c *gin.Context) {
	ownerID := c.GetString(auth.ContextOrganizerID)
	if err := h.roster.DeleteGroup(ownerID, c.Param("electionID"), c.Param("groupID")); err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "Group deleted.", nil)
}

// CreatePosition handles POST /api/elections/:electionID/positions
func (h *RosterHandler) CreatePosition(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Name is required.")
		return
	}

	ownerID := c.GetString(auth.ContextOrganizerID)
	p, err := h.roster.CreatePosition(ownerID, c.Param("electionID"), req.Name)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, "Position created.", p)
}

// ListPositions handles GET /api/elections/:electionID/positions
func (h *RosterHandler) ListPositions(c *gin.Context) {
	ownerID := c.GetString(auth.ContextOrganizerID)
	positions, err := h.roster.ListPositions(ownerID, c.Param("electionID"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "", positions)
}

// UpdatePosition handles PUT /api/elections/:electionID/positions/:positionID
func (h *RosterHandler) UpdatePosition(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Name is required.")
		return
	}

	ownerID := c.GetString(auth.ContextOrganizerID)
	p, err := h.roster.UpdatePosition(ownerID, c.Param("electionID"), c.Param("positionID"), req.Name)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "Position updated.", p)
}

// DeletePosition handles DELETE /api/elections/:electionID/positions/:positionID
func (h *RosterHandler) DeletePosition(c *gin.Context) {
	ownerID := c.GetString(auth.ContextOrganizerID)
	if err := h.roster.DeletePosition(ownerID, c.Param("electionID"), c.Param("positionID")); err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "Position deleted.", nil)
}

type candidateRequest struct {
	PositionID  string `json:"position_id" binding:"required"`
	GroupID     string `json:"group_id"`
	DisplayName string `json:"display_name" binding:"required"`
	Party       string `json:"party" binding:"required"`
	ImageURL    string `json:"image_url"`
}

func (r candidateRequest) toInput() services.CandidateInput {
	return services.CandidateInput{
		PositionID:  r.PositionID,
		GroupID:     r.GroupID,
		DisplayName: r.DisplayName,
		Party:       r.Party,
		ImageURL:    r.ImageURL,
	}
}

// CreateCandidate handles POST /api/elections/:electionID/candidates
func (h *RosterHandler) CreateCandidate(c *gin.Context) {
	var req candidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Position, display name, and party are required.")
		return
	}

	ownerID := c.GetString(auth.ContextOrganizerID)
	candidate, err := h.roster.CreateCandidate(ownerID, c.Param("electionID"), req.toInput())
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, "Candidate created.", candidate)
}

// ListCandidates handles GET /api/elections/:electionID/candidates
func (h *RosterHandler) ListCandidates(c *gin.Context) {
	ownerID := c.GetString(auth.ContextOrganizerID)
	candidates, err := h.roster.ListCandidates(ownerID, c.Param("electionID"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "", candidates)
}

// UpdateCandidate handles PUT /api/elections/:electionID/candidates/:candidateID
func (h *RosterHandler) UpdateCandidate(c *gin.Context) {
	var req candidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Position, display name, and party are required.")
		return
	}

	ownerID := c.GetString(auth.ContextOrganizerID)
	candidate, err := h.roster.UpdateCandidate(ownerID, c.Param("electionID"), c.Param("candidateID"), req.toInput())
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate updated.", candidate)
}

// DeleteCandidate handles DELETE /api/elections/:electionID/candidates/:candidateID
func (h *RosterHandler) DeleteCandidate(c *gin.Context) {
	ownerID := c.GetString(auth.ContextOrganizerID)
	if err := h.roster.DeleteCandidate(ownerID, c.Param("electionID"), c.Param("candidateID")); err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate deleted.", nil)
}

// UploadPortrait handles POST /api/elections/:electionID/candidates/:candidateID/portrait
func (h *RosterHandler) UploadPortrait(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		response.BadRequest(c, "An image file is required.")
		return
	}
	defer file.Close()

	if header.Size > maxPortraitSize {
		response.BadRequest(c, "Portrait must be 5 MB or smaller.")
		return
	}

	ownerID := c.GetString(auth.ContextOrganizerID)
	candidate, err := h.roster.UploadPortrait(
		c.Request.Context(),
		ownerID,
		c.Param("electionID"),
		c.Param("candidateID"),
		file,
		header.Size,
		header.Header.Get("Content-Type"),
	)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "Portrait uploaded.", candidate)
}
