package handlers

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/justCallMeJeg/eboto/internal/domain/common"
	"github.com/justCallMeJeg/eboto/internal/response"
)

// writeError maps a service error onto the HTTP response envelope. Every
// handler funnels its failures through here so the sentinel-to-status
// mapping lives in one place.
func writeError(c *gin.Context, logger *log.Logger, err error) {
	if ve, ok := common.AsValidationError(err); ok {
		response.FieldErrors(c, ve.Fields)
		return
	}

	switch {
	case errors.Is(err, common.ErrNotFound):
		response.NotFound(c, "The requested resource was not found.")
	case errors.Is(err, common.ErrUnauthorized):
		response.Forbidden(c, "You do not have access to this resource.")
	case errors.Is(err, common.ErrAlreadyVoted):
		response.Conflict(c, "A ballot has already been submitted for this voter.")
	case errors.Is(err, common.ErrElectionNotActive):
		response.Conflict(c, "This election is not open for voting.")
	case errors.Is(err, common.ErrInvalidTransition):
		response.Conflict(c, "The election cannot change to that status.")
	case errors.Is(err, common.ErrDuplicateVoter):
		response.Conflict(c, "This email is already registered for this election.")
	case errors.Is(err, common.ErrAuthDelivery):
		response.Error(c, http.StatusBadGateway, "Could not deliver the login email. Please try again.")
	default:
		logger.Error("unhandled error", "error", err, "path", c.FullPath())
		response.Internal(c)
	}
}
