// Package handlers contains the gin HTTP handlers. Handlers bind and
// validate request shapes, call into services, and translate errors into
// the response envelope; they hold no business logic.
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

// AuthHandler serves organizer account endpoints.
type AuthHandler struct {
	accounts *services.AccountService
	log      *log.Logger
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(accounts *services.AccountService) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		log:      logger.Handler("auth"),
	}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Email and password are required.")
		return
	}

	o, token, err := h.accounts.Signup(req.Email, req.Password)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, "Account created.", gin.H{
		"organizer": o,
		"token":     token,
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Email and password are required.")
		return
	}

	o, token, err := h.accounts.Login(req.Email, req.Password)
	if err != nil {
		response.Unauthorized(c, "Invalid email or password.")
		return
	}

	response.Success(c, http.StatusOK, "Logged in.", gin.H{
		"organizer": o,
		"token":     token,
	})
}

type recoveryRequest struct {
	Email string `json:"email" binding:"required"`
}

// RequestRecovery handles POST /api/auth/recovery
func (h *AuthHandler) RequestRecovery(c *gin.Context) {
	var req recoveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Email is required.")
		return
	}

	if err := h.accounts.RequestRecovery(req.Email); err != nil {
		writeError(c, h.log, err)
		return
	}

	// Same message whether or not the account exists.
	response.Success(c, http.StatusOK, "If that email has an account, a reset link is on its way.", nil)
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ResetPassword handles POST /api/auth/recovery/reset
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Token and password are required.")
		return
	}

	if err := h.accounts.ResetPassword(req.Token, req.Password); err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "Password reset. You can now log in.", nil)
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// UpdatePassword handles POST /api/auth/password (organizer session)
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Current and new passwords are required.")
		return
	}

	organizerID := c.GetString(auth.ContextOrganizerID)
	if err := h.accounts.UpdatePassword(organizerID, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "Password updated.", nil)
}
