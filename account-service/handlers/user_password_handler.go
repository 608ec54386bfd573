package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"orghub-backend/account-service/services"
	utils "orghub-backend/shared/utils/auth"
	"orghub-backend/shared/utils/response"
)

// ForgotPasswordRequest represents the request body for requesting a reset
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest represents the request body for consuming a reset token
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// POST /api/v0/users/request-forgot-password
// @Summary Request password reset
// @Description Generate a single-use reset token and email a reset link
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 200 {object} response.Envelope "Email sent"
// @Failure 404 {object} response.Envelope "User not found"
// @Failure 500 {object} response.Envelope "Email send failure"
// @Router /users/request-forgot-password [post]
func (h *UserHandler) RequestForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BadRequest(err.Error()))
		return
	}

	user, err := h.users.FindByEmail(utils.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, response.NotFound("User not found with the email entered"))
			return
		}
		response.Error(c, response.InternalServerError(""))
		return
	}

	unhashedToken, hashedToken, expiryTime, err := utils.GenerateResetToken(h.cfg.GetResetTokenExpireDuration())
	if err != nil {
		response.Error(c, response.InternalServerError("Could not create reset token"))
		return
	}

	// Only the hash and expiry are persisted; the plaintext goes in the link
	if err := h.users.UpdateFields(user.ID, map[string]interface{}{
		"reset_password_token":  hashedToken,
		"reset_password_expiry": expiryTime,
	}); err != nil {
		response.Error(c, response.InternalServerError("Could not create reset token"))
		return
	}

	resetLink := fmt.Sprintf("%s/api/v0/users/reset-forgotten-password/%s", h.cfg.FrontendURL, unhashedToken)

	subject, body, err := services.ForgotPasswordMail(
		fmt.Sprintf("%s %s", user.FirstName, user.LastName),
		resetLink,
	)
	if err != nil {
		response.Error(c, response.InternalServerError("Error in sending the email"))
		return
	}

	if err := h.mailer.Send(services.EmailMessage{
		To:      []string{user.Email},
		Subject: subject,
		Body:    body,
		IsHTML:  true,
	}); err != nil {
		response.Error(c, response.InternalServerError("Error in sending the email"))
		return
	}

	response.Success(c, http.StatusOK, nil, "Email sent successfully")
}

// GET /api/v0/users/reset-forgotten-password/:id
// @Summary Validate reset token
// @Description Check a reset token without consuming it
// @Tags users
// @Produce json
// @Param id path string true "Reset token"
// @Success 200 {object} response.Envelope "Valid token"
// @Failure 401 {object} response.Envelope "Invalid or expired token"
// @Router /users/reset-forgotten-password/{id} [get]
func (h *UserHandler) ValidateResetToken(c *gin.Context) {
	resetToken := c.Param("id")
	if strings.TrimSpace(resetToken) == "" {
		response.Error(c, response.BadRequest("Reset token is required"))
		return
	}

	hashedToken := utils.HashToken(resetToken)

	if _, err := h.users.FindByResetToken(hashedToken, time.Now()); err != nil {
		response.Error(c, response.Unauthorized("Invalid or expired token"))
		return
	}

	response.Success(c, http.StatusOK, nil, "Valid token")
}

// PATCH /api/v0/users/reset-forgotten-password/:id
// @Summary Reset forgotten password
// @Description Consume a reset token and set a new password
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "Reset token"
// @Param request body ResetPasswordRequest true "New password"
// @Success 200 {object} response.Envelope "Password reset"
// @Failure 400 {object} response.Envelope "Password policy violation"
// @Failure 401 {object} response.Envelope "Invalid or expired token"
// @Router /users/reset-forgotten-password/{id} [patch]
func (h *UserHandler) ResetForgottenPassword(c *gin.Context) {
	resetToken := c.Param("id")
	if strings.TrimSpace(resetToken) == "" {
		response.Error(c, response.Unauthorized("Reset token is required"))
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BadRequest(err.Error()))
		return
	}

	if req.NewPassword == "" {
		response.Error(c, response.BadRequest("New password is required"))
		return
	}

	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		response.Error(c, response.BadRequest("Password must be at least 8 characters long and include both letters and numbers"))
		return
	}

	hashedToken := utils.HashToken(resetToken)

	user, err := h.users.FindByResetToken(hashedToken, time.Now())
	if err != nil {
		response.Error(c, response.Unauthorized("Invalid or expired reset token"))
		return
	}

	passwordHash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		response.Error(c, response.InternalServerError("Could not hash password"))
		return
	}

	// Writes the new hash and clears both reset columns in one update;
	// a second attempt with the same token fails the lookup above.
	if err := h.users.ConsumeResetToken(user.ID, passwordHash); err != nil {
		response.Error(c, response.InternalServerError("Could not update password"))
		return
	}

	response.Success(c, http.StatusOK, nil, "Password has been reset successfully")
}
