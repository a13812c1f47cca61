package handlers

import (
	"database/sql"
	"net/http"

	"github.com/finvault/banking-api/middleware"
	"github.com/finvault/banking-api/models"
	"github.com/finvault/banking-api/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	DB *sql.DB
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var user models.User
	err := h.DB.QueryRow(`
		SELECT id, name, email, COALESCE(phone, ''), kyc_status, totp_enabled, created_at
		FROM users
		WHERE id = $1
	`, userID).Scan(&user.ID, &user.Name, &user.Email, &user.Phone,
		&user.KYCStatus, &user.TOTPEnabled, &user.CreatedAt)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) SetupTOTP(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var email string
	if err := h.DB.QueryRow("SELECT email FROM users WHERE id = $1", userID).Scan(&email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	secret, url, err := utils.GenerateTOTPSecret(email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate 2FA secret"})
		return
	}

	if _, err := h.DB.Exec("UPDATE users SET totp_secret = $1 WHERE id = $2", secret, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store 2FA secret"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"secret": secret, "url": url})
}

func (h *UserHandler) VerifyTOTP(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var secret sql.NullString
	if err := h.DB.QueryRow("SELECT totp_secret FROM users WHERE id = $1", userID).Scan(&secret); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}
	if !secret.Valid || !utils.VerifyTOTP(secret.String, req.Code) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid 2FA code"})
		return
	}

	if _, err := h.DB.Exec("UPDATE users SET totp_enabled = TRUE WHERE id = $1", userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enable 2FA"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "2FA enabled"})
}

func (h *UserHandler) DisableTOTP(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if _, err := h.DB.Exec(
		"UPDATE users SET totp_enabled = FALSE, totp_secret = NULL WHERE id = $1", userID,
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to disable 2FA"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "2FA disabled"})
}
