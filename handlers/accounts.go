package handlers

import (
	"database/sql"
	"net/http"

	"github.com/finvault/banking-api/middleware"
	"github.com/finvault/banking-api/models"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	DB *sql.DB
}

func (h *AccountHandler) GetAccounts(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT id, user_id, bank_name, account_type, balance, created_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch accounts"})
		return
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(&account.ID, &account.UserID, &account.BankName,
			&account.AccountType, &account.Balance, &account.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read accounts"})
			return
		}
		accounts = append(accounts, account)
	}

	c.JSON(http.StatusOK, accounts)
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var account models.Account
	err := h.DB.QueryRow(`
		INSERT INTO accounts (user_id, bank_name, account_type, balance)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, bank_name, account_type, balance, created_at
	`, userID, req.BankName, req.AccountType, req.Balance).Scan(
		&account.ID, &account.UserID, &account.BankName,
		&account.AccountType, &account.Balance, &account.CreatedAt,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	c.JSON(http.StatusCreated, account)
}
