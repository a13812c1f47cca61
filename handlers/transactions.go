package handlers

import (
	"database/sql"
	"net/http"

	"github.com/finvault/banking-api/middleware"
	"github.com/finvault/banking-api/models"
	"github.com/finvault/banking-api/services"

	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	DB     *sql.DB
	Engine *services.RuleEngine
}

func NewTransactionHandler(db *sql.DB) *TransactionHandler {
	return &TransactionHandler{
		DB:     db,
		Engine: services.NewRuleEngine(db),
	}
}

func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT t.id, t.account_id, t.description, t.merchant, t.category, t.amount, t.created_at
		FROM transactions t
		JOIN accounts a ON t.account_id = a.id
		WHERE a.user_id = $1
		ORDER BY t.created_at DESC
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var txn models.Transaction
		var merchant, category sql.NullString
		if err := rows.Scan(&txn.ID, &txn.AccountID, &txn.Description,
			&merchant, &category, &txn.Amount, &txn.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read transactions"})
			return
		}
		if merchant.Valid {
			txn.Merchant = &merchant.String
		}
		if category.Valid {
			txn.Category = &category.String
		}
		transactions = append(transactions, txn)
	}

	c.JSON(http.StatusOK, transactions)
}

// CreateTransaction records a transaction. When no category is given the
// rule engine assigns one; if no rule matches, the category stays unset
// rather than being stored as the sentinel.
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var owned bool
	err := h.DB.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1 AND user_id = $2)
	`, req.AccountID, userID).Scan(&owned)
	if err != nil || !owned {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account not found"})
		return
	}

	category := req.Category
	if category == "" {
		category, err = h.Engine.CategorizeTransaction(c.Request.Context(), userID, req.Description, req.Merchant)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to categorize transaction"})
			return
		}
		if category == services.DefaultCategory {
			category = ""
		}
	}

	var categoryArg, merchantArg sql.NullString
	if category != "" {
		categoryArg = sql.NullString{String: category, Valid: true}
	}
	if req.Merchant != "" {
		merchantArg = sql.NullString{String: req.Merchant, Valid: true}
	}

	var txn models.Transaction
	var merchant, storedCategory sql.NullString
	err = h.DB.QueryRow(`
		INSERT INTO transactions (account_id, description, merchant, category, amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, account_id, description, merchant, category, amount, created_at
	`, req.AccountID, req.Description, merchantArg, categoryArg, req.Amount).Scan(
		&txn.ID, &txn.AccountID, &txn.Description, &merchant, &storedCategory, &txn.Amount, &txn.CreatedAt,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create transaction"})
		return
	}
	if merchant.Valid {
		txn.Merchant = &merchant.String
	}
	if storedCategory.Valid {
		txn.Category = &storedCategory.String
	}

	c.JSON(http.StatusCreated, txn)
}

// UpdateCategory corrects the category of a transaction the user owns.
func (h *TransactionHandler) UpdateCategory(c *gin.Context) {
	userID := middleware.GetUserID(c)
	txnID := c.Param("id")

	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Exec(`
		UPDATE transactions t
		SET category = $1
		FROM accounts a
		WHERE t.id = $2 AND t.account_id = a.id AND a.user_id = $3
	`, req.Category, txnID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category updated"})
}

type CategorizeRequest struct {
	Description string `json:"description"`
	Merchant    string `json:"merchant"`
}

// Categorize previews what category the rule engine would assign.
func (h *TransactionHandler) Categorize(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req CategorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.Engine.CategorizeTransaction(c.Request.Context(), userID, req.Description, req.Merchant)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to categorize"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"description": req.Description,
		"category":    category,
	})
}

// CategorizeAll applies the rule engine to every uncategorized transaction
// of the user.
func (h *TransactionHandler) CategorizeAll(c *gin.Context) {
	userID := middleware.GetUserID(c)

	count, err := h.Engine.CategorizeAll(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to categorize transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categorized": count})
}
