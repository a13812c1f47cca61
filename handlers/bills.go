package handlers

import (
	"database/sql"
	"net/http"

	"github.com/finvault/banking-api/middleware"
	"github.com/finvault/banking-api/models"

	"github.com/gin-gonic/gin"
)

type BillHandler struct {
	DB *sql.DB
}

func (h *BillHandler) GetBills(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT id, user_id, bill_name, amount, due_date, is_paid, COALESCE(category, '')
		FROM bills
		WHERE user_id = $1
		ORDER BY due_date
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bills"})
		return
	}
	defer rows.Close()

	bills := []models.Bill{}
	for rows.Next() {
		var bill models.Bill
		if err := rows.Scan(&bill.ID, &bill.UserID, &bill.BillName,
			&bill.Amount, &bill.DueDate, &bill.IsPaid, &bill.Category); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read bills"})
			return
		}
		bills = append(bills, bill)
	}

	c.JSON(http.StatusOK, bills)
}

func (h *BillHandler) CreateBill(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var bill models.Bill
	err := h.DB.QueryRow(`
		INSERT INTO bills (user_id, bill_name, amount, due_date, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, bill_name, amount, due_date, is_paid, category
	`, userID, req.BillName, req.Amount, req.DueDate, req.Category).Scan(
		&bill.ID, &bill.UserID, &bill.BillName,
		&bill.Amount, &bill.DueDate, &bill.IsPaid, &bill.Category,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bill"})
		return
	}

	c.JSON(http.StatusCreated, bill)
}

func (h *BillHandler) MarkBillPaid(c *gin.Context) {
	userID := middleware.GetUserID(c)
	billID := c.Param("id")

	result, err := h.DB.Exec(`
		UPDATE bills SET is_paid = TRUE WHERE id = $1 AND user_id = $2
	`, billID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bill"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bill not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bill marked as paid"})
}

func (h *BillHandler) DeleteBill(c *gin.Context) {
	userID := middleware.GetUserID(c)
	billID := c.Param("id")

	result, err := h.DB.Exec(`
		DELETE FROM bills WHERE id = $1 AND user_id = $2
	`, billID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete bill"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bill not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bill deleted"})
}
