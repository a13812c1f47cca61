package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/finvault/banking-api/middleware"
	"github.com/finvault/banking-api/models"
	"github.com/finvault/banking-api/services"

	"github.com/gin-gonic/gin"
)

type BudgetHandler struct {
	Budgets *services.BudgetService
	Alerts  *services.AlertService
	WS      *WSHandler
}

func NewBudgetHandler(db *sql.DB, ws *WSHandler) *BudgetHandler {
	return &BudgetHandler{
		Budgets: services.NewBudgetService(db),
		Alerts:  services.NewAlertService(db),
		WS:      ws,
	}
}

// GetBudgets returns the user's budgets for a month (default: current),
// recalculated and enriched with progress metrics.
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	userID := middleware.GetUserID(c)

	month := c.Query("month")
	if month == "" {
		month = services.CurrentMonth()
	}

	budgets, err := h.Budgets.GetBudgetsWithProgress(c.Request.Context(), userID, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch budgets"})
		return
	}

	c.JSON(http.StatusOK, budgets)
}

func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	budget, err := h.Budgets.CreateBudget(c.Request.Context(), userID, req)
	if errors.Is(err, services.ErrDuplicateBudget) {
		c.JSON(http.StatusConflict, gin.H{"error": "Budget already exists for this category and month"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create budget"})
		return
	}

	c.JSON(http.StatusCreated, budget)
}

// RecalculateBudgets recomputes spent amounts for the user's budgets in a
// month and runs the overspend check on each.
func (h *BudgetHandler) RecalculateBudgets(c *gin.Context) {
	userID := middleware.GetUserID(c)

	month := c.Query("month")
	if month == "" {
		month = services.CurrentMonth()
	}

	budgets, err := h.Budgets.RecalculateAll(c.Request.Context(), userID, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recalculate budgets"})
		return
	}

	for _, budget := range budgets {
		alert, err := h.Alerts.CheckBudgetExceeded(c.Request.Context(), budget.ID, userID)
		if err == nil && alert != nil {
			h.WS.BroadcastAlert(userID, alert)
		}
	}

	c.JSON(http.StatusOK, budgets)
}

func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	userID := middleware.GetUserID(c)
	budgetID := c.Param("id")

	var req models.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.Budgets.UpdateLimit(c.Request.Context(), budgetID, userID, req.LimitAmount)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Budget not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update budget"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget updated"})
}

func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID := middleware.GetUserID(c)
	budgetID := c.Param("id")

	err := h.Budgets.DeleteBudget(c.Request.Context(), budgetID, userID)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Budget not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete budget"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted"})
}

// CheckBudgetAlert runs the overspend check for one budget.
func (h *BudgetHandler) CheckBudgetAlert(c *gin.Context) {
	userID := middleware.GetUserID(c)
	budgetID := c.Param("id")

	alert, err := h.Alerts.CheckBudgetExceeded(c.Request.Context(), budgetID, userID)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Budget not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check budget"})
		return
	}

	if alert == nil {
		c.JSON(http.StatusOK, gin.H{"alert": nil})
		return
	}

	h.WS.BroadcastAlert(userID, alert)
	c.JSON(http.StatusCreated, gin.H{"alert": alert})
}
