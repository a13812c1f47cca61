package handlers

import (
	"database/sql"
	"net/http"

	"github.com/finvault/banking-api/middleware"
	"github.com/finvault/banking-api/services"

	"github.com/gin-gonic/gin"
)

type InsightsHandler struct {
	Insights *services.InsightsService
}

func NewInsightsHandler(db *sql.DB) *InsightsHandler {
	return &InsightsHandler{Insights: services.NewInsightsService(db)}
}

func (h *InsightsHandler) GetSummary(c *gin.Context) {
	userID := middleware.GetUserID(c)

	summary, err := h.Insights.Summary(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *InsightsHandler) GetSpendingByCategory(c *gin.Context) {
	userID := middleware.GetUserID(c)

	spending, err := h.Insights.SpendingByCategory(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch spending"})
		return
	}

	c.JSON(http.StatusOK, spending)
}
