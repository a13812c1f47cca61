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

type CategoryHandler struct {
	Engine *services.RuleEngine
}

func NewCategoryHandler(db *sql.DB) *CategoryHandler {
	return &CategoryHandler{Engine: services.NewRuleEngine(db)}
}

func (h *CategoryHandler) GetPredefinedCategories(c *gin.Context) {
	c.JSON(http.StatusOK, models.PredefinedCategories)
}

func (h *CategoryHandler) GetRules(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rules, err := h.Engine.ListRules(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rules"})
		return
	}
	if rules == nil {
		rules = []models.CategoryRule{}
	}

	c.JSON(http.StatusOK, rules)
}

func (h *CategoryHandler) CreateRule(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.KeywordPattern == "" && req.MerchantPattern == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A keyword or merchant pattern is required"})
		return
	}

	rule, err := h.Engine.CreateRule(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create rule"})
		return
	}

	c.JSON(http.StatusCreated, rule)
}

func (h *CategoryHandler) UpdateRule(c *gin.Context) {
	userID := middleware.GetUserID(c)
	ruleID := c.Param("id")

	var patch models.RulePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule, err := h.Engine.UpdateRule(c.Request.Context(), ruleID, userID, patch)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category rule not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update rule"})
		return
	}

	c.JSON(http.StatusOK, rule)
}

func (h *CategoryHandler) DeleteRule(c *gin.Context) {
	userID := middleware.GetUserID(c)
	ruleID := c.Param("id")

	err := h.Engine.DeleteRule(c.Request.Context(), ruleID, userID)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category rule not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete rule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category rule deleted"})
}
