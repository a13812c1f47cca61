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

type AlertHandler struct {
	Alerts *services.AlertService
	WS     *WSHandler
}

func NewAlertHandler(db *sql.DB, ws *WSHandler) *AlertHandler {
	return &AlertHandler{Alerts: services.NewAlertService(db), WS: ws}
}

func (h *AlertHandler) GetAlerts(c *gin.Context) {
	userID := middleware.GetUserID(c)
	unreadOnly := c.Query("unread") == "true"

	alerts, err := h.Alerts.ListAlerts(c.Request.Context(), userID, unreadOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch alerts"})
		return
	}
	if alerts == nil {
		alerts = []models.Alert{}
	}

	c.JSON(http.StatusOK, alerts)
}

func (h *AlertHandler) GetUnreadCount(c *gin.Context) {
	userID := middleware.GetUserID(c)

	count, err := h.Alerts.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count alerts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

func (h *AlertHandler) CreateAlert(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alert, err := h.Alerts.CreateAlert(c.Request.Context(), userID, req.Title, req.Message, req.AlertType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create alert"})
		return
	}

	h.WS.BroadcastAlert(userID, alert)
	c.JSON(http.StatusCreated, alert)
}

// CheckBudgets runs the overspend check against every budget the user holds.
func (h *AlertHandler) CheckBudgets(c *gin.Context) {
	userID := middleware.GetUserID(c)

	created, err := h.Alerts.CheckAllBudgets(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check budgets"})
		return
	}
	if created == nil {
		created = []models.Alert{}
	}

	for i := range created {
		h.WS.BroadcastAlert(userID, &created[i])
	}

	c.JSON(http.StatusOK, gin.H{"alerts_created": len(created), "alerts": created})
}

func (h *AlertHandler) MarkAsRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	alertID := c.Param("id")

	err := h.Alerts.MarkAsRead(c.Request.Context(), alertID, userID)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update alert"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Alert marked as read"})
}

func (h *AlertHandler) MarkAllAsRead(c *gin.Context) {
	userID := middleware.GetUserID(c)

	count, err := h.Alerts.MarkAllAsRead(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update alerts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked_read": count})
}

func (h *AlertHandler) DeleteAlert(c *gin.Context) {
	userID := middleware.GetUserID(c)
	alertID := c.Param("id")

	err := h.Alerts.DeleteAlert(c.Request.Context(), alertID, userID)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete alert"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Alert deleted"})
}
