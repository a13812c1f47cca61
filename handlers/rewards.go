package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/finvault/banking-api/middleware"
	"github.com/finvault/banking-api/models"

	"github.com/gin-gonic/gin"
)

type RewardHandler struct {
	DB *sql.DB
}

func (h *RewardHandler) GetRewards(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT id, user_id, points, COALESCE(description, ''), earned_date, expires_date
		FROM rewards
		WHERE user_id = $1
		ORDER BY earned_date DESC
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rewards"})
		return
	}
	defer rows.Close()

	rewards := []models.Reward{}
	for rows.Next() {
		var reward models.Reward
		if err := rows.Scan(&reward.ID, &reward.UserID, &reward.Points,
			&reward.Description, &reward.EarnedDate, &reward.ExpiresDate); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read rewards"})
			return
		}
		rewards = append(rewards, reward)
	}

	c.JSON(http.StatusOK, rewards)
}

func (h *RewardHandler) CreateReward(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Points expire a year after they are earned.
	earned := time.Now().UTC()
	expires := earned.AddDate(1, 0, 0)

	var reward models.Reward
	err := h.DB.QueryRow(`
		INSERT INTO rewards (user_id, points, description, earned_date, expires_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, points, description, earned_date, expires_date
	`, userID, req.Points, req.Description, earned, expires).Scan(
		&reward.ID, &reward.UserID, &reward.Points,
		&reward.Description, &reward.EarnedDate, &reward.ExpiresDate,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reward"})
		return
	}

	c.JSON(http.StatusCreated, reward)
}

// GetPointsBalance sums the user's unexpired reward points.
func (h *RewardHandler) GetPointsBalance(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var total int
	err := h.DB.QueryRow(`
		SELECT COALESCE(SUM(points), 0)
		FROM rewards
		WHERE user_id = $1 AND expires_date > NOW()
	`, userID).Scan(&total)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch points balance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"points": total})
}
