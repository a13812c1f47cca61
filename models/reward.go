package models

import "time"

type Reward struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Points      int       `json:"points"`
	Description string    `json:"description"`
	EarnedDate  time.Time `json:"earned_date"`
	ExpiresDate time.Time `json:"expires_date"`
}

type CreateRewardRequest struct {
	Points      int    `json:"points" binding:"required"`
	Description string `json:"description" binding:"required"`
}
