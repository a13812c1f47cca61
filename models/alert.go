package models

import "time"

const (
	AlertTypeInfo           = "info"
	AlertTypeWarning        = "warning"
	AlertTypeError          = "error"
	AlertTypeBudgetExceeded = "budget_exceeded"
)

// Alert is a user notification. BudgetCategory and BudgetMonth are set
// only on budget_exceeded alerts; together with the user they back the
// at-most-one-alert-per-budget-per-month uniqueness constraint.
type Alert struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	AlertType      string    `json:"alert_type"`
	IsRead         bool      `json:"is_read"`
	BudgetCategory *string   `json:"budget_category,omitempty"`
	BudgetMonth    *string   `json:"budget_month,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type CreateAlertRequest struct {
	Title     string `json:"title" binding:"required"`
	Message   string `json:"message" binding:"required"`
	AlertType string `json:"alert_type"`
}
