package models

import "github.com/shopspring/decimal"

// Budget is a per-user, per-category, per-month spending limit.
// SpentAmount is a cache of the last aggregation pass and may be stale
// between recalculations; decision-making always recomputes from
// transactions.
type Budget struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Category    string          `json:"category"`
	LimitAmount decimal.Decimal `json:"limit_amount"`
	SpentAmount decimal.Decimal `json:"spent_amount"`
	Month       string          `json:"month"` // "YYYY-MM"
}

// BudgetProgress is a Budget enriched with derived progress metrics.
type BudgetProgress struct {
	Budget
	ProgressPercentage decimal.Decimal `json:"progress_percentage"`
	IsOverBudget       bool            `json:"is_over_budget"`
	RemainingAmount    decimal.Decimal `json:"remaining_amount"`
}

type CreateBudgetRequest struct {
	Category    string          `json:"category" binding:"required"`
	LimitAmount decimal.Decimal `json:"limit_amount" binding:"required"`
	Month       string          `json:"month" binding:"required"`
}

type UpdateBudgetRequest struct {
	LimitAmount decimal.Decimal `json:"limit_amount" binding:"required"`
}
