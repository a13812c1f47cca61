package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction amounts are signed: negative = expense (debit),
// positive = income (credit). Only Category is mutable after creation.
type Transaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	Description string          `json:"description"`
	Merchant    *string         `json:"merchant,omitempty"`
	Category    *string         `json:"category,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

type CreateTransactionRequest struct {
	AccountID   string          `json:"account_id" binding:"required"`
	Description string          `json:"description"`
	Merchant    string          `json:"merchant"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
}

type UpdateCategoryRequest struct {
	Category string `json:"category" binding:"required"`
}
