package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	BankName    string          `json:"bank_name"`
	AccountType string          `json:"account_type"` // Savings, Current, etc.
	Balance     decimal.Decimal `json:"balance"`
	CreatedAt   time.Time       `json:"created_at"`
}

type CreateAccountRequest struct {
	BankName    string          `json:"bank_name" binding:"required"`
	AccountType string          `json:"account_type" binding:"required"`
	Balance     decimal.Decimal `json:"balance"`
}
