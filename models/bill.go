package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Bill struct {
	ID       string          `json:"id"`
	UserID   string          `json:"user_id"`
	BillName string          `json:"bill_name"`
	Amount   decimal.Decimal `json:"amount"`
	DueDate  time.Time       `json:"due_date"`
	IsPaid   bool            `json:"is_paid"`
	Category string          `json:"category"`
}

type CreateBillRequest struct {
	BillName string          `json:"bill_name" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	DueDate  time.Time       `json:"due_date" binding:"required"`
	Category string          `json:"category"`
}
