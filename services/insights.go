package services

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
)

type InsightsService struct {
	db *sql.DB
}

func NewInsightsService(db *sql.DB) *InsightsService {
	return &InsightsService{db: db}
}

type Summary struct {
	TotalAccounts     int             `json:"total_accounts"`
	TotalTransactions int             `json:"total_transactions"`
	TotalBalance      decimal.Decimal `json:"total_balance"`
}

type CategorySpending struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// Summary returns account/transaction counts and the combined balance for
// the user.
func (s *InsightsService) Summary(ctx context.Context, userID string) (*Summary, error) {
	var summary Summary
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM accounts WHERE user_id = $1),
			(SELECT COUNT(*) FROM transactions t JOIN accounts a ON t.account_id = a.id WHERE a.user_id = $1),
			(SELECT COALESCE(SUM(balance), 0) FROM accounts WHERE user_id = $1)
	`, userID).Scan(&summary.TotalAccounts, &summary.TotalTransactions, &summary.TotalBalance)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// SpendingByCategory returns the user's expense totals grouped by category,
// largest first. Income and uncategorized transactions are excluded.
func (s *InsightsService) SpendingByCategory(ctx context.Context, userID string) ([]CategorySpending, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.category, ROUND(SUM(ABS(t.amount)), 2)
		FROM transactions t
		JOIN accounts a ON t.account_id = a.id
		WHERE a.user_id = $1
		  AND t.amount < 0
		  AND t.category IS NOT NULL
		  AND t.category <> ''
		GROUP BY t.category
		ORDER BY SUM(ABS(t.amount)) DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []CategorySpending{}
	for rows.Next() {
		var cs CategorySpending
		if err := rows.Scan(&cs.Category, &cs.Amount); err != nil {
			return nil, err
		}
		result = append(result, cs)
	}
	return result, rows.Err()
}
