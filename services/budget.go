package services

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/finvault/banking-api/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type BudgetService struct {
	db *sql.DB
}

func NewBudgetService(db *sql.DB) *BudgetService {
	return &BudgetService{db: db}
}

var oneHundred = decimal.NewFromInt(100)

// ComputeProgress returns spending as a percentage of the limit, rounded
// to 2 decimals. A non-positive limit yields 0. The percentage is not
// capped at 100, so overspend magnitude stays visible (126 means 26% over).
func ComputeProgress(spent, limit decimal.Decimal) decimal.Decimal {
	if limit.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return spent.Div(limit).Mul(oneHundred).Round(2)
}

// IsOverBudget reports whether spending strictly exceeds the limit.
func IsOverBudget(spent, limit decimal.Decimal) bool {
	return spent.GreaterThan(limit)
}

// AccountIDs returns the IDs of every account owned by the user.
func (s *BudgetService) AccountIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM accounts WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ComputeSpent sums the absolute value of the user's expense transactions
// (amount < 0) in the given category and calendar month, rounded to
// 2 decimals. Income never counts toward spend. The month filter matches
// extracted month and year numbers, not a lexical prefix, so "2025-01"
// never picks up January of another year.
func (s *BudgetService) ComputeSpent(ctx context.Context, userID, category, month string) (decimal.Decimal, error) {
	accountIDs, err := s.AccountIDs(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	if len(accountIDs) == 0 {
		return decimal.Zero, nil
	}

	year, monthNum := parseMonth(month)

	var spent decimal.Decimal
	err = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(ABS(amount)), 0)
		FROM transactions
		WHERE account_id = ANY($1)
		  AND category = $2
		  AND amount < 0
		  AND EXTRACT(MONTH FROM created_at) = $3
		  AND EXTRACT(YEAR FROM created_at) = $4
	`, pq.Array(accountIDs), category, int(monthNum), year).Scan(&spent)
	if err != nil {
		return decimal.Zero, err
	}

	return spent.Round(2), nil
}

// CreateBudget creates a budget for (user, category, month) with its spent
// amount seeded from existing transactions. Returns ErrDuplicateBudget if
// one already exists for that triple.
func (s *BudgetService) CreateBudget(ctx context.Context, userID string, req models.CreateBudgetRequest) (*models.Budget, error) {
	year, monthNum := parseMonth(req.Month)
	month := formatMonth(year, monthNum)

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM budgets
			WHERE user_id = $1 AND category = $2 AND month = $3
		)
	`, userID, req.Category, month).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateBudget
	}

	spent, err := s.ComputeSpent(ctx, userID, req.Category, month)
	if err != nil {
		return nil, err
	}

	budget := &models.Budget{
		ID:          uuid.New().String(),
		UserID:      userID,
		Category:    req.Category,
		LimitAmount: req.LimitAmount,
		SpentAmount: spent,
		Month:       month,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO budgets (id, user_id, category, limit_amount, spent_amount, month)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, budget.ID, budget.UserID, budget.Category, budget.LimitAmount, budget.SpentAmount, budget.Month)
	if err != nil {
		// The unique constraint closes the gap between check and insert.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateBudget
		}
		return nil, err
	}

	log.Printf("💰 Created budget %s: %s = %s for %s", budget.ID, budget.Category, budget.LimitAmount, budget.Month)
	return budget, nil
}

// GetBudget fetches a budget owned by the user.
func (s *BudgetService) GetBudget(ctx context.Context, budgetID, userID string) (*models.Budget, error) {
	var budget models.Budget
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, category, limit_amount, spent_amount, month
		FROM budgets
		WHERE id = $1 AND user_id = $2
	`, budgetID, userID).Scan(
		&budget.ID, &budget.UserID, &budget.Category,
		&budget.LimitAmount, &budget.SpentAmount, &budget.Month,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// RecalculateAll recomputes and stores spent_amount for every budget the
// user holds in the given month. It is the only writer of spent_amount and
// is idempotent: with no new transactions, a second pass stores the same
// values.
func (s *BudgetService) RecalculateAll(ctx context.Context, userID, month string) ([]models.Budget, error) {
	year, monthNum := parseMonth(month)
	month = formatMonth(year, monthNum)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, category, limit_amount, spent_amount, month
		FROM budgets
		WHERE user_id = $1 AND month = $2
	`, userID, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var budget models.Budget
		if err := rows.Scan(
			&budget.ID, &budget.UserID, &budget.Category,
			&budget.LimitAmount, &budget.SpentAmount, &budget.Month,
		); err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range budgets {
		spent, err := s.ComputeSpent(ctx, userID, budgets[i].Category, month)
		if err != nil {
			return nil, err
		}
		if _, err := s.db.ExecContext(ctx,
			`UPDATE budgets SET spent_amount = $1 WHERE id = $2`,
			spent, budgets[i].ID,
		); err != nil {
			return nil, err
		}
		budgets[i].SpentAmount = spent
	}

	log.Printf("🔄 Recalculated %d budgets for user %s month %s", len(budgets), userID, month)
	return budgets, nil
}

// GetBudgetsWithProgress recalculates the user's budgets for the month and
// returns them with derived progress metrics.
func (s *BudgetService) GetBudgetsWithProgress(ctx context.Context, userID, month string) ([]models.BudgetProgress, error) {
	budgets, err := s.RecalculateAll(ctx, userID, month)
	if err != nil {
		return nil, err
	}

	result := make([]models.BudgetProgress, 0, len(budgets))
	for _, budget := range budgets {
		result = append(result, models.BudgetProgress{
			Budget:             budget,
			ProgressPercentage: ComputeProgress(budget.SpentAmount, budget.LimitAmount),
			IsOverBudget:       IsOverBudget(budget.SpentAmount, budget.LimitAmount),
			RemainingAmount:    budget.LimitAmount.Sub(budget.SpentAmount).Round(2),
		})
	}
	return result, nil
}

// UpdateLimit changes the limit of a budget owned by the user.
func (s *BudgetService) UpdateLimit(ctx context.Context, budgetID, userID string, limit decimal.Decimal) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE budgets SET limit_amount = $1 WHERE id = $2 AND user_id = $3`,
		limit, budgetID, userID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBudget removes a budget owned by the user.
func (s *BudgetService) DeleteBudget(ctx context.Context, budgetID, userID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = $1 AND user_id = $2`,
		budgetID, userID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
