package services

import (
	"context"
	"testing"

	"github.com/finvault/banking-api/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeProgress(t *testing.T) {
	// Overspend stays visible instead of being capped at 100.
	assert.True(t, dec("126").Equal(ComputeProgress(dec("6300"), dec("5000"))))
	assert.True(t, dec("50").Equal(ComputeProgress(dec("2500"), dec("5000"))))
	assert.True(t, dec("100").Equal(ComputeProgress(dec("5000"), dec("5000"))))
	assert.True(t, dec("33.33").Equal(ComputeProgress(dec("1000"), dec("3000"))))
}

func TestComputeProgressNonPositiveLimit(t *testing.T) {
	assert.True(t, decimal.Zero.Equal(ComputeProgress(dec("1000"), decimal.Zero)))
	assert.True(t, decimal.Zero.Equal(ComputeProgress(dec("1000"), dec("-500"))))
}

func TestIsOverBudget(t *testing.T) {
	assert.False(t, IsOverBudget(dec("4999.99"), dec("5000")))
	// Exactly at the limit is not over.
	assert.False(t, IsOverBudget(dec("5000"), dec("5000")))
	assert.True(t, IsOverBudget(dec("5000.01"), dec("5000")))
}

func TestComputeSpentSumsExpensesOnly(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewBudgetService(db)

	mock.ExpectQuery(`SELECT id FROM accounts WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("acct-1").AddRow("acct-2"))

	// Transactions -350.00, -280.00 and +75000.00 in January: only the two
	// expenses count, so the database-side sum comes back as 630.00.
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(ABS\(amount\)\), 0\)`).
		WithArgs(pq.Array([]string{"acct-1", "acct-2"}), "Food & Dining", 1, 2026).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("630.00"))

	spent, err := svc.ComputeSpent(context.Background(), "user-1", "Food & Dining", "2026-01")
	require.NoError(t, err)
	assert.True(t, dec("630.00").Equal(spent))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComputeSpentNoAccounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewBudgetService(db)

	mock.ExpectQuery(`SELECT id FROM accounts WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	spent, err := svc.ComputeSpent(context.Background(), "user-1", "Food & Dining", "2026-01")
	require.NoError(t, err)
	assert.True(t, spent.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBudgetDuplicateDetected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewBudgetService(db)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("user-1", "Food & Dining", "2026-01").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err = svc.CreateBudget(context.Background(), "user-1", models.CreateBudgetRequest{
		Category:    "Food & Dining",
		LimitAmount: dec("5000"),
		Month:       "2026-01",
	})
	assert.ErrorIs(t, err, ErrDuplicateBudget)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBudgetUniqueViolationMapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewBudgetService(db)

	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`SELECT id FROM accounts WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	// A concurrent insert slipped between the check and the insert; the
	// unique constraint reports it and the caller still sees a duplicate.
	mock.ExpectExec(`INSERT INTO budgets`).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err = svc.CreateBudget(context.Background(), "user-1", models.CreateBudgetRequest{
		Category:    "Food & Dining",
		LimitAmount: dec("5000"),
		Month:       "2026-01",
	})
	assert.ErrorIs(t, err, ErrDuplicateBudget)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBudgetNormalizesMalformedMonth(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewBudgetService(db)
	currentMonth := CurrentMonth()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("user-1", "Travel", currentMonth).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`SELECT id FROM accounts WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`INSERT INTO budgets`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	budget, err := svc.CreateBudget(context.Background(), "user-1", models.CreateBudgetRequest{
		Category:    "Travel",
		LimitAmount: dec("10000"),
		Month:       "January 2026",
	})
	require.NoError(t, err)
	assert.Equal(t, currentMonth, budget.Month)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecalculateAllStoresFreshSpent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewBudgetService(db)

	budgetRows := sqlmock.NewRows([]string{"id", "user_id", "category", "limit_amount", "spent_amount", "month"}).
		AddRow("budget-1", "user-1", "Food & Dining", "5000", "0", "2026-01")
	mock.ExpectQuery(`SELECT id, user_id, category, limit_amount, spent_amount, month`).
		WithArgs("user-1", "2026-01").
		WillReturnRows(budgetRows)

	mock.ExpectQuery(`SELECT id FROM accounts WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("acct-1"))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(ABS\(amount\)\), 0\)`).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("630.00"))
	mock.ExpectExec(`UPDATE budgets SET spent_amount = \$1 WHERE id = \$2`).
		WithArgs(sqlmock.AnyArg(), "budget-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	budgets, err := svc.RecalculateAll(context.Background(), "user-1", "2026-01")
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.True(t, dec("630.00").Equal(budgets[0].SpentAmount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBudgetsWithProgressDerivesMetrics(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewBudgetService(db)

	budgetRows := sqlmock.NewRows([]string{"id", "user_id", "category", "limit_amount", "spent_amount", "month"}).
		AddRow("budget-1", "user-1", "Food & Dining", "5000", "0", "2026-01")
	mock.ExpectQuery(`SELECT id, user_id, category, limit_amount, spent_amount, month`).
		WillReturnRows(budgetRows)
	mock.ExpectQuery(`SELECT id FROM accounts WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("acct-1"))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(ABS\(amount\)\), 0\)`).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("6300.00"))
	mock.ExpectExec(`UPDATE budgets SET spent_amount = \$1 WHERE id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	progress, err := svc.GetBudgetsWithProgress(context.Background(), "user-1", "2026-01")
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.True(t, dec("126").Equal(progress[0].ProgressPercentage))
	assert.True(t, progress[0].IsOverBudget)
	assert.True(t, dec("-1300.00").Equal(progress[0].RemainingAmount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateLimitNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewBudgetService(db)

	mock.ExpectExec(`UPDATE budgets SET limit_amount`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = svc.UpdateLimit(context.Background(), "budget-1", "user-1", dec("8000"))
	assert.ErrorIs(t, err, ErrNotFound)
}
