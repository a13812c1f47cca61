package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectBudgetFetch(mock sqlmock.Sqlmock, limit, cachedSpent string) {
	rows := sqlmock.NewRows([]string{"id", "user_id", "category", "limit_amount", "spent_amount", "month"}).
		AddRow("budget-1", "user-1", "Food & Dining", limit, cachedSpent, "2026-01")
	mock.ExpectQuery(`SELECT id, user_id, category, limit_amount, spent_amount, month`).
		WithArgs("budget-1", "user-1").
		WillReturnRows(rows)
}

func expectSpentComputation(mock sqlmock.Sqlmock, spent string) {
	mock.ExpectQuery(`SELECT id FROM accounts WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("acct-1"))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(ABS\(amount\)\), 0\)`).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(spent))
}

func TestCheckBudgetExceededUnderLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewAlertService(db)

	expectBudgetFetch(mock, "5000", "0")
	expectSpentComputation(mock, "4000.00")

	alert, err := svc.CheckBudgetExceeded(context.Background(), "budget-1", "user-1")
	require.NoError(t, err)
	assert.Nil(t, alert)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckBudgetExceededIgnoresStaleCache(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewAlertService(db)

	// The stored spent_amount claims an overspend, but the transactions say
	// otherwise. No alert fires.
	expectBudgetFetch(mock, "5000", "9999")
	expectSpentComputation(mock, "4000.00")

	alert, err := svc.CheckBudgetExceeded(context.Background(), "budget-1", "user-1")
	require.NoError(t, err)
	assert.Nil(t, alert)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckBudgetExceededCreatesAlert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewAlertService(db)

	expectBudgetFetch(mock, "5000", "0")
	expectSpentComputation(mock, "6300.00")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO alerts`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("alert-1"))
	mock.ExpectCommit()

	alert, err := svc.CheckBudgetExceeded(context.Background(), "budget-1", "user-1")
	require.NoError(t, err)
	require.NotNil(t, alert)

	assert.Equal(t, "Budget Exceeded: Food & Dining", alert.Title)
	assert.Equal(t,
		"You've exceeded your Food & Dining budget for 2026-01. Spent: ₹6300.00, Limit: ₹5000.00, Over by: ₹1300.00",
		alert.Message)
	assert.Equal(t, "budget_exceeded", alert.AlertType)
	assert.False(t, alert.IsRead)
	require.NotNil(t, alert.BudgetCategory)
	assert.Equal(t, "Food & Dining", *alert.BudgetCategory)
	require.NotNil(t, alert.BudgetMonth)
	assert.Equal(t, "2026-01", *alert.BudgetMonth)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckBudgetExceededAlreadyAlerted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewAlertService(db)

	expectBudgetFetch(mock, "5000", "6300")
	expectSpentComputation(mock, "6300.00")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectCommit()

	alert, err := svc.CheckBudgetExceeded(context.Background(), "budget-1", "user-1")
	require.NoError(t, err)
	assert.Nil(t, alert)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckBudgetExceededLosesInsertRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewAlertService(db)

	expectBudgetFetch(mock, "5000", "0")
	expectSpentComputation(mock, "6300.00")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	// ON CONFLICT DO NOTHING returns no row when a concurrent check already
	// inserted the alert.
	mock.ExpectQuery(`INSERT INTO alerts`).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectCommit()

	alert, err := svc.CheckBudgetExceeded(context.Background(), "budget-1", "user-1")
	require.NoError(t, err)
	assert.Nil(t, alert)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckBudgetExceededBudgetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewAlertService(db)

	mock.ExpectQuery(`SELECT id, user_id, category, limit_amount, spent_amount, month`).
		WillReturnError(sql.ErrNoRows)

	_, err = svc.CheckBudgetExceeded(context.Background(), "missing", "user-1")
	assert.ErrorIs(t, err, ErrNotFound)
}
