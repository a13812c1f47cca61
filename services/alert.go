package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/finvault/banking-api/models"
	"github.com/finvault/banking-api/utils"

	"github.com/google/uuid"
)

type AlertService struct {
	db      *sql.DB
	budgets *BudgetService
}

func NewAlertService(db *sql.DB) *AlertService {
	return &AlertService{db: db, budgets: NewBudgetService(db)}
}

// CheckBudgetExceeded creates a budget_exceeded alert for the budget if its
// spending is over the limit and no alert exists yet for that category this
// month. Returns nil when the budget is within its limit or already alerted.
//
// The existence check and the insert run in one transaction, and the insert
// lands on the partial unique index over (user, category, month), so two
// concurrent checks can never produce two alerts.
func (s *AlertService) CheckBudgetExceeded(ctx context.Context, budgetID, userID string) (*models.Alert, error) {
	budget, err := s.budgets.GetBudget(ctx, budgetID, userID)
	if err != nil {
		return nil, err
	}

	// Never trust the cached spent_amount for alerting decisions.
	spent, err := s.budgets.ComputeSpent(ctx, userID, budget.Category, budget.Month)
	if err != nil {
		return nil, err
	}

	if !IsOverBudget(spent, budget.LimitAmount) {
		return nil, nil
	}

	overBy := spent.Sub(budget.LimitAmount)
	alert := &models.Alert{
		ID:     uuid.New().String(),
		UserID: userID,
		Title:  fmt.Sprintf("Budget Exceeded: %s", budget.Category),
		Message: fmt.Sprintf(
			"You've exceeded your %s budget for %s. Spent: ₹%s, Limit: ₹%s, Over by: ₹%s",
			budget.Category, budget.Month,
			spent.StringFixed(2), budget.LimitAmount.StringFixed(2), overBy.StringFixed(2),
		),
		AlertType:      models.AlertTypeBudgetExceeded,
		IsRead:         false,
		BudgetCategory: &budget.Category,
		BudgetMonth:    &budget.Month,
		CreatedAt:      time.Now().UTC(),
	}

	created := false
	err = utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM alerts
				WHERE user_id = $1
				  AND alert_type = $2
				  AND title LIKE '%' || $3 || '%'
				  AND created_at >= $4
			)
		`, userID, models.AlertTypeBudgetExceeded, budget.Category, monthStart(budget.Month)).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return nil
		}

		var insertedID string
		err := tx.QueryRowContext(ctx, `
			INSERT INTO alerts (id, user_id, title, message, alert_type, is_read, budget_category, budget_month, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (user_id, budget_category, budget_month)
				WHERE alert_type = 'budget_exceeded'
				DO NOTHING
			RETURNING id
		`, alert.ID, alert.UserID, alert.Title, alert.Message, alert.AlertType,
			alert.IsRead, alert.BudgetCategory, alert.BudgetMonth, alert.CreatedAt,
		).Scan(&insertedID)
		if err == sql.ErrNoRows {
			// A concurrent check won the race.
			return nil
		}
		if err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, nil
	}

	log.Printf("🚨 Budget exceeded alert for user %s, category %s (%s)", userID, budget.Category, budget.Month)
	return alert, nil
}

// CheckAllBudgets runs the overspend check against every budget the user
// holds and returns the alerts created.
func (s *AlertService) CheckAllBudgets(ctx context.Context, userID string) ([]models.Alert, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM budgets WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgetIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		budgetIDs = append(budgetIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var created []models.Alert
	for _, id := range budgetIDs {
		alert, err := s.CheckBudgetExceeded(ctx, id, userID)
		if err != nil {
			return created, err
		}
		if alert != nil {
			created = append(created, *alert)
		}
	}
	return created, nil
}

// CreateAlert persists a generic alert. The deduplicator is not the only
// legitimate producer; other flows create info/warning/error alerts too.
func (s *AlertService) CreateAlert(ctx context.Context, userID, title, message, alertType string) (*models.Alert, error) {
	if alertType == "" {
		alertType = models.AlertTypeInfo
	}

	alert := &models.Alert{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		AlertType: alertType,
		IsRead:    false,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO alerts (id, user_id, title, message, alert_type, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, alert.ID, alert.UserID, alert.Title, alert.Message, alert.AlertType, alert.IsRead, alert.CreatedAt)
	if err != nil {
		return nil, err
	}

	return alert, nil
}

// ListAlerts returns the user's alerts, newest first.
func (s *AlertService) ListAlerts(ctx context.Context, userID string, unreadOnly bool) ([]models.Alert, error) {
	query := `
		SELECT id, user_id, title, message, alert_type, is_read, budget_category, budget_month, created_at
		FROM alerts
		WHERE user_id = $1
	`
	if unreadOnly {
		query += ` AND is_read = FALSE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var alert models.Alert
		var category, month sql.NullString
		if err := rows.Scan(
			&alert.ID, &alert.UserID, &alert.Title, &alert.Message,
			&alert.AlertType, &alert.IsRead, &category, &month, &alert.CreatedAt,
		); err != nil {
			return nil, err
		}
		if category.Valid {
			alert.BudgetCategory = &category.String
		}
		if month.Valid {
			alert.BudgetMonth = &month.String
		}
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}

// UnreadCount returns the number of unread alerts for the user.
func (s *AlertService) UnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM alerts WHERE user_id = $1 AND is_read = FALSE`,
		userID,
	).Scan(&count)
	return count, err
}

// MarkAsRead flips is_read on an alert owned by the user.
func (s *AlertService) MarkAsRead(ctx context.Context, alertID, userID string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE alerts SET is_read = TRUE WHERE id = $1 AND user_id = $2`,
		alertID, userID,
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

// MarkAllAsRead flips is_read on every unread alert of the user and returns
// how many were updated.
func (s *AlertService) MarkAllAsRead(ctx context.Context, userID string) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE alerts SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`,
		userID,
	)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	return int(affected), err
}

// DeleteAlert removes an alert owned by the user.
func (s *AlertService) DeleteAlert(ctx context.Context, alertID, userID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM alerts WHERE id = $1 AND user_id = $2`,
		alertID, userID,
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
