package services

import (
	"context"
	"testing"
	"time"

	"github.com/finvault/banking-api/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func keywordRule(category, keyword string, priority int) models.CategoryRule {
	return models.CategoryRule{
		Category:       category,
		KeywordPattern: strPtr(keyword),
		Priority:       priority,
		IsActive:       true,
	}
}

func merchantRule(category, merchant string, priority int) models.CategoryRule {
	return models.CategoryRule{
		Category:        category,
		MerchantPattern: strPtr(merchant),
		Priority:        priority,
		IsActive:        true,
	}
}

func TestCategorizeMerchantMatch(t *testing.T) {
	rules := []models.CategoryRule{
		merchantRule("Food & Dining", "Zomato", 75),
	}

	assert.Equal(t, "Food & Dining", Categorize("Order #1234", "Zomato", rules))
	// Merchant patterns also match against the description.
	assert.Equal(t, "Food & Dining", Categorize("Zomato order", "", rules))
}

func TestCategorizeKeywordMatch(t *testing.T) {
	rules := []models.CategoryRule{
		keywordRule("Food & Dining", "coffee", 25),
	}

	assert.Equal(t, "Food & Dining", Categorize("Morning coffee at Blue Tokai", "", rules))
	// Keyword patterns never match the merchant field.
	assert.Equal(t, DefaultCategory, Categorize("Payment", "Coffee House", rules))
}

func TestCategorizeCaseAndWhitespaceInsensitive(t *testing.T) {
	rules := []models.CategoryRule{
		merchantRule("Shopping", "amazon", 75),
	}

	assert.Equal(t, "Shopping", Categorize("  AMAZON Marketplace  ", "", rules))
	assert.Equal(t, "Shopping", Categorize("order", "  AmAzOn  ", rules))
}

func TestCategorizeHighestPriorityWins(t *testing.T) {
	rules := []models.CategoryRule{
		keywordRule("Other", "store", 10),
		merchantRule("Shopping", "store", 90),
		keywordRule("Entertainment", "store", 50),
	}

	assert.Equal(t, "Shopping", Categorize("App Store purchase", "", rules))
}

func TestCategorizeTieKeepsInsertionOrder(t *testing.T) {
	rules := []models.CategoryRule{
		keywordRule("Transportation", "uber", 50),
		keywordRule("Travel", "uber", 50),
	}

	assert.Equal(t, "Transportation", Categorize("Uber trip", "", rules))
}

func TestCategorizeIgnoresInactiveRules(t *testing.T) {
	inactive := merchantRule("Shopping", "Amazon", 90)
	inactive.IsActive = false
	rules := []models.CategoryRule{
		inactive,
		keywordRule("Other", "amazon", 10),
	}

	assert.Equal(t, "Other", Categorize("Amazon order", "", rules))
}

func TestCategorizeNoMatch(t *testing.T) {
	rules := []models.CategoryRule{
		keywordRule("Food & Dining", "restaurant", 25),
	}

	assert.Equal(t, DefaultCategory, Categorize("Fuel refill", "Shell", rules))
}

func TestCategorizeEmptyInputs(t *testing.T) {
	rules := []models.CategoryRule{
		keywordRule("Food & Dining", "food", 25),
	}

	assert.Equal(t, DefaultCategory, Categorize("", "", rules))
	assert.Equal(t, DefaultCategory, Categorize("   ", "  ", rules))
	assert.Equal(t, DefaultCategory, Categorize("anything", "", nil))
}

func TestCategorizeEmptyPatternNeverMatches(t *testing.T) {
	rules := []models.CategoryRule{
		{Category: "Other", KeywordPattern: strPtr("   "), Priority: 50, IsActive: true},
		{Category: "Other", MerchantPattern: strPtr(""), Priority: 50, IsActive: true},
	}

	assert.Equal(t, DefaultCategory, Categorize("some purchase", "some merchant", rules))
}

func TestCategorizeAllSkipsUnmatched(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	engine := NewRuleEngine(db)
	now := time.Now()

	ruleRows := sqlmock.NewRows([]string{
		"id", "user_id", "category", "keyword_pattern", "merchant_pattern", "priority", "is_active", "created_at",
	}).AddRow("rule-1", "user-1", "Food & Dining", "zomato", nil, 75, true, now)
	mock.ExpectQuery(`SELECT id, user_id, category, keyword_pattern, merchant_pattern, priority, is_active, created_at`).
		WithArgs("user-1").
		WillReturnRows(ruleRows)

	txnRows := sqlmock.NewRows([]string{"id", "description", "merchant"}).
		AddRow("txn-1", "Zomato order", "").
		AddRow("txn-2", "Fuel refill", "Shell")
	mock.ExpectQuery(`SELECT t\.id, t\.description, COALESCE\(t\.merchant, ''\)`).
		WithArgs("user-1").
		WillReturnRows(txnRows)

	// Only the matching transaction is written; the unmatched one stays
	// uncategorized rather than being stamped with the fallback.
	mock.ExpectExec(`UPDATE transactions SET category = \$1 WHERE id = \$2`).
		WithArgs("Food & Dining", "txn-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	count, err := engine.CategorizeAll(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRuleDefaultPriorities(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	engine := NewRuleEngine(db)

	mock.ExpectExec(`INSERT INTO category_rules`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	merchant, err := engine.CreateRule(context.Background(), "user-1", models.CreateRuleRequest{
		Category:        "Shopping",
		MerchantPattern: "Amazon",
	})
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO category_rules`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	keyword, err := engine.CreateRule(context.Background(), "user-1", models.CreateRuleRequest{
		Category:       "Food & Dining",
		KeywordPattern: "restaurant",
	})
	require.NoError(t, err)

	assert.Greater(t, merchant.Priority, keyword.Priority)
	assert.True(t, merchant.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}
