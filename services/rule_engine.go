package services

import (
	"context"
	"database/sql"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/finvault/banking-api/models"

	"github.com/google/uuid"
)

// DefaultCategory is returned when no rule matches a transaction.
const DefaultCategory = "Uncategorized"

// Default priorities assigned on rule creation when none is given.
// Merchant patterns outrank keyword patterns.
const (
	priorityMerchantPattern = 75
	priorityKeywordPattern  = 25
)

type RuleEngine struct {
	db *sql.DB
}

func NewRuleEngine(db *sql.DB) *RuleEngine {
	return &RuleEngine{db: db}
}

// Categorize matches a transaction description and optional merchant name
// against a rule set and returns the winning category, or DefaultCategory
// when nothing matches.
//
// The full rule list is scanned: among all matching rules the one with the
// highest priority wins, with ties broken by insertion order. Matching is
// case-insensitive substring containment after trimming.
func Categorize(description, merchant string, rules []models.CategoryRule) string {
	description = strings.ToLower(strings.TrimSpace(description))
	merchant = strings.ToLower(strings.TrimSpace(merchant))

	if description == "" && merchant == "" {
		return DefaultCategory
	}

	active := make([]models.CategoryRule, 0, len(rules))
	for _, r := range rules {
		if r.IsActive {
			active = append(active, r)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority > active[j].Priority
	})

	matched := false
	bestCategory := ""
	bestPriority := 0

	for _, rule := range active {
		if !ruleMatches(rule, description, merchant) {
			continue
		}
		if !matched || rule.Priority > bestPriority {
			matched = true
			bestCategory = rule.Category
			bestPriority = rule.Priority
		}
	}

	if !matched {
		return DefaultCategory
	}
	return bestCategory
}

func ruleMatches(rule models.CategoryRule, description, merchant string) bool {
	if rule.MerchantPattern != nil {
		pattern := strings.ToLower(strings.TrimSpace(*rule.MerchantPattern))
		if pattern != "" {
			if merchant != "" && strings.Contains(merchant, pattern) {
				return true
			}
			if description != "" && strings.Contains(description, pattern) {
				return true
			}
		}
	}
	if rule.KeywordPattern != nil {
		pattern := strings.ToLower(strings.TrimSpace(*rule.KeywordPattern))
		if pattern != "" && description != "" && strings.Contains(description, pattern) {
			return true
		}
	}
	return false
}

// CategorizeTransaction runs the matcher against the user's active rules.
func (e *RuleEngine) CategorizeTransaction(ctx context.Context, userID, description, merchant string) (string, error) {
	rules, err := e.ActiveRules(ctx, userID)
	if err != nil {
		return "", err
	}
	return Categorize(description, merchant, rules), nil
}

// CategorizeAll applies the matcher to every uncategorized transaction of
// the user and persists the result. A DefaultCategory outcome writes
// nothing: the sentinel is never stored, so unmatched transactions stay
// uncategorized and get picked up again once better rules exist.
// Returns the number of transactions categorized.
func (e *RuleEngine) CategorizeAll(ctx context.Context, userID string) (int, error) {
	rules, err := e.ActiveRules(ctx, userID)
	if err != nil {
		return 0, err
	}

	rows, err := e.db.QueryContext(ctx, `
		SELECT t.id, t.description, COALESCE(t.merchant, '')
		FROM transactions t
		JOIN accounts a ON t.account_id = a.id
		WHERE a.user_id = $1 AND t.category IS NULL
	`, userID)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	type pending struct {
		id          string
		description string
		merchant    string
	}
	var uncategorized []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.description, &p.merchant); err != nil {
			return 0, err
		}
		uncategorized = append(uncategorized, p)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	count := 0
	for _, txn := range uncategorized {
		category := Categorize(txn.description, txn.merchant, rules)
		if category == DefaultCategory {
			continue
		}
		if _, err := e.db.ExecContext(ctx,
			`UPDATE transactions SET category = $1 WHERE id = $2`,
			category, txn.id,
		); err != nil {
			return count, err
		}
		count++
	}

	log.Printf("🏷️  Categorized %d of %d transactions for user %s", count, len(uncategorized), userID)
	return count, nil
}

// ActiveRules fetches the user's active rules ordered by priority
// descending, with insertion order preserved for equal priorities.
func (e *RuleEngine) ActiveRules(ctx context.Context, userID string) ([]models.CategoryRule, error) {
	return e.queryRules(ctx, `
		SELECT id, user_id, category, keyword_pattern, merchant_pattern, priority, is_active, created_at
		FROM category_rules
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY priority DESC, created_at ASC
	`, userID)
}

// ListRules fetches all of the user's rules, active or not.
func (e *RuleEngine) ListRules(ctx context.Context, userID string) ([]models.CategoryRule, error) {
	return e.queryRules(ctx, `
		SELECT id, user_id, category, keyword_pattern, merchant_pattern, priority, is_active, created_at
		FROM category_rules
		WHERE user_id = $1
		ORDER BY priority DESC, created_at ASC
	`, userID)
}

func (e *RuleEngine) queryRules(ctx context.Context, query, userID string) ([]models.CategoryRule, error) {
	rows, err := e.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []models.CategoryRule
	for rows.Next() {
		var rule models.CategoryRule
		var keyword, merchant sql.NullString
		if err := rows.Scan(
			&rule.ID, &rule.UserID, &rule.Category,
			&keyword, &merchant,
			&rule.Priority, &rule.IsActive, &rule.CreatedAt,
		); err != nil {
			return nil, err
		}
		if keyword.Valid {
			rule.KeywordPattern = &keyword.String
		}
		if merchant.Valid {
			rule.MerchantPattern = &merchant.String
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// CreateRule persists a new categorization rule. When no explicit priority
// is given, merchant-pattern rules default above keyword-pattern rules.
func (e *RuleEngine) CreateRule(ctx context.Context, userID string, req models.CreateRuleRequest) (*models.CategoryRule, error) {
	priority := req.Priority
	if priority == 0 {
		if req.MerchantPattern != "" {
			priority = priorityMerchantPattern
		} else if req.KeywordPattern != "" {
			priority = priorityKeywordPattern
		}
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	rule := &models.CategoryRule{
		ID:        uuid.New().String(),
		UserID:    userID,
		Category:  req.Category,
		Priority:  priority,
		IsActive:  isActive,
		CreatedAt: time.Now().UTC(),
	}
	if req.KeywordPattern != "" {
		rule.KeywordPattern = &req.KeywordPattern
	}
	if req.MerchantPattern != "" {
		rule.MerchantPattern = &req.MerchantPattern
	}

	_, err := e.db.ExecContext(ctx, `
		INSERT INTO category_rules (id, user_id, category, keyword_pattern, merchant_pattern, priority, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, rule.ID, rule.UserID, rule.Category, rule.KeywordPattern, rule.MerchantPattern, rule.Priority, rule.IsActive, rule.CreatedAt)
	if err != nil {
		return nil, err
	}

	return rule, nil
}

// UpdateRule applies a typed patch to a rule owned by the user. Nil fields
// are left unchanged.
func (e *RuleEngine) UpdateRule(ctx context.Context, ruleID, userID string, patch models.RulePatch) (*models.CategoryRule, error) {
	row := e.db.QueryRowContext(ctx, `
		UPDATE category_rules
		SET category        = COALESCE($1, category),
		    keyword_pattern  = COALESCE($2, keyword_pattern),
		    merchant_pattern = COALESCE($3, merchant_pattern),
		    priority         = COALESCE($4, priority),
		    is_active        = COALESCE($5, is_active)
		WHERE id = $6 AND user_id = $7
		RETURNING id, user_id, category, keyword_pattern, merchant_pattern, priority, is_active, created_at
	`, patch.Category, patch.KeywordPattern, patch.MerchantPattern, patch.Priority, patch.IsActive, ruleID, userID)

	var rule models.CategoryRule
	var keyword, merchant sql.NullString
	err := row.Scan(
		&rule.ID, &rule.UserID, &rule.Category,
		&keyword, &merchant,
		&rule.Priority, &rule.IsActive, &rule.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if keyword.Valid {
		rule.KeywordPattern = &keyword.String
	}
	if merchant.Valid {
		rule.MerchantPattern = &merchant.String
	}
	return &rule, nil
}

// DeleteRule removes a rule owned by the user.
func (e *RuleEngine) DeleteRule(ctx context.Context, ruleID, userID string) error {
	result, err := e.db.ExecContext(ctx,
		`DELETE FROM category_rules WHERE id = $1 AND user_id = $2`,
		ruleID, userID,
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
