package models

import "time"

// CategoryRule maps a keyword or merchant pattern to a spending category.
// Within a user's active rule set, rules are evaluated from highest to
// lowest priority; ties keep insertion order.
type CategoryRule struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Category        string    `json:"category"`
	KeywordPattern  *string   `json:"keyword_pattern,omitempty"`
	MerchantPattern *string   `json:"merchant_pattern,omitempty"`
	Priority        int       `json:"priority"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

type CreateRuleRequest struct {
	Category        string `json:"category" binding:"required"`
	KeywordPattern  string `json:"keyword_pattern"`
	MerchantPattern string `json:"merchant_pattern"`
	Priority        int    `json:"priority"`
	IsActive        *bool  `json:"is_active"`
}

// RulePatch enumerates the updatable fields of a rule. Nil means
// "leave unchanged".
type RulePatch struct {
	Category        *string `json:"category"`
	KeywordPattern  *string `json:"keyword_pattern"`
	MerchantPattern *string `json:"merchant_pattern"`
	Priority        *int    `json:"priority"`
	IsActive        *bool   `json:"is_active"`
}

type PredefinedCategory struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var PredefinedCategories = []PredefinedCategory{
	{Name: "Food & Dining", Icon: "restaurant", Color: "#FF6B6B"},
	{Name: "Shopping", Icon: "shopping_cart", Color: "#4ECDC4"},
	{Name: "Transportation", Icon: "car", Color: "#45B7D1"},
	{Name: "Entertainment", Icon: "film", Color: "#F7DC6F"},
	{Name: "Bills & Utilities", Icon: "lightning", Color: "#BB8FCE"},
	{Name: "Health & Fitness", Icon: "health", Color: "#85C1E2"},
	{Name: "Travel", Icon: "flight", Color: "#F8B88B"},
	{Name: "Income", Icon: "trending_up", Color: "#52C41A"},
	{Name: "Transfer", Icon: "swap", Color: "#1890FF"},
	{Name: "Other", Icon: "more_horiz", Color: "#BFBFBF"},
}
