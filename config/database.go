package config

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func InitDB() (*sql.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			phone VARCHAR(50),
			kyc_status VARCHAR(50) DEFAULT 'Pending',
			totp_secret VARCHAR(255),
			totp_enabled BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS accounts (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			bank_name VARCHAR(255) NOT NULL,
			account_type VARCHAR(50) NOT NULL,
			balance NUMERIC(14,2) DEFAULT 0,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS transactions (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			account_id UUID REFERENCES accounts(id) ON DELETE CASCADE,
			description TEXT NOT NULL DEFAULT '',
			merchant VARCHAR(255),
			category VARCHAR(100),
			amount NUMERIC(14,2) NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS category_rules (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			category VARCHAR(100) NOT NULL,
			keyword_pattern VARCHAR(255),
			merchant_pattern VARCHAR(255),
			priority INTEGER DEFAULT 0,
			is_active BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS budgets (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			category VARCHAR(100) NOT NULL,
			limit_amount NUMERIC(14,2) NOT NULL,
			spent_amount NUMERIC(14,2) DEFAULT 0,
			month CHAR(7) NOT NULL,
			UNIQUE(user_id, category, month)
		)`,

		`CREATE TABLE IF NOT EXISTS alerts (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			message TEXT NOT NULL,
			alert_type VARCHAR(50) NOT NULL DEFAULT 'info',
			is_read BOOLEAN DEFAULT FALSE,
			budget_category VARCHAR(100),
			budget_month CHAR(7),
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS bills (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			bill_name VARCHAR(255) NOT NULL,
			amount NUMERIC(14,2) NOT NULL,
			due_date TIMESTAMPTZ NOT NULL,
			is_paid BOOLEAN DEFAULT FALSE,
			category VARCHAR(100)
		)`,

		`CREATE TABLE IF NOT EXISTS rewards (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			points INTEGER NOT NULL,
			description VARCHAR(255),
			earned_date TIMESTAMPTZ DEFAULT NOW(),
			expires_date TIMESTAMPTZ
		)`,

		`CREATE INDEX IF NOT EXISTS idx_accounts_user_id ON accounts(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_account_id ON transactions(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category)`,
		`CREATE INDEX IF NOT EXISTS idx_category_rules_user_id ON category_rules(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_budgets_user_month ON budgets(user_id, month)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_user_id ON alerts(user_id)`,

		// One budget_exceeded alert per (user, category, month). The insert
		// path uses ON CONFLICT against this index, so concurrent overspend
		// checks cannot double-alert.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_alerts_budget_dedup
			ON alerts(user_id, budget_category, budget_month)
			WHERE alert_type = 'budget_exceeded'`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
