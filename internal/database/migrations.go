package database

import (
	"database/sql"
	"fmt"
)

// schema contains the SQL statements to set up the database tables. These
// run on startup so a fresh database is usable immediately. Amounts are
// stored as NUMERIC text to keep decimal exactness through the driver.
const schema = `
CREATE TABLE IF NOT EXISTS members (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    name TEXT NOT NULL,
    income NUMERIC(20, 8),
    weight DOUBLE PRECISION,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    description TEXT NOT NULL,
    amount NUMERIC(20, 8) NOT NULL,
    currency TEXT NOT NULL,
    split_method TEXT NOT NULL,
    payers JSONB NOT NULL,
    results JSONB NOT NULL,
    audit_id TEXT,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS settlements (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    from_user_id TEXT NOT NULL,
    to_user_id TEXT NOT NULL,
    amount NUMERIC(20, 8) NOT NULL,
    currency TEXT NOT NULL,
    note TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS balances (
    group_id TEXT NOT NULL,
    user_a TEXT NOT NULL,
    user_b TEXT NOT NULL,
    amount NUMERIC(20, 8) NOT NULL,
    currency TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (group_id, currency, user_a, user_b)
);

CREATE TABLE IF NOT EXISTS calculation_audits (
    id TEXT PRIMARY KEY,
    method TEXT NOT NULL,
    total_amount NUMERIC(20, 8) NOT NULL,
    member_count INTEGER NOT NULL,
    calculated_total NUMERIC(20, 8) NOT NULL,
    difference NUMERIC(20, 8) NOT NULL,
    steps JSONB NOT NULL,
    results JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_members_group_id ON members(group_id);
CREATE INDEX IF NOT EXISTS idx_expenses_group_id ON expenses(group_id);
CREATE INDEX IF NOT EXISTS idx_settlements_group_id ON settlements(group_id);
CREATE INDEX IF NOT EXISTS idx_audits_created_at ON calculation_audits(created_at);
`

// Migrate applies the schema to the database
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
