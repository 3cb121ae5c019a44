package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tallyup/tallyup/internal/money"
)

// PostgresStore is the durable Store implementation
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a balance store backed by postgres
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get returns the balance for a canonical pair, or nil if none exists yet
func (s *PostgresStore) Get(ctx context.Context, groupID, currency, userA, userB string) (*Balance, error) {
	query := `
		SELECT group_id, user_a, user_b, amount, currency, updated_at
		FROM balances
		WHERE group_id = $1 AND currency = $2 AND user_a = $3 AND user_b = $4
	`
	b, err := scanBalance(s.db.QueryRowContext(ctx, query, groupID, currency, userA, userB))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return b, nil
}

// Upsert writes a balance keyed by (group, currency, pair)
func (s *PostgresStore) Upsert(ctx context.Context, balance *Balance) error {
	query := `
		INSERT INTO balances (group_id, user_a, user_b, amount, currency, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (group_id, currency, user_a, user_b)
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		balance.GroupID,
		balance.UserA,
		balance.UserB,
		balance.Amount.String(),
		balance.Currency,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert balance: %w", err)
	}
	return nil
}

// ListByGroup returns all balances for a group in one currency
func (s *PostgresStore) ListByGroup(ctx context.Context, groupID, currency string) ([]*Balance, error) {
	query := `
		SELECT group_id, user_a, user_b, amount, currency, updated_at
		FROM balances
		WHERE group_id = $1 AND currency = $2
		ORDER BY user_a, user_b
	`
	rows, err := s.db.QueryContext(ctx, query, groupID, currency)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	defer rows.Close()

	var balances []*Balance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBalance(row rowScanner) (*Balance, error) {
	b := &Balance{}
	var amount string
	if err := row.Scan(&b.GroupID, &b.UserA, &b.UserB, &amount, &b.Currency, &b.UpdatedAt); err != nil {
		return nil, err
	}
	parsed, err := money.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	b.Amount = parsed
	return b, nil
}

// Compile-time check: PostgresStore implements Store
var _ Store = (*PostgresStore)(nil)
