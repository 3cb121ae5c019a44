package expense

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/tallyup/tallyup/internal/money"
	"github.com/tallyup/tallyup/internal/split"
)

// Repository handles expense data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a recorded expense. Payers and results are stored as JSON;
// they are read back whole, never queried by member.
func (r *Repository) Create(ctx context.Context, e *Expense) error {
	payers, err := json.Marshal(e.Payers)
	if err != nil {
		return fmt.Errorf("failed to encode payers: %w", err)
	}
	results, err := json.Marshal(e.Results)
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	query := `
		INSERT INTO expenses (id, group_id, description, amount, currency, split_method, payers, results, audit_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = r.db.ExecContext(ctx, query,
		e.ID,
		e.GroupID,
		e.Description,
		e.Amount.String(),
		e.Currency,
		string(e.Method),
		payers,
		results,
		e.AuditID,
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// GetByID retrieves an expense by id, or nil if none exists
func (r *Repository) GetByID(ctx context.Context, id string) (*Expense, error) {
	query := `
		SELECT id, group_id, description, amount, currency, split_method, payers, results, audit_id, created_at
		FROM expenses
		WHERE id = $1
	`
	e, err := scanExpense(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

// ListByGroup retrieves the expenses recorded for a group, newest first
func (r *Repository) ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT id, group_id, description, amount, currency, split_method, payers, results, audit_id, created_at
		FROM expenses
		WHERE group_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}

	return expenses, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*Expense, error) {
	e := &Expense{}
	var amount, method string
	var payers, results []byte
	if err := row.Scan(&e.ID, &e.GroupID, &e.Description, &amount, &e.Currency, &method, &payers, &results, &e.AuditID, &e.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if e.Amount, err = money.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("failed to parse expense amount: %w", err)
	}
	e.Method = split.Method(method)
	if err := json.Unmarshal(payers, &e.Payers); err != nil {
		return nil, fmt.Errorf("failed to decode payers: %w", err)
	}
	if err := json.Unmarshal(results, &e.Results); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	return e, nil
}
