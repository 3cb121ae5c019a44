package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/tallyup/tallyup/internal/money"
	"github.com/tallyup/tallyup/internal/split"
)

// Repository persists calculation audits. The engine-side recorder keeps the
// bounded in-memory history; this repository is the durable collaborator the
// service layer writes through for traceability.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new audit repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save inserts a calculation audit. Steps and results are stored as JSON
// documents since they are read back whole, never queried field by field.
func (r *Repository) Save(ctx context.Context, a *CalculationAudit) error {
	steps, err := json.Marshal(a.Steps)
	if err != nil {
		return fmt.Errorf("failed to encode audit steps: %w", err)
	}
	results, err := json.Marshal(a.Results)
	if err != nil {
		return fmt.Errorf("failed to encode audit results: %w", err)
	}

	query := `
		INSERT INTO calculation_audits (id, method, total_amount, member_count, calculated_total, difference, steps, results, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.db.ExecContext(ctx, query,
		a.ID,
		string(a.Method),
		a.TotalAmount.String(),
		a.MemberCount,
		a.CalculatedTotal.String(),
		a.Difference.String(),
		steps,
		results,
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save audit: %w", err)
	}
	return nil
}

// ListRecent retrieves the most recent audits, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]*CalculationAudit, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := `
		SELECT id, method, total_amount, member_count, calculated_total, difference, steps, results, created_at
		FROM calculation_audits
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audits: %w", err)
	}
	defer rows.Close()

	var audits []*CalculationAudit
	for rows.Next() {
		a := &CalculationAudit{}
		var method, total, calculated, difference string
		var steps, results []byte
		if err := rows.Scan(&a.ID, &method, &total, &a.MemberCount, &calculated, &difference, &steps, &results, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit: %w", err)
		}
		if err := decodeAudit(a, method, total, calculated, difference, steps, results); err != nil {
			return nil, err
		}
		audits = append(audits, a)
	}
	return audits, rows.Err()
}

func decodeAudit(a *CalculationAudit, method, total, calculated, difference string, steps, results []byte) error {
	a.Method = split.Method(method)

	var err error
	if a.TotalAmount, err = money.NewFromString(total); err != nil {
		return err
	}
	if a.CalculatedTotal, err = money.NewFromString(calculated); err != nil {
		return err
	}
	if a.Difference, err = money.NewFromString(difference); err != nil {
		return err
	}
	if err := json.Unmarshal(steps, &a.Steps); err != nil {
		return fmt.Errorf("failed to decode audit steps: %w", err)
	}
	if err := json.Unmarshal(results, &a.Results); err != nil {
		return fmt.Errorf("failed to decode audit results: %w", err)
	}
	return nil
}
