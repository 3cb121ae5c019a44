package settlement

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tallyup/tallyup/internal/money"
)

// Repository handles settlement data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new settlement repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a recorded settlement
func (r *Repository) Create(ctx context.Context, s *Settlement) error {
	query := `
		INSERT INTO settlements (id, group_id, from_user_id, to_user_id, amount, currency, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.GroupID,
		s.FromUserID,
		s.ToUserID,
		s.Amount.String(),
		s.Currency,
		s.Note,
		s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create settlement: %w", err)
	}
	return nil
}

// ListByGroup retrieves the settlements recorded for a group, newest first
func (r *Repository) ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*Settlement, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM settlements WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count settlements: %w", err)
	}

	query := `
		SELECT id, group_id, from_user_id, to_user_id, amount, currency, note, created_at
		FROM settlements
		WHERE group_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*Settlement
	for rows.Next() {
		s := &Settlement{}
		var amount string
		if err := rows.Scan(&s.ID, &s.GroupID, &s.FromUserID, &s.ToUserID, &amount, &s.Currency, &s.Note, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan settlement: %w", err)
		}
		if s.Amount, err = money.NewFromString(amount); err != nil {
			return nil, 0, fmt.Errorf("failed to parse settlement amount: %w", err)
		}
		settlements = append(settlements, s)
	}

	return settlements, total, rows.Err()
}
