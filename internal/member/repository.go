package member

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tallyup/tallyup/internal/money"
)

// Repository handles member data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new member repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new member
func (r *Repository) Create(ctx context.Context, m *Member) error {
	query := `
		INSERT INTO members (id, group_id, name, income, weight, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.GroupID,
		m.Name,
		incomeParam(m.Income),
		m.Weight,
		m.IsActive,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

// GetByID retrieves a member by id, or nil if none exists
func (r *Repository) GetByID(ctx context.Context, id string) (*Member, error) {
	query := `
		SELECT id, group_id, name, income, weight, is_active, created_at
		FROM members
		WHERE id = $1
	`
	m, err := scanMember(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

// ListByGroup retrieves all members of a group, ordered by creation
func (r *Repository) ListByGroup(ctx context.Context, groupID string) ([]*Member, error) {
	query := `
		SELECT id, group_id, name, income, weight, is_active, created_at
		FROM members
		WHERE group_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// Update applies the non-nil fields of the request to a member
func (r *Repository) Update(ctx context.Context, id string, req *UpdateMemberRequest) (*Member, error) {
	query := `
		UPDATE members
		SET name = COALESCE($2, name),
		    income = COALESCE($3, income),
		    weight = COALESCE($4, weight),
		    is_active = COALESCE($5, is_active)
		WHERE id = $1
		RETURNING id, group_id, name, income, weight, is_active, created_at
	`
	m, err := scanMember(r.db.QueryRowContext(ctx, query, id, req.Name, incomeParam(req.Income), req.Weight, req.IsActive))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	return m, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*Member, error) {
	m := &Member{}
	var income sql.NullString
	var weight sql.NullFloat64
	if err := row.Scan(&m.ID, &m.GroupID, &m.Name, &income, &weight, &m.IsActive, &m.CreatedAt); err != nil {
		return nil, err
	}
	if income.Valid {
		parsed, err := money.NewFromString(income.String)
		if err != nil {
			return nil, err
		}
		m.Income = &parsed
	}
	if weight.Valid {
		m.Weight = &weight.Float64
	}
	return m, nil
}

// incomeParam maps an optional income onto a nullable column value.
func incomeParam(income *money.Money) any {
	if income == nil {
		return nil
	}
	return income.String()
}
