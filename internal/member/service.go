package member

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tallyup/tallyup/internal/money"
	"github.com/tallyup/tallyup/internal/split"
)

// Common errors
var (
	ErrMemberNotFound = errors.New("member not found")
	ErrNegativeIncome = errors.New("income cannot be negative")
	ErrInvalidWeight  = errors.New("weight must be positive")
)

// Service handles member directory business logic
type Service struct {
	repo *Repository
}

// NewService creates a new member service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// CreateMember registers a new active member in a group
func (s *Service) CreateMember(ctx context.Context, req *CreateMemberRequest) (*Member, error) {
	if err := checkAttributes(req.Income, req.Weight); err != nil {
		return nil, err
	}

	m := &Member{
		ID:        uuid.NewString(),
		GroupID:   req.GroupID,
		Name:      req.Name,
		Income:    req.Income,
		Weight:    req.Weight,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// GetMember retrieves a member by id
func (s *Service) GetMember(ctx context.Context, id string) (*Member, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMemberNotFound
	}
	return m, nil
}

// ListGroupMembers retrieves all members of a group
func (s *Service) ListGroupMembers(ctx context.Context, groupID string) ([]*Member, error) {
	return s.repo.ListByGroup(ctx, groupID)
}

// SplitMembers returns the group's members converted for the split engine,
// in their stable directory order.
func (s *Service) SplitMembers(ctx context.Context, groupID string) ([]split.Member, error) {
	members, err := s.repo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	out := make([]split.Member, len(members))
	for i, m := range members {
		out[i] = m.ToSplitMember()
	}
	return out, nil
}

// UpdateMember applies attribute changes to a member
func (s *Service) UpdateMember(ctx context.Context, id string, req *UpdateMemberRequest) (*Member, error) {
	if err := checkAttributes(req.Income, req.Weight); err != nil {
		return nil, err
	}

	m, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMemberNotFound
	}
	return m, nil
}

func checkAttributes(income *money.Money, weight *float64) error {
	if income != nil && income.IsNegative() {
		return ErrNegativeIncome
	}
	if weight != nil && *weight <= 0 {
		return ErrInvalidWeight
	}
	return nil
}
