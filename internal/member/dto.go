package member

import "github.com/tallyup/tallyup/internal/money"

// CreateMemberRequest registers a member in a group
type CreateMemberRequest struct {
	GroupID string       `json:"group_id" validate:"required"`
	Name    string       `json:"name" validate:"required,min=1,max=255"`
	Income  *money.Money `json:"income,omitempty"`
	Weight  *float64     `json:"weight,omitempty"`
}

// UpdateMemberRequest updates a member's split attributes
type UpdateMemberRequest struct {
	Name     *string      `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Income   *money.Money `json:"income,omitempty"`
	Weight   *float64     `json:"weight,omitempty"`
	IsActive *bool        `json:"is_active,omitempty"`
}

// MemberResponse represents a member in API responses
type MemberResponse struct {
	ID        string       `json:"id"`
	GroupID   string       `json:"group_id"`
	Name      string       `json:"name"`
	Income    *money.Money `json:"income,omitempty"`
	Weight    *float64     `json:"weight,omitempty"`
	IsActive  bool         `json:"is_active"`
	CreatedAt string       `json:"created_at"`
}

// ToResponse converts a Member model to a MemberResponse DTO
func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		ID:        m.ID,
		GroupID:   m.GroupID,
		Name:      m.Name,
		Income:    m.Income,
		Weight:    m.Weight,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
