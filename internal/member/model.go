package member

import (
	"time"

	"github.com/tallyup/tallyup/internal/money"
	"github.com/tallyup/tallyup/internal/split"
)

// Member is a group member as the directory knows it. Income and weight are
// the attributes the income-based and weighted split methods consume.
type Member struct {
	ID        string       `json:"id"`
	GroupID   string       `json:"group_id"`
	Name      string       `json:"name"`
	Income    *money.Money `json:"income,omitempty"` // non-negative when set
	Weight    *float64     `json:"weight,omitempty"` // positive, default 1
	IsActive  bool         `json:"is_active"`
	CreatedAt time.Time    `json:"created_at"`
}

// ToSplitMember converts to the split engine's member type
func (m *Member) ToSplitMember() split.Member {
	return split.Member{
		ID:     m.ID,
		Name:   m.Name,
		Income: m.Income,
		Weight: m.Weight,
		Active: m.IsActive,
	}
}
