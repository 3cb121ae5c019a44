package settlement

import "github.com/tallyup/tallyup/internal/money"

// CreateSettlementRequest records a payment between two members
type CreateSettlementRequest struct {
	GroupID    string      `json:"group_id" validate:"required"`
	FromUserID string      `json:"from_user_id" validate:"required"`
	ToUserID   string      `json:"to_user_id" validate:"required"`
	Amount     money.Money `json:"amount" validate:"required"`
	Currency   string      `json:"currency,omitempty"`
	Note       string      `json:"note,omitempty"`
}

// SettlementResponse represents a recorded settlement
type SettlementResponse struct {
	ID         string      `json:"id"`
	GroupID    string      `json:"group_id"`
	FromUserID string      `json:"from_user_id"`
	ToUserID   string      `json:"to_user_id"`
	Amount     money.Money `json:"amount"`
	Currency   string      `json:"currency"`
	Note       string      `json:"note,omitempty"`
	CreatedAt  string      `json:"created_at"`
}

// BalanceResponse represents one pairwise balance
type BalanceResponse struct {
	UserA    string      `json:"user_a"`
	UserB    string      `json:"user_b"`
	Amount   money.Money `json:"amount"` // positive: user_a is owed by user_b
	Currency string      `json:"currency"`
	Status   string      `json:"status"`
}

// OptimizeResponse is the result of an optimization run
type OptimizeResponse struct {
	GroupID  string                `json:"group_id"`
	Currency string                `json:"currency"`
	Payments []OptimizedSettlement `json:"payments"`
	Savings  int                   `json:"savings"`
}

// ToResponse converts a Settlement model to a SettlementResponse DTO
func (s *Settlement) ToResponse() *SettlementResponse {
	return &SettlementResponse{
		ID:         s.ID,
		GroupID:    s.GroupID,
		FromUserID: s.FromUserID,
		ToUserID:   s.ToUserID,
		Amount:     s.Amount,
		Currency:   s.Currency,
		Note:       s.Note,
		CreatedAt:  s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
