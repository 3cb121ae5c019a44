package settlement

import (
	"time"

	"github.com/tallyup/tallyup/internal/money"
)

// Settlement is a recorded payment between two members. Folding it into the
// ledger reduces the outstanding balance between the pair.
type Settlement struct {
	ID         string      `json:"id"`
	GroupID    string      `json:"group_id"`
	FromUserID string      `json:"from_user_id"` // who paid
	ToUserID   string      `json:"to_user_id"`   // who received
	Amount     money.Money `json:"amount"`
	Currency   string      `json:"currency"`
	Note       string      `json:"note,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// OptimizationRun is the event payload published after an optimization run.
type OptimizationRun struct {
	GroupID   string                `json:"group_id"`
	Currency  string                `json:"currency"`
	Payments  []OptimizedSettlement `json:"payments"`
	Savings   int                   `json:"savings"`
	CreatedAt time.Time             `json:"created_at"`
}
