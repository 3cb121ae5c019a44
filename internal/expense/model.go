package expense

import (
	"time"

	"github.com/tallyup/tallyup/internal/money"
	"github.com/tallyup/tallyup/internal/split"
)

// Expense is an accepted, folded expense. Results hold the per-member shares
// exactly as the split engine produced them.
type Expense struct {
	ID          string                 `json:"id"`
	GroupID     string                 `json:"group_id"`
	Description string                 `json:"description"`
	Amount      money.Money            `json:"amount"`
	Currency    string                 `json:"currency"`
	Method      split.Method           `json:"split_method"`
	Payers      map[string]money.Money `json:"payers"`
	Results     []split.Result         `json:"results"`
	AuditID     string                 `json:"audit_id,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}
