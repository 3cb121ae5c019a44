package expense

import (
	"github.com/tallyup/tallyup/internal/audit"
	"github.com/tallyup/tallyup/internal/money"
	"github.com/tallyup/tallyup/internal/split"
)

// CreateExpenseRequest describes an expense to split and record. When
// ParticipantIDs is empty the split covers every active group member; when
// Payers is empty PaidByUserID is treated as the single payer of the full
// amount.
type CreateExpenseRequest struct {
	GroupID        string                 `json:"group_id" validate:"required"`
	Description    string                 `json:"description" validate:"required,min=1,max=255"`
	Amount         money.Money            `json:"amount" validate:"required"`
	Currency       string                 `json:"currency,omitempty"`
	Method         string                 `json:"split_method,omitempty"`
	Params         split.Params           `json:"split_params,omitempty"`
	ParticipantIDs []string               `json:"participant_ids,omitempty"`
	PaidByUserID   string                 `json:"paid_by_user_id,omitempty"`
	Payers         map[string]money.Money `json:"payers,omitempty"`
}

// ExpenseResponse represents an accepted expense with its computed split
type ExpenseResponse struct {
	ID          string                 `json:"id"`
	GroupID     string                 `json:"group_id"`
	Description string                 `json:"description"`
	Amount      money.Money            `json:"amount"`
	Currency    string                 `json:"currency"`
	Method      split.Method           `json:"split_method"`
	Payers      map[string]money.Money `json:"payers"`
	Results     []split.Result         `json:"results"`
	AuditID     string                 `json:"audit_id,omitempty"`
	CreatedAt   string                 `json:"created_at"`
}

// PreviewResponse is a computed split that has not been recorded
type PreviewResponse struct {
	GroupID    string                  `json:"group_id"`
	Amount     money.Money             `json:"amount"`
	Method     split.Method            `json:"split_method"`
	Results    []split.Result          `json:"results"`
	Validation split.ValidationResult  `json:"validation"`
	Audit      *audit.CalculationAudit `json:"audit,omitempty"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	return &ExpenseResponse{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		Amount:      e.Amount,
		Currency:    e.Currency,
		Method:      e.Method,
		Payers:      e.Payers,
		Results:     e.Results,
		AuditID:     e.AuditID,
		CreatedAt:   e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
