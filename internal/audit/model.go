package audit

import (
	"time"

	"github.com/tallyup/tallyup/internal/money"
	"github.com/tallyup/tallyup/internal/split"
)

// Step is one entry in the ordered description of what a calculation did.
// Purely descriptive; steps carry no side effects.
type Step struct {
	Index       int    `json:"index"`
	Operation   string `json:"operation"`
	Description string `json:"description"`
}

// CalculationAudit is the immutable record of one split calculation.
type CalculationAudit struct {
	ID              string         `json:"id"`
	Method          split.Method   `json:"method"`
	TotalAmount     money.Money    `json:"total_amount"`
	MemberCount     int            `json:"member_count"`
	CalculatedTotal money.Money    `json:"calculated_total"`
	Difference      money.Money    `json:"difference"` // |total - calculated|
	Steps           []Step         `json:"steps"`
	Results         []split.Result `json:"results"`
	CreatedAt       time.Time      `json:"created_at"`
}

// IsReconciled reports whether the calculation reproduced its total exactly.
func (a *CalculationAudit) IsReconciled() bool {
	return a.Difference.IsZero()
}
