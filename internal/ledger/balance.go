package ledger

import (
	"time"

	"github.com/tallyup/tallyup/internal/money"
)

// BalanceStatus represents the lifecycle state of a pairwise balance
type BalanceStatus string

const (
	// BalanceStatusActive means the pair still owes something
	BalanceStatusActive BalanceStatus = "ACTIVE"
	// BalanceStatusSettled means the amount is within tolerance of zero.
	// A new expense can reopen a settled balance back to active.
	BalanceStatusSettled BalanceStatus = "SETTLED"
)

// Balance is the signed amount outstanding between an unordered pair of
// members in one currency. The pair is stored canonically with the lower
// member id as UserA, so the sign alone encodes direction: a positive
// amount means UserA is owed by UserB.
type Balance struct {
	GroupID   string      `json:"group_id"`
	UserA     string      `json:"user_a"` // lower member id
	UserB     string      `json:"user_b"`
	Amount    money.Money `json:"amount"`
	Currency  string      `json:"currency"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// canonicalPair orders two member ids so the lower one comes first.
func canonicalPair(x, y string) (string, string) {
	if x < y {
		return x, y
	}
	return y, x
}

// Status derives the balance lifecycle state from its amount.
func (b *Balance) Status() BalanceStatus {
	if b.Amount.Abs().Cmp(money.Tolerance()) <= 0 {
		return BalanceStatusSettled
	}
	return BalanceStatusActive
}

// Creditor returns the member who is owed, or "" when settled.
func (b *Balance) Creditor() string {
	switch {
	case b.Status() == BalanceStatusSettled:
		return ""
	case b.Amount.IsPositive():
		return b.UserA
	default:
		return b.UserB
	}
}

// Debtor returns the member who owes, or "" when settled.
func (b *Balance) Debtor() string {
	switch {
	case b.Status() == BalanceStatusSettled:
		return ""
	case b.Amount.IsPositive():
		return b.UserB
	default:
		return b.UserA
	}
}
