package settlement

import (
	"fmt"
	"sort"

	"github.com/tallyup/tallyup/internal/ledger"
	"github.com/tallyup/tallyup/internal/money"
)

// =============================================================================
// SETTLEMENT OPTIMIZER
// Collapses a group's pairwise balances into a minimized set of payments.
// Net-balance reduction first (which dissolves chains and cycles), then
// greedy largest-creditor vs largest-debtor matching.
// =============================================================================

// OptimizedSettlement is one payment in a minimized settlement plan.
// Plans are produced fresh each optimization run, not persisted.
type OptimizedSettlement struct {
	FromUserID string      `json:"from_user_id"`
	ToUserID   string      `json:"to_user_id"`
	Amount     money.Money `json:"amount"`
	Currency   string      `json:"currency"`
	Reason     string      `json:"reason"`
	Savings    int         `json:"savings"` // raw transactions replaced by this run
}

type netPosition struct {
	id     string
	amount money.Money // magnitude, always positive
}

// Optimize reduces the given pairwise balances (one group, one currency) to
// a minimized list of payments achieving the same net position. The greedy
// largest-vs-largest matching is deterministic: ties prefer the lower
// member id.
func Optimize(balances []*ledger.Balance) []OptimizedSettlement {
	tolerance := money.Tolerance()

	// Step 1: collapse pairwise balances to one net obligation per member.
	// Chains and cycles (A owes B owes C owes A) net toward zero here, so
	// the raw debt graph never needs cycle detection.
	net := make(map[string]money.Money)
	currency := ""
	rawCount := 0
	for _, b := range balances {
		if b.Status() == ledger.BalanceStatusSettled {
			continue
		}
		rawCount++
		currency = b.Currency

		a, ok := net[b.UserA]
		if !ok {
			a = money.Zero()
		}
		net[b.UserA] = a.Add(b.Amount)

		bb, ok := net[b.UserB]
		if !ok {
			bb = money.Zero()
		}
		net[b.UserB] = bb.Sub(b.Amount)
	}

	// Step 2: partition into creditors and debtors
	var creditors, debtors []netPosition
	for id, amount := range net {
		switch {
		case amount.GreaterThan(tolerance):
			creditors = append(creditors, netPosition{id: id, amount: amount})
		case amount.Neg().GreaterThan(tolerance):
			debtors = append(debtors, netPosition{id: id, amount: amount.Abs()})
		}
	}

	// Step 3: repeatedly match the largest creditor against the largest
	// debtor until every magnitude is within tolerance of zero
	var payments []OptimizedSettlement
	for len(creditors) > 0 && len(debtors) > 0 {
		ci := largest(creditors)
		di := largest(debtors)

		amount := creditors[ci].amount
		if debtors[di].amount.LessThan(amount) {
			amount = debtors[di].amount
		}

		payments = append(payments, OptimizedSettlement{
			FromUserID: debtors[di].id,
			ToUserID:   creditors[ci].id,
			Amount:     amount,
			Currency:   currency,
		})

		creditors[ci].amount = creditors[ci].amount.Sub(amount)
		debtors[di].amount = debtors[di].amount.Sub(amount)
		creditors = compact(creditors, tolerance)
		debtors = compact(debtors, tolerance)
	}

	// The run as a whole is what saves transactions, so every payment
	// reports the same savings figure.
	savings := rawCount - len(payments)
	if savings < 0 {
		savings = 0
	}
	for i := range payments {
		payments[i].Savings = savings
		payments[i].Reason = fmt.Sprintf("consolidates %d pairwise balance(s) into %d payment(s)", rawCount, len(payments))
	}

	return payments
}

// largest returns the index of the position with the greatest magnitude,
// preferring the lower member id on ties.
func largest(positions []netPosition) int {
	best := 0
	for i := 1; i < len(positions); i++ {
		switch positions[i].amount.Cmp(positions[best].amount) {
		case 1:
			best = i
		case 0:
			if positions[i].id < positions[best].id {
				best = i
			}
		}
	}
	return best
}

// compact drops positions whose magnitude is within tolerance of zero and
// keeps the rest in a stable id order.
func compact(positions []netPosition, tolerance money.Money) []netPosition {
	var out []netPosition
	for _, p := range positions {
		if p.amount.GreaterThan(tolerance) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}
