package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tallyup/tallyup/internal/money"
	"github.com/tallyup/tallyup/internal/split"
)

// ExpenseSplit is a completed, validated split ready to be folded into the
// group's pairwise balances. Payers maps each payer to their contribution;
// a single-payer expense has one entry covering the whole total.
type ExpenseSplit struct {
	GroupID  string
	Currency string
	Payers   map[string]money.Money
	Results  []split.Result
}

// Settlement is a direct payment between two members that reduces the
// outstanding balance between them.
type Settlement struct {
	GroupID    string
	Currency   string
	FromUserID string // who paid
	ToUserID   string // who received
	Amount     money.Money
}

// Ledger accumulates signed pairwise balances across expenses and
// settlements. Writes for one group are serialized with a per-group lock;
// reads of a consistent snapshot are always safe.
type Ledger struct {
	store Store

	mapMu sync.Mutex
	muMap map[string]*sync.Mutex
}

// New creates a ledger on top of the given balance store
func New(store Store) *Ledger {
	return &Ledger{
		store: store,
		muMap: make(map[string]*sync.Mutex),
	}
}

// groupLock returns the write lock for a group, creating it on first use.
func (l *Ledger) groupLock(groupID string) *sync.Mutex {
	l.mapMu.Lock()
	defer l.mapMu.Unlock()

	if _, exists := l.muMap[groupID]; !exists {
		l.muMap[groupID] = &sync.Mutex{}
	}
	return l.muMap[groupID]
}

// FoldExpense folds a completed split into the group's pairwise balances.
// Each member's share is netted against their own contribution first, so
// multi-payer expenses fold correctly; the per-expense debts of net debtors
// are then distributed across net creditors in proportion to what each
// creditor is owed. Folding conserves the group's total signed position.
func (l *Ledger) FoldExpense(ctx context.Context, exp ExpenseSplit) error {
	if len(exp.Payers) == 0 {
		return fmt.Errorf("expense has no payer")
	}

	lock := l.groupLock(exp.GroupID)
	lock.Lock()
	defer lock.Unlock()

	// Net position per member for this one expense: paid minus owed
	net := make(map[string]money.Money, len(exp.Results))
	for _, r := range exp.Results {
		net[r.MemberID] = money.Zero().Sub(r.Amount)
	}
	for payer, contribution := range exp.Payers {
		current, ok := net[payer]
		if !ok {
			current = money.Zero()
		}
		net[payer] = current.Add(contribution)
	}

	creditors, debtors := partition(net)

	creditorTotal := money.Zero()
	for _, c := range creditors {
		creditorTotal = creditorTotal.Add(c.amount)
	}
	if creditorTotal.IsZero() {
		return nil // everyone paid exactly their own share
	}

	// Each debtor's debt is spread across creditors proportionally; the
	// last creditor takes the residual so nothing is created or destroyed.
	for _, d := range debtors {
		remaining := d.amount
		for i, c := range creditors {
			var piece money.Money
			if i == len(creditors)-1 {
				piece = remaining
			} else {
				piece = d.amount.Mul(c.amount.Div(creditorTotal)).Display()
				if piece.GreaterThan(remaining) {
					piece = remaining
				}
			}
			if piece.IsZero() {
				continue
			}
			if err := l.applyDebt(ctx, exp.GroupID, exp.Currency, d.id, c.id, piece); err != nil {
				return err
			}
			remaining = remaining.Sub(piece)
		}
	}

	return nil
}

// FoldSettlement folds a direct payment into the balances: the payment
// decreases the payer's debt to the receiver by the settled amount.
func (l *Ledger) FoldSettlement(ctx context.Context, s Settlement) error {
	if s.FromUserID == s.ToUserID {
		return fmt.Errorf("settlement between a member and themselves")
	}

	lock := l.groupLock(s.GroupID)
	lock.Lock()
	defer lock.Unlock()

	return l.applyDebt(ctx, s.GroupID, s.Currency, s.FromUserID, s.ToUserID, s.Amount.Neg())
}

// Balances returns the group's balances in one currency.
func (l *Ledger) Balances(ctx context.Context, groupID, currency string) ([]*Balance, error) {
	return l.store.ListByGroup(ctx, groupID, currency)
}

// applyDebt records that debtor owes creditor an additional amount (which
// may be negative for settlements), translated into the canonical pair's
// signed balance.
func (l *Ledger) applyDebt(ctx context.Context, groupID, currency, debtor, creditor string, amount money.Money) error {
	userA, userB := canonicalPair(debtor, creditor)

	balance, err := l.store.Get(ctx, groupID, currency, userA, userB)
	if err != nil {
		return err
	}
	if balance == nil {
		balance = &Balance{
			GroupID:  groupID,
			UserA:    userA,
			UserB:    userB,
			Amount:   money.Zero(),
			Currency: currency,
		}
	}

	// Positive balance means userA is owed by userB
	if creditor == userA {
		balance.Amount = balance.Amount.Add(amount)
	} else {
		balance.Amount = balance.Amount.Sub(amount)
	}
	balance.UpdatedAt = time.Now().UTC()

	return l.store.Upsert(ctx, balance)
}

type position struct {
	id     string
	amount money.Money // always positive
}

// partition splits per-member net positions into creditors and debtors,
// each sorted by id for deterministic folding.
func partition(net map[string]money.Money) (creditors, debtors []position) {
	ids := make([]string, 0, len(net))
	for id := range net {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		amount := net[id]
		switch {
		case amount.IsPositive():
			creditors = append(creditors, position{id: id, amount: amount})
		case amount.IsNegative():
			debtors = append(debtors, position{id: id, amount: amount.Abs()})
		}
	}
	return creditors, debtors
}
