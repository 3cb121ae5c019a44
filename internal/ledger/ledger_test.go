package ledger

import (
	"context"
	"testing"

	"github.com/tallyup/tallyup/internal/money"
	"github.com/tallyup/tallyup/internal/split"
)

func results(shares map[string]string) []split.Result {
	var out []split.Result
	for _, id := range []string{"a", "b", "c", "d"} {
		if amount, ok := shares[id]; ok {
			out = append(out, split.Result{MemberID: id, Amount: money.MustParse(amount)})
		}
	}
	return out
}

func balanceBetween(t *testing.T, l *Ledger, x, y string) money.Money {
	t.Helper()
	userA, userB := canonicalPair(x, y)
	b, err := l.store.Get(context.Background(), "g1", "USD", userA, userB)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if b == nil {
		return money.Zero()
	}
	return b.Amount
}

func TestFoldSinglePayerExpense(t *testing.T) {
	l := New(NewMemoryStore())
	ctx := context.Background()

	// a pays 90, split equally three ways
	err := l.FoldExpense(ctx, ExpenseSplit{
		GroupID:  "g1",
		Currency: "USD",
		Payers:   map[string]money.Money{"a": money.MustParse("90")},
		Results:  results(map[string]string{"a": "30", "b": "30", "c": "30"}),
	})
	if err != nil {
		t.Fatalf("FoldExpense: %v", err)
	}

	// pair (a,b): a is userA, owed 30 by b, so the signed amount is +30
	if got := balanceBetween(t, l, "a", "b"); !got.Equal(money.MustParse("30")) {
		t.Errorf("balance(a,b) = %s, want 30", got)
	}
	if got := balanceBetween(t, l, "a", "c"); !got.Equal(money.MustParse("30")) {
		t.Errorf("balance(a,c) = %s, want 30", got)
	}
	if got := balanceBetween(t, l, "b", "c"); !got.IsZero() {
		t.Errorf("balance(b,c) = %s, want 0", got)
	}
}

func TestFoldMultiPayerExpense(t *testing.T) {
	l := New(NewMemoryStore())
	ctx := context.Background()

	// a pays 60, b pays 40; equal shares of 25 for four members.
	// Net: a +35, b +15, c -25, d -25
	err := l.FoldExpense(ctx, ExpenseSplit{
		GroupID:  "g1",
		Currency: "USD",
		Payers: map[string]money.Money{
			"a": money.MustParse("60"),
			"b": money.MustParse("40"),
		},
		Results: results(map[string]string{"a": "25", "b": "25", "c": "25", "d": "25"}),
	})
	if err != nil {
		t.Fatalf("FoldExpense: %v", err)
	}

	// each debtor's 25 splits 35:15 across the creditors: 17.50 to a, 7.50 to b
	if got := balanceBetween(t, l, "a", "c"); !got.Equal(money.MustParse("17.50")) {
		t.Errorf("balance(a,c) = %s, want 17.50", got)
	}
	if got := balanceBetween(t, l, "b", "c"); !got.Equal(money.MustParse("7.50")) {
		t.Errorf("balance(b,c) = %s, want 7.50", got)
	}
}

func TestFoldSettlementReducesDebt(t *testing.T) {
	l := New(NewMemoryStore())
	ctx := context.Background()

	err := l.FoldExpense(ctx, ExpenseSplit{
		GroupID:  "g1",
		Currency: "USD",
		Payers:   map[string]money.Money{"a": money.MustParse("60")},
		Results:  results(map[string]string{"a": "30", "b": "30"}),
	})
	if err != nil {
		t.Fatalf("FoldExpense: %v", err)
	}

	// b pays back 30; balance goes to zero and the pair is settled
	err = l.FoldSettlement(ctx, Settlement{
		GroupID:    "g1",
		Currency:   "USD",
		FromUserID: "b",
		ToUserID:   "a",
		Amount:     money.MustParse("30"),
	})
	if err != nil {
		t.Fatalf("FoldSettlement: %v", err)
	}

	if got := balanceBetween(t, l, "a", "b"); !got.IsZero() {
		t.Errorf("balance(a,b) = %s, want 0", got)
	}

	balances, err := l.Balances(ctx, "g1", "USD")
	if err != nil {
		t.Fatalf("Balances: %v", err)
	}
	if balances[0].Status() != BalanceStatusSettled {
		t.Errorf("status = %s, want %s", balances[0].Status(), BalanceStatusSettled)
	}

	// a new expense reopens the settled balance
	err = l.FoldExpense(ctx, ExpenseSplit{
		GroupID:  "g1",
		Currency: "USD",
		Payers:   map[string]money.Money{"a": money.MustParse("10")},
		Results:  results(map[string]string{"a": "5", "b": "5"}),
	})
	if err != nil {
		t.Fatalf("FoldExpense: %v", err)
	}
	balances, _ = l.Balances(ctx, "g1", "USD")
	if balances[0].Status() != BalanceStatusActive {
		t.Errorf("status after new expense = %s, want %s", balances[0].Status(), BalanceStatusActive)
	}
}

// TestConservation checks that folding never creates or destroys money:
// the sum of net positions across a closed group stays zero.
func TestConservation(t *testing.T) {
	l := New(NewMemoryStore())
	ctx := context.Background()

	folds := []ExpenseSplit{
		{
			GroupID: "g1", Currency: "USD",
			Payers:  map[string]money.Money{"a": money.MustParse("100")},
			Results: results(map[string]string{"a": "33.34", "b": "33.33", "c": "33.33"}),
		},
		{
			GroupID: "g1", Currency: "USD",
			Payers:  map[string]money.Money{"b": money.MustParse("47.50")},
			Results: results(map[string]string{"b": "23.75", "c": "23.75"}),
		},
		{
			GroupID: "g1", Currency: "USD",
			Payers: map[string]money.Money{
				"c": money.MustParse("20"),
				"a": money.MustParse("10"),
			},
			Results: results(map[string]string{"a": "10", "b": "10", "c": "10"}),
		},
	}
	for _, f := range folds {
		if err := l.FoldExpense(ctx, f); err != nil {
			t.Fatalf("FoldExpense: %v", err)
		}
	}
	if err := l.FoldSettlement(ctx, Settlement{
		GroupID: "g1", Currency: "USD",
		FromUserID: "b", ToUserID: "a", Amount: money.MustParse("12.00"),
	}); err != nil {
		t.Fatalf("FoldSettlement: %v", err)
	}

	balances, err := l.Balances(ctx, "g1", "USD")
	if err != nil {
		t.Fatalf("Balances: %v", err)
	}

	net := map[string]money.Money{}
	for _, b := range balances {
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

	sum := money.Zero()
	for _, v := range net {
		sum = sum.Add(v)
	}
	if !sum.IsZero() {
		t.Errorf("net positions sum to %s, want 0", sum)
	}
}

func TestCanonicalOrdering(t *testing.T) {
	l := New(NewMemoryStore())
	ctx := context.Background()

	// fold the same pair from both directions; one canonical row results
	if err := l.FoldExpense(ctx, ExpenseSplit{
		GroupID: "g1", Currency: "USD",
		Payers:  map[string]money.Money{"b": money.MustParse("20")},
		Results: results(map[string]string{"a": "10", "b": "10"}),
	}); err != nil {
		t.Fatalf("FoldExpense: %v", err)
	}
	if err := l.FoldExpense(ctx, ExpenseSplit{
		GroupID: "g1", Currency: "USD",
		Payers:  map[string]money.Money{"a": money.MustParse("30")},
		Results: results(map[string]string{"a": "15", "b": "15"}),
	}); err != nil {
		t.Fatalf("FoldExpense: %v", err)
	}

	balances, _ := l.Balances(ctx, "g1", "USD")
	if len(balances) != 1 {
		t.Fatalf("got %d balance rows, want 1 canonical row", len(balances))
	}
	b := balances[0]
	if b.UserA != "a" || b.UserB != "b" {
		t.Errorf("pair = (%s,%s), want (a,b)", b.UserA, b.UserB)
	}
	// a owed 15 by b, minus the 10 a owed b = +5
	if !b.Amount.Equal(money.MustParse("5")) {
		t.Errorf("amount = %s, want 5", b.Amount)
	}
	if b.Creditor() != "a" || b.Debtor() != "b" {
		t.Errorf("creditor/debtor = %s/%s, want a/b", b.Creditor(), b.Debtor())
	}
}
