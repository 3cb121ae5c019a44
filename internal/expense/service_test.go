package expense

import (
	"context"
	"errors"
	"testing"

	"github.com/tallyup/tallyup/internal/audit"
	"github.com/tallyup/tallyup/internal/ledger"
	"github.com/tallyup/tallyup/internal/money"
	"github.com/tallyup/tallyup/internal/split"
)

// stubDirectory serves a fixed member set for one group.
type stubDirectory struct {
	members []split.Member
}

func (d *stubDirectory) SplitMembers(_ context.Context, _ string) ([]split.Member, error) {
	return d.members, nil
}

func newTestService(members []split.Member) (*Service, *ledger.Ledger) {
	store := ledger.NewMemoryStore()
	l := ledger.New(store)
	factory := split.NewStrategyFactory()
	svc := NewService(
		nil, // no expense persistence in tests
		&stubDirectory{members: members},
		factory,
		split.NewValidator(factory),
		audit.NewRecorder(audit.DefaultHistorySize),
		nil, // no audit persistence in tests
		l,
	)
	return svc, l
}

func threeMembers() []split.Member {
	return []split.Member{
		{ID: "alice", Name: "Alice", Active: true},
		{ID: "bob", Name: "Bob", Active: true},
		{ID: "carol", Name: "Carol", Active: true},
	}
}

func TestCreateExpenseFoldsBalances(t *testing.T) {
	svc, l := newTestService(threeMembers())

	expense, validation, err := svc.CreateExpense(context.Background(), &CreateExpenseRequest{
		GroupID:      "g1",
		Description:  "Dinner",
		Amount:       money.MustParse("100.00"),
		Method:       "equal",
		PaidByUserID: "alice",
	})
	if err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}
	if !validation.IsValid {
		t.Fatalf("expected valid split, got errors %v", validation.Errors)
	}
	if expense.Method != split.MethodEqual {
		t.Errorf("Method = %v, want equal", expense.Method)
	}
	if expense.AuditID == "" {
		t.Error("expected an audit id on the expense")
	}

	total := money.Zero()
	for _, r := range expense.Results {
		total = total.Add(r.Amount)
	}
	if !total.Equal(expense.Amount) {
		t.Errorf("results sum to %s, want %s", total, expense.Amount)
	}

	balances, err := l.Balances(context.Background(), "g1", "USD")
	if err != nil {
		t.Fatalf("Balances() error = %v", err)
	}
	if len(balances) != 2 {
		t.Fatalf("expected 2 pairwise balances, got %d", len(balances))
	}
	for _, b := range balances {
		if b.Creditor() != "alice" {
			t.Errorf("creditor = %s, want alice", b.Creditor())
		}
		if !b.Amount.Abs().Equal(money.MustParse("33.33")) {
			t.Errorf("balance = %s, want 33.33", b.Amount.Abs())
		}
	}
}

func TestCreateExpenseInvalidSplitChangesNothing(t *testing.T) {
	svc, l := newTestService(threeMembers())

	_, validation, err := svc.CreateExpense(context.Background(), &CreateExpenseRequest{
		GroupID:      "g1",
		Description:  "Rent",
		Amount:       money.MustParse("90.00"),
		Method:       "percentage",
		PaidByUserID: "alice",
		Params: split.Params{
			Percentages: map[string]float64{"alice": 50, "bob": 30, "carol": 21},
		},
	})
	if !errors.Is(err, ErrInvalidSplit) {
		t.Fatalf("CreateExpense() error = %v, want ErrInvalidSplit", err)
	}
	if validation == nil || validation.IsValid {
		t.Fatal("expected an invalid validation result")
	}

	balances, err := l.Balances(context.Background(), "g1", "USD")
	if err != nil {
		t.Fatalf("Balances() error = %v", err)
	}
	if len(balances) != 0 {
		t.Errorf("expected no balances after rejected split, got %d", len(balances))
	}
}

func TestCreateExpenseDefaultsToActiveMembers(t *testing.T) {
	members := threeMembers()
	members[2].Active = false
	svc, _ := newTestService(members)

	expense, _, err := svc.CreateExpense(context.Background(), &CreateExpenseRequest{
		GroupID:      "g1",
		Description:  "Groceries",
		Amount:       money.MustParse("50.00"),
		PaidByUserID: "alice",
	})
	if err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}
	if len(expense.Results) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(expense.Results))
	}
	for _, r := range expense.Results {
		if r.MemberID == "carol" {
			t.Error("inactive member carol should not participate by default")
		}
	}
}

func TestCreateExpenseUnknownMethodRecordsEqual(t *testing.T) {
	svc, _ := newTestService(threeMembers())

	expense, _, err := svc.CreateExpense(context.Background(), &CreateExpenseRequest{
		GroupID:      "g1",
		Description:  "Taxi",
		Amount:       money.MustParse("30.00"),
		Method:       "by-vibes",
		PaidByUserID: "bob",
	})
	if err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}
	if expense.Method != split.MethodEqual {
		t.Errorf("Method = %v, want equal fallback", expense.Method)
	}
}

func TestCreateExpensePayerChecks(t *testing.T) {
	svc, _ := newTestService(threeMembers())

	_, _, err := svc.CreateExpense(context.Background(), &CreateExpenseRequest{
		GroupID:     "g1",
		Description: "No payer",
		Amount:      money.MustParse("10.00"),
	})
	if !errors.Is(err, ErrNoPayer) {
		t.Errorf("error = %v, want ErrNoPayer", err)
	}

	_, _, err = svc.CreateExpense(context.Background(), &CreateExpenseRequest{
		GroupID:     "g1",
		Description: "Short payers",
		Amount:      money.MustParse("100.00"),
		Payers: map[string]money.Money{
			"alice": money.MustParse("40.00"),
			"bob":   money.MustParse("40.00"),
		},
	})
	if !errors.Is(err, ErrPayerSumMismatch) {
		t.Errorf("error = %v, want ErrPayerSumMismatch", err)
	}
}

func TestCreateExpenseMultiPayer(t *testing.T) {
	svc, l := newTestService(threeMembers())

	_, _, err := svc.CreateExpense(context.Background(), &CreateExpenseRequest{
		GroupID:     "g1",
		Description: "Trip",
		Amount:      money.MustParse("90.00"),
		Payers: map[string]money.Money{
			"alice": money.MustParse("60.00"),
			"bob":   money.MustParse("30.00"),
		},
	})
	if err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}

	balances, err := l.Balances(context.Background(), "g1", "USD")
	if err != nil {
		t.Fatalf("Balances() error = %v", err)
	}

	// Shares are 30 each: alice is owed 30, bob is even, carol owes 30.
	net := map[string]money.Money{}
	for _, b := range balances {
		creditor, debtor := b.Creditor(), b.Debtor()
		amount := b.Amount.Abs()
		net[creditor] = netOr(net, creditor).Add(amount)
		net[debtor] = netOr(net, debtor).Sub(amount)
	}
	if !netOr(net, "alice").Equal(money.MustParse("30.00")) {
		t.Errorf("alice net = %s, want 30.00", netOr(net, "alice"))
	}
	if !netOr(net, "carol").Equal(money.MustParse("-30.00")) {
		t.Errorf("carol net = %s, want -30.00", netOr(net, "carol"))
	}
	if !netOr(net, "bob").IsZero() {
		t.Errorf("bob net = %s, want 0", netOr(net, "bob"))
	}
}

func TestPreviewDoesNotFold(t *testing.T) {
	svc, l := newTestService(threeMembers())

	preview, err := svc.PreviewSplit(context.Background(), &CreateExpenseRequest{
		GroupID:      "g1",
		Description:  "Preview",
		Amount:       money.MustParse("75.00"),
		Method:       "equal",
		PaidByUserID: "alice",
	})
	if err != nil {
		t.Fatalf("PreviewSplit() error = %v", err)
	}
	if len(preview.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(preview.Results))
	}
	if preview.Audit == nil || !preview.Audit.IsReconciled() {
		t.Error("expected a reconciled audit record")
	}

	balances, err := l.Balances(context.Background(), "g1", "USD")
	if err != nil {
		t.Fatalf("Balances() error = %v", err)
	}
	if len(balances) != 0 {
		t.Errorf("preview must not change balances, got %d", len(balances))
	}
}

func TestAuditHistoryAccumulates(t *testing.T) {
	svc, _ := newTestService(threeMembers())

	for i := 0; i < 3; i++ {
		_, _, err := svc.CreateExpense(context.Background(), &CreateExpenseRequest{
			GroupID:      "g1",
			Description:  "Coffee",
			Amount:       money.MustParse("12.00"),
			PaidByUserID: "alice",
		})
		if err != nil {
			t.Fatalf("CreateExpense() error = %v", err)
		}
	}

	history := svc.AuditHistory()
	if len(history) != 3 {
		t.Fatalf("expected 3 audits, got %d", len(history))
	}
	for _, a := range history {
		if !a.IsReconciled() {
			t.Errorf("audit %s is not reconciled, difference %s", a.ID, a.Difference)
		}
	}
}

func netOr(net map[string]money.Money, id string) money.Money {
	if v, ok := net[id]; ok {
		return v
	}
	return money.Zero()
}
