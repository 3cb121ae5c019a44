package audit

import (
	"fmt"
	"testing"

	"github.com/tallyup/tallyup/internal/money"
	"github.com/tallyup/tallyup/internal/split"
)

func record(r *Recorder, tag string) *CalculationAudit {
	members := []split.Member{{ID: tag, Active: true}}
	results := []split.Result{{MemberID: tag, Amount: money.MustParse("10.00"), Percentage: 100}}
	return r.Record(split.MethodEqual, money.MustParse("10.00"), members, results)
}

func TestRecordBuildsAudit(t *testing.T) {
	r := NewRecorder(5)
	members := []split.Member{{ID: "a", Active: true}, {ID: "b", Active: true}}
	results := []split.Result{
		{MemberID: "a", Amount: money.MustParse("33.34"), Percentage: 33.34},
		{MemberID: "b", Amount: money.MustParse("33.33"), Percentage: 33.33},
	}

	a := r.Record(split.MethodEqual, money.MustParse("66.67"), members, results)

	if a.ID == "" {
		t.Error("audit id not assigned")
	}
	if a.MemberCount != 2 {
		t.Errorf("MemberCount = %d, want 2", a.MemberCount)
	}
	if !a.CalculatedTotal.Equal(money.MustParse("66.67")) {
		t.Errorf("CalculatedTotal = %s, want 66.67", a.CalculatedTotal)
	}
	if !a.IsReconciled() {
		t.Errorf("Difference = %s, want zero", a.Difference)
	}
	if len(a.Steps) == 0 {
		t.Fatal("no steps recorded")
	}
	for i, step := range a.Steps {
		if step.Index != i {
			t.Errorf("step %d has index %d", i, step.Index)
		}
	}
}

func TestRecordTracksDifference(t *testing.T) {
	r := NewRecorder(5)
	members := []split.Member{{ID: "a", Active: true}}
	results := []split.Result{{MemberID: "a", Amount: money.MustParse("9.90"), Percentage: 99}}

	a := r.Record(split.MethodCustom, money.MustParse("10.00"), members, results)
	if !a.Difference.Equal(money.MustParse("0.10")) {
		t.Errorf("Difference = %s, want 0.10", a.Difference)
	}
	if a.IsReconciled() {
		t.Error("audit with nonzero difference reported as reconciled")
	}
}

func TestHistoryEvictsOldestFirst(t *testing.T) {
	r := NewRecorder(3)
	var ids []string
	for i := 0; i < 5; i++ {
		a := record(r, fmt.Sprintf("m%d", i))
		ids = append(ids, a.ID)
	}

	history := r.History()
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	// FIFO by creation: the two oldest are gone, order is preserved
	for i, a := range history {
		if a.ID != ids[i+2] {
			t.Errorf("history[%d] = %s, want %s", i, a.ID, ids[i+2])
		}
	}
}

func TestHistoryReturnsCopy(t *testing.T) {
	r := NewRecorder(3)
	record(r, "a")

	history := r.History()
	history[0] = nil
	if r.History()[0] == nil {
		t.Error("mutating the returned slice leaked into the recorder")
	}
}

func TestNonPositiveCapacityFallsBack(t *testing.T) {
	r := NewRecorder(0)
	if r.Capacity() != DefaultHistorySize {
		t.Errorf("Capacity() = %d, want %d", r.Capacity(), DefaultHistorySize)
	}
}
