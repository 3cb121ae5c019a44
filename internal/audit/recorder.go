package audit

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tallyup/tallyup/internal/money"
	"github.com/tallyup/tallyup/internal/split"
)

// DefaultHistorySize is the default capacity of the in-memory audit history.
const DefaultHistorySize = 10

// Recorder wraps finished calculations into CalculationAudit records and
// keeps a bounded FIFO history of the most recent ones. Eviction follows
// creation order, not access order. The recorder is owned by one caller
// context; it is not a durable store.
type Recorder struct {
	mu       sync.Mutex
	capacity int
	history  []*CalculationAudit
}

// NewRecorder creates a recorder retaining up to capacity audits. A
// non-positive capacity falls back to the default.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &Recorder{capacity: capacity}
}

// Record builds an audit for a finished calculation and appends it to the
// history, evicting the oldest record once capacity is reached.
func (r *Recorder) Record(method split.Method, total money.Money, members []split.Member, results []split.Result) *CalculationAudit {
	calculated := money.Zero()
	for _, res := range results {
		calculated = calculated.Add(res.Amount)
	}

	a := &CalculationAudit{
		ID:              uuid.NewString(),
		Method:          method,
		TotalAmount:     total,
		MemberCount:     len(members),
		CalculatedTotal: calculated,
		Difference:      total.Sub(calculated).Abs(),
		Steps:           stepsFor(method, len(members)),
		Results:         results,
		CreatedAt:       time.Now().UTC(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, a)
	if len(r.history) > r.capacity {
		r.history = r.history[len(r.history)-r.capacity:]
	}
	return a
}

// History returns the retained audits, oldest first. The returned slice is
// a copy; records themselves are immutable once created.
func (r *Recorder) History() []*CalculationAudit {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*CalculationAudit, len(r.history))
	copy(out, r.history)
	return out
}

// Capacity returns the configured history bound.
func (r *Recorder) Capacity() int {
	return r.capacity
}

// stepsFor describes what the selected algorithm did, in order.
func stepsFor(method split.Method, memberCount int) []Step {
	var steps []Step
	add := func(op, desc string) {
		steps = append(steps, Step{Index: len(steps), Operation: op, Description: desc})
	}

	add("validate", fmt.Sprintf("validated inputs for %d member(s)", memberCount))

	switch method {
	case split.MethodEqual:
		add("base-split", "divided the total evenly across all members")
	case split.MethodPercentage:
		add("check-percentages", "checked that percentages sum to 100 within tolerance")
		add("base-split", "applied each member's percentage to the total")
	case split.MethodCustom:
		add("check-amounts", "checked that declared amounts sum to the total within tolerance")
		add("base-split", "passed declared amounts through and derived percentages")
	case split.MethodIncomeProportional:
		add("income-pool", "summed positive incomes into the proportion pool")
		add("base-split", "assigned shares in direct proportion to income, equal fallback for members without income")
	case split.MethodIncomeProgressive:
		add("income-pool", "computed the average income over earning members")
		add("progressive-multipliers", "raised each income ratio to the progressivity exponent")
		add("base-split", "assigned shares in proportion to the multipliers, equal fallback for members without income")
	case split.MethodWeighted:
		add("base-split", "assigned shares in proportion to member weights")
	case split.MethodShares:
		add("base-split", "assigned shares in proportion to member share counts")
	case split.MethodAdjustment:
		add("base-split", "started every member from an equal base share")
		add("apply-adjustments", "applied each member's signed adjustment to the base")
	default:
		add("base-split", "fell back to an even division across all members")
	}

	add("redistribute-remainder", "assigned any rounding residual to the first member")
	return steps
}
