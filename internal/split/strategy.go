package split

import (
	"errors"
	"fmt"

	"github.com/tallyup/tallyup/internal/money"
)

// Method identifies a split strategy
type Method string

const (
	MethodEqual              Method = "equal"
	MethodPercentage         Method = "percentage"
	MethodCustom             Method = "custom"
	MethodIncomeProportional Method = "income-proportional"
	MethodIncomeProgressive  Method = "income-progressive"
	MethodWeighted           Method = "weighted"
	MethodShares             Method = "shares"
	MethodAdjustment         Method = "adjustment"
)

// Member is a participant in a split, supplied by the caller per calculation.
// The engine never mutates it.
type Member struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Income *money.Money `json:"income,omitempty"` // non-negative when set
	Weight *float64     `json:"weight,omitempty"` // positive, default 1
	Active bool         `json:"is_active"`
}

// Params carries the per-method parameter maps, keyed by member id.
// Only the map matching the selected method is consulted.
type Params struct {
	Percentages map[string]float64     `json:"percentages,omitempty"`
	Amounts     map[string]money.Money `json:"amounts,omitempty"`
	Weights     map[string]float64     `json:"weights,omitempty"`
	Shares      map[string]int         `json:"shares,omitempty"`
	Adjustments map[string]money.Money `json:"adjustments,omitempty"`
}

// Result is the calculated share for a single member
type Result struct {
	MemberID   string      `json:"member_id"`
	Amount     money.Money `json:"amount"`
	Percentage float64     `json:"percentage"` // 0-100, derived from amount

	// Method-specific extras
	Shares     int          `json:"shares,omitempty"`
	Weight     float64      `json:"weight,omitempty"`
	Adjustment *money.Money `json:"adjustment_amount,omitempty"`
}

// Strategy is the interface all split strategies implement
type Strategy interface {
	// Method returns the method tag for this strategy
	Method() Method

	// Validate checks if the inputs are valid for this strategy
	Validate(total money.Money, members []Member, params Params) error

	// Calculate computes the per-member results. The returned amounts sum
	// to total exactly after residual correction.
	Calculate(total money.Money, members []Member, params Params) ([]Result, error)
}

// Factory creates split strategies based on the requested method
type Factory struct{}

// NewStrategyFactory creates a new factory instance
func NewStrategyFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy for the given method. An unknown method tag
// falls back to the equal strategy rather than failing.
func (f *Factory) Create(method Method) Strategy {
	switch method {
	case MethodPercentage:
		return &PercentageStrategy{}
	case MethodCustom:
		return &CustomStrategy{}
	case MethodIncomeProportional:
		return &IncomeProportionalStrategy{}
	case MethodIncomeProgressive:
		return &IncomeProgressiveStrategy{}
	case MethodWeighted:
		return &WeightedStrategy{}
	case MethodShares:
		return &SharesStrategy{}
	case MethodAdjustment:
		return &AdjustmentStrategy{}
	default:
		return &EqualStrategy{}
	}
}

// CreateFromString creates a strategy from a string tag (useful for API requests)
func (f *Factory) CreateFromString(method string) Strategy {
	return f.Create(Method(method))
}

// Calculate runs the full pipeline for a method: strategy selection,
// validation, per-member calculation and residual correction.
func (f *Factory) Calculate(method Method, total money.Money, members []Member, params Params) ([]Result, error) {
	return f.Create(method).Calculate(total, members, params)
}

// Calculator-recoverable validation failures. The calculator fails fast on
// any of these and computes nothing.
var (
	ErrEmptyMemberSet        = errors.New("at least one member is required")
	ErrInsufficientMembers   = errors.New("not enough participating members")
	ErrDuplicateMember       = errors.New("duplicate member id")
	ErrUnknownMember         = errors.New("unknown member id")
	ErrNonPositiveTotal      = errors.New("total amount must be positive")
	ErrPercentageSumMismatch = errors.New("percentages must sum to 100")
	ErrCustomSumMismatch     = errors.New("custom amounts must sum to the total")
	ErrNoIncomeData          = errors.New("no member has positive income")
	ErrInvalidWeights        = errors.New("total weight must be positive")
	ErrMissingPercentage     = errors.New("percentage required for every member")
	ErrMissingAmount         = errors.New("amount required for every member")
)

// validateCommon applies the structural checks shared by every strategy.
func validateCommon(total money.Money, members []Member) error {
	if len(members) == 0 {
		return ErrEmptyMemberSet
	}
	if !total.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrNonPositiveTotal, total)
	}
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		if seen[m.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateMember, m.ID)
		}
		seen[m.ID] = true
	}
	return nil
}

// validateKeys rejects parameter map keys that do not belong to the member
// set, so a typo in a map key can never be silently ignored.
func validateKeys[V any](params map[string]V, members []Member) error {
	if len(params) == 0 {
		return nil
	}
	ids := make(map[string]bool, len(members))
	for _, m := range members {
		ids[m.ID] = true
	}
	for id := range params {
		if !ids[id] {
			return fmt.Errorf("%w: %s", ErrUnknownMember, id)
		}
	}
	return nil
}

// reconcile enforces the exact-sum invariant: any residual between the total
// and the summed results is assigned to the first member in input order, and
// that member's percentage is recomputed. The fixed tie-break keeps the
// operation deterministic and repeatable.
func reconcile(total money.Money, results []Result) []Result {
	if len(results) == 0 {
		return results
	}
	sum := money.Zero()
	for _, r := range results {
		sum = sum.Add(r.Amount)
	}
	residual := total.Sub(sum)
	if !residual.IsZero() {
		results[0].Amount = results[0].Amount.Add(residual)
		results[0].Percentage = percentageOf(results[0].Amount, total)
	}
	return results
}

// percentageOf derives the 0-100 percentage an amount represents of total,
// rounded to two decimal places.
func percentageOf(amount, total money.Money) float64 {
	if total.IsZero() {
		return 0
	}
	return amount.Div(total).MulFloat(100).Round(2).Float64()
}
