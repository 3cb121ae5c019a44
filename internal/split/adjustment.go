package split

import "github.com/tallyup/tallyup/internal/money"

// =============================================================================
// ADJUSTMENT SPLIT STRATEGY
// Starts from an equal base share and applies a signed per-member adjustment
// =============================================================================

// AdjustmentStrategy implements the Strategy interface for adjustment-based splits
type AdjustmentStrategy struct{}

// Method returns the split method identifier
func (s *AdjustmentStrategy) Method() Method {
	return MethodAdjustment
}

// Validate checks if the inputs are valid for an adjustment split. A missing
// map entry means no adjustment for that member; adjustments that push an
// amount negative are allowed here and left to caller policy.
func (s *AdjustmentStrategy) Validate(total money.Money, members []Member, params Params) error {
	if err := validateCommon(total, members); err != nil {
		return err
	}
	return validateKeys(params.Adjustments, members)
}

// Calculate assigns each member total/n plus their signed adjustment
func (s *AdjustmentStrategy) Calculate(total money.Money, members []Member, params Params) ([]Result, error) {
	if err := s.Validate(total, members, params); err != nil {
		return nil, err
	}

	base := total.DivInt(int64(len(members)))

	results := make([]Result, len(members))
	for i, m := range members {
		adjustment := money.Zero()
		if adj, ok := params.Adjustments[m.ID]; ok {
			adjustment = adj
		}
		amount := base.Add(adjustment).Display()
		results[i] = Result{
			MemberID:   m.ID,
			Amount:     amount,
			Percentage: percentageOf(amount, total),
			Adjustment: &adjustment,
		}
	}

	return reconcile(total, results), nil
}
