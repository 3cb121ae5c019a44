package split

import (
	"fmt"
	"math"

	"github.com/tallyup/tallyup/internal/money"
)

// =============================================================================
// PERCENTAGE SPLIT STRATEGY
// Divides the expense based on specified percentages for each member
// =============================================================================

// percentageTolerance is how far the percentage sum may drift from 100.
const percentageTolerance = 0.01

// PercentageStrategy implements the Strategy interface for percentage-based splits
type PercentageStrategy struct{}

// Method returns the split method identifier
func (s *PercentageStrategy) Method() Method {
	return MethodPercentage
}

// Validate checks if the inputs are valid for a percentage split
func (s *PercentageStrategy) Validate(total money.Money, members []Member, params Params) error {
	if err := validateCommon(total, members); err != nil {
		return err
	}
	if err := validateKeys(params.Percentages, members); err != nil {
		return err
	}

	var sum float64
	for _, m := range members {
		pct, ok := params.Percentages[m.ID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingPercentage, m.ID)
		}
		sum += pct
	}

	if math.Abs(sum-100) > percentageTolerance {
		return fmt.Errorf("%w: got %.2f", ErrPercentageSumMismatch, sum)
	}
	return nil
}

// Calculate assigns each member total * pct / 100
func (s *PercentageStrategy) Calculate(total money.Money, members []Member, params Params) ([]Result, error) {
	if err := s.Validate(total, members, params); err != nil {
		return nil, err
	}

	results := make([]Result, len(members))
	for i, m := range members {
		pct := params.Percentages[m.ID]
		amount := total.MulFloat(pct / 100).Display()
		results[i] = Result{
			MemberID:   m.ID,
			Amount:     amount,
			Percentage: percentageOf(amount, total),
		}
	}

	return reconcile(total, results), nil
}
