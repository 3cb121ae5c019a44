package split

import (
	"fmt"

	"github.com/tallyup/tallyup/internal/money"
)

// =============================================================================
// CUSTOM SPLIT STRATEGY
// Each member owes a specific exact amount (must sum to the total)
// =============================================================================

// CustomStrategy implements the Strategy interface for fixed custom amounts
type CustomStrategy struct{}

// Method returns the split method identifier
func (s *CustomStrategy) Method() Method {
	return MethodCustom
}

// Validate checks if the inputs are valid for a custom split
func (s *CustomStrategy) Validate(total money.Money, members []Member, params Params) error {
	if err := validateCommon(total, members); err != nil {
		return err
	}
	if err := validateKeys(params.Amounts, members); err != nil {
		return err
	}

	sum := money.Zero()
	for _, m := range members {
		amount, ok := params.Amounts[m.ID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingAmount, m.ID)
		}
		sum = sum.Add(amount)
	}

	if !sum.WithinTolerance(total, money.Tolerance()) {
		return fmt.Errorf("%w: got %s, expected %s", ErrCustomSumMismatch, sum.StringFixed(), total.StringFixed())
	}
	return nil
}

// Calculate passes the declared amounts through, deriving each percentage
// from amount / total. Within the 0.01 tolerance the declared amounts may
// not sum to the total exactly; residual correction closes the gap.
func (s *CustomStrategy) Calculate(total money.Money, members []Member, params Params) ([]Result, error) {
	if err := s.Validate(total, members, params); err != nil {
		return nil, err
	}

	results := make([]Result, len(members))
	for i, m := range members {
		amount := params.Amounts[m.ID].Display()
		results[i] = Result{
			MemberID:   m.ID,
			Amount:     amount,
			Percentage: percentageOf(amount, total),
		}
	}

	return reconcile(total, results), nil
}
