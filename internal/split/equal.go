package split

import "github.com/tallyup/tallyup/internal/money"

// =============================================================================
// EQUAL SPLIT STRATEGY
// Divides the expense equally among all members
// =============================================================================

// EqualStrategy implements the Strategy interface for equal splits
type EqualStrategy struct{}

// Method returns the split method identifier
func (s *EqualStrategy) Method() Method {
	return MethodEqual
}

// Validate checks if the inputs are valid for an equal split
func (s *EqualStrategy) Validate(total money.Money, members []Member, _ Params) error {
	return validateCommon(total, members)
}

// Calculate divides the total evenly. Each member's share is rounded to the
// display precision; the rounding remainder lands on the first member in
// input order, never on a random one.
func (s *EqualStrategy) Calculate(total money.Money, members []Member, params Params) ([]Result, error) {
	if err := s.Validate(total, members, params); err != nil {
		return nil, err
	}

	share := total.DivInt(int64(len(members))).Display()

	results := make([]Result, len(members))
	for i, m := range members {
		results[i] = Result{
			MemberID:   m.ID,
			Amount:     share,
			Percentage: percentageOf(share, total),
		}
	}

	return reconcile(total, results), nil
}
