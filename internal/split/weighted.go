package split

import (
	"fmt"

	"github.com/tallyup/tallyup/internal/money"
)

// =============================================================================
// WEIGHTED AND SHARE-BASED SPLIT STRATEGIES
// Both divide the total in proportion to a per-member factor; they differ
// only in the semantic label (continuous weight vs. integer share count).
// =============================================================================

// WeightedStrategy implements the Strategy interface for weight-proportional splits
type WeightedStrategy struct{}

// Method returns the split method identifier
func (s *WeightedStrategy) Method() Method {
	return MethodWeighted
}

// weightFor resolves a member's weight: the params map wins, then the member
// attribute, then the default of 1. Non-positive weights contribute zero,
// which can legitimately give a member a zero share.
func weightFor(m Member, weights map[string]float64) float64 {
	w := 1.0
	if m.Weight != nil {
		w = *m.Weight
	}
	if override, ok := weights[m.ID]; ok {
		w = override
	}
	if w <= 0 {
		return 0
	}
	return w
}

// Validate checks if the inputs are valid for a weighted split
func (s *WeightedStrategy) Validate(total money.Money, members []Member, params Params) error {
	if err := validateCommon(total, members); err != nil {
		return err
	}
	if err := validateKeys(params.Weights, members); err != nil {
		return err
	}

	var totalWeight float64
	for _, m := range members {
		totalWeight += weightFor(m, params.Weights)
	}
	if totalWeight <= 0 {
		return fmt.Errorf("%w: got %.2f", ErrInvalidWeights, totalWeight)
	}
	return nil
}

// Calculate assigns each member total * weight / totalWeight
func (s *WeightedStrategy) Calculate(total money.Money, members []Member, params Params) ([]Result, error) {
	if err := s.Validate(total, members, params); err != nil {
		return nil, err
	}

	var totalWeight float64
	for _, m := range members {
		totalWeight += weightFor(m, params.Weights)
	}

	results := make([]Result, len(members))
	for i, m := range members {
		w := weightFor(m, params.Weights)
		amount := total.MulFloat(w / totalWeight).Display()
		results[i] = Result{
			MemberID:   m.ID,
			Amount:     amount,
			Percentage: percentageOf(amount, total),
			Weight:     w,
		}
	}

	return reconcile(total, results), nil
}

// SharesStrategy implements the Strategy interface for share-count splits
type SharesStrategy struct{}

// Method returns the split method identifier
func (s *SharesStrategy) Method() Method {
	return MethodShares
}

// sharesFor resolves a member's share count, defaulting to 1. Non-positive
// counts contribute zero, same caveat as weights.
func sharesFor(m Member, shares map[string]int) int {
	n := 1
	if override, ok := shares[m.ID]; ok {
		n = override
	}
	if n <= 0 {
		return 0
	}
	return n
}

// Validate checks if the inputs are valid for a share-based split
func (s *SharesStrategy) Validate(total money.Money, members []Member, params Params) error {
	if err := validateCommon(total, members); err != nil {
		return err
	}
	if err := validateKeys(params.Shares, members); err != nil {
		return err
	}

	totalShares := 0
	for _, m := range members {
		totalShares += sharesFor(m, params.Shares)
	}
	if totalShares <= 0 {
		return fmt.Errorf("%w: got %d shares", ErrInvalidWeights, totalShares)
	}
	return nil
}

// Calculate assigns each member total * shares / totalShares
func (s *SharesStrategy) Calculate(total money.Money, members []Member, params Params) ([]Result, error) {
	if err := s.Validate(total, members, params); err != nil {
		return nil, err
	}

	totalShares := 0
	for _, m := range members {
		totalShares += sharesFor(m, params.Shares)
	}

	results := make([]Result, len(members))
	for i, m := range members {
		n := sharesFor(m, params.Shares)
		amount := total.MulFloat(float64(n) / float64(totalShares)).Display()
		results[i] = Result{
			MemberID:   m.ID,
			Amount:     amount,
			Percentage: percentageOf(amount, total),
			Shares:     n,
		}
	}

	return reconcile(total, results), nil
}
