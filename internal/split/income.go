package split

import (
	"math"

	"github.com/tallyup/tallyup/internal/money"
)

// =============================================================================
// INCOME-BASED SPLIT STRATEGIES
// Proportional: share follows income directly.
// Progressive: higher incomes carry a more-than-proportional share.
// =============================================================================

// progressivityExponent is the fixed exponent applied to the income ratio in
// the progressive strategy. Values above 1 shift weight toward higher earners.
const progressivityExponent = 1.3

// earners returns the members with positive income.
func earners(members []Member) []Member {
	var out []Member
	for _, m := range members {
		if m.Income != nil && m.Income.IsPositive() {
			out = append(out, m)
		}
	}
	return out
}

// validateIncome applies the shared checks for both income strategies.
func validateIncome(total money.Money, members []Member) error {
	if err := validateCommon(total, members); err != nil {
		return err
	}
	if len(earners(members)) == 0 {
		return ErrNoIncomeData
	}
	return nil
}

// equalFallback is the share assigned to a member without income data: an
// equal slice of the full total, computed independently of the income pool
// rather than drawn from what remains of it.
func equalFallback(total money.Money, memberCount int) money.Money {
	return total.DivInt(int64(memberCount)).Display()
}

// IncomeProportionalStrategy splits in direct proportion to member income
type IncomeProportionalStrategy struct{}

// Method returns the split method identifier
func (s *IncomeProportionalStrategy) Method() Method {
	return MethodIncomeProportional
}

// Validate checks if the inputs are valid for an income-proportional split
func (s *IncomeProportionalStrategy) Validate(total money.Money, members []Member, _ Params) error {
	return validateIncome(total, members)
}

// Calculate assigns each earner total * income / totalIncome; members without
// income fall back to an equal share of the total.
func (s *IncomeProportionalStrategy) Calculate(total money.Money, members []Member, params Params) ([]Result, error) {
	if err := s.Validate(total, members, params); err != nil {
		return nil, err
	}

	totalIncome := money.Zero()
	for _, m := range earners(members) {
		totalIncome = totalIncome.Add(*m.Income)
	}

	results := make([]Result, len(members))
	for i, m := range members {
		var amount money.Money
		if m.Income != nil && m.Income.IsPositive() {
			amount = total.Mul(m.Income.Div(totalIncome)).Display()
		} else {
			amount = equalFallback(total, len(members))
		}
		results[i] = Result{
			MemberID:   m.ID,
			Amount:     amount,
			Percentage: percentageOf(amount, total),
		}
	}

	return reconcile(total, results), nil
}

// IncomeProgressiveStrategy splits with a progressive multiplier so that
// higher earners pay a more-than-proportional share
type IncomeProgressiveStrategy struct{}

// Method returns the split method identifier
func (s *IncomeProgressiveStrategy) Method() Method {
	return MethodIncomeProgressive
}

// Validate checks if the inputs are valid for an income-progressive split
func (s *IncomeProgressiveStrategy) Validate(total money.Money, members []Member, _ Params) error {
	return validateIncome(total, members)
}

// Calculate computes multiplier m = (income / avgIncome)^1.3 per earner and
// assigns total * m / sum(m). The multiplier is a unitless ratio, so it is
// computed in floating point and only the final scaling runs through Money.
func (s *IncomeProgressiveStrategy) Calculate(total money.Money, members []Member, params Params) ([]Result, error) {
	if err := s.Validate(total, members, params); err != nil {
		return nil, err
	}

	incomeEarners := earners(members)
	totalIncome := money.Zero()
	for _, m := range incomeEarners {
		totalIncome = totalIncome.Add(*m.Income)
	}
	avgIncome := totalIncome.DivInt(int64(len(incomeEarners)))

	multipliers := make(map[string]float64, len(incomeEarners))
	var multiplierSum float64
	for _, m := range incomeEarners {
		ratio := m.Income.Div(avgIncome).Float64()
		mult := math.Pow(ratio, progressivityExponent)
		multipliers[m.ID] = mult
		multiplierSum += mult
	}

	results := make([]Result, len(members))
	for i, m := range members {
		var amount money.Money
		if mult, ok := multipliers[m.ID]; ok {
			amount = total.MulFloat(mult / multiplierSum).Display()
		} else {
			amount = equalFallback(total, len(members))
		}
		results[i] = Result{
			MemberID:   m.ID,
			Amount:     amount,
			Percentage: percentageOf(amount, total),
		}
	}

	return reconcile(total, results), nil
}
