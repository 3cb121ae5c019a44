package split

import (
	"errors"
	"fmt"
	"math"

	"github.com/tallyup/tallyup/internal/money"
)

// =============================================================================
// SPLIT VALIDATOR
// Cross-checks a proposed split against the member list and the selected
// method's constraints. Unlike the calculator it never fails: it always
// returns a structured result the caller can render, log, or act on.
// =============================================================================

// Issue codes carried by blocking validation errors.
const (
	CodeEmptyMemberSet        = "EMPTY_MEMBER_SET"
	CodeInsufficientMembers   = "INSUFFICIENT_MEMBERS"
	CodeDuplicateMember       = "DUPLICATE_MEMBER"
	CodeUnknownMember         = "UNKNOWN_MEMBER"
	CodeNonPositiveTotal      = "NON_POSITIVE_TOTAL"
	CodePercentageSumMismatch = "PERCENTAGE_SUM_MISMATCH"
	CodeCustomSumMismatch     = "CUSTOM_SUM_MISMATCH"
	CodeNoIncomeData          = "NO_INCOME_DATA"
	CodeInvalidWeights        = "INVALID_WEIGHTS"
	CodeMissingParameter      = "MISSING_PARAMETER"
	CodePayerSumMismatch      = "PAYER_SUM_MISMATCH"
)

// Issue is a single blocking validation error
type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult is the structured outcome of validating a proposed split
type ValidationResult struct {
	IsValid     bool     `json:"is_valid"`
	Errors      []Issue  `json:"errors"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
}

// ExpenseInput is a proposed split as supplied by a caller, before any
// calculation has been accepted.
type ExpenseInput struct {
	Total          money.Money            `json:"total"`
	Method         Method                 `json:"method"`
	Params         Params                 `json:"params"`
	ParticipantIDs []string               `json:"participant_ids"`
	Payers         map[string]money.Money `json:"payers,omitempty"` // multi-payer contributions
	Results        []Result               `json:"results,omitempty"`
}

// Validator checks proposed splits without ever throwing
type Validator struct {
	factory *Factory
}

// NewValidator creates a new split validator
func NewValidator(factory *Factory) *Validator {
	return &Validator{factory: factory}
}

// Validate checks the proposed split against the group's members. Structural
// checks run first; method checks run against the participating subset.
func (v *Validator) Validate(input ExpenseInput, groupMembers []Member) ValidationResult {
	result := ValidationResult{
		Errors:      []Issue{},
		Warnings:    []string{},
		Suggestions: []string{},
	}

	byID := make(map[string]Member, len(groupMembers))
	for _, m := range groupMembers {
		byID[m.ID] = m
	}

	// Structural: non-empty selection, subset of the group, no duplicates
	if len(input.ParticipantIDs) == 0 {
		result.Errors = append(result.Errors, Issue{
			Code:    CodeInsufficientMembers,
			Message: "at least one participating member is required",
		})
	}
	seen := make(map[string]bool, len(input.ParticipantIDs))
	var participants []Member
	for _, id := range input.ParticipantIDs {
		if seen[id] {
			result.Errors = append(result.Errors, Issue{
				Code:    CodeDuplicateMember,
				Message: fmt.Sprintf("member %s is selected more than once", id),
			})
			continue
		}
		seen[id] = true
		m, ok := byID[id]
		if !ok {
			result.Errors = append(result.Errors, Issue{
				Code:    CodeUnknownMember,
				Message: fmt.Sprintf("member %s is not part of the group", id),
			})
			continue
		}
		if !m.Active {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("member %s is inactive but included in the split", id))
		}
		participants = append(participants, m)
	}

	// Multi-payer configurations must cover the expense total exactly
	if len(input.Payers) > 0 {
		paid := money.Zero()
		for id, contribution := range input.Payers {
			if _, ok := byID[id]; !ok {
				result.Errors = append(result.Errors, Issue{
					Code:    CodeUnknownMember,
					Message: fmt.Sprintf("payer %s is not part of the group", id),
				})
			}
			paid = paid.Add(contribution)
		}
		if !paid.WithinTolerance(input.Total, money.Tolerance()) {
			result.Errors = append(result.Errors, Issue{
				Code: CodePayerSumMismatch,
				Message: fmt.Sprintf("payer contributions sum to %s, expense total is %s",
					paid.StringFixed(), input.Total.StringFixed()),
			})
		}
	}

	// Method-specific edge policies, re-derived via the strategy itself
	if len(participants) > 0 {
		strategy := v.factory.Create(input.Method)
		if err := strategy.Validate(input.Total, participants, input.Params); err != nil {
			result.Errors = append(result.Errors, issueFromError(err))
		}
	}

	v.appendAdvice(input, participants, &result)

	result.IsValid = len(result.Errors) == 0
	return result
}

// appendAdvice collects the non-blocking warnings and suggestions.
func (v *Validator) appendAdvice(input ExpenseInput, participants []Member, result *ValidationResult) {
	for _, r := range input.Results {
		if r.Amount.IsZero() {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("member %s is assigned a zero amount", r.MemberID))
		}
		if r.Amount.IsNegative() {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("member %s is assigned a negative amount of %s", r.MemberID, r.Amount.StringFixed()))
		}
	}

	if input.Method == MethodPercentage {
		fractional := false
		for _, pct := range input.Params.Percentages {
			if math.Abs(pct*10-math.Round(pct*10)) > 1e-9 {
				fractional = true
				break
			}
		}
		if fractional {
			result.Suggestions = append(result.Suggestions,
				"round percentages to one decimal place for cleaner amounts")
		}
	}

	if input.Method == MethodWeighted {
		for _, m := range participants {
			if weightFor(m, input.Params.Weights) == 0 {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("member %s has no positive weight and will owe nothing", m.ID))
			}
		}
	}
	if input.Method == MethodShares {
		for _, m := range participants {
			if sharesFor(m, input.Params.Shares) == 0 {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("member %s has no positive share count and will owe nothing", m.ID))
			}
		}
	}
}

// issueFromError maps a calculator sentinel error onto a coded issue.
func issueFromError(err error) Issue {
	code := "INVALID_SPLIT"
	switch {
	case errors.Is(err, ErrEmptyMemberSet):
		code = CodeEmptyMemberSet
	case errors.Is(err, ErrInsufficientMembers):
		code = CodeInsufficientMembers
	case errors.Is(err, ErrDuplicateMember):
		code = CodeDuplicateMember
	case errors.Is(err, ErrUnknownMember):
		code = CodeUnknownMember
	case errors.Is(err, ErrNonPositiveTotal):
		code = CodeNonPositiveTotal
	case errors.Is(err, ErrPercentageSumMismatch):
		code = CodePercentageSumMismatch
	case errors.Is(err, ErrCustomSumMismatch):
		code = CodeCustomSumMismatch
	case errors.Is(err, ErrNoIncomeData):
		code = CodeNoIncomeData
	case errors.Is(err, ErrInvalidWeights):
		code = CodeInvalidWeights
	case errors.Is(err, ErrMissingPercentage), errors.Is(err, ErrMissingAmount):
		code = CodeMissingParameter
	}
	return Issue{Code: code, Message: err.Error()}
}
