package split

import (
	"testing"

	"github.com/tallyup/tallyup/internal/money"
)

func TestValidator(t *testing.T) {
	validator := NewValidator(NewStrategyFactory())
	group := members("a", "b", "c")

	tests := []struct {
		name         string
		input        ExpenseInput
		wantValid    bool
		wantCode     string
		wantWarnings int
	}{
		{
			name: "valid equal split",
			input: ExpenseInput{
				Total:          money.MustParse("90.00"),
				Method:         MethodEqual,
				ParticipantIDs: []string{"a", "b", "c"},
			},
			wantValid: true,
		},
		{
			name: "empty participant set",
			input: ExpenseInput{
				Total:  money.MustParse("90.00"),
				Method: MethodEqual,
			},
			wantValid: false,
			wantCode:  CodeInsufficientMembers,
		},
		{
			name: "participant outside the group",
			input: ExpenseInput{
				Total:          money.MustParse("90.00"),
				Method:         MethodEqual,
				ParticipantIDs: []string{"a", "zz"},
			},
			wantValid: false,
			wantCode:  CodeUnknownMember,
		},
		{
			name: "duplicate participant",
			input: ExpenseInput{
				Total:          money.MustParse("90.00"),
				Method:         MethodEqual,
				ParticipantIDs: []string{"a", "a"},
			},
			wantValid: false,
			wantCode:  CodeDuplicateMember,
		},
		{
			name: "percentage mismatch surfaces as coded issue",
			input: ExpenseInput{
				Total:          money.MustParse("100.00"),
				Method:         MethodPercentage,
				ParticipantIDs: []string{"a", "b", "c"},
				Params:         Params{Percentages: map[string]float64{"a": 50, "b": 30, "c": 21}},
			},
			wantValid: false,
			wantCode:  CodePercentageSumMismatch,
		},
		{
			name: "multi-payer contributions must cover the total",
			input: ExpenseInput{
				Total:          money.MustParse("100.00"),
				Method:         MethodEqual,
				ParticipantIDs: []string{"a", "b"},
				Payers: map[string]money.Money{
					"a": money.MustParse("60"),
					"b": money.MustParse("30"),
				},
			},
			wantValid: false,
			wantCode:  CodePayerSumMismatch,
		},
		{
			name: "multi-payer contributions matching the total",
			input: ExpenseInput{
				Total:          money.MustParse("100.00"),
				Method:         MethodEqual,
				ParticipantIDs: []string{"a", "b"},
				Payers: map[string]money.Money{
					"a": money.MustParse("60"),
					"b": money.MustParse("40"),
				},
			},
			wantValid: true,
		},
		{
			name: "zero amount result warns without blocking",
			input: ExpenseInput{
				Total:          money.MustParse("100.00"),
				Method:         MethodWeighted,
				ParticipantIDs: []string{"a", "b"},
				Params:         Params{Weights: map[string]float64{"a": 0, "b": 1}},
				Results: []Result{
					{MemberID: "a", Amount: money.Zero()},
					{MemberID: "b", Amount: money.MustParse("100")},
				},
			},
			wantValid:    true,
			wantWarnings: 2, // zero-amount result and zero-weight member
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validator.Validate(tt.input, group)
			if result.IsValid != tt.wantValid {
				t.Fatalf("IsValid = %v, want %v (errors: %v)", result.IsValid, tt.wantValid, result.Errors)
			}
			if tt.wantCode != "" {
				found := false
				for _, issue := range result.Errors {
					if issue.Code == tt.wantCode {
						found = true
					}
				}
				if !found {
					t.Errorf("errors %v missing code %s", result.Errors, tt.wantCode)
				}
			}
			if tt.wantWarnings > 0 && len(result.Warnings) < tt.wantWarnings {
				t.Errorf("got %d warnings %v, want at least %d", len(result.Warnings), result.Warnings, tt.wantWarnings)
			}
		})
	}
}

// The validator must never block on advisory conditions: an inactive member
// produces a warning, not an error.
func TestValidatorInactiveMemberWarns(t *testing.T) {
	validator := NewValidator(NewStrategyFactory())
	group := []Member{
		{ID: "a", Active: true},
		{ID: "b", Active: false},
	}
	result := validator.Validate(ExpenseInput{
		Total:          money.MustParse("50.00"),
		Method:         MethodEqual,
		ParticipantIDs: []string{"a", "b"},
	}, group)
	if !result.IsValid {
		t.Fatalf("IsValid = false, errors: %v", result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a warning for the inactive member")
	}
}
