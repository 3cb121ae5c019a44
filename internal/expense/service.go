package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tallyup/tallyup/internal/audit"
	"github.com/tallyup/tallyup/internal/ledger"
	"github.com/tallyup/tallyup/internal/money"
	"github.com/tallyup/tallyup/internal/split"
)

// Common errors
var (
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrNoParticipants   = errors.New("expense has no participating members")
	ErrNoPayer          = errors.New("expense has no payer")
	ErrInvalidSplit     = errors.New("split validation failed")
	ErrPayerSumMismatch = errors.New("payer contributions must sum to the expense amount")
)

// DefaultCurrency is assumed when a request does not name one.
const DefaultCurrency = "USD"

// MemberDirectory resolves a group's members for splitting. *member.Service
// is the production implementation.
type MemberDirectory interface {
	SplitMembers(ctx context.Context, groupID string) ([]split.Member, error)
}

// Service orchestrates the full expense pipeline: resolve participants,
// validate, calculate the split, audit the calculation and fold the result
// into the group's balances.
type Service struct {
	repo      *Repository
	members   MemberDirectory
	factory   *split.Factory
	validator *split.Validator
	recorder  *audit.Recorder
	audits    *audit.Repository
	ledger    *ledger.Ledger
}

// NewService creates a new expense service. The expense and audit
// repositories may be nil, in which case results are folded but not persisted.
func NewService(repo *Repository, members MemberDirectory, factory *split.Factory, validator *split.Validator, recorder *audit.Recorder, audits *audit.Repository, l *ledger.Ledger) *Service {
	return &Service{
		repo:      repo,
		members:   members,
		factory:   factory,
		validator: validator,
		recorder:  recorder,
		audits:    audits,
		ledger:    l,
	}
}

// CreateExpense runs the full pipeline and records the expense. The split is
// validated before anything is folded; an invalid split changes no balances.
func (s *Service) CreateExpense(ctx context.Context, req *CreateExpenseRequest) (*Expense, *split.ValidationResult, error) {
	prepared, err := s.prepare(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	validation := s.validator.Validate(prepared.input, prepared.groupMembers)
	if !validation.IsValid {
		return nil, &validation, ErrInvalidSplit
	}

	results, err := s.factory.Calculate(prepared.method, req.Amount, prepared.participants, req.Params)
	if err != nil {
		return nil, &validation, err
	}

	a := s.recorder.Record(prepared.method, req.Amount, prepared.participants, results)
	if s.audits != nil {
		if err := s.audits.Save(ctx, a); err != nil {
			// The in-memory history already has the record
			slog.Warn("failed to persist calculation audit", "audit_id", a.ID, "error", err)
		}
	}

	if err := s.ledger.FoldExpense(ctx, ledger.ExpenseSplit{
		GroupID:  req.GroupID,
		Currency: prepared.currency,
		Payers:   prepared.payers,
		Results:  results,
	}); err != nil {
		return nil, &validation, err
	}

	expense := &Expense{
		ID:          uuid.NewString(),
		GroupID:     req.GroupID,
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    prepared.currency,
		Method:      prepared.method,
		Payers:      prepared.payers,
		Results:     results,
		AuditID:     a.ID,
		CreatedAt:   time.Now().UTC(),
	}
	if s.repo != nil {
		if err := s.repo.Create(ctx, expense); err != nil {
			return nil, &validation, err
		}
	}

	return expense, &validation, nil
}

// PreviewSplit computes and audits a split without recording the expense or
// touching any balances.
func (s *Service) PreviewSplit(ctx context.Context, req *CreateExpenseRequest) (*PreviewResponse, error) {
	prepared, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	validation := s.validator.Validate(prepared.input, prepared.groupMembers)
	preview := &PreviewResponse{
		GroupID:    req.GroupID,
		Amount:     req.Amount,
		Method:     prepared.method,
		Validation: validation,
	}
	if !validation.IsValid {
		return preview, nil
	}

	results, err := s.factory.Calculate(prepared.method, req.Amount, prepared.participants, req.Params)
	if err != nil {
		return nil, err
	}
	preview.Results = results
	preview.Audit = s.recorder.Record(prepared.method, req.Amount, prepared.participants, results)

	return preview, nil
}

// ValidateSplit checks a proposed split against the group without computing
// or recording anything.
func (s *Service) ValidateSplit(ctx context.Context, req *CreateExpenseRequest) (*split.ValidationResult, error) {
	prepared, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	validation := s.validator.Validate(prepared.input, prepared.groupMembers)
	return &validation, nil
}

// GetExpense retrieves a recorded expense by id
func (s *Service) GetExpense(ctx context.Context, id string) (*Expense, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}
	return e, nil
}

// ListExpenses retrieves recorded expenses for a group
func (s *Service) ListExpenses(ctx context.Context, groupID string, page, perPage int) ([]*Expense, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	offset := (page - 1) * perPage
	return s.repo.ListByGroup(ctx, groupID, perPage, offset)
}

// AuditHistory returns the retained calculation audits, oldest first
func (s *Service) AuditHistory() []*audit.CalculationAudit {
	return s.recorder.History()
}

// preparedExpense is a request resolved against the member directory.
type preparedExpense struct {
	currency     string
	method       split.Method
	groupMembers []split.Member
	participants []split.Member
	payers       map[string]money.Money
	input        split.ExpenseInput
}

// prepare resolves the request's participants and payers against the group.
func (s *Service) prepare(ctx context.Context, req *CreateExpenseRequest) (*preparedExpense, error) {
	groupMembers, err := s.members.SplitMembers(ctx, req.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve group members: %w", err)
	}

	participantIDs := req.ParticipantIDs
	if len(participantIDs) == 0 {
		for _, m := range groupMembers {
			if m.Active {
				participantIDs = append(participantIDs, m.ID)
			}
		}
	}
	if len(participantIDs) == 0 {
		return nil, ErrNoParticipants
	}

	byID := make(map[string]split.Member, len(groupMembers))
	for _, m := range groupMembers {
		byID[m.ID] = m
	}
	participants := make([]split.Member, 0, len(participantIDs))
	for _, id := range participantIDs {
		if m, ok := byID[id]; ok {
			participants = append(participants, m)
		} else {
			return nil, fmt.Errorf("%w: %s", split.ErrUnknownMember, id)
		}
	}

	payers := req.Payers
	if len(payers) == 0 {
		if req.PaidByUserID == "" {
			return nil, ErrNoPayer
		}
		payers = map[string]money.Money{req.PaidByUserID: req.Amount}
	} else {
		contributed := money.Zero()
		for _, c := range payers {
			contributed = contributed.Add(c)
		}
		if !contributed.WithinTolerance(req.Amount, money.Tolerance()) {
			return nil, ErrPayerSumMismatch
		}
	}

	currency := req.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	// The stored method reflects the strategy actually used, so an unknown
	// tag records as equal.
	method := s.factory.CreateFromString(req.Method).Method()

	return &preparedExpense{
		currency:     currency,
		method:       method,
		groupMembers: groupMembers,
		participants: participants,
		payers:       payers,
		input: split.ExpenseInput{
			Total:          req.Amount,
			Method:         method,
			Params:         req.Params,
			ParticipantIDs: participantIDs,
			Payers:         req.Payers,
		},
	}, nil
}
