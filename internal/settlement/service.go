package settlement

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tallyup/tallyup/internal/events"
	"github.com/tallyup/tallyup/internal/ledger"
)

// Common errors
var (
	ErrCannotSettleSelf  = errors.New("cannot create settlement with yourself")
	ErrNonPositiveAmount = errors.New("settlement amount must be positive")
)

// DefaultCurrency is assumed when a request does not name one.
const DefaultCurrency = "USD"

// Service handles settlement business logic
type Service struct {
	repo      *Repository
	ledger    *ledger.Ledger
	publisher events.Publisher
}

// NewService creates a new settlement service. The publisher may be a
// NoopPublisher when no broker is configured.
func NewService(repo *Repository, l *ledger.Ledger, publisher events.Publisher) *Service {
	return &Service{
		repo:      repo,
		ledger:    l,
		publisher: publisher,
	}
}

// RecordSettlement records a payment between two members and folds it into
// the group's balances.
func (s *Service) RecordSettlement(ctx context.Context, req *CreateSettlementRequest) (*Settlement, error) {
	if req.FromUserID == req.ToUserID {
		return nil, ErrCannotSettleSelf
	}
	if !req.Amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}
	currency := req.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	settlement := &Settlement{
		ID:         uuid.NewString(),
		GroupID:    req.GroupID,
		FromUserID: req.FromUserID,
		ToUserID:   req.ToUserID,
		Amount:     req.Amount,
		Currency:   currency,
		Note:       req.Note,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.ledger.FoldSettlement(ctx, ledger.Settlement{
		GroupID:    settlement.GroupID,
		Currency:   settlement.Currency,
		FromUserID: settlement.FromUserID,
		ToUserID:   settlement.ToUserID,
		Amount:     settlement.Amount,
	}); err != nil {
		return nil, err
	}

	if s.repo != nil {
		if err := s.repo.Create(ctx, settlement); err != nil {
			return nil, err
		}
	}

	return settlement, nil
}

// ListSettlements retrieves recorded settlements for a group
func (s *Service) ListSettlements(ctx context.Context, groupID string, page, perPage int) ([]*Settlement, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	offset := (page - 1) * perPage
	return s.repo.ListByGroup(ctx, groupID, perPage, offset)
}

// ListBalances returns the group's current pairwise balances
func (s *Service) ListBalances(ctx context.Context, groupID, currency string) ([]*ledger.Balance, error) {
	if currency == "" {
		currency = DefaultCurrency
	}
	return s.ledger.Balances(ctx, groupID, currency)
}

// Optimize reduces the group's balances into a minimized payment plan and
// publishes the run. The plan itself is not persisted; it is recomputed
// from the balances on demand.
func (s *Service) Optimize(ctx context.Context, groupID, currency string) (*OptimizeResponse, error) {
	if currency == "" {
		currency = DefaultCurrency
	}

	balances, err := s.ledger.Balances(ctx, groupID, currency)
	if err != nil {
		return nil, err
	}

	payments := Optimize(balances)
	savings := 0
	if len(payments) > 0 {
		savings = payments[0].Savings
	}

	run := OptimizationRun{
		GroupID:   groupID,
		Currency:  currency,
		Payments:  payments,
		Savings:   savings,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, run); err != nil {
		// Event delivery is best effort; the plan is still valid
		slog.Warn("failed to publish optimization run", "group_id", groupID, "error", err)
	}

	return &OptimizeResponse{
		GroupID:  groupID,
		Currency: currency,
		Payments: payments,
		Savings:  savings,
	}, nil
}
