package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/splitledger/internal/apperrors"
	"github.com/SscSPs/splitledger/internal/core/domain"
	portsrepo "github.com/SscSPs/splitledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/splitledger/internal/core/ports/services"
	"github.com/SscSPs/splitledger/internal/utils/accounting"
)

// ledgerService derives balances, settlements and summaries. It holds no state.
type ledgerService struct {
	BaseService
	eventRepo   portsrepo.EventReader
	expenseRepo portsrepo.ExpenseReader
	paymentRepo portsrepo.PaymentReader
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(
	eventRepo portsrepo.EventReader,
	expenseRepo portsrepo.ExpenseReader,
	paymentRepo portsrepo.PaymentReader,
) portssvc.LedgerSvc {
	return &ledgerService{
		eventRepo:   eventRepo,
		expenseRepo: expenseRepo,
		paymentRepo: paymentRepo,
	}
}

var _ portssvc.LedgerSvc = (*ledgerService)(nil)

// snapshot loads the event and its full ledger.
func (s *ledgerService) snapshot(ctx context.Context, eventID string) (*domain.Event, []domain.Expense, []domain.Payment, error) {
	event, err := s.eventRepo.FindEventByID(ctx, eventID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find event", slog.String("event_id", eventID))
		}
		return nil, nil, nil, err
	}
	expenses, err := s.expenseRepo.ListExpensesByEvent(ctx, eventID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load expenses", slog.String("event_id", eventID))
		return nil, nil, nil, err
	}
	payments, err := s.paymentRepo.ListPaymentsByEvent(ctx, eventID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load payments", slog.String("event_id", eventID))
		return nil, nil, nil, err
	}
	return event, expenses, payments, nil
}

// ComputeBalances returns every participant's net balance in minor units
func (s *ledgerService) ComputeBalances(ctx context.Context, eventID string) (*domain.NetBalances, error) {
	_, expenses, payments, err := s.snapshot(ctx, eventID)
	if err != nil {
		return nil, err
	}
	balances := accounting.ComputeNetBalances(expenses, payments)
	s.LogDebug(ctx, "Balances computed",
		slog.String("event_id", eventID),
		slog.Int("participants", balances.Len()))
	return balances, nil
}

// ComputeSettlements returns the transfers that would settle the event
func (s *ledgerService) ComputeSettlements(ctx context.Context, eventID string) ([]domain.Settlement, error) {
	balances, err := s.ComputeBalances(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return accounting.ReduceSettlements(balances), nil
}

// GetSummary returns headline counts and totals for the event
func (s *ledgerService) GetSummary(ctx context.Context, eventID string) (*domain.EventSummary, error) {
	event, expenses, payments, err := s.snapshot(ctx, eventID)
	if err != nil {
		return nil, err
	}
	summary := accounting.Summarize(*event, expenses, payments)
	return &summary, nil
}
