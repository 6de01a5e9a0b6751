package services

import (
	"context"

	"github.com/SscSPs/splitledger/internal/core/domain"
)

// LedgerSvc derives balances and settlements from an event's ledger.
// Nothing here is stored; every call recomputes from expenses and payments.
type LedgerSvc interface {
	// ComputeBalances returns the net balance of every participant seen in the event.
	ComputeBalances(ctx context.Context, eventID string) (*domain.NetBalances, error)

	// ComputeSettlements returns the transfers that would bring every balance to zero.
	ComputeSettlements(ctx context.Context, eventID string) ([]domain.Settlement, error)

	// GetSummary returns headline counts and totals for the event.
	GetSummary(ctx context.Context, eventID string) (*domain.EventSummary, error)
}
