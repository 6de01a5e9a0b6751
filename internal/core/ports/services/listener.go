package services

import (
	"context"

	"github.com/SscSPs/splitledger/internal/core/domain"
)

// LedgerListener is notified after ledger state changes are committed.
// Implementations must not block for long; errors are theirs to log.
type LedgerListener interface {
	// ExpenseResolved is called once an expense reaches CONFIRMED or REJECTED through a vote.
	ExpenseResolved(ctx context.Context, expense domain.Expense)

	// EventClosed is called once an event has been closed.
	EventClosed(ctx context.Context, event domain.Event)
}

// ListenerRegistry lets adapters subscribe to ledger notifications after the
// services are built.
type ListenerRegistry interface {
	Register(listener LedgerListener)
}
