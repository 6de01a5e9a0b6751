package analytics

import (
	"context"
	"strings"

	"github.com/SscSPs/splitledger/internal/core/domain"
	portssvc "github.com/SscSPs/splitledger/internal/core/ports/services"
)

// Enqueuer is the subset of the posthog client the listener needs.
type Enqueuer interface {
	Enqueue(distinctId string, event string, properties map[string]any)
}

// LedgerOutcomeListener reports resolved expenses and closed events as product analytics events.
type LedgerOutcomeListener struct {
	client Enqueuer
}

// NewLedgerOutcomeListener creates a listener that forwards ledger outcomes to client.
func NewLedgerOutcomeListener(client Enqueuer) *LedgerOutcomeListener {
	return &LedgerOutcomeListener{client: client}
}

var _ portssvc.LedgerListener = (*LedgerOutcomeListener)(nil)

func (l *LedgerOutcomeListener) ExpenseResolved(_ context.Context, expense domain.Expense) {
	l.client.Enqueue(expense.Payer, "expense_"+strings.ToLower(string(expense.Status)), map[string]any{
		"event_id":     expense.EventID,
		"expense_id":   expense.ExpenseID,
		"amount":       expense.Amount,
		"participants": len(expense.SplitAmong),
		"votes":        len(expense.Votes),
	})
}

func (l *LedgerOutcomeListener) EventClosed(_ context.Context, event domain.Event) {
	l.client.Enqueue(event.CreatedBy, "event_closed", map[string]any{
		"event_id": event.EventID,
		"linked":   event.IsLinked(),
	})
}
