package accounting

import (
	"fmt"

	"github.com/SscSPs/splitledger/internal/core/domain"
)

// EvaluateCloseGate runs every close check against a snapshot of an event's ledger.
// It returns nil when the event may be closed.
func EvaluateCloseGate(eventID string, expenses []domain.Expense, payments []domain.Payment) *domain.ClosureBlockedError {
	blocked := &domain.ClosureBlockedError{EventID: eventID}

	pendingExpenses := 0
	for _, e := range expenses {
		if e.Status == domain.ExpensePending {
			pendingExpenses++
		}
	}
	if pendingExpenses > 0 {
		blocked.Reasons = append(blocked.Reasons, domain.BlockReason{
			Code:    domain.BlockPendingExpenses,
			Message: fmt.Sprintf("pending expenses: %d awaiting approval or rejection", pendingExpenses),
			Count:   pendingExpenses,
		})
	}

	pendingPayments := 0
	for _, p := range payments {
		if p.Status == domain.PaymentPending {
			pendingPayments++
		}
	}
	if pendingPayments > 0 {
		blocked.Reasons = append(blocked.Reasons, domain.BlockReason{
			Code:    domain.BlockPendingPayments,
			Message: fmt.Sprintf("pending payments: %d awaiting confirmation by the recipient", pendingPayments),
			Count:   pendingPayments,
		})
	}

	balances := ComputeNetBalances(expenses, payments)
	if unsettled := UnsettledHandles(balances); len(unsettled) > 0 {
		blocked.Reasons = append(blocked.Reasons, domain.BlockReason{
			Code:    domain.BlockUnsettledBalances,
			Message: fmt.Sprintf("unsettled balances: %d participants still owe or are owed money", len(unsettled)),
			Count:   len(unsettled),
		})
		blocked.OutstandingTransfers = OutstandingTransfers(balances)
	}

	if len(blocked.Reasons) == 0 {
		return nil
	}
	return blocked
}

// Summarize builds the headline numbers for an event.
func Summarize(event domain.Event, expenses []domain.Expense, payments []domain.Payment) domain.EventSummary {
	summary := domain.EventSummary{EventID: event.EventID, Status: event.Status}
	participants := map[string]struct{}{}

	for _, e := range expenses {
		switch e.Status {
		case domain.ExpenseConfirmed:
			summary.ConfirmedExpenses++
			summary.ConfirmedTotal += e.Amount
		case domain.ExpensePending:
			summary.PendingExpenses++
		case domain.ExpenseRejected:
			summary.RejectedExpenses++
			continue
		}
		for _, h := range e.SplitAmong {
			participants[domain.NormalizeHandle(h)] = struct{}{}
		}
	}
	for _, p := range payments {
		if p.Status == domain.PaymentConfirmed {
			summary.ConfirmedPayments++
		} else {
			summary.PendingPayments++
		}
		participants[domain.NormalizeHandle(p.FromHandle)] = struct{}{}
		participants[domain.NormalizeHandle(p.ToHandle)] = struct{}{}
	}
	summary.Participants = len(participants)
	return summary
}
