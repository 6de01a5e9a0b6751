package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/splitledger/internal/apperrors"
)

// BlockReasonCode identifies why an event cannot be closed.
type BlockReasonCode string

const (
	BlockPendingExpenses   BlockReasonCode = "pending_expenses"
	BlockPendingPayments   BlockReasonCode = "pending_payments"
	BlockUnsettledBalances BlockReasonCode = "unsettled_balances"
)

// BlockReason is one failed close-gate check.
type BlockReason struct {
	Code    BlockReasonCode `json:"code"`
	Message string          `json:"message"`
	Count   int             `json:"count"`
}

// ClosureBlockedError reports every failed close-gate check, plus the transfers
// that would settle the event when balances are the problem.
type ClosureBlockedError struct {
	EventID              string        `json:"eventID"`
	Reasons              []BlockReason `json:"reasons"`
	OutstandingTransfers []Settlement  `json:"outstandingTransfers"`
}

func (e *ClosureBlockedError) Error() string {
	msgs := make([]string, len(e.Reasons))
	for i, r := range e.Reasons {
		msgs[i] = r.Message
	}
	return fmt.Sprintf("event %s cannot be closed: %s", e.EventID, strings.Join(msgs, "; "))
}

// Unwrap lets callers match the error with errors.Is(err, apperrors.ErrPreconditionBlocked).
func (e *ClosureBlockedError) Unwrap() error {
	return apperrors.ErrPreconditionBlocked
}

// HasReason reports whether the given check failed.
func (e *ClosureBlockedError) HasReason(code BlockReasonCode) bool {
	for _, r := range e.Reasons {
		if r.Code == code {
			return true
		}
	}
	return false
}
