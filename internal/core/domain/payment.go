package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/splitledger/internal/apperrors"
)

// PaymentStatus is the state of a settlement payment claim.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentConfirmed PaymentStatus = "CONFIRMED"
)

// IsValid reports whether s is a known payment status.
func (s PaymentStatus) IsValid() bool {
	return s == PaymentPending || s == PaymentConfirmed
}

// Payment is a claim by FromHandle that they paid ToHandle.
// It only counts towards balances once the recipient confirms it.
type Payment struct {
	PaymentID   string        `json:"paymentID"`
	EventID     string        `json:"eventID"`
	FromHandle  string        `json:"fromHandle"`
	ToHandle    string        `json:"toHandle"`
	Amount      int64         `json:"amount"` // Minor units
	Status      PaymentStatus `json:"status"`
	ConfirmedAt *time.Time    `json:"confirmedAt,omitempty"`
	AuditFields
}

// NewPayment validates the claim and builds a PENDING payment.
func NewPayment(paymentID, eventID, from, to string, amount int64, createdBy string, now time.Time) (*Payment, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	from = NormalizeHandle(from)
	to = NormalizeHandle(to)
	if from == "" || to == "" {
		return nil, fmt.Errorf("%w: payment needs both a payer and a recipient", apperrors.ErrValidation)
	}
	if from == to {
		return nil, fmt.Errorf("%w: cannot record a payment to yourself", apperrors.ErrValidation)
	}
	return &Payment{
		PaymentID:  paymentID,
		EventID:    eventID,
		FromHandle: from,
		ToHandle:   to,
		Amount:     amount,
		Status:     PaymentPending,
		AuditFields: AuditFields{
			CreatedAt:     now,
			CreatedBy:     createdBy,
			LastUpdatedAt: now,
			LastUpdatedBy: createdBy,
		},
	}, nil
}

// Matches reports whether the payment is a pending claim for exactly (from, to, amount).
func (p Payment) Matches(from, to string, amount int64) bool {
	return p.Status == PaymentPending &&
		p.FromHandle == NormalizeHandle(from) &&
		p.ToHandle == NormalizeHandle(to) &&
		p.Amount == amount
}

// Confirm marks the payment as received. Only the recipient may confirm.
func (p *Payment) Confirm(confirmingHandle string, now time.Time) error {
	confirmingHandle = NormalizeHandle(confirmingHandle)
	if confirmingHandle != p.ToHandle {
		return fmt.Errorf("%w: only %s can confirm this payment", apperrors.ErrForbidden, p.ToHandle)
	}
	if p.Status != PaymentPending {
		return fmt.Errorf("%w: payment %s is already %s", apperrors.ErrStateConflict, p.PaymentID, p.Status)
	}
	p.Status = PaymentConfirmed
	p.ConfirmedAt = &now
	p.LastUpdatedAt = now
	p.LastUpdatedBy = confirmingHandle
	return nil
}
