package services

import (
	"context"

	"github.com/SscSPs/splitledger/internal/core/domain"
	"github.com/SscSPs/splitledger/internal/dto"
)

// PaymentReaderSvc defines read operations for payments
type PaymentReaderSvc interface {
	// GetPaymentByID retrieves a payment by its ID.
	GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPayments retrieves every payment of an event in creation order.
	ListPayments(ctx context.Context, eventID string) ([]domain.Payment, error)
}

// PaymentWriterSvc defines write operations for payments
type PaymentWriterSvc interface {
	// CreatePayment records a PENDING payment claim.
	CreatePayment(ctx context.Context, eventID string, req dto.CreatePaymentRequest, actor string) (*domain.Payment, error)

	// ConfirmPayment confirms the oldest pending claim matching (from, to, amount).
	// Only the recipient may confirm.
	ConfirmPayment(ctx context.Context, eventID string, req dto.ConfirmPaymentRequest, confirmingHandle string) (*domain.Payment, error)

	// ConfirmPaymentByID confirms a specific pending claim.
	ConfirmPaymentByID(ctx context.Context, paymentID string, confirmingHandle string) (*domain.Payment, error)
}

// PaymentSvcFacade combines all payment-related service interfaces
type PaymentSvcFacade interface {
	PaymentReaderSvc
	PaymentWriterSvc
}
