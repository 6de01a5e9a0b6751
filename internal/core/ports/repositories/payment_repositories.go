package repositories

import (
	"context"

	"github.com/SscSPs/splitledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// PaymentReader defines read operations for payment data
type PaymentReader interface {
	// FindPaymentByID retrieves a payment by its unique identifier.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPaymentsByEvent retrieves every payment of an event in creation order.
	ListPaymentsByEvent(ctx context.Context, eventID string) ([]domain.Payment, error)
}

// PaymentWriter defines write operations for payment data
type PaymentWriter interface {
	// SavePayment inserts a new payment claim. It fails with apperrors.ErrStateConflict
	// when the owning event is closed.
	SavePayment(ctx context.Context, payment domain.Payment) error
}

// PaymentLocker defines operations that run inside a caller-managed transaction.
type PaymentLocker interface {
	// FindFirstPendingPaymentForUpdate locks the oldest PENDING payment matching (from, to, amount).
	FindFirstPendingPaymentForUpdate(ctx context.Context, tx pgx.Tx, eventID string, from string, to string, amount int64) (*domain.Payment, error)

	// FindPaymentByIDForUpdate loads the payment and locks its row until tx ends.
	FindPaymentByIDForUpdate(ctx context.Context, tx pgx.Tx, paymentID string) (*domain.Payment, error)

	// UpdatePaymentStatusInTx writes the status of a payment that is still PENDING.
	UpdatePaymentStatusInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error

	// ListPaymentsByEventInTx is ListPaymentsByEvent reading through tx.
	ListPaymentsByEventInTx(ctx context.Context, tx pgx.Tx, eventID string) ([]domain.Payment, error)
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}

// PaymentRepositoryWithTx extends PaymentRepositoryFacade with transaction capabilities
type PaymentRepositoryWithTx interface {
	PaymentRepositoryFacade
	PaymentLocker
	TransactionManager
}
