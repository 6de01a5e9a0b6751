package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/splitledger/internal/apperrors"
	"github.com/SscSPs/splitledger/internal/core/domain"
	portsrepo "github.com/SscSPs/splitledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/splitledger/internal/core/ports/services"
	"github.com/SscSPs/splitledger/internal/dto"
)

// ErrNoMatchingPayment is returned when no PENDING claim matches a confirmation.
var ErrNoMatchingPayment = fmt.Errorf("%w: %w", apperrors.ErrStateConflict, apperrors.ErrNotFound)

// paymentService implements the PaymentSvcFacade interface
type paymentService struct {
	BaseService
	paymentRepo portsrepo.PaymentRepositoryWithTx
	eventRepo   portsrepo.EventReader
}

// NewPaymentService creates a new payment service with the provided dependencies
func NewPaymentService(paymentRepo portsrepo.PaymentRepositoryWithTx, eventRepo portsrepo.EventReader) portssvc.PaymentSvcFacade {
	return &paymentService{
		paymentRepo: paymentRepo,
		eventRepo:   eventRepo,
	}
}

// Ensure paymentService implements the PaymentSvcFacade interface
var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// GetPaymentByID retrieves a payment by its ID
func (s *paymentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find payment", slog.String("payment_id", paymentID))
		}
		return nil, err
	}
	return payment, nil
}

// ListPayments retrieves every payment of an event
func (s *paymentService) ListPayments(ctx context.Context, eventID string) ([]domain.Payment, error) {
	if _, err := s.eventRepo.FindEventByID(ctx, eventID); err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListPaymentsByEvent(ctx, eventID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payments", slog.String("event_id", eventID))
		return nil, err
	}
	if payments == nil {
		return []domain.Payment{}, nil
	}
	return payments, nil
}

// CreatePayment records a PENDING payment claim
func (s *paymentService) CreatePayment(ctx context.Context, eventID string, req dto.CreatePaymentRequest, actor string) (*domain.Payment, error) {
	event, err := s.eventRepo.FindEventByID(ctx, eventID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find event for payment", slog.String("event_id", eventID))
		}
		return nil, err
	}
	if event.IsClosed() {
		return nil, fmt.Errorf("%w: event %s is closed; no new payments can be recorded", apperrors.ErrStateConflict, event.Code)
	}

	actor = domain.NormalizeHandle(actor)
	from := domain.NormalizeHandle(req.From)
	if from == "" {
		from = actor
	}
	if from != actor {
		return nil, fmt.Errorf("%w: only %s can record a payment they made", apperrors.ErrForbidden, from)
	}

	payment, err := domain.NewPayment(uuid.NewString(), eventID, from, req.To, req.Amount, actor, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.paymentRepo.SavePayment(ctx, *payment); err != nil {
		if !errors.Is(err, apperrors.ErrStateConflict) {
			s.LogError(ctx, err, "Failed to save payment", slog.String("event_id", eventID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Payment claim recorded",
		slog.String("payment_id", payment.PaymentID),
		slog.String("event_id", eventID),
		slog.String("from", payment.FromHandle),
		slog.String("to", payment.ToHandle),
		slog.Int64("amount", payment.Amount))
	return payment, nil
}

// ConfirmPayment confirms the oldest pending claim matching (from, to, amount)
func (s *paymentService) ConfirmPayment(ctx context.Context, eventID string, req dto.ConfirmPaymentRequest, confirmingHandle string) (*domain.Payment, error) {
	confirmingHandle = domain.NormalizeHandle(confirmingHandle)
	from := domain.NormalizeHandle(req.From)
	to := domain.NormalizeHandle(req.To)
	if to == "" {
		to = confirmingHandle
	}
	if to != confirmingHandle {
		return nil, fmt.Errorf("%w: only %s can confirm a payment made to them", apperrors.ErrForbidden, to)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be a positive number of minor units", apperrors.ErrValidation)
	}

	return s.confirm(ctx, confirmingHandle, slog.String("event_id", eventID), func(tx pgx.Tx) (*domain.Payment, error) {
		payment, err := s.paymentRepo.FindFirstPendingPaymentForUpdate(ctx, tx, eventID, from, to, req.Amount)
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no pending payment of %d from %s to %s", ErrNoMatchingPayment, req.Amount, from, to)
		}
		return payment, err
	})
}

// ConfirmPaymentByID confirms a specific pending claim
func (s *paymentService) ConfirmPaymentByID(ctx context.Context, paymentID string, confirmingHandle string) (*domain.Payment, error) {
	confirmingHandle = domain.NormalizeHandle(confirmingHandle)
	return s.confirm(ctx, confirmingHandle, slog.String("payment_id", paymentID), func(tx pgx.Tx) (*domain.Payment, error) {
		return s.paymentRepo.FindPaymentByIDForUpdate(ctx, tx, paymentID)
	})
}

// confirm locks the payment chosen by find, confirms it and commits.
func (s *paymentService) confirm(ctx context.Context, confirmingHandle string, logKey slog.Attr, find func(tx pgx.Tx) (*domain.Payment, error)) (*domain.Payment, error) {
	tx, err := s.paymentRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin confirm transaction", logKey)
		return nil, err
	}
	defer func() { _ = s.paymentRepo.Rollback(ctx, tx) }()

	payment, err := find(tx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to lock payment", logKey)
		}
		return nil, err
	}

	if err := payment.Confirm(confirmingHandle, time.Now()); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.UpdatePaymentStatusInTx(ctx, tx, *payment); err != nil {
		s.LogError(ctx, err, "Failed to store payment confirmation", slog.String("payment_id", payment.PaymentID))
		return nil, err
	}
	if err := s.paymentRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit payment confirmation", slog.String("payment_id", payment.PaymentID))
		return nil, err
	}

	s.LogInfo(ctx, "Payment confirmed",
		slog.String("payment_id", payment.PaymentID),
		slog.String("event_id", payment.EventID),
		slog.String("confirmed_by", confirmingHandle))
	return payment, nil
}
