package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/splitledger/internal/apperrors"
	"github.com/SscSPs/splitledger/internal/core/domain"
	portsrepo "github.com/SscSPs/splitledger/internal/core/ports/repositories"
	"github.com/SscSPs/splitledger/internal/models"
	"github.com/SscSPs/splitledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payment data.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryWithTx {
	return &PgxPaymentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxPaymentRepository implements portsrepo.PaymentRepositoryWithTx
var _ portsrepo.PaymentRepositoryWithTx = (*PgxPaymentRepository)(nil)

var FULL_PAYMENT_SELECT_QUERY = `
SELECT
	p.payment_id, p.event_id, p.from_handle, p.to_handle, p.amount, p.status, p.confirmed_at,
	p.created_at, p.created_by, p.last_updated_at, p.last_updated_by
FROM payments p
`

const paymentCreationOrder = ` ORDER BY p.created_at, p.payment_id`

func (r *PgxPaymentRepository) getPayments(ctx context.Context, q querier, filterQuery string, args ...any) ([]domain.Payment, error) {
	rows, err := q.Query(ctx, FULL_PAYMENT_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query payments", err)
	}
	defer rows.Close()
	modelPayments, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Payment])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect payment rows", err)
	}
	return mapping.ToDomainPaymentSlice(modelPayments), nil
}

func (r *PgxPaymentRepository) getOnePayment(ctx context.Context, q querier, filterQuery string, args ...any) (*domain.Payment, error) {
	payments, err := r.getPayments(ctx, q, filterQuery, args...)
	if err != nil {
		return nil, err
	}
	if len(payments) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &payments[0], nil
}

// SavePayment inserts the claim while holding a shared lock on its event.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := lockOpenEvent(ctx, tx, m.EventID); err != nil {
			return err
		}
		query := `
			INSERT INTO payments (
				payment_id, event_id, from_handle, to_handle, amount, status, confirmed_at,
				created_at, created_by, last_updated_at, last_updated_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
		`
		_, err := tx.Exec(ctx, query,
			m.PaymentID, m.EventID, m.FromHandle, m.ToHandle, m.Amount, m.Status, m.ConfirmedAt,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			if _, ok := isUniqueViolation(err); ok {
				return fmt.Errorf("%w: payment %s already exists", apperrors.ErrDuplicate, m.PaymentID)
			}
			return apperrors.NewAppError(500, "failed to save payment "+m.PaymentID, err)
		}
		return nil
	})
}

func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return r.getOnePayment(ctx, r.Pool, `WHERE p.payment_id = $1`, paymentID)
}

func (r *PgxPaymentRepository) ListPaymentsByEvent(ctx context.Context, eventID string) ([]domain.Payment, error) {
	return r.getPayments(ctx, r.Pool, `WHERE p.event_id = $1`+paymentCreationOrder, eventID)
}

// FindFirstPendingPaymentForUpdate locks the oldest matching claim. A concurrent
// confirmer blocks on the row and then matches the next claim.
func (r *PgxPaymentRepository) FindFirstPendingPaymentForUpdate(ctx context.Context, tx pgx.Tx, eventID string, from string, to string, amount int64) (*domain.Payment, error) {
	return r.getOnePayment(ctx, tx, `
		WHERE p.event_id = $1 AND p.from_handle = $2 AND p.to_handle = $3 AND p.amount = $4
			AND p.status = 'PENDING'`+paymentCreationOrder+` LIMIT 1 FOR UPDATE`,
		eventID, from, to, amount)
}

func (r *PgxPaymentRepository) FindPaymentByIDForUpdate(ctx context.Context, tx pgx.Tx, paymentID string) (*domain.Payment, error) {
	return r.getOnePayment(ctx, tx, `WHERE p.payment_id = $1 FOR UPDATE`, paymentID)
}

func (r *PgxPaymentRepository) UpdatePaymentStatusInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	tag, err := tx.Exec(ctx, `
		UPDATE payments
		SET status = $2, confirmed_at = $3, last_updated_at = $4, last_updated_by = $5
		WHERE payment_id = $1 AND status = 'PENDING';
	`, m.PaymentID, m.Status, m.ConfirmedAt, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update payment "+m.PaymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payment %s is no longer pending", apperrors.ErrStateConflict, m.PaymentID)
	}
	return nil
}

func (r *PgxPaymentRepository) ListPaymentsByEventInTx(ctx context.Context, tx pgx.Tx, eventID string) ([]domain.Payment, error) {
	return r.getPayments(ctx, tx, `WHERE p.event_id = $1`+paymentCreationOrder, eventID)
}
