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

type PgxExpenseRepository struct {
	BaseRepository
}

// newPgxExpenseRepository creates a new repository for expense data.
func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryWithTx {
	return &PgxExpenseRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxExpenseRepository implements portsrepo.ExpenseRepositoryWithTx
var _ portsrepo.ExpenseRepositoryWithTx = (*PgxExpenseRepository)(nil)

var FULL_EXPENSE_SELECT_QUERY = `
SELECT
	x.expense_id, x.event_id, x.amount, x.description, x.payer, x.split_among, x.votes, x.status,
	x.created_at, x.created_by, x.last_updated_at, x.last_updated_by
FROM expenses x
`

const expenseCreationOrder = ` ORDER BY x.created_at, x.expense_id`

func (r *PgxExpenseRepository) getExpenses(ctx context.Context, q querier, filterQuery string, args ...any) ([]domain.Expense, error) {
	rows, err := q.Query(ctx, FULL_EXPENSE_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query expenses", err)
	}
	defer rows.Close()
	modelExpenses, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Expense])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect expense rows", err)
	}
	return mapping.ToDomainExpenseSlice(modelExpenses), nil
}

func (r *PgxExpenseRepository) getOneExpense(ctx context.Context, q querier, filterQuery string, args ...any) (*domain.Expense, error) {
	expenses, err := r.getExpenses(ctx, q, filterQuery, args...)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &expenses[0], nil
}

// SaveExpense inserts the expense while holding a shared lock on its event.
func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := lockOpenEvent(ctx, tx, m.EventID); err != nil {
			return err
		}
		query := `
			INSERT INTO expenses (
				expense_id, event_id, amount, description, payer, split_among, votes, status,
				created_at, created_by, last_updated_at, last_updated_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
		`
		_, err := tx.Exec(ctx, query,
			m.ExpenseID, m.EventID, m.Amount, m.Description, m.Payer, m.SplitAmong, m.Votes, m.Status,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			if _, ok := isUniqueViolation(err); ok {
				return fmt.Errorf("%w: expense %s already exists", apperrors.ErrDuplicate, m.ExpenseID)
			}
			return apperrors.NewAppError(500, "failed to save expense "+m.ExpenseID, err)
		}
		return nil
	})
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	return r.getOneExpense(ctx, r.Pool, `WHERE x.expense_id = $1`, expenseID)
}

func (r *PgxExpenseRepository) ListExpensesByEvent(ctx context.Context, eventID string) ([]domain.Expense, error) {
	return r.getExpenses(ctx, r.Pool, `WHERE x.event_id = $1`+expenseCreationOrder, eventID)
}

func (r *PgxExpenseRepository) ListPendingExpensesForParticipant(ctx context.Context, eventID string, handle string) ([]domain.Expense, error) {
	return r.getExpenses(ctx, r.Pool,
		`WHERE x.event_id = $1 AND x.status = 'PENDING' AND $2 = ANY (x.split_among)`+expenseCreationOrder,
		eventID, handle)
}

func (r *PgxExpenseRepository) FindExpenseByIDForUpdate(ctx context.Context, tx pgx.Tx, expenseID string) (*domain.Expense, error) {
	return r.getOneExpense(ctx, tx, `WHERE x.expense_id = $1 FOR UPDATE`, expenseID)
}

// UpdateExpenseVotesInTx writes votes and status together, and only while the
// stored row is still PENDING.
func (r *PgxExpenseRepository) UpdateExpenseVotesInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	tag, err := tx.Exec(ctx, `
		UPDATE expenses
		SET votes = $2, status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE expense_id = $1 AND status = 'PENDING';
	`, m.ExpenseID, m.Votes, m.Status, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update votes of expense "+m.ExpenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: expense %s is no longer pending", apperrors.ErrStateConflict, m.ExpenseID)
	}
	return nil
}

func (r *PgxExpenseRepository) ListExpensesByEventInTx(ctx context.Context, tx pgx.Tx, eventID string) ([]domain.Expense, error) {
	return r.getExpenses(ctx, tx, `WHERE x.event_id = $1`+expenseCreationOrder, eventID)
}
