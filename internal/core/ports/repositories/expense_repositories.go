package repositories

import (
	"context"

	"github.com/SscSPs/splitledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ExpenseReader defines read operations for expense data
type ExpenseReader interface {
	// FindExpenseByID retrieves an expense by its unique identifier.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpensesByEvent retrieves every expense of an event in creation order.
	ListExpensesByEvent(ctx context.Context, eventID string) ([]domain.Expense, error)

	// ListPendingExpensesForParticipant retrieves PENDING expenses of an event that include handle.
	ListPendingExpensesForParticipant(ctx context.Context, eventID string, handle string) ([]domain.Expense, error)
}

// ExpenseWriter defines write operations for expense data
type ExpenseWriter interface {
	// SaveExpense inserts a new expense. It fails with apperrors.ErrStateConflict
	// when the owning event is closed, checked under a shared lock on the event row.
	SaveExpense(ctx context.Context, expense domain.Expense) error
}

// ExpenseLocker defines operations that run inside a caller-managed transaction.
type ExpenseLocker interface {
	// FindExpenseByIDForUpdate loads the expense and locks its row until tx ends.
	FindExpenseByIDForUpdate(ctx context.Context, tx pgx.Tx, expenseID string) (*domain.Expense, error)

	// UpdateExpenseVotesInTx writes the vote map and status in a single statement.
	UpdateExpenseVotesInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense) error

	// ListExpensesByEventInTx is ListExpensesByEvent reading through tx.
	ListExpensesByEventInTx(ctx context.Context, tx pgx.Tx, eventID string) ([]domain.Expense, error)
}

// ExpenseRepositoryFacade combines all expense-related repository interfaces
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}

// ExpenseRepositoryWithTx extends ExpenseRepositoryFacade with transaction capabilities
type ExpenseRepositoryWithTx interface {
	ExpenseRepositoryFacade
	ExpenseLocker
	TransactionManager
}
