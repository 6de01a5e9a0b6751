package services

import (
	"context"

	"github.com/SscSPs/splitledger/internal/core/domain"
	"github.com/SscSPs/splitledger/internal/dto"
)

// ExpenseReaderSvc defines read operations for expenses
type ExpenseReaderSvc interface {
	// GetExpenseByID retrieves an expense by its ID.
	GetExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpenses retrieves every expense of an event in creation order.
	ListExpenses(ctx context.Context, eventID string) ([]domain.Expense, error)

	// ListPendingForParticipant retrieves the PENDING expenses a participant can still vote on.
	ListPendingForParticipant(ctx context.Context, eventID string, handle string) ([]domain.Expense, error)

	// ApprovalPolicy returns the quorum rule votes are evaluated under.
	ApprovalPolicy() domain.ApprovalPolicy
}

// ExpenseWriterSvc defines write operations for expenses
type ExpenseWriterSvc interface {
	// CreateExpense logs a new expense against an open event.
	CreateExpense(ctx context.Context, eventID string, req dto.CreateExpenseRequest, actor string) (*domain.Expense, error)
}

// ExpenseVotingSvc defines the consensus operations on expenses
type ExpenseVotingSvc interface {
	// CastVote records voter's vote and returns the expense with its updated status.
	CastVote(ctx context.Context, expenseID string, voter string, vote domain.Vote) (*domain.Expense, error)
}

// ExpenseSvcFacade combines all expense-related service interfaces
type ExpenseSvcFacade interface {
	ExpenseReaderSvc
	ExpenseWriterSvc
	ExpenseVotingSvc
}
