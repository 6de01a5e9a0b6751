package dto

import (
	"time"

	"github.com/SscSPs/splitledger/internal/core/domain"
)

// CreateExpenseRequest defines the data needed to log a shared expense.
// Amount is in minor units. Payer defaults to the caller and SplitAmong to the payer alone.
type CreateExpenseRequest struct {
	Amount      int64    `json:"amount" binding:"required,gt=0,lte=100000000000"`
	Description string   `json:"description" binding:"required,max=500"`
	Payer       string   `json:"payer,omitempty" binding:"omitempty,handle"`
	SplitAmong  []string `json:"splitAmong,omitempty" binding:"omitempty,dive,handle"`
}

// CastVoteRequest defines a vote on a pending expense.
// Voter, when set, must be the caller.
type CastVoteRequest struct {
	Vote  string `json:"vote" binding:"required,oneof=agree disagree"`
	Voter string `json:"voter,omitempty" binding:"omitempty,handle"`
}

// ExpenseResponse defines the data returned for an expense.
type ExpenseResponse struct {
	ExpenseID   string                 `json:"expenseID"`
	EventID     string                 `json:"eventID"`
	Amount      int64                  `json:"amount"`
	Description string                 `json:"description"`
	Payer       string                 `json:"payer"`
	SplitAmong  []string               `json:"splitAmong"`
	Votes       map[string]domain.Vote `json:"votes"`
	Status      domain.ExpenseStatus   `json:"status"`
	Tally       domain.VoteTally       `json:"tally"`
	CreatedAt   time.Time              `json:"createdAt"`
	CreatedBy   string                 `json:"createdBy"`
}

// ToExpenseResponse converts a domain.Expense to ExpenseResponse DTO.
func ToExpenseResponse(e *domain.Expense, policy domain.ApprovalPolicy) ExpenseResponse {
	votes := e.Votes
	if votes == nil {
		votes = map[string]domain.Vote{}
	}
	return ExpenseResponse{
		ExpenseID:   e.ExpenseID,
		EventID:     e.EventID,
		Amount:      e.Amount,
		Description: e.Description,
		Payer:       e.Payer,
		SplitAmong:  e.SplitAmong,
		Votes:       votes,
		Status:      e.Status,
		Tally:       e.Tally(policy),
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
	}
}

// ToExpenseResponses converts a slice of domain.Expense to []ExpenseResponse.
func ToExpenseResponses(expenses []domain.Expense, policy domain.ApprovalPolicy) []ExpenseResponse {
	responses := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		responses[i] = ToExpenseResponse(&expenses[i], policy)
	}
	return responses
}
