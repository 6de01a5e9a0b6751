package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/splitledger/internal/apperrors"
)

// ExpenseStatus is the consensus state of an expense.
type ExpenseStatus string

const (
	ExpensePending   ExpenseStatus = "PENDING"
	ExpenseConfirmed ExpenseStatus = "CONFIRMED"
	ExpenseRejected  ExpenseStatus = "REJECTED"
)

// IsValid reports whether s is a known expense status.
func (s ExpenseStatus) IsValid() bool {
	switch s {
	case ExpensePending, ExpenseConfirmed, ExpenseRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further vote can change the status.
func (s ExpenseStatus) IsTerminal() bool {
	return s == ExpenseConfirmed || s == ExpenseRejected
}

// Vote is a participant's response to a pending expense.
type Vote string

const (
	VoteAgree    Vote = "agree"
	VoteDisagree Vote = "disagree"
)

// IsValid reports whether v is a known vote value.
func (v Vote) IsValid() bool {
	return v == VoteAgree || v == VoteDisagree
}

// ParseVote converts user input into a Vote.
func ParseVote(s string) (Vote, error) {
	v := Vote(strings.ToLower(strings.TrimSpace(s)))
	if !v.IsValid() {
		return "", fmt.Errorf("%w: vote must be %q or %q", apperrors.ErrValidation, VoteAgree, VoteDisagree)
	}
	return v, nil
}

// Expense is a shared cost paid by one participant and split evenly among SplitAmong.
// Status and Votes only change through ApplyVote.
type Expense struct {
	ExpenseID   string          `json:"expenseID"`
	EventID     string          `json:"eventID"`
	Amount      int64           `json:"amount"` // Minor units
	Description string          `json:"description"`
	Payer       string          `json:"payer"`
	SplitAmong  []string        `json:"splitAmong"`
	Votes       map[string]Vote `json:"votes"`
	Status      ExpenseStatus   `json:"status"`
	AuditFields
}

// NewExpense validates the input and builds an expense in its initial state.
// An empty participant list means the payer alone. Single-participant expenses
// are CONFIRMED immediately; everything else starts PENDING with no votes.
func NewExpense(expenseID, eventID string, amount int64, description, payer string, participants []string, createdBy string, now time.Time) (*Expense, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}
	payer = NormalizeHandle(payer)
	if payer == "" {
		return nil, fmt.Errorf("%w: payer is required", apperrors.ErrValidation)
	}

	splitAmong := DedupeHandles(participants)
	if len(splitAmong) == 0 {
		splitAmong = []string{payer}
	}
	if !containsHandle(splitAmong, payer) {
		return nil, fmt.Errorf("%w: payer %s must be one of the participants", apperrors.ErrValidation, payer)
	}

	status := ExpensePending
	if len(splitAmong) == 1 {
		status = ExpenseConfirmed
	}

	return &Expense{
		ExpenseID:   expenseID,
		EventID:     eventID,
		Amount:      amount,
		Description: description,
		Payer:       payer,
		SplitAmong:  splitAmong,
		Votes:       map[string]Vote{},
		Status:      status,
		AuditFields: AuditFields{
			CreatedAt:     now,
			CreatedBy:     createdBy,
			LastUpdatedAt: now,
			LastUpdatedBy: createdBy,
		},
	}, nil
}

// HasParticipant reports whether handle is in SplitAmong.
func (e Expense) HasParticipant(handle string) bool {
	return containsHandle(e.SplitAmong, NormalizeHandle(handle))
}

// VoteTally summarises the votes cast on an expense.
type VoteTally struct {
	Agree        int `json:"agree"`
	Disagree     int `json:"disagree"`
	Participants int `json:"participants"`
	Required     int `json:"required"`
}

// Tally counts the votes of current participants under the given policy.
func (e Expense) Tally(policy ApprovalPolicy) VoteTally {
	t := VoteTally{
		Participants: len(e.SplitAmong),
		Required:     policy.RequiredApprovals(len(e.SplitAmong)),
	}
	for _, h := range e.SplitAmong {
		switch e.Votes[h] {
		case VoteAgree:
			t.Agree++
		case VoteDisagree:
			t.Disagree++
		}
	}
	return t
}

// ApplyVote records voter's vote (overwriting any earlier one) and re-evaluates the status.
// A single disagree rejects the expense; approval needs the policy's quorum of agrees.
// On error the expense is left untouched.
func (e *Expense) ApplyVote(voter string, vote Vote, policy ApprovalPolicy, now time.Time) (ExpenseStatus, error) {
	if e.Status.IsTerminal() {
		return e.Status, fmt.Errorf("%w: expense %s is already %s", apperrors.ErrStateConflict, e.ExpenseID, e.Status)
	}
	if !vote.IsValid() {
		return e.Status, fmt.Errorf("%w: unknown vote %q", apperrors.ErrValidation, vote)
	}
	voter = NormalizeHandle(voter)
	if !containsHandle(e.SplitAmong, voter) {
		return e.Status, fmt.Errorf("%w: %s is not a participant of expense %s", apperrors.ErrForbidden, voter, e.ExpenseID)
	}

	votes := make(map[string]Vote, len(e.Votes)+1)
	for h, v := range e.Votes {
		votes[h] = v
	}
	votes[voter] = vote
	e.Votes = votes

	tally := e.Tally(policy)
	switch {
	case tally.Disagree > 0:
		e.Status = ExpenseRejected
	case tally.Agree >= tally.Required:
		e.Status = ExpenseConfirmed
	}
	e.LastUpdatedAt = now
	e.LastUpdatedBy = voter
	return e.Status, nil
}

func containsHandle(handles []string, h string) bool {
	for _, x := range handles {
		if x == h {
			return true
		}
	}
	return false
}
