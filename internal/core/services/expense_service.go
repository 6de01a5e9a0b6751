package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/splitledger/internal/apperrors"
	"github.com/SscSPs/splitledger/internal/core/domain"
	portsrepo "github.com/SscSPs/splitledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/splitledger/internal/core/ports/services"
	"github.com/SscSPs/splitledger/internal/dto"
)

// expenseService implements the ExpenseSvcFacade interface
type expenseService struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepositoryWithTx
	eventRepo   portsrepo.EventReader
	sessions    portsrepo.SessionStore
	policy      domain.ApprovalPolicy
	listeners   []portssvc.LedgerListener
}

// ExpenseServiceOption is a functional option for configuring the expense service
type ExpenseServiceOption func(*expenseService)

// WithApprovalPolicy sets the quorum rule used for every vote
func WithApprovalPolicy(policy domain.ApprovalPolicy) ExpenseServiceOption {
	return func(s *expenseService) {
		s.policy = policy
	}
}

// WithSessionStore lets the service clear awaiting-vote sessions once an expense resolves
func WithSessionStore(store portsrepo.SessionStore) ExpenseServiceOption {
	return func(s *expenseService) {
		s.sessions = store
	}
}

// WithExpenseListeners registers listeners notified when a vote resolves an expense
func WithExpenseListeners(listeners ...portssvc.LedgerListener) ExpenseServiceOption {
	return func(s *expenseService) {
		s.listeners = append(s.listeners, listeners...)
	}
}

// NewExpenseService creates a new expense service with the provided dependencies
func NewExpenseService(expenseRepo portsrepo.ExpenseRepositoryWithTx, eventRepo portsrepo.EventReader, options ...ExpenseServiceOption) portssvc.ExpenseSvcFacade {
	s := &expenseService{
		expenseRepo: expenseRepo,
		eventRepo:   eventRepo,
		policy:      domain.ApprovalMajority,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Ensure expenseService implements the ExpenseSvcFacade interface
var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

func (s *expenseService) ApprovalPolicy() domain.ApprovalPolicy {
	return s.policy
}

// GetExpenseByID retrieves an expense by its ID
func (s *expenseService) GetExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find expense", slog.String("expense_id", expenseID))
		}
		return nil, err
	}
	return expense, nil
}

// ListExpenses retrieves every expense of an event
func (s *expenseService) ListExpenses(ctx context.Context, eventID string) ([]domain.Expense, error) {
	if _, err := s.eventRepo.FindEventByID(ctx, eventID); err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.ListExpensesByEvent(ctx, eventID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expenses", slog.String("event_id", eventID))
		return nil, err
	}
	if expenses == nil {
		return []domain.Expense{}, nil
	}
	return expenses, nil
}

// ListPendingForParticipant retrieves the PENDING expenses handle can vote on
func (s *expenseService) ListPendingForParticipant(ctx context.Context, eventID string, handle string) ([]domain.Expense, error) {
	handle = domain.NormalizeHandle(handle)
	expenses, err := s.expenseRepo.ListPendingExpensesForParticipant(ctx, eventID, handle)
	if err != nil {
		s.LogError(ctx, err, "Failed to list pending expenses",
			slog.String("event_id", eventID),
			slog.String("handle", handle))
		return nil, err
	}
	if expenses == nil {
		return []domain.Expense{}, nil
	}
	return expenses, nil
}

// CreateExpense logs a new expense against an open event
func (s *expenseService) CreateExpense(ctx context.Context, eventID string, req dto.CreateExpenseRequest, actor string) (*domain.Expense, error) {
	event, err := s.eventRepo.FindEventByID(ctx, eventID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find event for expense", slog.String("event_id", eventID))
		}
		return nil, err
	}
	if event.IsClosed() {
		return nil, fmt.Errorf("%w: event %s is closed; no new expenses can be added", apperrors.ErrStateConflict, event.Code)
	}

	payer := req.Payer
	if payer == "" {
		payer = actor
	}

	expense, err := domain.NewExpense(uuid.NewString(), eventID, req.Amount, req.Description, payer, req.SplitAmong, actor, time.Now())
	if err != nil {
		return nil, err
	}

	// The repository re-checks the event status under a shared row lock,
	// which orders this insert against a concurrent close.
	if err := s.expenseRepo.SaveExpense(ctx, *expense); err != nil {
		if !errors.Is(err, apperrors.ErrStateConflict) {
			s.LogError(ctx, err, "Failed to save expense", slog.String("event_id", eventID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Expense created",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("event_id", eventID),
		slog.Int64("amount", expense.Amount),
		slog.Int("participants", len(expense.SplitAmong)),
		slog.String("status", string(expense.Status)))
	return expense, nil
}

// CastVote records a vote under a row lock on the expense, so concurrent votes
// on the same expense are applied one after the other.
func (s *expenseService) CastVote(ctx context.Context, expenseID string, voter string, vote domain.Vote) (*domain.Expense, error) {
	if !vote.IsValid() {
		return nil, fmt.Errorf("%w: vote must be %q or %q", apperrors.ErrValidation, domain.VoteAgree, domain.VoteDisagree)
	}
	voter = domain.NormalizeHandle(voter)

	tx, err := s.expenseRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin vote transaction", slog.String("expense_id", expenseID))
		return nil, err
	}
	defer func() { _ = s.expenseRepo.Rollback(ctx, tx) }()

	expense, err := s.expenseRepo.FindExpenseByIDForUpdate(ctx, tx, expenseID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to lock expense", slog.String("expense_id", expenseID))
		}
		return nil, err
	}

	status, err := expense.ApplyVote(voter, vote, s.policy, time.Now())
	if err != nil {
		s.LogDebug(ctx, "Vote refused",
			slog.String("expense_id", expenseID),
			slog.String("voter", voter),
			slog.String("reason", err.Error()))
		return nil, err
	}

	if err := s.expenseRepo.UpdateExpenseVotesInTx(ctx, tx, *expense); err != nil {
		s.LogError(ctx, err, "Failed to store vote", slog.String("expense_id", expenseID))
		return nil, err
	}
	if err := s.expenseRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit vote", slog.String("expense_id", expenseID))
		return nil, err
	}

	s.LogInfo(ctx, "Vote recorded",
		slog.String("expense_id", expenseID),
		slog.String("voter", voter),
		slog.String("vote", string(vote)),
		slog.String("status", string(status)))

	if status.IsTerminal() {
		s.clearVoteSessions(ctx, *expense)
		for _, l := range s.listeners {
			l.ExpenseResolved(ctx, *expense)
		}
	}
	return expense, nil
}

// clearVoteSessions ends the awaiting-vote session of every participant still
// pointing at a resolved expense. Failures only leave a session to expire.
func (s *expenseService) clearVoteSessions(ctx context.Context, expense domain.Expense) {
	if s.sessions == nil {
		return
	}
	event, err := s.eventRepo.FindEventByID(ctx, expense.EventID)
	if err != nil || !event.IsLinked() {
		return
	}
	channelID := *event.ChatGroupID
	for _, handle := range expense.SplitAmong {
		session, err := s.sessions.Get(ctx, channelID, handle)
		if err != nil {
			s.LogError(ctx, err, "Failed to read session", slog.String("handle", handle))
			continue
		}
		if session == nil || !session.AwaitsVoteOn(expense.ExpenseID) {
			continue
		}
		if err := s.sessions.Delete(ctx, channelID, handle); err != nil {
			s.LogError(ctx, err, "Failed to clear vote session", slog.String("handle", handle))
		}
	}
}
