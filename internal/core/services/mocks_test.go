package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/splitledger/internal/core/domain"
	portsrepo "github.com/SscSPs/splitledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/splitledger/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// --- Mock TransactionManager ---
type mockTxManager struct {
	mock.Mock
}

func (m *mockTxManager) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *mockTxManager) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *mockTxManager) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock EventRepository ---
type MockEventRepository struct {
	mockTxManager
}

var _ portsrepo.EventRepositoryWithTx = (*MockEventRepository)(nil)

func (m *MockEventRepository) FindEventByID(ctx context.Context, eventID string) (*domain.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRepository) FindEventByCode(ctx context.Context, code string) (*domain.Event, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRepository) FindOpenEventByChatGroup(ctx context.Context, chatGroupID string) (*domain.Event, error) {
	args := m.Called(ctx, chatGroupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRepository) ListEvents(ctx context.Context, limit int, nextToken *string) ([]domain.Event, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Event), returnedNextToken, args.Error(2)
}

func (m *MockEventRepository) SaveEvent(ctx context.Context, event domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) UpdateEventDetails(ctx context.Context, event domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) LinkChatGroup(ctx context.Context, eventID string, chatGroupID string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, eventID, chatGroupID, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockEventRepository) DeleteEvent(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func (m *MockEventRepository) FindEventByIDForUpdate(ctx context.Context, tx pgx.Tx, eventID string) (*domain.Event, error) {
	args := m.Called(ctx, tx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRepository) UpdateEventStatusInTx(ctx context.Context, tx pgx.Tx, eventID string, status domain.EventStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tx, eventID, status, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock ExpenseRepository ---
type MockExpenseRepository struct {
	mockTxManager
}

var _ portsrepo.ExpenseRepositoryWithTx = (*MockExpenseRepository)(nil)

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListExpensesByEvent(ctx context.Context, eventID string) ([]domain.Expense, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListPendingExpensesForParticipant(ctx context.Context, eventID string, handle string) ([]domain.Expense, error) {
	args := m.Called(ctx, eventID, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) FindExpenseByIDForUpdate(ctx context.Context, tx pgx.Tx, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, tx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) UpdateExpenseVotesInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense) error {
	args := m.Called(ctx, tx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) ListExpensesByEventInTx(ctx context.Context, tx pgx.Tx, eventID string) ([]domain.Expense, error) {
	args := m.Called(ctx, tx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

// --- Mock PaymentRepository ---
type MockPaymentRepository struct {
	mockTxManager
}

var _ portsrepo.PaymentRepositoryWithTx = (*MockPaymentRepository)(nil)

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPaymentsByEvent(ctx context.Context, eventID string) ([]domain.Payment, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindFirstPendingPaymentForUpdate(ctx context.Context, tx pgx.Tx, eventID string, from string, to string, amount int64) (*domain.Payment, error) {
	args := m.Called(ctx, tx, eventID, from, to, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindPaymentByIDForUpdate(ctx context.Context, tx pgx.Tx, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, tx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) UpdatePaymentStatusInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	args := m.Called(ctx, tx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListPaymentsByEventInTx(ctx context.Context, tx pgx.Tx, eventID string) ([]domain.Payment, error) {
	args := m.Called(ctx, tx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

// --- Mock SessionStore ---
type MockSessionStore struct {
	mock.Mock
}

var _ portsrepo.SessionStore = (*MockSessionStore)(nil)

func (m *MockSessionStore) Put(ctx context.Context, session domain.InteractionSession, ttl time.Duration) error {
	args := m.Called(ctx, session, ttl)
	return args.Error(0)
}

func (m *MockSessionStore) Get(ctx context.Context, channelID string, handle string) (*domain.InteractionSession, error) {
	args := m.Called(ctx, channelID, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InteractionSession), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, channelID string, handle string) error {
	args := m.Called(ctx, channelID, handle)
	return args.Error(0)
}

func (m *MockSessionStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- Mock LedgerListener ---
type MockLedgerListener struct {
	mock.Mock
}

var _ portssvc.LedgerListener = (*MockLedgerListener)(nil)

func (m *MockLedgerListener) ExpenseResolved(ctx context.Context, expense domain.Expense) {
	m.Called(ctx, expense)
}

func (m *MockLedgerListener) EventClosed(ctx context.Context, event domain.Event) {
	m.Called(ctx, event)
}

// fixtures

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func linkedEvent(id, group string) *domain.Event {
	return &domain.Event{
		EventID:     id,
		Code:        "ABCD1234",
		Name:        "Goa trip",
		EventDate:   fixedTime,
		ChatGroupID: strPtr(group),
		Status:      domain.EventActive,
		AuditFields: domain.AuditFields{CreatedAt: fixedTime, CreatedBy: "alice"},
	}
}

func pendingExpense(id, eventID string, amount int64, payer string, split ...string) *domain.Expense {
	return &domain.Expense{
		ExpenseID:   id,
		EventID:     eventID,
		Amount:      amount,
		Description: "dinner",
		Payer:       payer,
		SplitAmong:  split,
		Votes:       map[string]domain.Vote{},
		Status:      domain.ExpensePending,
	}
}
