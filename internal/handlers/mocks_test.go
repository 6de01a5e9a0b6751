package handlers_test

import (
	"context"

	"github.com/SscSPs/splitledger/internal/core/domain"
	portssvc "github.com/SscSPs/splitledger/internal/core/ports/services"
	"github.com/SscSPs/splitledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock EventService ---
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) GetEventByID(ctx context.Context, eventID string) (*domain.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}
func (m *MockEventService) GetEventByCode(ctx context.Context, code string) (*domain.Event, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}
func (m *MockEventService) GetEventByChatGroup(ctx context.Context, chatGroupID string) (*domain.Event, error) {
	args := m.Called(ctx, chatGroupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}
func (m *MockEventService) ListEvents(ctx context.Context, params dto.ListEventsParams) (*dto.ListEventsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEventsResponse), args.Error(1)
}
func (m *MockEventService) CreateEvent(ctx context.Context, req dto.CreateEventRequest, creator string) (*domain.Event, error) {
	args := m.Called(ctx, req, creator)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}
func (m *MockEventService) UpdateEvent(ctx context.Context, eventID string, req dto.UpdateEventRequest, actor string) (*domain.Event, error) {
	args := m.Called(ctx, eventID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}
func (m *MockEventService) DeleteEvent(ctx context.Context, eventID string, actor string) error {
	args := m.Called(ctx, eventID, actor)
	return args.Error(0)
}
func (m *MockEventService) LinkChatGroup(ctx context.Context, eventID string, chatGroupID string, actor string) (*domain.Event, error) {
	args := m.Called(ctx, eventID, chatGroupID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}
func (m *MockEventService) CloseEvent(ctx context.Context, eventID string, actor string) (*domain.Event, error) {
	args := m.Called(ctx, eventID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

var _ portssvc.EventSvcFacade = (*MockEventService)(nil)

// --- Mock ExpenseService ---
type MockExpenseService struct {
	mock.Mock
	policy domain.ApprovalPolicy
}

func (m *MockExpenseService) GetExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}
func (m *MockExpenseService) ListExpenses(ctx context.Context, eventID string) ([]domain.Expense, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}
func (m *MockExpenseService) ListPendingForParticipant(ctx context.Context, eventID string, handle string) ([]domain.Expense, error) {
	args := m.Called(ctx, eventID, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}
func (m *MockExpenseService) ApprovalPolicy() domain.ApprovalPolicy {
	if m.policy == "" {
		return domain.ApprovalMajority
	}
	return m.policy
}
func (m *MockExpenseService) CreateExpense(ctx context.Context, eventID string, req dto.CreateExpenseRequest, actor string) (*domain.Expense, error) {
	args := m.Called(ctx, eventID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}
func (m *MockExpenseService) CastVote(ctx context.Context, expenseID string, voter string, vote domain.Vote) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID, voter, vote)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

var _ portssvc.ExpenseSvcFacade = (*MockExpenseService)(nil)

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) ListPayments(ctx context.Context, eventID string) ([]domain.Payment, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentService) CreatePayment(ctx context.Context, eventID string, req dto.CreatePaymentRequest, actor string) (*domain.Payment, error) {
	args := m.Called(ctx, eventID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) ConfirmPayment(ctx context.Context, eventID string, req dto.ConfirmPaymentRequest, confirmingHandle string) (*domain.Payment, error) {
	args := m.Called(ctx, eventID, req, confirmingHandle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) ConfirmPaymentByID(ctx context.Context, paymentID string, confirmingHandle string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID, confirmingHandle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

var _ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) ComputeBalances(ctx context.Context, eventID string) (*domain.NetBalances, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NetBalances), args.Error(1)
}
func (m *MockLedgerService) ComputeSettlements(ctx context.Context, eventID string) ([]domain.Settlement, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Settlement), args.Error(1)
}
func (m *MockLedgerService) GetSummary(ctx context.Context, eventID string) (*domain.EventSummary, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventSummary), args.Error(1)
}

var _ portssvc.LedgerSvc = (*MockLedgerService)(nil)

// --- Mock HealthService ---
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) Check(ctx context.Context) map[string]error {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(map[string]error)
}

var _ portssvc.HealthSvc = (*MockHealthService)(nil)
