package bot

import (
	"context"

	"github.com/SscSPs/splitledger/internal/core/domain"
	portssvc "github.com/SscSPs/splitledger/internal/core/ports/services"
	"github.com/SscSPs/splitledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

type MockEventSvc struct {
	mock.Mock
}

var _ portssvc.EventSvcFacade = (*MockEventSvc)(nil)

func (m *MockEventSvc) event(args mock.Arguments) (*domain.Event, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventSvc) GetEventByID(ctx context.Context, eventID string) (*domain.Event, error) {
	return m.event(m.Called(ctx, eventID))
}

func (m *MockEventSvc) GetEventByCode(ctx context.Context, code string) (*domain.Event, error) {
	return m.event(m.Called(ctx, code))
}

func (m *MockEventSvc) GetEventByChatGroup(ctx context.Context, chatGroupID string) (*domain.Event, error) {
	return m.event(m.Called(ctx, chatGroupID))
}

func (m *MockEventSvc) ListEvents(ctx context.Context, params dto.ListEventsParams) (*dto.ListEventsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEventsResponse), args.Error(1)
}

func (m *MockEventSvc) CreateEvent(ctx context.Context, req dto.CreateEventRequest, creator string) (*domain.Event, error) {
	return m.event(m.Called(ctx, req, creator))
}

func (m *MockEventSvc) UpdateEvent(ctx context.Context, eventID string, req dto.UpdateEventRequest, actor string) (*domain.Event, error) {
	return m.event(m.Called(ctx, eventID, req, actor))
}

func (m *MockEventSvc) DeleteEvent(ctx context.Context, eventID string, actor string) error {
	return m.Called(ctx, eventID, actor).Error(0)
}

func (m *MockEventSvc) LinkChatGroup(ctx context.Context, eventID string, chatGroupID string, actor string) (*domain.Event, error) {
	return m.event(m.Called(ctx, eventID, chatGroupID, actor))
}

func (m *MockEventSvc) CloseEvent(ctx context.Context, eventID string, actor string) (*domain.Event, error) {
	return m.event(m.Called(ctx, eventID, actor))
}

type MockExpenseSvc struct {
	mock.Mock
}

var _ portssvc.ExpenseSvcFacade = (*MockExpenseSvc)(nil)

func (m *MockExpenseSvc) expense(args mock.Arguments) (*domain.Expense, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseSvc) GetExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	return m.expense(m.Called(ctx, expenseID))
}

func (m *MockExpenseSvc) ListExpenses(ctx context.Context, eventID string) ([]domain.Expense, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseSvc) ListPendingForParticipant(ctx context.Context, eventID string, handle string) ([]domain.Expense, error) {
	args := m.Called(ctx, eventID, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseSvc) ApprovalPolicy() domain.ApprovalPolicy {
	return domain.ApprovalMajority
}

func (m *MockExpenseSvc) CreateExpense(ctx context.Context, eventID string, req dto.CreateExpenseRequest, actor string) (*domain.Expense, error) {
	return m.expense(m.Called(ctx, eventID, req, actor))
}

func (m *MockExpenseSvc) CastVote(ctx context.Context, expenseID string, voter string, vote domain.Vote) (*domain.Expense, error) {
	return m.expense(m.Called(ctx, expenseID, voter, vote))
}

type MockPaymentSvc struct {
	mock.Mock
}

var _ portssvc.PaymentSvcFacade = (*MockPaymentSvc)(nil)

func (m *MockPaymentSvc) payment(args mock.Arguments) (*domain.Payment, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentSvc) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return m.payment(m.Called(ctx, paymentID))
}

func (m *MockPaymentSvc) ListPayments(ctx context.Context, eventID string) ([]domain.Payment, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentSvc) CreatePayment(ctx context.Context, eventID string, req dto.CreatePaymentRequest, actor string) (*domain.Payment, error) {
	return m.payment(m.Called(ctx, eventID, req, actor))
}

func (m *MockPaymentSvc) ConfirmPayment(ctx context.Context, eventID string, req dto.ConfirmPaymentRequest, confirmingHandle string) (*domain.Payment, error) {
	return m.payment(m.Called(ctx, eventID, req, confirmingHandle))
}

func (m *MockPaymentSvc) ConfirmPaymentByID(ctx context.Context, paymentID string, confirmingHandle string) (*domain.Payment, error) {
	return m.payment(m.Called(ctx, paymentID, confirmingHandle))
}

type MockLedgerSvc struct {
	mock.Mock
}

var _ portssvc.LedgerSvc = (*MockLedgerSvc)(nil)

func (m *MockLedgerSvc) ComputeBalances(ctx context.Context, eventID string) (*domain.NetBalances, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NetBalances), args.Error(1)
}

func (m *MockLedgerSvc) ComputeSettlements(ctx context.Context, eventID string) ([]domain.Settlement, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Settlement), args.Error(1)
}

func (m *MockLedgerSvc) GetSummary(ctx context.Context, eventID string) (*domain.EventSummary, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventSummary), args.Error(1)
}

type MockSessionSvc struct {
	mock.Mock
}

var _ portssvc.SessionSvc = (*MockSessionSvc)(nil)

func (m *MockSessionSvc) Begin(ctx context.Context, session domain.InteractionSession) (*domain.InteractionSession, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InteractionSession), args.Error(1)
}

func (m *MockSessionSvc) Current(ctx context.Context, channelID string, handle string) (*domain.InteractionSession, error) {
	args := m.Called(ctx, channelID, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InteractionSession), args.Error(1)
}

func (m *MockSessionSvc) End(ctx context.Context, channelID string, handle string) error {
	return m.Called(ctx, channelID, handle).Error(0)
}

type MockChat struct {
	mock.Mock
}

func (m *MockChat) Send(ctx context.Context, channelID string, text string) error {
	return m.Called(ctx, channelID, text).Error(0)
}

func (m *MockChat) FetchAttachment(ctx context.Context, attachment portssvc.Attachment) ([]byte, error) {
	args := m.Called(ctx, attachment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockScanner struct {
	mock.Mock
}

func (m *MockScanner) ScanReceipt(ctx context.Context, image []byte) ([]domain.ReceiptCandidate, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReceiptCandidate), args.Error(1)
}
