package bot

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/SscSPs/splitledger/internal/apperrors"
	"github.com/SscSPs/splitledger/internal/core/domain"
	portssvc "github.com/SscSPs/splitledger/internal/core/ports/services"
	"github.com/SscSPs/splitledger/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testChannel = "chan-1"
	testEventID = "evt-1"
)

type DispatcherTestSuite struct {
	suite.Suite
	events   *MockEventSvc
	expenses *MockExpenseSvc
	payments *MockPaymentSvc
	ledger   *MockLedgerSvc
	sessions *MockSessionSvc
	chat     *MockChat
	scanner  *MockScanner
	d        *Dispatcher
	ctx      context.Context
}

func TestDispatcherTestSuite(t *testing.T) {
	suite.Run(t, new(DispatcherTestSuite))
}

func (s *DispatcherTestSuite) SetupTest() {
	s.events = new(MockEventSvc)
	s.expenses = new(MockExpenseSvc)
	s.payments = new(MockPaymentSvc)
	s.ledger = new(MockLedgerSvc)
	s.sessions = new(MockSessionSvc)
	s.chat = new(MockChat)
	s.scanner = new(MockScanner)
	s.ctx = context.Background()

	container := &portssvc.ServiceContainer{
		Event:   s.events,
		Expense: s.expenses,
		Payment: s.payments,
		Ledger:  s.ledger,
		Session: s.sessions,
	}
	s.d = NewDispatcher(container, s.chat,
		WithReceiptScanner(s.scanner),
		WithCurrencySymbol("₹"),
		WithMinConfidence(70))
}

func (s *DispatcherTestSuite) TearDownTest() {
	s.events.AssertExpectations(s.T())
	s.expenses.AssertExpectations(s.T())
	s.payments.AssertExpectations(s.T())
	s.ledger.AssertExpectations(s.T())
	s.sessions.AssertExpectations(s.T())
	s.chat.AssertExpectations(s.T())
	s.scanner.AssertExpectations(s.T())
}

func (s *DispatcherTestSuite) message(author, text string, mentions ...string) portssvc.InboundMessage {
	return portssvc.InboundMessage{
		ChannelID:    testChannel,
		MessageID:    "m-1",
		AuthorHandle: author,
		Text:         text,
		Mentions:     mentions,
	}
}

func (s *DispatcherTestSuite) trackedEvent() *domain.Event {
	group := testChannel
	event := &domain.Event{EventID: testEventID, Code: "A1B2C3D4", Name: "Goa trip", ChatGroupID: &group, Status: domain.EventActive}
	s.events.On("GetEventByChatGroup", mock.Anything, testChannel).Return(event, nil)
	return event
}

func (s *DispatcherTestSuite) expectReply(contains string) {
	s.chat.On("Send", mock.Anything, testChannel, mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, contains)
	})).Return(nil).Once()
}

func (s *DispatcherTestSuite) TestHelp() {
	s.expectReply("/addexpense <amount>")
	s.d.HandleMessage(s.ctx, s.message("alice", "/help"))
}

func (s *DispatcherTestSuite) TestUnknownCommandIsIgnored() {
	s.d.HandleMessage(s.ctx, s.message("alice", "/dance"))
	s.chat.AssertNotCalled(s.T(), "Send", mock.Anything, mock.Anything, mock.Anything)
}

func (s *DispatcherTestSuite) TestStartEvent_LinksGroup() {
	event := &domain.Event{EventID: testEventID, Code: "A1B2C3D4", Name: "Goa trip", Status: domain.EventCreated}
	linked := *event
	group := testChannel
	linked.ChatGroupID = &group
	linked.Status = domain.EventActive

	s.events.On("GetEventByCode", mock.Anything, "A1B2C3D4").Return(event, nil).Once()
	s.events.On("LinkChatGroup", mock.Anything, testEventID, testChannel, "alice").Return(&linked, nil).Once()
	s.expectReply("now tracks **Goa trip**")

	s.d.HandleMessage(s.ctx, s.message("alice", "/startevent a1b2c3d4"))
}

func (s *DispatcherTestSuite) TestStartEvent_UnknownCode() {
	s.events.On("GetEventByCode", mock.Anything, "NOPE").Return(nil, apperrors.ErrNotFound).Once()
	s.expectReply("No event has the code NOPE.")

	s.d.HandleMessage(s.ctx, s.message("alice", "/startevent nope"))
}

func (s *DispatcherTestSuite) TestStartEvent_GroupBusy() {
	event := &domain.Event{EventID: testEventID, Code: "A1B2C3D4"}
	s.events.On("GetEventByCode", mock.Anything, "A1B2C3D4").Return(event, nil).Once()
	s.events.On("LinkChatGroup", mock.Anything, testEventID, testChannel, "alice").
		Return(nil, fmt.Errorf("%w: this group already tracks event X (Other)", apperrors.ErrStateConflict)).Once()
	s.expectReply("⚠️ This group already tracks event X")

	s.d.HandleMessage(s.ctx, s.message("alice", "/startevent A1B2C3D4"))
}

func (s *DispatcherTestSuite) TestAddExpense_NoTrackedEvent() {
	s.events.On("GetEventByChatGroup", mock.Anything, testChannel).Return(nil, apperrors.ErrNotFound).Once()
	s.expectReply(notTrackingText)

	s.d.HandleMessage(s.ctx, s.message("alice", "/addexpense 300 dinner"))
}

func (s *DispatcherTestSuite) TestAddExpense_OpensVoteSessions() {
	s.trackedEvent()
	expense := &domain.Expense{
		ExpenseID:   "0b6f1c2e-9a8d-4b0e-8f1e-2c4d5e6f7a8b",
		EventID:     testEventID,
		Amount:      30050,
		Description: "dinner at the shack",
		Payer:       "alice",
		SplitAmong:  []string{"alice", "bob", "carol"},
		Status:      domain.ExpensePending,
	}
	s.expenses.On("CreateExpense", mock.Anything, testEventID, dto.CreateExpenseRequest{
		Amount:      30050,
		Description: "dinner at the shack",
		SplitAmong:  []string{"alice", "bob", "carol"},
	}, "alice").Return(expense, nil).Once()
	for _, p := range expense.SplitAmong {
		p := p
		s.sessions.On("Current", mock.Anything, testChannel, p).Return(nil, nil).Once()
		s.sessions.On("Begin", mock.Anything, mock.MatchedBy(func(sess domain.InteractionSession) bool {
			return sess.Handle == p && sess.ChannelID == testChannel &&
				sess.Step == domain.StepAwaitingVote && sess.ExpenseID == expense.ExpenseID
		})).Return(&domain.InteractionSession{}, nil).Once()
	}
	s.expectReply("split among @alice, @bob, @carol. [0b6f1c2e]")

	s.d.HandleMessage(s.ctx, s.message("alice", "/addexpense 300.50 dinner @bob at the shack @Carol", "bob", "carol"))
}

func (s *DispatcherTestSuite) TestAddExpense_SoloIsConfirmed() {
	s.trackedEvent()
	expense := &domain.Expense{ExpenseID: "exp-solo", Amount: 10000, Description: "taxi", Payer: "alice",
		SplitAmong: []string{"alice"}, Status: domain.ExpenseConfirmed}
	s.expenses.On("CreateExpense", mock.Anything, testEventID, mock.Anything, "alice").Return(expense, nil).Once()
	s.expectReply("✅ ₹100.00 for \"taxi\" recorded.")

	s.d.HandleMessage(s.ctx, s.message("alice", "/addexpense 100 taxi"))
	s.sessions.AssertNotCalled(s.T(), "Begin", mock.Anything, mock.Anything)
}

func (s *DispatcherTestSuite) TestAddExpense_BadAmount() {
	s.trackedEvent()
	s.expectReply("⚠️")

	s.d.HandleMessage(s.ctx, s.message("alice", "/addexpense 12.345 snacks"))
	s.expenses.AssertNotCalled(s.T(), "CreateExpense", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *DispatcherTestSuite) TestAddExpense_WithoutArgumentsStartsManualEntry() {
	s.trackedEvent()
	s.sessions.On("Begin", mock.Anything, mock.MatchedBy(func(sess domain.InteractionSession) bool {
		return sess.Handle == "alice" && sess.Step == domain.StepAwaitingAmount && sess.EventID == testEventID
	})).Return(&domain.InteractionSession{}, nil).Once()
	s.expectReply("How much was it?")

	s.d.HandleMessage(s.ctx, s.message("alice", "/addexpense"))
}

func (s *DispatcherTestSuite) TestReplyVote_Pending() {
	session := &domain.InteractionSession{Handle: "bob", ChannelID: testChannel, Step: domain.StepAwaitingVote, ExpenseID: "exp-1"}
	s.sessions.On("Current", mock.Anything, testChannel, "bob").Return(session, nil).Once()
	s.expenses.On("CastVote", mock.Anything, "exp-1", "bob", domain.VoteAgree).Return(&domain.Expense{
		ExpenseID:  "exp-1",
		SplitAmong: []string{"alice", "bob", "carol", "dave"},
		Votes:      map[string]domain.Vote{"bob": domain.VoteAgree},
		Status:     domain.ExpensePending,
	}, nil).Once()
	s.sessions.On("End", mock.Anything, testChannel, "bob").Return(nil).Once()
	s.expectReply("Waiting for 1 more approval(s)")

	s.d.HandleMessage(s.ctx, s.message("bob", "yes please"))
}

func (s *DispatcherTestSuite) TestReplyVote_TerminalIsLeftToAnnouncer() {
	session := &domain.InteractionSession{Handle: "bob", ChannelID: testChannel, Step: domain.StepAwaitingVote, ExpenseID: "exp-1"}
	s.sessions.On("Current", mock.Anything, testChannel, "bob").Return(session, nil).Once()
	s.expenses.On("CastVote", mock.Anything, "exp-1", "bob", domain.VoteDisagree).Return(&domain.Expense{
		ExpenseID: "exp-1", Status: domain.ExpenseRejected,
	}, nil).Once()
	s.sessions.On("End", mock.Anything, testChannel, "bob").Return(nil).Once()

	s.d.HandleMessage(s.ctx, s.message("bob", "👎"))
	s.chat.AssertNotCalled(s.T(), "Send", mock.Anything, mock.Anything, mock.Anything)
}

func (s *DispatcherTestSuite) TestReplyVote_UnclassifiedTextIsIgnored() {
	session := &domain.InteractionSession{Handle: "bob", ChannelID: testChannel, Step: domain.StepAwaitingVote, ExpenseID: "exp-1"}
	s.sessions.On("Current", mock.Anything, testChannel, "bob").Return(session, nil).Once()

	s.d.HandleMessage(s.ctx, s.message("bob", "where are we eating tonight"))
	s.expenses.AssertNotCalled(s.T(), "CastVote", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *DispatcherTestSuite) TestPlainTextWithoutSessionIsIgnored() {
	s.sessions.On("Current", mock.Anything, testChannel, "bob").Return(nil, nil).Once()
	s.d.HandleMessage(s.ctx, s.message("bob", "yes"))
}

func (s *DispatcherTestSuite) TestApprove_VotesOnEveryPendingExpense() {
	s.trackedEvent()
	pending := []domain.Expense{{ExpenseID: "exp-1"}, {ExpenseID: "exp-2"}, {ExpenseID: "exp-3"}}
	s.expenses.On("ListPendingForParticipant", mock.Anything, testEventID, "bob").Return(pending, nil).Once()
	s.expenses.On("CastVote", mock.Anything, "exp-1", "bob", domain.VoteAgree).
		Return(&domain.Expense{ExpenseID: "exp-1", Status: domain.ExpenseConfirmed}, nil).Once()
	s.expenses.On("CastVote", mock.Anything, "exp-2", "bob", domain.VoteAgree).
		Return(nil, fmt.Errorf("%w: expense exp-2 is already REJECTED", apperrors.ErrStateConflict)).Once()
	s.expenses.On("CastVote", mock.Anything, "exp-3", "bob", domain.VoteAgree).
		Return(&domain.Expense{ExpenseID: "exp-3", Status: domain.ExpensePending}, nil).Once()
	s.sessions.On("Current", mock.Anything, testChannel, "bob").
		Return(&domain.InteractionSession{Step: domain.StepAwaitingVote}, nil).Once()
	s.sessions.On("End", mock.Anything, testChannel, "bob").Return(nil).Once()
	s.expectReply("You approved 2 expense(s); 1 now confirmed.")

	s.d.HandleMessage(s.ctx, s.message("bob", "/approve"))
}

func (s *DispatcherTestSuite) TestReject_NothingPending() {
	s.trackedEvent()
	s.expenses.On("ListPendingForParticipant", mock.Anything, testEventID, "bob").Return([]domain.Expense{}, nil).Once()
	s.expectReply("no pending expenses")

	s.d.HandleMessage(s.ctx, s.message("bob", "/reject"))
}

func (s *DispatcherTestSuite) TestPaid() {
	s.trackedEvent()
	s.payments.On("CreatePayment", mock.Anything, testEventID, dto.CreatePaymentRequest{To: "bob", Amount: 4000}, "alice").
		Return(&domain.Payment{PaymentID: "pay-123456789", FromHandle: "alice", ToHandle: "bob", Amount: 4000, Status: domain.PaymentPending}, nil).Once()
	s.expectReply("/confirmpayment @alice 40.00")

	s.d.HandleMessage(s.ctx, s.message("alice", "/paid @Bob 40", "bob"))
}

func (s *DispatcherTestSuite) TestPaid_Usage() {
	s.expectReply("Usage: /paid @person <amount>")
	s.d.HandleMessage(s.ctx, s.message("alice", "/paid 40"))
}

func (s *DispatcherTestSuite) TestConfirmPayment_NoMatch() {
	s.trackedEvent()
	noMatch := fmt.Errorf("%w: no pending payment of 4000 from alice to bob", fmt.Errorf("%w: %w", apperrors.ErrStateConflict, apperrors.ErrNotFound))
	s.payments.On("ConfirmPayment", mock.Anything, testEventID, dto.ConfirmPaymentRequest{From: "alice", Amount: 4000}, "bob").
		Return(nil, noMatch).Once()
	s.expectReply("No pending payment of 4000 from alice to bob")

	s.d.HandleMessage(s.ctx, s.message("bob", "/confirmpayment 40 @alice"))
}

func (s *DispatcherTestSuite) TestBalances() {
	s.trackedEvent()
	balances := domain.NewNetBalances()
	balances.Add("alice", 2000)
	balances.Add("bob", -2000)
	s.ledger.On("ComputeBalances", mock.Anything, testEventID).Return(balances, nil).Once()
	s.ledger.On("ComputeSettlements", mock.Anything, testEventID).
		Return([]domain.Settlement{{From: "bob", To: "alice", Amount: 2000}}, nil).Once()
	s.expectReply("• @bob pays @alice ₹20.00")

	s.d.HandleMessage(s.ctx, s.message("carol", "/report"))
}

func (s *DispatcherTestSuite) TestSummary() {
	s.trackedEvent()
	s.ledger.On("GetSummary", mock.Anything, testEventID).Return(&domain.EventSummary{
		EventID: testEventID, ConfirmedTotal: 123450, ConfirmedExpenses: 4, PendingExpenses: 1, PendingPayments: 2, Participants: 3,
	}, nil).Once()
	s.expectReply("Confirmed spend: ₹1234.50 across 4 expense(s)")

	s.d.HandleMessage(s.ctx, s.message("carol", "/summary"))
}

func (s *DispatcherTestSuite) TestCloseEvent_Blocked() {
	s.trackedEvent()
	blocked := &domain.ClosureBlockedError{
		EventID: testEventID,
		Reasons: []domain.BlockReason{
			{Code: domain.BlockPendingExpenses, Message: "1 expense(s) still need votes", Count: 1},
			{Code: domain.BlockUnsettledBalances, Message: "2 participant(s) are not settled", Count: 2},
		},
		OutstandingTransfers: []domain.Settlement{{From: "bob", To: "alice", Amount: 500}},
	}
	s.events.On("CloseEvent", mock.Anything, testEventID, "alice").Return(nil, blocked).Once()
	s.chat.On("Send", mock.Anything, testChannel, mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "1 expense(s) still need votes") &&
			strings.Contains(text, "2 participant(s) are not settled") &&
			strings.Contains(text, "@bob pays @alice ₹5.00")
	})).Return(nil).Once()

	s.d.HandleMessage(s.ctx, s.message("alice", "/closeevent"))
}

func (s *DispatcherTestSuite) TestCloseEvent_SuccessIsLeftToAnnouncer() {
	event := s.trackedEvent()
	closed := *event
	closed.Status = domain.EventClosed
	s.events.On("CloseEvent", mock.Anything, testEventID, "alice").Return(&closed, nil).Once()

	s.d.HandleMessage(s.ctx, s.message("alice", "/closeevent"))
	s.chat.AssertNotCalled(s.T(), "Send", mock.Anything, mock.Anything, mock.Anything)
}

func (s *DispatcherTestSuite) receiptMessage(caption string, mentions ...string) portssvc.InboundMessage {
	msg := s.message("alice", caption, mentions...)
	msg.Attachments = []portssvc.Attachment{
		{URL: "https://cdn/notes.txt", ContentType: "text/plain"},
		{URL: "https://cdn/r.jpg", ContentType: "image/jpeg", Filename: "r.jpg"},
	}
	return msg
}

func (s *DispatcherTestSuite) TestReceipt_ConfidentReadingAsksForConfirmation() {
	s.trackedEvent()
	image := []byte("jpeg")
	s.chat.On("FetchAttachment", mock.Anything, portssvc.Attachment{URL: "https://cdn/r.jpg", ContentType: "image/jpeg", Filename: "r.jpg"}).
		Return(image, nil).Once()
	s.scanner.On("ScanReceipt", mock.Anything, image).Return([]domain.ReceiptCandidate{
		{Amount: 44100, Description: "Cafe Mocha", Confidence: 91},
	}, nil).Once()
	s.sessions.On("Begin", mock.Anything, mock.MatchedBy(func(sess domain.InteractionSession) bool {
		return sess.Step == domain.StepAwaitingConfirmation && sess.Amount == 44100 && sess.Description == "Cafe Mocha"
	})).Return(&domain.InteractionSession{}, nil).Once()
	s.expectReply("I read ₹441.00 for \"Cafe Mocha\"")

	s.d.HandleMessage(s.ctx, s.receiptMessage("/addexpense"))
}

func (s *DispatcherTestSuite) TestReceipt_CaptionMentionsBecomeParticipants() {
	s.trackedEvent()
	s.chat.On("FetchAttachment", mock.Anything, mock.Anything).Return([]byte("jpeg"), nil).Once()
	s.scanner.On("ScanReceipt", mock.Anything, []byte("jpeg")).Return([]domain.ReceiptCandidate{
		{Amount: 120000, Description: "Beach Shack", Confidence: 88},
	}, nil).Once()
	s.sessions.On("Begin", mock.Anything, mock.MatchedBy(func(sess domain.InteractionSession) bool {
		return sess.Handle == "alice" && sess.Step == domain.StepAwaitingConfirmation && sess.Amount == 120000 &&
			len(sess.Participants) == 3 && sess.Participants[1] == "bob" && sess.Participants[2] == "carol"
	})).Return(&domain.InteractionSession{}, nil).Once()
	s.expectReply("I read ₹1200.00")

	s.d.HandleMessage(s.ctx, s.receiptMessage("/addexpense @bob @Carol", "bob"))
	s.expenses.AssertNotCalled(s.T(), "CreateExpense", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *DispatcherTestSuite) TestReceipt_LowConfidenceFallsBackToManualEntry() {
	s.trackedEvent()
	s.chat.On("FetchAttachment", mock.Anything, mock.Anything).Return([]byte("jpeg"), nil).Once()
	s.scanner.On("ScanReceipt", mock.Anything, mock.Anything).Return([]domain.ReceiptCandidate{
		{Amount: 100, Description: "Receipt", Confidence: 40},
	}, nil).Once()
	s.sessions.On("Begin", mock.Anything, mock.MatchedBy(func(sess domain.InteractionSession) bool {
		return sess.Step == domain.StepAwaitingAmount && sess.Amount == 0 && len(sess.Participants) == 2
	})).Return(&domain.InteractionSession{}, nil).Once()
	s.expectReply("I couldn't read that receipt.")

	s.d.HandleMessage(s.ctx, s.receiptMessage("/addexpense @bob", "bob"))
}

func (s *DispatcherTestSuite) TestReceipt_ExplicitAmountWinsOverPhoto() {
	s.trackedEvent()
	s.expenses.On("CreateExpense", mock.Anything, testEventID, dto.CreateExpenseRequest{
		Amount: 5000, Description: "chai", SplitAmong: []string{"alice"},
	}, "alice").Return(&domain.Expense{ExpenseID: "exp-chai", Amount: 5000, Description: "chai", Payer: "alice",
		SplitAmong: []string{"alice"}, Status: domain.ExpenseConfirmed}, nil).Once()
	s.expectReply("recorded")

	s.d.HandleMessage(s.ctx, s.receiptMessage("/addexpense 50 chai"))
	s.scanner.AssertNotCalled(s.T(), "ScanReceipt", mock.Anything, mock.Anything)
}

func (s *DispatcherTestSuite) TestReceipt_UncaptionedPhotoIsNotScanned() {
	s.sessions.On("Current", mock.Anything, testChannel, "alice").Return(nil, nil).Once()

	s.d.HandleMessage(s.ctx, s.receiptMessage(""))
	s.scanner.AssertNotCalled(s.T(), "ScanReceipt", mock.Anything, mock.Anything)
	s.chat.AssertNotCalled(s.T(), "Send", mock.Anything, mock.Anything, mock.Anything)
}

func (s *DispatcherTestSuite) TestReceipt_UntrackedGroup() {
	s.events.On("GetEventByChatGroup", mock.Anything, testChannel).Return(nil, apperrors.ErrNotFound).Once()
	s.expectReply(notTrackingText)

	s.d.HandleMessage(s.ctx, s.receiptMessage("/addexpense"))
	s.scanner.AssertNotCalled(s.T(), "ScanReceipt", mock.Anything, mock.Anything)
}

func (s *DispatcherTestSuite) TestManualEntry_AmountThenDescription() {
	amountStep := &domain.InteractionSession{Handle: "alice", ChannelID: testChannel, EventID: testEventID, Step: domain.StepAwaitingAmount}
	s.sessions.On("Current", mock.Anything, testChannel, "alice").Return(amountStep, nil).Once()
	s.sessions.On("Begin", mock.Anything, mock.MatchedBy(func(sess domain.InteractionSession) bool {
		return sess.Step == domain.StepAwaitingDescription && sess.Amount == 25000 && sess.EventID == testEventID
	})).Return(&domain.InteractionSession{}, nil).Once()
	s.expectReply("What was ₹250.00 for?")
	s.d.HandleMessage(s.ctx, s.message("alice", "₹250"))

	descStep := &domain.InteractionSession{Handle: "alice", ChannelID: testChannel, EventID: testEventID, Step: domain.StepAwaitingDescription, Amount: 25000}
	s.sessions.On("Current", mock.Anything, testChannel, "alice").Return(descStep, nil).Once()
	s.sessions.On("Begin", mock.Anything, mock.MatchedBy(func(sess domain.InteractionSession) bool {
		return sess.Step == domain.StepAwaitingConfirmation && sess.Amount == 25000 && sess.Description == "boat ride"
	})).Return(&domain.InteractionSession{}, nil).Once()
	s.expectReply("Add ₹250.00 for \"boat ride\"")
	s.d.HandleMessage(s.ctx, s.message("alice", "boat ride"))
}

func (s *DispatcherTestSuite) TestManualEntry_BadAmountKeepsSession() {
	amountStep := &domain.InteractionSession{Handle: "alice", ChannelID: testChannel, Step: domain.StepAwaitingAmount}
	s.sessions.On("Current", mock.Anything, testChannel, "alice").Return(amountStep, nil).Once()
	s.expectReply("Please send just the amount")

	s.d.HandleMessage(s.ctx, s.message("alice", "a lot"))
}

func (s *DispatcherTestSuite) TestConfirmation_YesCreatesExpenseWithMentions() {
	confirmStep := &domain.InteractionSession{Handle: "alice", ChannelID: testChannel, EventID: testEventID,
		Step: domain.StepAwaitingConfirmation, Amount: 44100, Description: "Cafe Mocha"}
	s.sessions.On("Current", mock.Anything, testChannel, "alice").Return(confirmStep, nil).Once()
	s.sessions.On("End", mock.Anything, testChannel, "alice").Return(nil).Once()
	s.expenses.On("CreateExpense", mock.Anything, testEventID, dto.CreateExpenseRequest{
		Amount: 44100, Description: "Cafe Mocha", SplitAmong: []string{"alice", "bob"},
	}, "alice").Return(&domain.Expense{ExpenseID: "exp-9", Amount: 44100, Description: "Cafe Mocha", Payer: "alice",
		SplitAmong: []string{"alice", "bob"}, Status: domain.ExpensePending}, nil).Once()
	s.sessions.On("Current", mock.Anything, testChannel, "alice").Return(nil, nil).Once()
	s.sessions.On("Current", mock.Anything, testChannel, "bob").Return(nil, nil).Once()
	s.sessions.On("Begin", mock.Anything, mock.MatchedBy(func(sess domain.InteractionSession) bool {
		return sess.Step == domain.StepAwaitingVote && sess.ExpenseID == "exp-9"
	})).Return(&domain.InteractionSession{}, nil).Twice()
	s.expectReply("split among @alice, @bob")

	s.d.HandleMessage(s.ctx, s.message("alice", "yes @bob"))
}

func (s *DispatcherTestSuite) TestConfirmation_UsesReceiptParticipants() {
	confirmStep := &domain.InteractionSession{Handle: "alice", ChannelID: testChannel, EventID: testEventID,
		Step: domain.StepAwaitingConfirmation, Amount: 120000, Description: "Beach Shack",
		Participants: []string{"alice", "bob", "carol"}}
	s.sessions.On("Current", mock.Anything, testChannel, "alice").Return(confirmStep, nil).Once()
	s.sessions.On("End", mock.Anything, testChannel, "alice").Return(nil).Once()
	s.expenses.On("CreateExpense", mock.Anything, testEventID, dto.CreateExpenseRequest{
		Amount: 120000, Description: "Beach Shack", SplitAmong: []string{"alice", "bob", "carol"},
	}, "alice").Return(&domain.Expense{ExpenseID: "exp-10", Amount: 120000, Description: "Beach Shack", Payer: "alice",
		SplitAmong: []string{"alice", "bob", "carol"}, Status: domain.ExpensePending}, nil).Once()
	for _, p := range []string{"alice", "bob", "carol"} {
		s.sessions.On("Current", mock.Anything, testChannel, p).Return(nil, nil).Once()
	}
	s.sessions.On("Begin", mock.Anything, mock.MatchedBy(func(sess domain.InteractionSession) bool {
		return sess.Step == domain.StepAwaitingVote && sess.ExpenseID == "exp-10"
	})).Return(&domain.InteractionSession{}, nil).Times(3)
	s.expectReply("split among @alice, @bob, @carol")

	s.d.HandleMessage(s.ctx, s.message("alice", "yes"))
}

func (s *DispatcherTestSuite) TestAddExpense_KeepsParticipantsOtherConversations() {
	s.trackedEvent()
	expense := &domain.Expense{ExpenseID: "exp-11", EventID: testEventID, Amount: 9000, Description: "fuel",
		Payer: "alice", SplitAmong: []string{"alice", "bob"}, Status: domain.ExpensePending}
	s.expenses.On("CreateExpense", mock.Anything, testEventID, mock.Anything, "alice").Return(expense, nil).Once()
	s.sessions.On("Current", mock.Anything, testChannel, "alice").Return(nil, nil).Once()
	s.sessions.On("Current", mock.Anything, testChannel, "bob").Return(&domain.InteractionSession{
		Handle: "bob", ChannelID: testChannel, Step: domain.StepAwaitingDescription, Amount: 25000,
	}, nil).Once()
	s.sessions.On("Begin", mock.Anything, mock.MatchedBy(func(sess domain.InteractionSession) bool {
		return sess.Handle == "alice" && sess.Step == domain.StepAwaitingVote
	})).Return(&domain.InteractionSession{}, nil).Once()
	s.expectReply("split among @alice, @bob")

	s.d.HandleMessage(s.ctx, s.message("alice", "/addexpense 90 fuel @bob", "bob"))
	s.sessions.AssertNotCalled(s.T(), "Begin", mock.Anything, mock.MatchedBy(func(sess domain.InteractionSession) bool {
		return sess.Handle == "bob"
	}))
}

func (s *DispatcherTestSuite) TestConfirmation_NoDropsIt() {
	confirmStep := &domain.InteractionSession{Handle: "alice", ChannelID: testChannel, Step: domain.StepAwaitingConfirmation, Amount: 100, Description: "x"}
	s.sessions.On("Current", mock.Anything, testChannel, "alice").Return(confirmStep, nil).Once()
	s.sessions.On("End", mock.Anything, testChannel, "alice").Return(nil).Once()
	s.expectReply("dropped it")

	s.d.HandleMessage(s.ctx, s.message("alice", "no"))
}

func (s *DispatcherTestSuite) TestCancel() {
	s.sessions.On("End", mock.Anything, testChannel, "alice").Return(nil).Once()
	s.expectReply("cancelled")

	s.d.HandleMessage(s.ctx, s.message("alice", "/cancel"))
}
