package bot

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/splitledger/internal/apperrors"
	"github.com/SscSPs/splitledger/internal/core/domain"
	portssvc "github.com/SscSPs/splitledger/internal/core/ports/services"
	"github.com/SscSPs/splitledger/internal/middleware"
)

const notTrackingText = "This group is not tracking an event yet. Use /startevent <code> first."

// ChatClient is what the dispatcher needs from a chat platform.
type ChatClient interface {
	portssvc.ChatSender
	FetchAttachment(ctx context.Context, attachment portssvc.Attachment) ([]byte, error)
}

type commandFunc func(ctx context.Context, msg portssvc.InboundMessage, args []string)

// Dispatcher routes chat messages to commands, receipt scanning and
// ongoing conversations, and replies in the same channel.
type Dispatcher struct {
	events   portssvc.EventSvcFacade
	expenses portssvc.ExpenseSvcFacade
	payments portssvc.PaymentSvcFacade
	ledger   portssvc.LedgerSvc
	sessions portssvc.SessionSvc
	chat     ChatClient
	scanner  portssvc.ReceiptScanner
	render   renderer

	minConfidence float64
	commands      map[string]commandFunc
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithReceiptScanner enables the receipt photo flow.
func WithReceiptScanner(scanner portssvc.ReceiptScanner) DispatcherOption {
	return func(d *Dispatcher) {
		d.scanner = scanner
	}
}

// WithCurrencySymbol sets the symbol amounts are rendered with.
func WithCurrencySymbol(symbol string) DispatcherOption {
	return func(d *Dispatcher) {
		d.render.symbol = symbol
	}
}

// WithMinConfidence sets the receipt confidence (0-100) below which the bot asks for manual entry.
func WithMinConfidence(confidence float64) DispatcherOption {
	return func(d *Dispatcher) {
		d.minConfidence = confidence
	}
}

// NewDispatcher creates a dispatcher over the application services.
func NewDispatcher(services *portssvc.ServiceContainer, chat ChatClient, options ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		events:        services.Event,
		expenses:      services.Expense,
		payments:      services.Payment,
		ledger:        services.Ledger,
		sessions:      services.Session,
		chat:          chat,
		render:        renderer{symbol: "₹"},
		minConfidence: 70,
	}
	for _, option := range options {
		option(d)
	}
	d.commands = map[string]commandFunc{
		"help":           d.cmdHelp,
		"start":          d.cmdHelp,
		"startevent":     d.cmdStartEvent,
		"addexpense":     d.cmdAddExpense,
		"ae":             d.cmdAddExpense,
		"approve":        d.cmdApprove,
		"reject":         d.cmdReject,
		"paid":           d.cmdPaid,
		"confirmpayment": d.cmdConfirmPayment,
		"summary":        d.cmdSummary,
		"balances":       d.cmdBalances,
		"report":         d.cmdBalances,
		"closeevent":     d.cmdCloseEvent,
		"cancel":         d.cmdCancel,
	}
	return d
}

// HandleMessage is the entry point for every inbound chat message.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg portssvc.InboundMessage) {
	if msg.AuthorHandle == "" || msg.ChannelID == "" {
		return
	}
	name, args := parseCommand(msg.Text)

	logger := middleware.GetLoggerFromCtx(ctx).With(
		slog.String("channel_id", msg.ChannelID),
		slog.String("author", msg.AuthorHandle),
		slog.String("command", name),
	)
	ctx = middleware.WithLogger(ctx, logger)
	ctx = middleware.WithHandle(ctx, msg.AuthorHandle)

	switch {
	case name != "":
		cmd, ok := d.commands[name]
		if !ok {
			logger.Debug("Ignoring unknown command")
			return
		}
		cmd(ctx, msg, args)
	default:
		d.handleReply(ctx, msg)
	}
}

func (d *Dispatcher) reply(ctx context.Context, channelID string, text string) {
	if err := d.chat.Send(ctx, channelID, text); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to send chat reply", slog.String("error", err.Error()))
	}
}

func (d *Dispatcher) replyError(ctx context.Context, channelID string, err error, notFound string) {
	if !isExpected(err) {
		middleware.GetLoggerFromCtx(ctx).Error("Command failed", slog.String("error", err.Error()))
	}
	d.reply(ctx, channelID, userMessage(err, notFound))
}

// trackedEvent returns the open event linked to the message's channel. It replies
// and returns false when there is none.
func (d *Dispatcher) trackedEvent(ctx context.Context, msg portssvc.InboundMessage) (*domain.Event, bool) {
	event, err := d.events.GetEventByChatGroup(ctx, msg.ChannelID)
	if err != nil {
		d.replyError(ctx, msg.ChannelID, err, notTrackingText)
		return nil, false
	}
	return event, true
}

func isExpected(err error) bool {
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return true
		}
	}
	return errors.Is(err, apperrors.ErrPreconditionBlocked)
}

func firstImage(msg portssvc.InboundMessage) *portssvc.Attachment {
	for i := range msg.Attachments {
		if isImage(msg.Attachments[i].ContentType) {
			return &msg.Attachments[i]
		}
	}
	return nil
}
