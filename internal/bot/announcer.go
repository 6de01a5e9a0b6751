package bot

import (
	"context"
	"log/slog"

	"github.com/SscSPs/splitledger/internal/core/domain"
	portssvc "github.com/SscSPs/splitledger/internal/core/ports/services"
	"github.com/SscSPs/splitledger/internal/middleware"
)

// Announcer posts ledger outcomes into the chat group linked to the event.
type Announcer struct {
	sender portssvc.ChatSender
	events portssvc.EventReaderSvc
	render renderer
}

// NewAnnouncer creates a listener that announces through sender.
func NewAnnouncer(sender portssvc.ChatSender, events portssvc.EventReaderSvc, currencySymbol string) *Announcer {
	return &Announcer{sender: sender, events: events, render: renderer{symbol: currencySymbol}}
}

var _ portssvc.LedgerListener = (*Announcer)(nil)

func (a *Announcer) ExpenseResolved(ctx context.Context, expense domain.Expense) {
	event, err := a.events.GetEventByID(ctx, expense.EventID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Cannot announce expense outcome",
			slog.String("expense_id", expense.ExpenseID),
			slog.String("error", err.Error()))
		return
	}
	a.announce(ctx, *event, a.render.expenseResolved(expense))
}

func (a *Announcer) EventClosed(ctx context.Context, event domain.Event) {
	a.announce(ctx, event, a.render.eventClosed(event))
}

func (a *Announcer) announce(ctx context.Context, event domain.Event, text string) {
	if !event.IsLinked() {
		return
	}
	if err := a.sender.Send(ctx, *event.ChatGroupID, text); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to announce in chat group",
			slog.String("event_id", event.EventID),
			slog.String("error", err.Error()))
	}
}
