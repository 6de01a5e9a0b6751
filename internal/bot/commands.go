package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SscSPs/splitledger/internal/apperrors"
	"github.com/SscSPs/splitledger/internal/core/domain"
	portssvc "github.com/SscSPs/splitledger/internal/core/ports/services"
	"github.com/SscSPs/splitledger/internal/dto"
	"github.com/SscSPs/splitledger/internal/middleware"
	"github.com/SscSPs/splitledger/internal/utils"
)

func (d *Dispatcher) cmdHelp(ctx context.Context, msg portssvc.InboundMessage, _ []string) {
	d.reply(ctx, msg.ChannelID, helpText)
}

func (d *Dispatcher) cmdStartEvent(ctx context.Context, msg portssvc.InboundMessage, args []string) {
	if msg.IsDirect {
		d.reply(ctx, msg.ChannelID, "Events are tracked in group channels. Run /startevent there.")
		return
	}
	if len(args) == 0 {
		d.reply(ctx, msg.ChannelID, "Usage: /startevent <code>")
		return
	}
	code := strings.ToUpper(strings.TrimSpace(args[0]))

	event, err := d.events.GetEventByCode(ctx, code)
	if err != nil {
		d.replyError(ctx, msg.ChannelID, err, "No event has the code "+code+".")
		return
	}
	event, err = d.events.LinkChatGroup(ctx, event.EventID, msg.ChannelID, msg.AuthorHandle)
	if err != nil {
		d.replyError(ctx, msg.ChannelID, err, "")
		return
	}
	d.reply(ctx, msg.ChannelID, d.render.eventLinked(event))
}

func (d *Dispatcher) cmdAddExpense(ctx context.Context, msg portssvc.InboundMessage, args []string) {
	event, ok := d.trackedEvent(ctx, msg)
	if !ok {
		return
	}
	rest, textMentions := splitMentions(args)

	// A receipt photo captioned "/addexpense @a @b" is scanned and split with the mentions.
	if len(rest) == 0 && !msg.IsDirect {
		if image := firstImage(msg); image != nil {
			d.handleReceipt(ctx, msg, event.EventID, *image, participantsOf(msg.AuthorHandle, msg.Mentions, textMentions))
			return
		}
	}

	if len(rest) == 0 {
		d.beginSession(ctx, msg, domain.InteractionSession{EventID: event.EventID, Step: domain.StepAwaitingAmount},
			"How much was it? Send the amount, e.g. 450 or 99.50.")
		return
	}
	amount, err := utils.ParseMajorAmount(rest[0])
	if err != nil {
		d.replyError(ctx, msg.ChannelID, err, "")
		return
	}
	description := strings.TrimSpace(strings.Join(rest[1:], " "))
	if description == "" {
		d.beginSession(ctx, msg, domain.InteractionSession{EventID: event.EventID, Step: domain.StepAwaitingDescription, Amount: amount},
			"What was "+d.render.money(amount)+" for?")
		return
	}

	d.createExpense(ctx, msg, event.EventID, amount, description, participantsOf(msg.AuthorHandle, msg.Mentions, textMentions))
}

// createExpense logs an expense paid by the author and opens a vote session for every
// participant who is not already in another conversation in this channel.
func (d *Dispatcher) createExpense(ctx context.Context, msg portssvc.InboundMessage, eventID string, amount int64, description string, participants []string) {
	expense, err := d.expenses.CreateExpense(ctx, eventID, dto.CreateExpenseRequest{
		Amount:      amount,
		Description: description,
		SplitAmong:  participants,
	}, msg.AuthorHandle)
	if err != nil {
		d.replyError(ctx, msg.ChannelID, err, "")
		return
	}

	if expense.Status == domain.ExpensePending {
		for _, p := range expense.SplitAmong {
			if d.busyElsewhere(ctx, msg.ChannelID, p) {
				continue
			}
			_, err := d.sessions.Begin(ctx, domain.InteractionSession{
				Handle:    p,
				ChannelID: msg.ChannelID,
				EventID:   eventID,
				Step:      domain.StepAwaitingVote,
				ExpenseID: expense.ExpenseID,
			})
			if err != nil {
				// Participants can still vote with /approve or /reject.
				middleware.GetLoggerFromCtx(ctx).Warn("Failed to open vote session",
					slog.String("participant", p),
					slog.String("error", err.Error()))
			}
		}
	}
	d.reply(ctx, msg.ChannelID, d.render.expenseLogged(expense))
}

// busyElsewhere reports whether handle is midway through a non-vote conversation.
// Such participants vote with /approve or /reject instead.
func (d *Dispatcher) busyElsewhere(ctx context.Context, channelID string, handle string) bool {
	current, err := d.sessions.Current(ctx, channelID, handle)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to read session",
			slog.String("participant", handle),
			slog.String("error", err.Error()))
		return false
	}
	return current != nil && current.Step != domain.StepAwaitingVote
}

func (d *Dispatcher) cmdApprove(ctx context.Context, msg portssvc.InboundMessage, _ []string) {
	d.voteOnPending(ctx, msg, domain.VoteAgree)
}

func (d *Dispatcher) cmdReject(ctx context.Context, msg portssvc.InboundMessage, _ []string) {
	d.voteOnPending(ctx, msg, domain.VoteDisagree)
}

// voteOnPending applies the author's vote to every pending expense they take part in.
func (d *Dispatcher) voteOnPending(ctx context.Context, msg portssvc.InboundMessage, vote domain.Vote) {
	event, ok := d.trackedEvent(ctx, msg)
	if !ok {
		return
	}
	pending, err := d.expenses.ListPendingForParticipant(ctx, event.EventID, msg.AuthorHandle)
	if err != nil {
		d.replyError(ctx, msg.ChannelID, err, "")
		return
	}
	if len(pending) == 0 {
		d.reply(ctx, msg.ChannelID, "You have no pending expenses to vote on.")
		return
	}

	voted, resolved := 0, 0
	for _, e := range pending {
		updated, err := d.expenses.CastVote(ctx, e.ExpenseID, msg.AuthorHandle, vote)
		if err != nil {
			// Another vote may have resolved it in the meantime.
			if errors.Is(err, apperrors.ErrStateConflict) {
				continue
			}
			d.replyError(ctx, msg.ChannelID, err, "")
			return
		}
		voted++
		if updated.Status.IsTerminal() {
			resolved++
		}
	}
	d.endVoteSession(ctx, msg)
	d.reply(ctx, msg.ChannelID, d.render.bulkVote(vote, voted, resolved))
}

func (d *Dispatcher) cmdPaid(ctx context.Context, msg portssvc.InboundMessage, args []string) {
	counterparty, amount, ok := d.paymentArgs(ctx, msg, args, "Usage: /paid @person <amount>")
	if !ok {
		return
	}
	event, ok := d.trackedEvent(ctx, msg)
	if !ok {
		return
	}
	payment, err := d.payments.CreatePayment(ctx, event.EventID, dto.CreatePaymentRequest{
		To:     counterparty,
		Amount: amount,
	}, msg.AuthorHandle)
	if err != nil {
		d.replyError(ctx, msg.ChannelID, err, "")
		return
	}
	d.reply(ctx, msg.ChannelID, d.render.paymentRecorded(payment))
}

func (d *Dispatcher) cmdConfirmPayment(ctx context.Context, msg portssvc.InboundMessage, args []string) {
	counterparty, amount, ok := d.paymentArgs(ctx, msg, args, "Usage: /confirmpayment @person <amount>")
	if !ok {
		return
	}
	event, ok := d.trackedEvent(ctx, msg)
	if !ok {
		return
	}
	payment, err := d.payments.ConfirmPayment(ctx, event.EventID, dto.ConfirmPaymentRequest{
		From:   counterparty,
		Amount: amount,
	}, msg.AuthorHandle)
	if err != nil {
		d.replyError(ctx, msg.ChannelID, err, "")
		return
	}
	d.reply(ctx, msg.ChannelID, d.render.paymentConfirmed(payment))
}

// paymentArgs reads "@person <amount>" in either order.
func (d *Dispatcher) paymentArgs(ctx context.Context, msg portssvc.InboundMessage, args []string, usage string) (string, int64, bool) {
	rest, textMentions := splitMentions(args)
	handles := domain.DedupeHandles(append(append([]string{}, textMentions...), msg.Mentions...))
	if len(handles) != 1 || len(rest) != 1 {
		d.reply(ctx, msg.ChannelID, usage)
		return "", 0, false
	}
	amount, err := utils.ParseMajorAmount(rest[0])
	if err != nil {
		d.replyError(ctx, msg.ChannelID, err, "")
		return "", 0, false
	}
	return handles[0], amount, true
}

func (d *Dispatcher) cmdSummary(ctx context.Context, msg portssvc.InboundMessage, _ []string) {
	event, ok := d.trackedEvent(ctx, msg)
	if !ok {
		return
	}
	summary, err := d.ledger.GetSummary(ctx, event.EventID)
	if err != nil {
		d.replyError(ctx, msg.ChannelID, err, "")
		return
	}
	d.reply(ctx, msg.ChannelID, d.render.summary(event, summary))
}

func (d *Dispatcher) cmdBalances(ctx context.Context, msg portssvc.InboundMessage, _ []string) {
	event, ok := d.trackedEvent(ctx, msg)
	if !ok {
		return
	}
	balances, err := d.ledger.ComputeBalances(ctx, event.EventID)
	if err != nil {
		d.replyError(ctx, msg.ChannelID, err, "")
		return
	}
	transfers, err := d.ledger.ComputeSettlements(ctx, event.EventID)
	if err != nil {
		d.replyError(ctx, msg.ChannelID, err, "")
		return
	}
	d.reply(ctx, msg.ChannelID, d.render.balances(event, balances.Entries(), transfers))
}

// cmdCloseEvent runs the close gate. A successful close is announced by the ledger listener.
func (d *Dispatcher) cmdCloseEvent(ctx context.Context, msg portssvc.InboundMessage, _ []string) {
	event, ok := d.trackedEvent(ctx, msg)
	if !ok {
		return
	}
	_, err := d.events.CloseEvent(ctx, event.EventID, msg.AuthorHandle)
	var blocked *domain.ClosureBlockedError
	switch {
	case errors.As(err, &blocked):
		d.reply(ctx, msg.ChannelID, d.render.closureBlocked(blocked))
	case err != nil:
		d.replyError(ctx, msg.ChannelID, err, "")
	}
}

func (d *Dispatcher) cmdCancel(ctx context.Context, msg portssvc.InboundMessage, _ []string) {
	d.endSession(ctx, msg)
	d.reply(ctx, msg.ChannelID, "Okay, cancelled.")
}
