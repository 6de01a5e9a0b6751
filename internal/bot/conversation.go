package bot

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/splitledger/internal/core/domain"
	portssvc "github.com/SscSPs/splitledger/internal/core/ports/services"
	"github.com/SscSPs/splitledger/internal/middleware"
	"github.com/SscSPs/splitledger/internal/utils"
)

const manualEntryPrompt = "How much was it? Send the amount, e.g. 450 or 99.50."

// handleReply continues the author's conversation, if they have one. Messages
// outside a conversation are ignored.
func (d *Dispatcher) handleReply(ctx context.Context, msg portssvc.InboundMessage) {
	session, err := d.sessions.Current(ctx, msg.ChannelID, msg.AuthorHandle)
	if err != nil || session == nil {
		return
	}

	switch session.Step {
	case domain.StepAwaitingVote:
		d.replyVote(ctx, msg, session)
	case domain.StepAwaitingAmount:
		d.replyAmount(ctx, msg, session)
	case domain.StepAwaitingDescription:
		d.replyDescription(ctx, msg, session)
	case domain.StepAwaitingConfirmation:
		d.replyConfirmation(ctx, msg, session)
	}
}

func (d *Dispatcher) replyVote(ctx context.Context, msg portssvc.InboundMessage, session *domain.InteractionSession) {
	vote, ok := classifyReply(msg.Text)
	if !ok {
		return
	}
	expense, err := d.expenses.CastVote(ctx, session.ExpenseID, msg.AuthorHandle, vote)
	if err != nil {
		d.endSession(ctx, msg)
		d.replyError(ctx, msg.ChannelID, err, "That expense no longer exists.")
		return
	}
	d.endSession(ctx, msg)
	// Terminal outcomes are announced by the ledger listener.
	if expense.Status == domain.ExpensePending {
		d.reply(ctx, msg.ChannelID, d.render.voteRecorded(vote, expense.Tally(d.expenses.ApprovalPolicy())))
	}
}

func (d *Dispatcher) replyAmount(ctx context.Context, msg portssvc.InboundMessage, session *domain.InteractionSession) {
	amount, err := utils.ParseMajorAmount(msg.Text)
	if err != nil {
		d.reply(ctx, msg.ChannelID, "Please send just the amount, e.g. 450 or 99.50. Use /cancel to stop.")
		return
	}
	next := *session
	next.Step = domain.StepAwaitingDescription
	next.Amount = amount
	d.beginSession(ctx, msg, next, "What was "+d.render.money(amount)+" for?")
}

func (d *Dispatcher) replyDescription(ctx context.Context, msg portssvc.InboundMessage, session *domain.InteractionSession) {
	description := strings.TrimSpace(msg.Text)
	if description == "" {
		return
	}
	next := *session
	next.Step = domain.StepAwaitingConfirmation
	next.Description = description
	d.beginSession(ctx, msg, next, d.render.confirmManual(next.Amount, description))
}

func (d *Dispatcher) replyConfirmation(ctx context.Context, msg portssvc.InboundMessage, session *domain.InteractionSession) {
	vote, ok := classifyReply(msg.Text)
	if !ok {
		return
	}
	d.endSession(ctx, msg)
	if vote == domain.VoteDisagree {
		d.reply(ctx, msg.ChannelID, "Okay, I dropped it.")
		return
	}
	_, textMentions := splitMentions(strings.Fields(msg.Text))
	mentions := append(append([]string{}, session.Participants...), msg.Mentions...)
	d.createExpense(ctx, msg, session.EventID, session.Amount, session.Description,
		participantsOf(msg.AuthorHandle, mentions, textMentions))
}

// handleReceipt scans an uploaded receipt and asks the uploader to confirm what was read.
// Without a confident reading it falls back to manual entry. Either way the expense is
// later split among participants.
func (d *Dispatcher) handleReceipt(ctx context.Context, msg portssvc.InboundMessage, eventID string, image portssvc.Attachment, participants []string) {
	session := domain.InteractionSession{EventID: eventID, Step: domain.StepAwaitingAmount, Participants: participants}

	candidate, ok := d.scan(ctx, image)
	if !ok {
		d.beginSession(ctx, msg, session, "🧾 I couldn't read that receipt. "+manualEntryPrompt)
		return
	}
	session.Step = domain.StepAwaitingConfirmation
	session.Amount = candidate.Amount
	session.Description = candidate.Description
	d.beginSession(ctx, msg, session, d.render.receiptRead(candidate))
}

// scan returns the best receipt reading when it clears the confidence threshold.
func (d *Dispatcher) scan(ctx context.Context, attachment portssvc.Attachment) (domain.ReceiptCandidate, bool) {
	if d.scanner == nil {
		return domain.ReceiptCandidate{}, false
	}
	logger := middleware.GetLoggerFromCtx(ctx)
	image, err := d.chat.FetchAttachment(ctx, attachment)
	if err != nil {
		logger.Warn("Failed to download receipt", slog.String("error", err.Error()))
		return domain.ReceiptCandidate{}, false
	}
	candidates, err := d.scanner.ScanReceipt(ctx, image)
	if err != nil {
		logger.Warn("Receipt scan failed", slog.String("error", err.Error()))
		return domain.ReceiptCandidate{}, false
	}
	if len(candidates) == 0 || candidates[0].Confidence < d.minConfidence {
		return domain.ReceiptCandidate{}, false
	}
	return candidates[0], true
}

// beginSession stores session for the author and sends prompt once it is stored.
func (d *Dispatcher) beginSession(ctx context.Context, msg portssvc.InboundMessage, session domain.InteractionSession, prompt string) {
	session.Handle = msg.AuthorHandle
	session.ChannelID = msg.ChannelID
	if _, err := d.sessions.Begin(ctx, session); err != nil {
		d.replyError(ctx, msg.ChannelID, err, "")
		return
	}
	d.reply(ctx, msg.ChannelID, prompt)
}

func (d *Dispatcher) endSession(ctx context.Context, msg portssvc.InboundMessage) {
	// A session left behind expires on its own.
	_ = d.sessions.End(ctx, msg.ChannelID, msg.AuthorHandle)
}

// endVoteSession ends the author's session only when it is waiting for a vote.
func (d *Dispatcher) endVoteSession(ctx context.Context, msg portssvc.InboundMessage) {
	session, err := d.sessions.Current(ctx, msg.ChannelID, msg.AuthorHandle)
	if err != nil || session == nil || session.Step != domain.StepAwaitingVote {
		return
	}
	d.endSession(ctx, msg)
}
