package bot

import (
	"fmt"
	"strings"

	"github.com/SscSPs/splitledger/internal/core/domain"
	"github.com/SscSPs/splitledger/internal/utils"
)

const helpText = `**Split ledger commands**
/startevent <code> - track an event in this group
/addexpense <amount> <description> @people - log an expense you paid
/approve, /reject - vote on every pending expense you are part of
/paid @person <amount> - record a payment you made
/confirmpayment @person <amount> - confirm a payment you received
/summary - totals and pending items
/balances, /report - who owes whom
/closeevent - close the event once everything is settled
/cancel - abandon the current conversation
Post a receipt photo captioned /addexpense @people to log it without typing.`

// renderer formats ledger data for chat.
type renderer struct {
	symbol string
}

func (r renderer) money(amount int64) string {
	return utils.FormatMinor(amount, r.symbol)
}

func mention(handle string) string {
	return "@" + handle
}

func mentionAll(handles []string) string {
	out := make([]string, len(handles))
	for i, h := range handles {
		out[i] = mention(h)
	}
	return strings.Join(out, ", ")
}

func (r renderer) eventLinked(event *domain.Event) string {
	return fmt.Sprintf("📌 This group now tracks **%s** (code %s). Log expenses with /addexpense.", event.Name, event.Code)
}

func (r renderer) expenseLogged(e *domain.Expense) string {
	if e.Status == domain.ExpenseConfirmed {
		return fmt.Sprintf("✅ %s for \"%s\" recorded. [%s]", r.money(e.Amount), e.Description, shortID(e.ExpenseID))
	}
	return fmt.Sprintf("🧾 %s paid %s for \"%s\", split among %s. [%s]\nEveryone involved: reply yes or no, or use /approve or /reject.",
		mention(e.Payer), r.money(e.Amount), e.Description, mentionAll(e.SplitAmong), shortID(e.ExpenseID))
}

func (r renderer) expenseResolved(e domain.Expense) string {
	if e.Status == domain.ExpenseRejected {
		return fmt.Sprintf("❌ Expense \"%s\" (%s) was rejected and will not count. [%s]", e.Description, r.money(e.Amount), shortID(e.ExpenseID))
	}
	return fmt.Sprintf("✅ Expense \"%s\" (%s) paid by %s is confirmed. [%s]", e.Description, r.money(e.Amount), mention(e.Payer), shortID(e.ExpenseID))
}

func (r renderer) voteRecorded(vote domain.Vote, tally domain.VoteTally) string {
	word := "approval"
	if vote == domain.VoteDisagree {
		word = "rejection"
	}
	remaining := tally.Required - tally.Agree
	if remaining < 0 {
		remaining = 0
	}
	return fmt.Sprintf("👍 Your %s is recorded. Waiting for %d more approval(s).", word, remaining)
}

func (r renderer) bulkVote(vote domain.Vote, voted, resolved int) string {
	if vote == domain.VoteDisagree {
		return fmt.Sprintf("❌ You rejected %d expense(s).", voted)
	}
	if resolved > 0 {
		return fmt.Sprintf("✅ You approved %d expense(s); %d now confirmed.", voted, resolved)
	}
	return fmt.Sprintf("✅ You approved %d expense(s). Waiting for more approvals.", voted)
}

func (r renderer) paymentRecorded(p *domain.Payment) string {
	return fmt.Sprintf("💸 Payment of %s from %s to %s recorded. [%s]\n%s, confirm it with /confirmpayment %s %s",
		r.money(p.Amount), mention(p.FromHandle), mention(p.ToHandle), shortID(p.PaymentID),
		mention(p.ToHandle), mention(p.FromHandle), utils.FormatMinor(p.Amount, ""))
}

func (r renderer) paymentConfirmed(p *domain.Payment) string {
	return fmt.Sprintf("✅ Payment of %s from %s to %s confirmed.", r.money(p.Amount), mention(p.FromHandle), mention(p.ToHandle))
}

func (r renderer) summary(event *domain.Event, s *domain.EventSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 **%s**\n", event.Name)
	fmt.Fprintf(&b, "Confirmed spend: %s across %d expense(s)\n", r.money(s.ConfirmedTotal), s.ConfirmedExpenses)
	fmt.Fprintf(&b, "Pending expenses: %d\n", s.PendingExpenses)
	if s.RejectedExpenses > 0 {
		fmt.Fprintf(&b, "Rejected expenses: %d\n", s.RejectedExpenses)
	}
	fmt.Fprintf(&b, "Payments: %d confirmed, %d awaiting confirmation\n", s.ConfirmedPayments, s.PendingPayments)
	fmt.Fprintf(&b, "Participants: %d", s.Participants)
	return b.String()
}

func (r renderer) balances(event *domain.Event, entries []domain.BalanceEntry, transfers []domain.Settlement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📒 **Balances for %s**\n", event.Name)
	if len(entries) == 0 {
		b.WriteString("No confirmed expenses yet.")
		return b.String()
	}
	for _, e := range entries {
		switch {
		case e.Amount > 0:
			fmt.Fprintf(&b, "%s is owed %s\n", mention(e.Handle), r.money(e.Amount))
		case e.Amount < 0:
			fmt.Fprintf(&b, "%s owes %s\n", mention(e.Handle), r.money(-e.Amount))
		default:
			fmt.Fprintf(&b, "%s is settled\n", mention(e.Handle))
		}
	}
	b.WriteString(r.transfers(transfers))
	return strings.TrimRight(b.String(), "\n")
}

func (r renderer) transfers(transfers []domain.Settlement) string {
	if len(transfers) == 0 {
		return "\nEveryone is settled up. 🎉"
	}
	var b strings.Builder
	b.WriteString("\nTo settle up:\n")
	for _, t := range transfers {
		fmt.Fprintf(&b, "• %s pays %s %s\n", mention(t.From), mention(t.To), r.money(t.Amount))
	}
	return b.String()
}

func (r renderer) closureBlocked(blocked *domain.ClosureBlockedError) string {
	var b strings.Builder
	b.WriteString("⚠️ The event cannot be closed yet:\n")
	for _, reason := range blocked.Reasons {
		fmt.Fprintf(&b, "• %s\n", reason.Message)
	}
	if len(blocked.OutstandingTransfers) > 0 {
		b.WriteString(r.transfers(blocked.OutstandingTransfers))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r renderer) eventClosed(event domain.Event) string {
	return fmt.Sprintf("🏁 **%s** is closed. Everyone is settled. Thanks for using the ledger!", event.Name)
}

func (r renderer) receiptRead(c domain.ReceiptCandidate) string {
	return fmt.Sprintf("🧾 I read %s for \"%s\". Add it as an expense you paid? Reply yes (mention anyone to split with) or no.",
		r.money(c.Amount), c.Description)
}

func (r renderer) confirmManual(amount int64, description string) string {
	return fmt.Sprintf("Add %s for \"%s\" as an expense you paid? Reply yes (mention anyone to split with) or no.",
		r.money(amount), description)
}
