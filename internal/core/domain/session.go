package domain

import "time"

// SessionStep is the conversational state a chat participant is in.
type SessionStep string

const (
	StepAwaitingVote         SessionStep = "awaiting_expense_vote"
	StepAwaitingAmount       SessionStep = "awaiting_amount"
	StepAwaitingDescription  SessionStep = "awaiting_description"
	StepAwaitingConfirmation SessionStep = "awaiting_confirmation"
)

// InteractionSession is short-lived chat state keyed by handle. It lives outside
// the ledger and expires on its own.
type InteractionSession struct {
	Handle      string      `json:"handle"`
	ChannelID   string      `json:"channelID"`
	EventID     string      `json:"eventID"`
	Step        SessionStep `json:"step"`
	ExpenseID   string      `json:"expenseID,omitempty"`
	Amount      int64       `json:"amount,omitempty"`
	Description string      `json:"description,omitempty"`
	ExpiresAt   time.Time   `json:"expiresAt"`

	// Participants named when a receipt was posted. The uploader is always added.
	Participants []string `json:"participants,omitempty"`
}

// Expired reports whether the session is past its expiry at now.
func (s InteractionSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// AwaitsVoteOn reports whether the session is waiting for a vote on expenseID.
func (s InteractionSession) AwaitsVoteOn(expenseID string) bool {
	return s.Step == StepAwaitingVote && s.ExpenseID == expenseID
}
