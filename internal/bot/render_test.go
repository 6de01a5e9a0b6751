package bot

import (
	"testing"

	"github.com/SscSPs/splitledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestRenderer_Balances(t *testing.T) {
	r := renderer{symbol: "₹"}
	event := &domain.Event{Name: "Goa trip"}
	entries := []domain.BalanceEntry{
		{Handle: "alice", Amount: 2500},
		{Handle: "bob", Amount: -2500},
		{Handle: "carol", Amount: 0},
	}

	got := r.balances(event, entries, []domain.Settlement{{From: "bob", To: "alice", Amount: 2500}})

	assert.Equal(t, "📒 **Balances for Goa trip**\n"+
		"@alice is owed ₹25.00\n"+
		"@bob owes ₹25.00\n"+
		"@carol is settled\n"+
		"\nTo settle up:\n"+
		"• @bob pays @alice ₹25.00", got)
}

func TestRenderer_BalancesEmpty(t *testing.T) {
	got := renderer{symbol: "$"}.balances(&domain.Event{Name: "x"}, nil, nil)
	assert.Contains(t, got, "No confirmed expenses yet.")
}

func TestRenderer_AllSettled(t *testing.T) {
	got := renderer{symbol: "$"}.balances(&domain.Event{Name: "x"}, []domain.BalanceEntry{{Handle: "a"}}, nil)
	assert.Contains(t, got, "Everyone is settled up.")
}

func TestRenderer_VoteRecorded(t *testing.T) {
	r := renderer{}
	assert.Equal(t, "👍 Your rejection is recorded. Waiting for 0 more approval(s).",
		r.voteRecorded(domain.VoteDisagree, domain.VoteTally{Agree: 3, Required: 2}))
}
