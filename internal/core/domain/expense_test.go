package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/splitledger/internal/apperrors"
	"github.com/SscSPs/splitledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

func newPending(t *testing.T, participants ...string) *domain.Expense {
	t.Helper()
	exp, err := domain.NewExpense("exp-1", "evt-1", 900, "dinner", participants[0], participants, participants[0], now)
	require.NoError(t, err)
	require.Equal(t, domain.ExpensePending, exp.Status)
	return exp
}

func TestNewExpense_Validation(t *testing.T) {
	tests := []struct {
		name         string
		amount       int64
		description  string
		payer        string
		participants []string
	}{
		{name: "zero amount", amount: 0, description: "taxi", payer: "a", participants: []string{"a", "b"}},
		{name: "negative amount", amount: -50, description: "taxi", payer: "a", participants: []string{"a", "b"}},
		{name: "amount above ceiling", amount: domain.MaxAmount + 1, description: "taxi", payer: "a", participants: []string{"a", "b"}},
		{name: "blank description", amount: 100, description: "   ", payer: "a", participants: []string{"a", "b"}},
		{name: "missing payer", amount: 100, description: "taxi", payer: "@", participants: []string{"a", "b"}},
		{name: "payer not a participant", amount: 100, description: "taxi", payer: "a", participants: []string{"b", "c"}},
		{name: "single other participant", amount: 100, description: "taxi", payer: "a", participants: []string{"b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp, err := domain.NewExpense("id", "evt", tt.amount, tt.description, tt.payer, tt.participants, "a", now)
			assert.Nil(t, exp)
			assert.True(t, errors.Is(err, apperrors.ErrValidation), "got %v", err)
		})
	}
}

func TestNewExpense_AcceptsMaxAmount(t *testing.T) {
	exp, err := domain.NewExpense("id", "evt", domain.MaxAmount, "villa", "a", []string{"a", "b"}, "a", now)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxAmount, exp.Amount)
}

func TestNewExpense_SingleParticipantAutoConfirms(t *testing.T) {
	exp, err := domain.NewExpense("id", "evt", 500, "coffee", "A", []string{"A"}, "A", now)

	require.NoError(t, err)
	assert.Equal(t, domain.ExpenseConfirmed, exp.Status)
	assert.Equal(t, []string{"a"}, exp.SplitAmong)
	assert.Empty(t, exp.Votes)
}

func TestNewExpense_DefaultsToPayerAndDedupes(t *testing.T) {
	solo, err := domain.NewExpense("id", "evt", 500, "coffee", "@alice", nil, "alice", now)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, solo.SplitAmong)
	assert.Equal(t, domain.ExpenseConfirmed, solo.Status)

	group, err := domain.NewExpense("id", "evt", 500, "coffee", "alice", []string{"alice", "@Bob", "bob", " BOB "}, "alice", now)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, group.SplitAmong)
	assert.Equal(t, domain.ExpensePending, group.Status)
}

func TestApplyVote_MajorityConfirmsWithoutEveryone(t *testing.T) {
	exp := newPending(t, "a", "b", "c")

	status, err := exp.ApplyVote("a", domain.VoteAgree, domain.ApprovalMajority, now)
	require.NoError(t, err)
	assert.Equal(t, domain.ExpensePending, status, "one agree out of three is not a majority")

	status, err = exp.ApplyVote("b", domain.VoteAgree, domain.ApprovalMajority, now)
	require.NoError(t, err)
	assert.Equal(t, domain.ExpenseConfirmed, status)
	assert.NotContains(t, exp.Votes, "c")
}

func TestApplyVote_UnanimousNeedsEveryone(t *testing.T) {
	exp := newPending(t, "a", "b", "c")

	for _, voter := range []string{"a", "b"} {
		status, err := exp.ApplyVote(voter, domain.VoteAgree, domain.ApprovalUnanimous, now)
		require.NoError(t, err)
		assert.Equal(t, domain.ExpensePending, status)
	}

	status, err := exp.ApplyVote("c", domain.VoteAgree, domain.ApprovalUnanimous, now)
	require.NoError(t, err)
	assert.Equal(t, domain.ExpenseConfirmed, status)
}

func TestApplyVote_SingleDisagreeRejects(t *testing.T) {
	exp := newPending(t, "a", "b", "c", "d")

	_, err := exp.ApplyVote("a", domain.VoteAgree, domain.ApprovalMajority, now)
	require.NoError(t, err)

	status, err := exp.ApplyVote("d", domain.VoteDisagree, domain.ApprovalMajority, now)
	require.NoError(t, err)
	assert.Equal(t, domain.ExpenseRejected, status)
}

func TestApplyVote_RevoteOverwrites(t *testing.T) {
	exp := newPending(t, "a", "b", "c", "d")

	_, err := exp.ApplyVote("b", domain.VoteAgree, domain.ApprovalMajority, now)
	require.NoError(t, err)
	_, err = exp.ApplyVote("b", domain.VoteAgree, domain.ApprovalMajority, now)
	require.NoError(t, err)

	tally := exp.Tally(domain.ApprovalMajority)
	assert.Equal(t, 1, tally.Agree, "repeated agree counts once")
	assert.Equal(t, domain.ExpensePending, exp.Status)

	status, err := exp.ApplyVote("b", domain.VoteDisagree, domain.ApprovalMajority, now)
	require.NoError(t, err)
	tally = exp.Tally(domain.ApprovalMajority)
	assert.Equal(t, 0, tally.Agree)
	assert.Equal(t, 1, tally.Disagree)
	assert.Equal(t, domain.ExpenseRejected, status)
}

func TestApplyVote_NonParticipantIsForbidden(t *testing.T) {
	exp := newPending(t, "a", "b")

	status, err := exp.ApplyVote("mallory", domain.VoteAgree, domain.ApprovalMajority, now)

	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	assert.Equal(t, domain.ExpensePending, status)
	assert.Empty(t, exp.Votes)
}

func TestApplyVote_TerminalIsConflict(t *testing.T) {
	exp := newPending(t, "a", "b")
	_, err := exp.ApplyVote("b", domain.VoteDisagree, domain.ApprovalMajority, now)
	require.NoError(t, err)

	status, err := exp.ApplyVote("a", domain.VoteAgree, domain.ApprovalMajority, now)

	assert.True(t, errors.Is(err, apperrors.ErrStateConflict))
	assert.Equal(t, domain.ExpenseRejected, status)
	assert.NotContains(t, exp.Votes, "a")
}

func TestApplyVote_HandleIsNormalised(t *testing.T) {
	exp := newPending(t, "alice", "bob")

	status, err := exp.ApplyVote("@Bob", domain.VoteAgree, domain.ApprovalMajority, now)

	require.NoError(t, err)
	assert.Equal(t, domain.ExpenseConfirmed, status)
	assert.Equal(t, domain.VoteAgree, exp.Votes["bob"])
	assert.Equal(t, "bob", exp.LastUpdatedBy)
}

func TestApprovalPolicy_RequiredApprovals(t *testing.T) {
	tests := []struct {
		policy domain.ApprovalPolicy
		n      int
		want   int
	}{
		{domain.ApprovalMajority, 0, 0},
		{domain.ApprovalMajority, 1, 1},
		{domain.ApprovalMajority, 2, 1},
		{domain.ApprovalMajority, 3, 2},
		{domain.ApprovalMajority, 4, 2},
		{domain.ApprovalMajority, 5, 3},
		{domain.ApprovalUnanimous, 4, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.policy.RequiredApprovals(tt.n), "%s of %d", tt.policy, tt.n)
	}
}

func TestParseApprovalPolicy(t *testing.T) {
	p, err := domain.ParseApprovalPolicy("")
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalMajority, p)

	p, err = domain.ParseApprovalPolicy(" Unanimous ")
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalUnanimous, p)

	_, err = domain.ParseApprovalPolicy("quorum")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestParseVote(t *testing.T) {
	v, err := domain.ParseVote(" AGREE")
	require.NoError(t, err)
	assert.Equal(t, domain.VoteAgree, v)

	_, err = domain.ParseVote("maybe")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}
