package mapping

import (
	"github.com/SscSPs/splitledger/internal/core/domain"
	"github.com/SscSPs/splitledger/internal/models"
)

// ToModelExpense converts a domain Expense to a model Expense
func ToModelExpense(d domain.Expense) models.Expense {
	votes := make(map[string]string, len(d.Votes))
	for h, v := range d.Votes {
		votes[h] = string(v)
	}
	splitAmong := d.SplitAmong
	if splitAmong == nil {
		splitAmong = []string{}
	}
	return models.Expense{
		ExpenseID:   d.ExpenseID,
		EventID:     d.EventID,
		Amount:      d.Amount,
		Description: d.Description,
		Payer:       d.Payer,
		SplitAmong:  splitAmong,
		Votes:       votes,
		Status:      string(d.Status),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExpense converts a model Expense to a domain Expense
func ToDomainExpense(m models.Expense) domain.Expense {
	votes := make(map[string]domain.Vote, len(m.Votes))
	for h, v := range m.Votes {
		votes[h] = domain.Vote(v)
	}
	return domain.Expense{
		ExpenseID:   m.ExpenseID,
		EventID:     m.EventID,
		Amount:      m.Amount,
		Description: m.Description,
		Payer:       m.Payer,
		SplitAmong:  m.SplitAmong,
		Votes:       votes,
		Status:      domain.ExpenseStatus(m.Status),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainExpenseSlice converts a slice of model Expenses to a slice of domain Expenses
func ToDomainExpenseSlice(ms []models.Expense) []domain.Expense {
	ds := make([]domain.Expense, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExpense(m)
	}
	return ds
}
