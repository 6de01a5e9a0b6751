package models

// Expense is the database representation of an expense.
// SplitAmong is a text[] column; Votes is jsonb keyed by handle.
type Expense struct {
	ExpenseID   string            `db:"expense_id"`
	EventID     string            `db:"event_id"`
	Amount      int64             `db:"amount"`
	Description string            `db:"description"`
	Payer       string            `db:"payer"`
	SplitAmong  []string          `db:"split_among"`
	Votes       map[string]string `db:"votes"`
	Status      string            `db:"status"`
	AuditFields
}
