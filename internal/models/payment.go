package models

import "time"

// Payment is the database representation of a settlement payment claim.
type Payment struct {
	PaymentID   string     `db:"payment_id"`
	EventID     string     `db:"event_id"`
	FromHandle  string     `db:"from_handle"`
	ToHandle    string     `db:"to_handle"`
	Amount      int64      `db:"amount"`
	Status      string     `db:"status"`
	ConfirmedAt *time.Time `db:"confirmed_at"`
	AuditFields
}
