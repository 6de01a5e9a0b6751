package models

import "time"

// Event is the database representation of an event.
type Event struct {
	EventID     string    `db:"event_id"`
	Code        string    `db:"code"`
	Name        string    `db:"name"`
	EventDate   time.Time `db:"event_date"`
	Location    *string   `db:"location"`
	Description *string   `db:"description"`
	ChatGroupID *string   `db:"chat_group_id"` // Nullable until linked
	Status      string    `db:"status"`
	AuditFields
}
