package domain

import "time"

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventCreated EventStatus = "CREATED"
	EventActive  EventStatus = "ACTIVE"
	EventClosed  EventStatus = "CLOSED"
)

// IsValid reports whether s is a known event status.
func (s EventStatus) IsValid() bool {
	switch s {
	case EventCreated, EventActive, EventClosed:
		return true
	}
	return false
}

// Event is a bounded expense-sharing context, e.g. one trip.
type Event struct {
	EventID     string      `json:"eventID"`
	Code        string      `json:"code"` // Unique join code
	Name        string      `json:"name"`
	EventDate   time.Time   `json:"eventDate"`
	Location    *string     `json:"location,omitempty"`
	Description *string     `json:"description,omitempty"`
	ChatGroupID *string     `json:"chatGroupID,omitempty"` // Set once linked to a chat group
	Status      EventStatus `json:"status"`
	AuditFields
}

// IsClosed reports whether the event reached its terminal state.
func (e Event) IsClosed() bool {
	return e.Status == EventClosed
}

// IsLinked reports whether the event is attached to a chat group.
func (e Event) IsLinked() bool {
	return e.ChatGroupID != nil && *e.ChatGroupID != ""
}

// CanEditDetails reports whether name/date/location may still change.
// Once a group is linked the event is shared state and becomes read-only.
func (e Event) CanEditDetails() bool {
	return e.Status == EventCreated && !e.IsLinked()
}
