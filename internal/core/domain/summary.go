package domain

// EventSummary is a headline view of an event's ledger.
type EventSummary struct {
	EventID           string      `json:"eventID"`
	Status            EventStatus `json:"status"`
	ConfirmedTotal    int64       `json:"confirmedTotal"`
	ConfirmedExpenses int         `json:"confirmedExpenses"`
	PendingExpenses   int         `json:"pendingExpenses"`
	RejectedExpenses  int         `json:"rejectedExpenses"`
	PendingPayments   int         `json:"pendingPayments"`
	ConfirmedPayments int         `json:"confirmedPayments"`
	Participants      int         `json:"participants"`
}
