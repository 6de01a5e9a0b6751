package dto

import "github.com/SscSPs/splitledger/internal/core/domain"

// BalancesResponse lists net balances in the order participants first appeared.
type BalancesResponse struct {
	EventID  string                `json:"eventID"`
	Balances []domain.BalanceEntry `json:"balances"`
	Settled  bool                  `json:"settled"`
}

// SettlementsResponse lists the transfers that would settle an event.
type SettlementsResponse struct {
	EventID     string              `json:"eventID"`
	Settlements []domain.Settlement `json:"settlements"`
}
