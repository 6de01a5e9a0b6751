package dto

import (
	"time"

	"github.com/SscSPs/splitledger/internal/core/domain"
)

// CreatePaymentRequest records a claim that From paid To. From defaults to the caller
// and, when set, must be the caller.
type CreatePaymentRequest struct {
	From   string `json:"from,omitempty" binding:"omitempty,handle"`
	To     string `json:"to" binding:"required,handle"`
	Amount int64  `json:"amount" binding:"required,gt=0,lte=100000000000"`
}

// ConfirmPaymentRequest identifies a pending claim by (from, to, amount). To defaults to the caller.
type ConfirmPaymentRequest struct {
	From   string `json:"from" binding:"required,handle"`
	To     string `json:"to,omitempty" binding:"omitempty,handle"`
	Amount int64  `json:"amount" binding:"required,gt=0,lte=100000000000"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID   string               `json:"paymentID"`
	EventID     string               `json:"eventID"`
	From        string               `json:"from"`
	To          string               `json:"to"`
	Amount      int64                `json:"amount"`
	Status      domain.PaymentStatus `json:"status"`
	ConfirmedAt *time.Time           `json:"confirmedAt,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:   p.PaymentID,
		EventID:     p.EventID,
		From:        p.FromHandle,
		To:          p.ToHandle,
		Amount:      p.Amount,
		Status:      p.Status,
		ConfirmedAt: p.ConfirmedAt,
		CreatedAt:   p.CreatedAt,
	}
}

// ToPaymentResponses converts a slice of domain.Payment to []PaymentResponse.
func ToPaymentResponses(payments []domain.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses
}
