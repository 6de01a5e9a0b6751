package mapping

import (
	"github.com/SscSPs/splitledger/internal/core/domain"
	"github.com/SscSPs/splitledger/internal/models"
)

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:   d.PaymentID,
		EventID:     d.EventID,
		FromHandle:  d.FromHandle,
		ToHandle:    d.ToHandle,
		Amount:      d.Amount,
		Status:      string(d.Status),
		ConfirmedAt: d.ConfirmedAt,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:   m.PaymentID,
		EventID:     m.EventID,
		FromHandle:  m.FromHandle,
		ToHandle:    m.ToHandle,
		Amount:      m.Amount,
		Status:      domain.PaymentStatus(m.Status),
		ConfirmedAt: m.ConfirmedAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPaymentSlice converts a slice of model Payments to a slice of domain Payments
func ToDomainPaymentSlice(ms []models.Payment) []domain.Payment {
	ds := make([]domain.Payment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPayment(m)
	}
	return ds
}
