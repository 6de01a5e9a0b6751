package mapping

import (
	"github.com/SscSPs/splitledger/internal/core/domain"
	"github.com/SscSPs/splitledger/internal/models"
)

// ToModelEvent converts a domain Event to a model Event
func ToModelEvent(d domain.Event) models.Event {
	return models.Event{
		EventID:     d.EventID,
		Code:        d.Code,
		Name:        d.Name,
		EventDate:   d.EventDate,
		Location:    d.Location,
		Description: d.Description,
		ChatGroupID: d.ChatGroupID,
		Status:      string(d.Status),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEvent converts a model Event to a domain Event
func ToDomainEvent(m models.Event) domain.Event {
	return domain.Event{
		EventID:     m.EventID,
		Code:        m.Code,
		Name:        m.Name,
		EventDate:   m.EventDate,
		Location:    m.Location,
		Description: m.Description,
		ChatGroupID: m.ChatGroupID,
		Status:      domain.EventStatus(m.Status),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainEventSlice converts a slice of model Events to a slice of domain Events
func ToDomainEventSlice(ms []models.Event) []domain.Event {
	ds := make([]domain.Event, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainEvent(m)
	}
	return ds
}
