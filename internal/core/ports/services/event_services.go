package services

import (
	"context"

	"github.com/SscSPs/splitledger/internal/core/domain"
	"github.com/SscSPs/splitledger/internal/dto"
)

// EventReaderSvc defines read operations for events
type EventReaderSvc interface {
	// GetEventByID retrieves an event by its ID.
	GetEventByID(ctx context.Context, eventID string) (*domain.Event, error)

	// GetEventByCode retrieves an event by its join code.
	GetEventByCode(ctx context.Context, code string) (*domain.Event, error)

	// GetEventByChatGroup retrieves the open event linked to a chat group.
	GetEventByChatGroup(ctx context.Context, chatGroupID string) (*domain.Event, error)

	// ListEvents retrieves a page of events, newest first.
	ListEvents(ctx context.Context, params dto.ListEventsParams) (*dto.ListEventsResponse, error)
}

// EventWriterSvc defines write operations for events
type EventWriterSvc interface {
	// CreateEvent creates an event with a freshly generated join code.
	CreateEvent(ctx context.Context, req dto.CreateEventRequest, creator string) (*domain.Event, error)

	// UpdateEvent changes the details of an event that is not linked yet.
	UpdateEvent(ctx context.Context, eventID string, req dto.UpdateEventRequest, actor string) (*domain.Event, error)

	// DeleteEvent removes an event that is not linked yet.
	DeleteEvent(ctx context.Context, eventID string, actor string) error

	// LinkChatGroup attaches a chat group to the event and activates it.
	// Linking the same group twice is a no-op.
	LinkChatGroup(ctx context.Context, eventID string, chatGroupID string, actor string) (*domain.Event, error)
}

// EventLifecycleSvc defines the gated terminal transition of an event
type EventLifecycleSvc interface {
	// CloseEvent moves the event to CLOSED when the close gate passes.
	// A refused close returns a *domain.ClosureBlockedError listing every reason.
	CloseEvent(ctx context.Context, eventID string, actor string) (*domain.Event, error)
}

// EventSvcFacade combines all event-related service interfaces
type EventSvcFacade interface {
	EventReaderSvc
	EventWriterSvc
	EventLifecycleSvc
}
