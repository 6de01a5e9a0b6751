package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/splitledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// EventReader defines read operations for event data
type EventReader interface {
	// FindEventByID retrieves an event by its unique identifier.
	FindEventByID(ctx context.Context, eventID string) (*domain.Event, error)

	// FindEventByCode retrieves an event by its join code.
	FindEventByCode(ctx context.Context, code string) (*domain.Event, error)

	// FindOpenEventByChatGroup retrieves the non-closed event linked to a chat group.
	FindOpenEventByChatGroup(ctx context.Context, chatGroupID string) (*domain.Event, error)

	// ListEvents retrieves events newest first using token-based pagination.
	ListEvents(ctx context.Context, limit int, nextToken *string) ([]domain.Event, *string, error)
}

// EventWriter defines write operations for event data
type EventWriter interface {
	// SaveEvent inserts a new event. A join code collision yields apperrors.ErrDuplicate.
	SaveEvent(ctx context.Context, event domain.Event) error

	// UpdateEventDetails updates name, date, location and description of an unlinked CREATED event.
	UpdateEventDetails(ctx context.Context, event domain.Event) error

	// LinkChatGroup attaches a chat group and moves the event to ACTIVE unless it is closed.
	LinkChatGroup(ctx context.Context, eventID string, chatGroupID string, updatedBy string, updatedAt time.Time) error

	// DeleteEvent removes an unlinked CREATED event.
	DeleteEvent(ctx context.Context, eventID string) error
}

// EventLocker defines operations that run inside a caller-managed transaction.
type EventLocker interface {
	// FindEventByIDForUpdate loads the event and locks its row until tx ends.
	FindEventByIDForUpdate(ctx context.Context, tx pgx.Tx, eventID string) (*domain.Event, error)

	// UpdateEventStatusInTx sets the event status.
	UpdateEventStatusInTx(ctx context.Context, tx pgx.Tx, eventID string, status domain.EventStatus, updatedBy string, updatedAt time.Time) error
}

// EventRepositoryFacade combines all event-related repository interfaces
type EventRepositoryFacade interface {
	EventReader
	EventWriter
}

// EventRepositoryWithTx extends EventRepositoryFacade with transaction capabilities
type EventRepositoryWithTx interface {
	EventRepositoryFacade
	EventLocker
	TransactionManager
}
