package dto

import (
	"time"

	"github.com/SscSPs/splitledger/internal/core/domain"
)

// CreateEventRequest defines the data needed to create a new event.
type CreateEventRequest struct {
	Name        string    `json:"name" binding:"required,max=200"`
	EventDate   time.Time `json:"eventDate" binding:"required"`
	Location    *string   `json:"location,omitempty" binding:"omitempty,max=200"`
	Description *string   `json:"description,omitempty" binding:"omitempty,max=2000"`
}

// UpdateEventRequest defines the fields that may change before an event is linked.
type UpdateEventRequest struct {
	Name        *string    `json:"name,omitempty" binding:"omitempty,min=1,max=200"`
	EventDate   *time.Time `json:"eventDate,omitempty"`
	Location    *string    `json:"location,omitempty" binding:"omitempty,max=200"`
	Description *string    `json:"description,omitempty" binding:"omitempty,max=2000"`
}

// LinkChatGroupRequest attaches a chat group to an event.
type LinkChatGroupRequest struct {
	ChatGroupID string `json:"chatGroupID" binding:"required"`
}

// ListEventsParams defines the query parameters for listing events.
type ListEventsParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// EventResponse defines the data returned for an event.
type EventResponse struct {
	EventID     string             `json:"eventID"`
	Code        string             `json:"code"`
	Name        string             `json:"name"`
	EventDate   time.Time          `json:"eventDate"`
	Location    *string            `json:"location,omitempty"`
	Description *string            `json:"description,omitempty"`
	ChatGroupID *string            `json:"chatGroupID,omitempty"`
	Status      domain.EventStatus `json:"status"`
	CreatedAt   time.Time          `json:"createdAt"`
	CreatedBy   string             `json:"createdBy"`
}

// ListEventsResponse wraps a page of events.
type ListEventsResponse struct {
	Events    []EventResponse `json:"events"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEventResponse converts a domain.Event to EventResponse DTO.
func ToEventResponse(e *domain.Event) EventResponse {
	return EventResponse{
		EventID:     e.EventID,
		Code:        e.Code,
		Name:        e.Name,
		EventDate:   e.EventDate,
		Location:    e.Location,
		Description: e.Description,
		ChatGroupID: e.ChatGroupID,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
	}
}

// ToEventResponses converts a slice of domain.Event to []EventResponse.
func ToEventResponses(events []domain.Event) []EventResponse {
	responses := make([]EventResponse, len(events))
	for i := range events {
		responses[i] = ToEventResponse(&events[i])
	}
	return responses
}

// CloseBlockedResponse is returned when the close gate refuses to close an event.
type CloseBlockedResponse struct {
	Error                string               `json:"error"`
	Reasons              []domain.BlockReason `json:"reasons"`
	OutstandingTransfers []domain.Settlement  `json:"outstandingTransfers"`
}

// ToCloseBlockedResponse converts a domain.ClosureBlockedError to its DTO.
func ToCloseBlockedResponse(blocked *domain.ClosureBlockedError) CloseBlockedResponse {
	transfers := blocked.OutstandingTransfers
	if transfers == nil {
		transfers = []domain.Settlement{}
	}
	return CloseBlockedResponse{
		Error:                "Event cannot be closed yet",
		Reasons:              blocked.Reasons,
		OutstandingTransfers: transfers,
	}
}
